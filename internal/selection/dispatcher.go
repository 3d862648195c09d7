package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/bridge"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/log"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// BridgeSet is the session's working set of bridgeable token addresses.
type BridgeSet interface {
	Has(address string) bool
}

// MetadataSource fetches fresh token metadata by address. Failures use
// the bridge error taxonomy; bridge.ErrTokenDisabled gets surfaced to
// the user, everything else is logged.
type MetadataSource interface {
	TokenMetadata(ctx context.Context, address string) (tokens.Record, error)
}

// Callbacks is how selection outcomes reach the caller. Any nil callback
// is skipped.
type Callbacks struct {
	// OnSelect delivers the active selection; nil means the native asset
	// was chosen and the token selection is cleared.
	OnSelect func(rec *tokens.Record)

	// OnImportNeeded fires when a chosen token is not yet in the bridge
	// set; the caller drives the import flow from there.
	OnImportNeeded func(address string)

	// OnNotice delivers a user-facing message.
	OnNotice func(msg string)
}

// Dispatcher resolves a chosen display-list entry into a selection
// outcome. A generation counter guards the metadata refresh: a response
// belonging to a superseded selection is discarded instead of
// overwriting the newer one. OnSelect deliveries are serialized under
// the generation mutex, so callbacks must not call back into the
// dispatcher.
type Dispatcher struct {
	set    BridgeSet
	source MetadataSource
	cb     Callbacks

	mu  sync.Mutex
	gen uint64
}

func NewDispatcher(set BridgeSet, source MetadataSource, cb Callbacks) *Dispatcher {
	return &Dispatcher{set: set, source: source, cb: cb}
}

// Select handles one chosen entry. It never returns an error; failures
// are consumed here per the error taxonomy and the current selection is
// left unchanged.
func (d *Dispatcher) Select(ctx context.Context, e Entry) {
	gen := d.nextGen()

	if e.IsNative() {
		d.deliver(gen, nil)
		return
	}

	chosen := *e.Token

	if !d.set.Has(chosen.Address) {
		if d.cb.OnImportNeeded != nil {
			d.cb.OnImportNeeded(chosen.Address)
		}
		return
	}

	fresh, err := d.source.TokenMetadata(ctx, chosen.Address)
	if err != nil {
		if errors.Is(err, bridge.ErrTokenDisabled) {
			if d.cb.OnNotice != nil {
				d.cb.OnNotice(fmt.Sprintf("Token %s is currently disabled for bridging", chosen.Symbol))
			}
			return
		}
		log.Error("token metadata refresh failed", "address", chosen.Address, "error", err)
		return
	}

	// Carry over the secondary-chain address from the chosen record.
	if chosen.L2Address != "" {
		fresh.L2Address = chosen.L2Address
	}

	d.deliver(gen, &fresh)
}

func (d *Dispatcher) nextGen() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	return d.gen
}

// deliver invokes OnSelect only while gen is still current. The check
// and the callback happen under one lock acquisition so a newer
// selection cannot slip in between them.
func (d *Dispatcher) deliver(gen uint64, rec *tokens.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		// A newer selection started while this one was in flight.
		return
	}
	if d.cb.OnSelect != nil {
		d.cb.OnSelect(rec)
	}
}
