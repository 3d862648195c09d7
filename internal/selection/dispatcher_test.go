package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/bridge"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

const (
	testWait = 2 * time.Second
	testTick = 10 * time.Millisecond
)

type fakeBridgeSet struct {
	members map[string]bool
}

func (f *fakeBridgeSet) Has(address string) bool { return f.members[address] }

type fakeSource struct {
	mu      sync.Mutex
	fetched []string
	records map[string]tokens.Record
	errs    map[string]error

	// when set, a fetch blocks here until released
	gate chan struct{}
}

func (f *fakeSource) TokenMetadata(ctx context.Context, address string) (tokens.Record, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, address)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if err := f.errs[address]; err != nil {
		return tokens.Record{}, err
	}
	rec, ok := f.records[address]
	if !ok {
		return tokens.Record{}, fmt.Errorf("%w: %s", bridge.ErrTokenNotFound, address)
	}
	return rec, nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

type outcomeRecorder struct {
	mu           sync.Mutex
	selections   []*tokens.Record
	imports      []string
	notices      []string
	selectCalled int
}

func (o *outcomeRecorder) callbacks() Callbacks {
	return Callbacks{
		OnSelect: func(rec *tokens.Record) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.selections = append(o.selections, rec)
			o.selectCalled++
		},
		OnImportNeeded: func(address string) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.imports = append(o.imports, address)
		},
		OnNotice: func(msg string) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.notices = append(o.notices, msg)
		},
	}
}

func TestSelectNativeClearsSelection(t *testing.T) {
	rec := &outcomeRecorder{}
	src := &fakeSource{}
	d := NewDispatcher(&fakeBridgeSet{}, src, rec.callbacks())

	d.Select(context.Background(), Native())

	require.Len(t, rec.selections, 1)
	assert.Nil(t, rec.selections[0], "native selection clears the token")
	assert.Zero(t, src.fetchCount(), "no metadata fetch for the native asset")
}

func TestSelectUnknownTokenSignalsImport(t *testing.T) {
	rec := &outcomeRecorder{}
	src := &fakeSource{}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{}}, src, rec.callbacks())

	chosen := tokens.Record{Address: addrA, Symbol: "ALP", Decimals: 18}
	d.Select(context.Background(), ForToken(chosen))

	assert.Equal(t, []string{addrA}, rec.imports)
	assert.Empty(t, rec.selections, "selection unchanged")
	assert.Zero(t, src.fetchCount(), "no metadata fetch before import")
}

func TestSelectKnownTokenRefreshesAndMergesL2Address(t *testing.T) {
	rec := &outcomeRecorder{}
	src := &fakeSource{
		records: map[string]tokens.Record{
			addrA: {Address: addrA, Name: "Alpha Fresh", Symbol: "ALP", Decimals: 18},
		},
	}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{addrA: true}}, src, rec.callbacks())

	chosen := tokens.Record{Address: addrA, Symbol: "ALP", Decimals: 18, L2Address: addrB}
	d.Select(context.Background(), ForToken(chosen))

	require.Len(t, rec.selections, 1)
	got := rec.selections[0]
	require.NotNil(t, got)
	assert.Equal(t, "Alpha Fresh", got.Name, "refreshed metadata wins")
	assert.Equal(t, addrB, got.L2Address, "chosen secondary-chain address carried over")
}

func TestSelectDisabledTokenProducesNoticeAndKeepsSelection(t *testing.T) {
	rec := &outcomeRecorder{}
	src := &fakeSource{
		errs: map[string]error{
			addrA: fmt.Errorf("%w: %s", bridge.ErrTokenDisabled, addrA),
		},
	}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{addrA: true}}, src, rec.callbacks())

	d.Select(context.Background(), ForToken(tokens.Record{Address: addrA, Symbol: "ALP"}))

	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], "ALP")
	assert.Empty(t, rec.selections, "selection unchanged on disabled token")
}

func TestSelectGenericFetchFailureKeepsSelection(t *testing.T) {
	rec := &outcomeRecorder{}
	src := &fakeSource{
		errs: map[string]error{addrA: errors.New("rpc timeout")},
	}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{addrA: true}}, src, rec.callbacks())

	d.Select(context.Background(), ForToken(tokens.Record{Address: addrA, Symbol: "ALP"}))

	assert.Empty(t, rec.selections)
	assert.Empty(t, rec.notices, "generic failures are logged, not surfaced")
}

func TestSelectStaleRefreshDoesNotOverwriteNewerSelection(t *testing.T) {
	rec := &outcomeRecorder{}
	gate := make(chan struct{})
	src := &fakeSource{
		records: map[string]tokens.Record{
			addrA: {Address: addrA, Symbol: "ALP", Decimals: 18},
		},
		gate: gate,
	}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{addrA: true}}, src, rec.callbacks())

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Select(context.Background(), ForToken(tokens.Record{Address: addrA, Symbol: "ALP"}))
	}()

	// wait for the first fetch to be in flight
	require.Eventually(t, func() bool { return src.fetchCount() == 1 }, testWait, testTick)

	// a newer selection lands while the refresh hangs
	d.Select(context.Background(), Native())

	close(gate)
	<-done

	require.Len(t, rec.selections, 1, "stale refresh result must be discarded")
	assert.Nil(t, rec.selections[0])
}

// A newer selection must not complete between an older selection's
// generation check and its delivery: once a delivery is in progress,
// anything newer waits behind it.
func TestSelectNewerSelectionCannotOvertakeInFlightDelivery(t *testing.T) {
	var (
		mu    sync.Mutex
		order []*tokens.Record
	)
	tokenDeliveryStarted := make(chan struct{})
	releaseToken := make(chan struct{})

	cb := Callbacks{
		OnSelect: func(rec *tokens.Record) {
			if rec != nil {
				close(tokenDeliveryStarted)
				<-releaseToken
			}
			mu.Lock()
			order = append(order, rec)
			mu.Unlock()
		},
	}
	src := &fakeSource{
		records: map[string]tokens.Record{
			addrA: {Address: addrA, Symbol: "ALP", Decimals: 18},
		},
	}
	d := NewDispatcher(&fakeBridgeSet{members: map[string]bool{addrA: true}}, src, cb)

	tokenDone := make(chan struct{})
	go func() {
		defer close(tokenDone)
		d.Select(context.Background(), ForToken(tokens.Record{Address: addrA, Symbol: "ALP"}))
	}()
	<-tokenDeliveryStarted

	nativeDone := make(chan struct{})
	go func() {
		defer close(nativeDone)
		d.Select(context.Background(), Native())
	}()

	// give the native selection time to race the hanging delivery
	time.Sleep(50 * time.Millisecond)
	close(releaseToken)
	<-tokenDone
	<-nativeDone

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 2)
	require.NotNil(t, order[0], "in-flight token delivery completes first")
	assert.Nil(t, order[1], "native selection delivers after, never before")
}
