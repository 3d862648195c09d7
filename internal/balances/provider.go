// Package balances builds the per-mode balance snapshots the selection
// engine filters and sorts by.
package balances

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/constants"
	ethx "github.com/kiefferbp/arbitrum-token-bridge/internal/eth"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/log"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/selection"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Provider reads balances for the connected account from both networks.
type Provider struct {
	clients *ethx.Clients
	owner   common.Address
}

// NewProvider builds a provider for one owner address. An empty owner
// means no wallet is connected; snapshots then carry no balances at all.
func NewProvider(clients *ethx.Clients, owner string) *Provider {
	p := &Provider{clients: clients}
	if common.IsHexAddress(owner) {
		p.owner = common.HexToAddress(owner)
	}
	return p
}

// Connected reports whether an owner address is set.
func (p *Provider) Connected() bool {
	return p.owner != (common.Address{})
}

// Snapshot reads the native balance on both sides plus every token's
// balance: the L1 contract for the deposit side, the L2 counterpart for
// the withdraw side. Both sides are keyed by the token's origin-chain
// address, matching the candidate identifiers the engine works with.
// Individual read failures leave that balance absent and are logged;
// absence is a signal the engine understands, not an error.
func (p *Provider) Snapshot(ctx context.Context, recs map[string]tokens.Record) selection.Balances {
	snap := selection.Balances{
		Deposit:  map[string]*big.Int{},
		Withdraw: map[string]*big.Int{},
	}
	if !p.Connected() {
		return snap
	}

	if wei, err := p.clients.L1().BalanceAt(ctx, p.owner, nil); err == nil {
		snap.Deposit[constants.NativeAddr] = wei
	} else {
		log.Warn("native l1 balance read failed", "error", err)
	}
	if wei, err := p.clients.L2().BalanceAt(ctx, p.owner, nil); err == nil {
		snap.Withdraw[constants.NativeAddr] = wei
	} else {
		log.Warn("native l2 balance read failed", "error", err)
	}

	for addr, rec := range recs {
		erc := ethx.NewERC20(p.clients.L1(), common.HexToAddress(addr))
		if bal, err := erc.BalanceOf(ctx, p.owner); err == nil {
			snap.Deposit[addr] = bal
		} else {
			log.Debug("l1 token balance read failed", "token", addr, "error", err)
		}

		if rec.L2Address == "" {
			continue
		}
		erc2 := ethx.NewERC20(p.clients.L2(), common.HexToAddress(rec.L2Address))
		if bal, err := erc2.BalanceOf(ctx, p.owner); err == nil {
			snap.Withdraw[addr] = bal
		} else {
			log.Debug("l2 token balance read failed", "token", addr, "error", err)
		}
	}

	return snap
}
