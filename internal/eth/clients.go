// Package eth dials and holds the RPC clients for the two bridged
// networks.
package eth

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/config"
)

// Clients bundles one client per side of the bridge.
type Clients struct {
	l1 *ethclient.Client
	l2 *ethclient.Client

	l1Net config.Network
	l2Net config.Network
}

// Dial connects to the first configured RPC endpoint of each network.
func Dial(ctx context.Context, cfg *config.Config) (*Clients, error) {
	l1, err := ethclient.DialContext(ctx, cfg.L1.FirstRPC())
	if err != nil {
		return nil, fmt.Errorf("dial l1 %q: %w", cfg.L1.Name, err)
	}
	l2, err := ethclient.DialContext(ctx, cfg.L2.FirstRPC())
	if err != nil {
		l1.Close()
		return nil, fmt.Errorf("dial l2 %q: %w", cfg.L2.Name, err)
	}
	return &Clients{l1: l1, l2: l2, l1Net: cfg.L1, l2Net: cfg.L2}, nil
}

func (c *Clients) L1() *ethclient.Client { return c.l1 }
func (c *Clients) L2() *ethclient.Client { return c.l2 }

func (c *Clients) L1Network() config.Network { return c.l1Net }
func (c *Clients) L2Network() config.Network { return c.l2Net }

func (c *Clients) Close() {
	if c.l1 != nil {
		c.l1.Close()
	}
	if c.l2 != nil {
		c.l2.Close()
	}
}
