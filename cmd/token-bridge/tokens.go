package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/bridge"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/config"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/eth"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/log"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokenlists"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage the user-added token store",
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored user-added tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadManager()
		if err != nil {
			return err
		}
		recs := mgr.List()
		if len(recs) == 0 {
			fmt.Println("no user-added tokens")
			return nil
		}
		for _, rec := range recs {
			l2 := rec.L2Address
			if l2 == "" {
				l2 = "-"
			}
			fmt.Printf("%-8s %s  decimals=%d  l2=%s\n", rec.Symbol, rec.Address, rec.Decimals, l2)
		}
		return nil
	},
}

var tokensAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Fetch a token's metadata and add it to the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// format check before any network work
		addr, err := tokens.NormalizeAddress(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		clients, err := eth.Dial(ctx, cfg)
		if err != nil {
			return err
		}
		defer clients.Close()

		catalogue := tokenlists.NewCatalogue(
			tokenlists.NewClient(tokenlists.ClientConfig{}),
			cfg.TokenLists,
			cfg.L1.ChainID,
			cfg.L2.ChainID,
		)
		if err := catalogue.Refresh(ctx); err != nil {
			log.Warn("token list refresh failed; l2 address may be missing", "error", err)
		}

		svc := bridge.NewService(clients, catalogue, cfg.DisabledTokens)
		rec, err := svc.AddToken(ctx, addr)
		if err != nil {
			return err
		}

		mgr, err := loadManager()
		if err != nil {
			return err
		}
		stored, err := mgr.Add(rec)
		if err != nil {
			return err
		}

		fmt.Printf("added %s (%s)\n", stored.Symbol, stored.Address)
		return nil
	},
}

var tokensRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Remove a token from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(args[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	},
}

func loadManager() (*tokens.Manager, error) {
	mgr, err := tokens.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	return mgr, nil
}

func init() {
	tokensCmd.AddCommand(tokensListCmd, tokensAddCmd, tokensRemoveCmd)
}
