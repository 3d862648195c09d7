package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/balances"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/bridge"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/config"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/eth"
	bridgehttp "github.com/kiefferbp/arbitrum-token-bridge/internal/http"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/log"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokenlists"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local bridge API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	log.Info("token-bridge",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to parse config", "error", err)
		return err
	}
	if cfg.Debug {
		log.SetDebug()
	}

	clients, err := eth.Dial(ctx, cfg)
	if err != nil {
		log.Error("rpc dial failed", "error", err)
		return err
	}
	defer clients.Close()

	userTokens, err := tokens.NewManager()
	if err != nil {
		log.Error("token store init failed", "error", err)
		return err
	}
	if err := userTokens.Load(); err != nil {
		log.Error("token store load failed", "error", err)
		return err
	}

	catalogue := tokenlists.NewCatalogue(
		tokenlists.NewClient(tokenlists.ClientConfig{}),
		cfg.TokenLists,
		cfg.L1.ChainID,
		cfg.L2.ChainID,
	)
	if err := catalogue.Refresh(ctx); err != nil {
		// the picker still works with user tokens only
		log.Warn("token list refresh failed", "error", err)
	}

	// Only previously imported tokens start in the working set. A
	// list-sourced token joins it through the import flow on first
	// selection.
	bridgeSvc := bridge.NewService(clients, catalogue, cfg.DisabledTokens)
	bridgeSvc.RegisterAll(userTokens.Map())

	provider := balances.NewProvider(clients, cfg.Wallet.Owner)
	if !provider.Connected() {
		log.Info("no wallet owner configured; balances disabled")
	}

	handler := bridgehttp.NewHandler(userTokens, catalogue, bridgeSvc, provider)
	router := bridgehttp.NewRouter(handler, cfg.Server.AllowedOrigins)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	log.Info("HTTP server gracefully stopped")
	return nil
}
