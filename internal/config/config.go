// Package config loads daemon configuration from an embedded default,
// optionally overlaid by a user config file and BRIDGE_* environment
// variables.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/constants"
)

//go:embed config.yaml
var embeddedConfigYAML []byte

type RPC struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type Network struct {
	Name    string `mapstructure:"name"`
	ChainID int64  `mapstructure:"chainId"`
	RPCs    []RPC  `mapstructure:"rpcs"`
}

// FirstRPC returns the URL of the first configured RPC endpoint.
func (n Network) FirstRPC() string {
	if len(n.RPCs) == 0 {
		return ""
	}
	return n.RPCs[0].URL
}

type TokenListRef struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ServerSettings struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type WalletSettings struct {
	// Owner is the connected account whose balances are looked up.
	// Empty means no wallet connected; balances read as zero.
	Owner string `mapstructure:"owner"`
}

type Config struct {
	Server         ServerSettings `mapstructure:"server"`
	L1             Network        `mapstructure:"l1"`
	L2             Network        `mapstructure:"l2"`
	TokenLists     []TokenListRef `mapstructure:"tokenLists"`
	DisabledTokens []string       `mapstructure:"disabledTokens"`
	Wallet         WalletSettings `mapstructure:"wallet"`
	Debug          bool           `mapstructure:"debug"`
}

// Load parses the embedded defaults, merges the first user config file
// found in the usual locations, and applies BRIDGE_* env overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(embeddedConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", constants.AppName),
		".",
	}
	for _, dir := range paths {
		p := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge config %s: %w", p, err)
		}
		break
	}

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.L1.FirstRPC() == "" {
		return fmt.Errorf("l1 network has no rpc endpoint")
	}
	if c.L2.FirstRPC() == "" {
		return fmt.Errorf("l2 network has no rpc endpoint")
	}
	if c.L1.ChainID == 0 || c.L2.ChainID == 0 {
		return fmt.Errorf("both networks need a chainId")
	}

	if c.Wallet.Owner != "" {
		if !common.IsHexAddress(c.Wallet.Owner) {
			return fmt.Errorf("wallet.owner is not a valid address: %q", c.Wallet.Owner)
		}
		c.Wallet.Owner = common.HexToAddress(c.Wallet.Owner).Hex()
	}

	out := make([]string, 0, len(c.DisabledTokens))
	for _, raw := range c.DisabledTokens {
		a := strings.TrimSpace(raw)
		if a == "" {
			continue
		}
		if !common.IsHexAddress(a) {
			return fmt.Errorf("disabledTokens contains invalid address: %q", raw)
		}
		out = append(out, common.HexToAddress(a).Hex())
	}
	c.DisabledTokens = out

	seen := map[string]bool{}
	for _, l := range c.TokenLists {
		if l.ID == "" || l.URL == "" {
			return fmt.Errorf("token list entries need both id and url")
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate token list id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}
