// Package bridge is the collaborator boundary toward the bridge proper:
// the session's working set of bridgeable tokens, on-chain metadata
// lookups, and the add-token-by-address flow. The selection engine only
// sees it through small interfaces plus the error taxonomy in errors.go.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/eth"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokenlists"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Service owns the bridge-token working set for the current session and
// resolves token metadata from the origin chain.
type Service struct {
	clients   *eth.Clients
	catalogue *tokenlists.Catalogue

	// addresses disabled by operator config, merged at lookup time with
	// the catalogue publishers' disabled flags
	cfgDisabled map[string]bool

	mu  sync.RWMutex
	set map[string]bool // bridge-token working set, address -> member
}

func NewService(clients *eth.Clients, catalogue *tokenlists.Catalogue, disabledTokens []string) *Service {
	disabled := make(map[string]bool, len(disabledTokens))
	for _, addr := range disabledTokens {
		disabled[addr] = true
	}
	return &Service{
		clients:     clients,
		catalogue:   catalogue,
		cfgDisabled: disabled,
		set:         map[string]bool{},
	}
}

// Has reports working-set membership. Implements selection.BridgeSet.
func (s *Service) Has(address string) bool {
	addr, err := tokens.NormalizeAddress(address)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set[addr]
}

// Register adds one address to the working set.
func (s *Service) Register(address string) error {
	addr, err := tokens.NormalizeAddress(address)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[addr] = true
	return nil
}

// RegisterAll seeds the working set from a token mapping, typically the
// catalogue map plus the user store after startup or a list refresh.
func (s *Service) RegisterAll(recs map[string]tokens.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for addr := range recs {
		s.set[addr] = true
	}
}

// Members returns a copy of the working set.
func (s *Service) Members() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.set))
	for addr := range s.set {
		out = append(out, addr)
	}
	return out
}

func (s *Service) disabled(addr string) bool {
	if s.cfgDisabled[addr] {
		return true
	}
	return s.catalogue != nil && s.catalogue.Disabled()[addr]
}

// TokenMetadata fetches fresh metadata for an address from the origin
// chain, enriched with the catalogue's counterpart address when known.
// Implements selection.MetadataSource.
func (s *Service) TokenMetadata(ctx context.Context, address string) (tokens.Record, error) {
	addr, err := tokens.NormalizeAddress(address)
	if err != nil {
		return tokens.Record{}, fmt.Errorf("%w: %v", ErrTokenNotFound, err)
	}

	if s.disabled(addr) {
		return tokens.Record{}, fmt.Errorf("%w: %s", ErrTokenDisabled, addr)
	}

	erc := eth.NewERC20(s.clients.L1(), common.HexToAddress(addr))

	deployed, err := erc.Deployed(ctx)
	if err != nil {
		return tokens.Record{}, fmt.Errorf("check contract %s: %w", addr, err)
	}
	if !deployed {
		return tokens.Record{}, fmt.Errorf("%w: no contract at %s", ErrTokenNotFound, addr)
	}

	sym, err := erc.Symbol(ctx)
	if err != nil {
		return tokens.Record{}, fmt.Errorf("symbol: %w", err)
	}
	dec, err := erc.Decimals(ctx)
	if err != nil {
		return tokens.Record{}, fmt.Errorf("decimals: %w", err)
	}

	// name is optional on some older tokens
	name, err := erc.Name(ctx)
	if err != nil {
		name = ""
	}

	rec := tokens.Record{
		Address:  addr,
		Name:     name,
		Symbol:   sym,
		Decimals: dec,
	}

	if s.catalogue != nil {
		if listed, ok := s.catalogue.Map()[addr]; ok {
			rec.L2Address = listed.L2Address
			rec.TokenLists = listed.TokenLists
			rec.ListID = listed.ListID
			if rec.LogoURI == "" {
				rec.LogoURI = listed.LogoURI
			}
		}
	}
	return rec, nil
}

// AddToken is the import flow's terminal step: validate the address,
// refuse disabled tokens, fetch metadata and admit the token into the
// working set. The caller decides whether to persist it as user-added.
func (s *Service) AddToken(ctx context.Context, address string) (tokens.Record, error) {
	addr, err := tokens.NormalizeAddress(address)
	if err != nil {
		return tokens.Record{}, err
	}

	rec, err := s.TokenMetadata(ctx, addr)
	if err != nil {
		return tokens.Record{}, err
	}

	s.mu.Lock()
	s.set[addr] = true
	s.mu.Unlock()

	return rec, nil
}
