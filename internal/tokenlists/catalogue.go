package tokenlists

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/config"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/log"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Catalogue holds the configured token lists, their fetched documents,
// and the per-list enabled flag the ManageLists panel edits.
type Catalogue struct {
	client    *Client
	l1ChainID int64
	l2ChainID int64

	mu      sync.RWMutex
	refs    []config.TokenListRef
	lists   map[string]*TokenList // list id -> fetched document
	enabled map[string]bool
}

// ListStatus is the per-list view the ManageLists panel renders.
type ListStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
	Tokens  int    `json:"tokens"`
}

func NewCatalogue(client *Client, refs []config.TokenListRef, l1ChainID, l2ChainID int64) *Catalogue {
	c := &Catalogue{
		client:    client,
		l1ChainID: l1ChainID,
		l2ChainID: l2ChainID,
		refs:      refs,
		lists:     map[string]*TokenList{},
		enabled:   map[string]bool{},
	}
	for _, ref := range refs {
		c.enabled[ref.ID] = ref.Enabled
	}
	return c
}

// Refresh fetches every configured list, enabled or not, so toggling a
// list on later needs no network round trip. Individual fetch failures
// are logged and skipped; the previously fetched document is kept.
func (c *Catalogue) Refresh(ctx context.Context) error {
	fetched := map[string]*TokenList{}
	var firstErr error
	for _, ref := range c.refs {
		list, err := c.client.Fetch(ctx, ref.URL)
		if err != nil {
			log.Warn("token list fetch failed", "list", ref.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fetched[ref.ID] = list
	}

	c.mu.Lock()
	for id, list := range fetched {
		c.lists[id] = list
	}
	c.mu.Unlock()

	if len(fetched) == 0 && len(c.refs) > 0 {
		return fmt.Errorf("no token list could be fetched: %w", firstErr)
	}
	return nil
}

// SetEnabled flips one list's enabled flag.
func (c *Catalogue) SetEnabled(id string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.enabled[id]; !ok {
		return fmt.Errorf("unknown token list %q", id)
	}
	c.enabled[id] = enabled
	return nil
}

// Lists reports every configured list in configuration order.
func (c *Catalogue) Lists() []ListStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ListStatus, 0, len(c.refs))
	for _, ref := range c.refs {
		st := ListStatus{
			ID:      ref.ID,
			Name:    ref.Name,
			URL:     ref.URL,
			Enabled: c.enabled[ref.ID],
		}
		if list := c.lists[ref.ID]; list != nil {
			st.Tokens = len(list.Tokens)
		}
		out = append(out, st)
	}
	return out
}

// Map flattens the enabled lists into address -> record, filtered to the
// origin chain. When several lists carry the same address the first list
// in configuration order wins the record; every carrying list's ID is
// accumulated in TokenLists.
func (c *Catalogue) Map() map[string]tokens.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[string]tokens.Record{}
	for _, ref := range c.refs {
		if !c.enabled[ref.ID] {
			continue
		}
		list := c.lists[ref.ID]
		if list == nil {
			continue
		}
		for _, lt := range list.Tokens {
			if lt.ChainID != c.l1ChainID {
				continue
			}
			addr, err := tokens.NormalizeAddress(lt.Address)
			if err != nil {
				continue
			}

			if existing, ok := out[addr]; ok {
				existing.TokenLists = appendUnique(existing.TokenLists, ref.ID)
				out[addr] = existing
				continue
			}

			out[addr] = tokens.Record{
				Address:    addr,
				Name:       lt.Name,
				Symbol:     lt.Symbol,
				Decimals:   lt.Decimals,
				LogoURI:    lt.LogoURI,
				L2Address:  c.l2Address(lt),
				TokenLists: []string{ref.ID},
				ListID:     ref.ID,
			}
		}
	}
	return out
}

// Disabled reports the addresses the enabled list publishers flagged as
// disabled for bridging.
func (c *Catalogue) Disabled() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[string]bool{}
	for _, ref := range c.refs {
		if !c.enabled[ref.ID] {
			continue
		}
		list := c.lists[ref.ID]
		if list == nil {
			continue
		}
		for _, lt := range list.Tokens {
			if lt.ChainID != c.l1ChainID || lt.Extensions == nil || !lt.Extensions.Disabled {
				continue
			}
			if addr, err := tokens.NormalizeAddress(lt.Address); err == nil {
				out[addr] = true
			}
		}
	}
	return out
}

// l2Address resolves the counterpart address from bridgeInfo, accepting
// both the bare chain id key and the eip155 form.
func (c *Catalogue) l2Address(lt ListToken) string {
	if lt.Extensions == nil || len(lt.Extensions.BridgeInfo) == 0 {
		return ""
	}
	key := strconv.FormatInt(c.l2ChainID, 10)
	info, ok := lt.Extensions.BridgeInfo[key]
	if !ok {
		info, ok = lt.Extensions.BridgeInfo["eip155:"+key]
	}
	if !ok || info.TokenAddress == "" {
		return ""
	}
	addr, err := tokens.NormalizeAddress(info.TokenAddress)
	if err != nil {
		return ""
	}
	return addr
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
