package selection

import (
	"math/big"
	"sort"
	"strings"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/constants"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Inputs is everything one display-list recomputation reads. All maps
// are treated as read-only snapshots; absent maps mean empty.
type Inputs struct {
	UserTokens map[string]tokens.Record
	ListTokens map[string]tokens.Record
	Balances   Balances
	Mode       Mode
	Query      string
}

// Aggregate merges the user-token and list-token mappings into one
// deduplicated identifier sequence. The native sentinel is always first.
// User-added entries take precedence over list entries for the same
// address; within each source, addresses are emitted in lexicographic
// order so repeated aggregation of unchanged inputs is identical.
func Aggregate(userTokens, listTokens map[string]tokens.Record) []string {
	out := make([]string, 0, 1+len(userTokens)+len(listTokens))
	out = append(out, constants.NativeAddr)

	seen := map[string]bool{constants.NativeAddr: true}
	for _, addr := range sortedKeys(userTokens) {
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	for _, addr := range sortedKeys(listTokens) {
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}

// NormalizeQuery trims and lower-cases a search query; the empty string
// means no active search.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// DisplayList produces the ordered entry sequence for the token picker.
// It is pure and synchronous; every call rebuilds the list from the
// snapshots in in.
func DisplayList(in Inputs) []Entry {
	query := NormalizeQuery(in.Query)
	candidates := Aggregate(in.UserTokens, in.ListTokens)

	resolve := func(addr string) (tokens.Record, bool) {
		if rec, ok := in.UserTokens[addr]; ok {
			return rec, true
		}
		rec, ok := in.ListTokens[addr]
		return rec, ok
	}

	kept := candidates[:0]
	for _, addr := range candidates {
		if addr == constants.NativeAddr {
			if retainNative(query) {
				kept = append(kept, addr)
			}
			continue
		}
		rec, ok := resolve(addr)
		if !ok {
			continue
		}
		if retainToken(rec, query, in.Balances.Lookup(addr, in.Mode)) {
			kept = append(kept, addr)
		}
	}

	sortCandidates(kept, in.Balances, in.Mode)

	out := make([]Entry, 0, len(kept))
	for _, addr := range kept {
		if addr == constants.NativeAddr {
			out = append(out, Native())
			continue
		}
		rec, _ := resolve(addr)
		out = append(out, ForToken(rec))
	}
	return out
}

// retainNative keeps the native asset unconditionally when there is no
// search, and under a search whenever the query is a substring of the
// fuzzy key, so "eth", "ether" and "ethereum" all match.
func retainNative(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(constants.NativeSearchKey, query)
}

// retainToken keeps a token under a search when the query appears in the
// concatenation of its name, symbol, address and secondary address; with
// no search, only tokens with a known strictly positive balance survive.
func retainToken(rec tokens.Record, query string, balance *big.Int) bool {
	if query == "" {
		return balance != nil && balance.Sign() > 0
	}
	haystack := strings.ToLower(rec.Name + rec.Symbol + rec.Address + rec.L2Address)
	return strings.Contains(haystack, query)
}

// sortCandidates orders the surviving identifiers: native first, then
// known balances before unknown, larger balances before smaller. Pairs
// that compare equal keep their aggregation order.
func sortCandidates(addrs []string, balances Balances, mode Mode) {
	sort.SliceStable(addrs, func(i, j int) bool {
		a, b := addrs[i], addrs[j]
		if a == constants.NativeAddr {
			return true
		}
		if b == constants.NativeAddr {
			return false
		}

		balA := balances.Lookup(a, mode)
		balB := balances.Lookup(b, mode)
		switch {
		case balA == nil && balB == nil:
			return false
		case balB == nil:
			return true
		case balA == nil:
			return false
		default:
			return balA.Cmp(balB) > 0
		}
	})
}

func sortedKeys(m map[string]tokens.Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
