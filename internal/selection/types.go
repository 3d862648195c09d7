// Package selection implements the token selection engine behind the
// bridge's token picker: candidate aggregation, search and balance
// filtering, display ordering, and selection dispatch.
package selection

import (
	"math/big"
	"strings"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/constants"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/tokens"
)

// Mode is the bridge direction the picker is operating in. It decides
// which side's balances are consulted.
type Mode string

const (
	ModeDeposit  Mode = "deposit"  // L1 -> L2, L1 balances
	ModeWithdraw Mode = "withdraw" // L2 -> L1, L2 balances
)

// ParseMode maps user input onto a Mode, defaulting to deposit.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeWithdraw)) {
		return ModeWithdraw
	}
	return ModeDeposit
}

// Entry is one display-list element: either the native asset or a token
// record. A nil Token marks the native asset.
type Entry struct {
	Token *tokens.Record `json:"token,omitempty"`
}

// Native returns the native-asset entry.
func Native() Entry { return Entry{} }

// ForToken wraps a record as a display-list entry.
func ForToken(rec tokens.Record) Entry { return Entry{Token: &rec} }

func (e Entry) IsNative() bool { return e.Token == nil }

// Address returns the entry's identifier: the sentinel address for the
// native asset, the token address otherwise.
func (e Entry) Address() string {
	if e.Token == nil {
		return constants.NativeAddr
	}
	return e.Token.Address
}

// Balances is a read-only, point-in-time view of the connected account's
// balances, split by bridge direction. It is owned by whoever built it;
// the engine only reads it. A missing key means the balance is unknown,
// which is a filter and sort signal, not an error.
type Balances struct {
	Deposit  map[string]*big.Int
	Withdraw map[string]*big.Int
}

// Lookup returns the balance for an identifier in the given mode, or nil
// when no balance is known.
func (b Balances) Lookup(address string, mode Mode) *big.Int {
	var m map[string]*big.Int
	switch mode {
	case ModeWithdraw:
		m = b.Withdraw
	default:
		m = b.Deposit
	}
	if m == nil {
		return nil
	}
	return m[address]
}
