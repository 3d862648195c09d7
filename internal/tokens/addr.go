package tokens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the checksummed canonical form of addr, or an
// error for anything that is not a hex address. Malformed input is rejected
// here, before any network call is attempted.
func NormalizeAddress(addr string) (string, error) {
	a := strings.TrimSpace(addr)
	if a == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.HasPrefix(a, "0x") && !strings.HasPrefix(a, "0X") {
		a = "0x" + a
	}
	a = strings.ToLower(a)
	if !common.IsHexAddress(a) {
		return "", fmt.Errorf("invalid address: %q", addr)
	}
	return common.HexToAddress(a).Hex(), nil
}
