// Package tokenlists fetches external token-list catalogues and turns
// them into the list-token mapping the selection engine aggregates.
package tokenlists

// TokenList is the standard token-list document shape.
type TokenList struct {
	Name      string      `json:"name"`
	Timestamp string      `json:"timestamp"`
	Version   ListVersion `json:"version"`
	Tokens    []ListToken `json:"tokens"`
}

type ListVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// ListToken is one catalogue entry before it is filtered down to the
// configured origin chain.
type ListToken struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`

	Extensions *Extensions `json:"extensions,omitempty"`
}

// Extensions carries the bridge-specific token-list extensions: the
// counterpart address per destination chain, and an optional disabled
// marker set by the list publisher.
type Extensions struct {
	BridgeInfo map[string]BridgeInfo `json:"bridgeInfo,omitempty"`
	Disabled   bool                  `json:"disabled,omitempty"`
}

type BridgeInfo struct {
	TokenAddress string `json:"tokenAddress"`
}
