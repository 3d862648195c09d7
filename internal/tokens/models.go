package tokens

// Record describes one bridgeable ERC-20 token. Records are immutable
// once constructed and keyed by their checksummed L1 address.
type Record struct {
	Address  string `json:"address"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`

	LogoURI string `json:"logoUri,omitempty"`

	// L2Address is the token's counterpart contract on the secondary
	// network, when the catalogue knows it.
	L2Address string `json:"l2Address,omitempty"`

	// TokenLists holds the IDs of every catalogue list that carries
	// this token; ListID is the list the record was sourced from.
	TokenLists []string `json:"tokenLists,omitempty"`
	ListID     string   `json:"listId,omitempty"`
}

// Store is the on-disk shape of the user-added token set.
type Store struct {
	Schema int               `json:"schema"` // bump if the format changes
	Tokens map[string]Record `json:"tokens"` // address -> record
}
