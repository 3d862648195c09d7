package constants

const (
	AppName = "token-bridge"

	TokensFile = "tokens.json"
	ListsFile  = "token_lists.json"

	SchemaV1      = 1
	FilePerm      = 0o600
	DirectoryPerm = 0o700

	// NativeAddr is the sentinel address for the chain's base currency.
	NativeAddr = "0x0000000000000000000000000000000000000000"

	// NativeSearchKey is matched against user search input so that typing
	// "eth", "ether" or "ethereum" keeps the native asset in the list.
	NativeSearchKey = "ethereumeth"

	NativeSymbol   = "ETH"
	NativeName     = "Ether"
	NativeDecimals = 18
)
