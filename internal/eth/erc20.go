package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(fmt.Sprintf("parse erc20 abi: %v", err))
	}
	erc20ABI = parsed
}

// ERC20 wraps read-only calls against one token contract.
type ERC20 struct {
	client *ethclient.Client
	addr   common.Address
}

func NewERC20(client *ethclient.Client, address common.Address) *ERC20 {
	return &ERC20{client: client, addr: address}
}

// Deployed reports whether any contract code exists at the address.
func (e *ERC20) Deployed(ctx context.Context) (bool, error) {
	code, err := e.client.CodeAt(ctx, e.addr, nil)
	if err != nil {
		return false, fmt.Errorf("code at %s: %w", e.addr.Hex(), err)
	}
	return len(code) > 0, nil
}

func (e *ERC20) Name(ctx context.Context) (string, error) {
	vals, err := e.call(ctx, "name")
	if err != nil {
		return "", err
	}
	s, ok := vals[0].(string)
	if !ok {
		return "", fmt.Errorf("name returned %T", vals[0])
	}
	return s, nil
}

func (e *ERC20) Symbol(ctx context.Context) (string, error) {
	vals, err := e.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	s, ok := vals[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol returned %T", vals[0])
	}
	return s, nil
}

func (e *ERC20) Decimals(ctx context.Context) (uint8, error) {
	vals, err := e.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := vals[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals returned %T", vals[0])
	}
	return d, nil
}

func (e *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	vals, err := e.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	bal, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf returned %T", vals[0])
	}
	return bal, nil
}

func (e *ERC20) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &e.addr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, e.addr.Hex(), err)
	}

	vals, err := erc20ABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return vals, nil
}
