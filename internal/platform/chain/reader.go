package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc721BalanceABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

// ContractCaller is the read-only eth_call surface.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// NFTReader reads ERC-721 balances from one contract.
type NFTReader struct {
	caller   ContractCaller
	contract common.Address
	abi      abi.ABI
	timeout  time.Duration
}

func NewNFTReader(caller ContractCaller, contract string, timeout time.Duration) (*NFTReader, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid contract address %q", contract)
	}
	parsed, err := abi.JSON(strings.NewReader(erc721BalanceABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return &NFTReader{
		caller:   caller,
		contract: common.HexToAddress(contract),
		abi:      parsed,
		timeout:  timeout,
	}, nil
}

// Dial connects to an RPC endpoint and returns a reader on it. The returned
// close function releases the connection.
func Dial(ctx context.Context, rpcURL, contract string, timeout time.Duration) (*NFTReader, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	r, err := NewNFTReader(client, contract, timeout)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return r, client.Close, nil
}

// NFTBalance returns balanceOf(wallet) at the latest block.
func (r *NFTReader) NFTBalance(ctx context.Context, wallet string) (int64, error) {
	if !common.IsHexAddress(wallet) {
		return 0, fmt.Errorf("invalid wallet address %q", wallet)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data, err := r.abi.Pack("balanceOf", common.HexToAddress(wallet))
	if err != nil {
		return 0, fmt.Errorf("pack balanceOf: %w", err)
	}

	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call balanceOf: %w", err)
	}

	values, err := r.abi.Unpack("balanceOf", out)
	if err != nil {
		return 0, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("unpack balanceOf: got %d values", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unpack balanceOf: unexpected type %T", values[0])
	}
	if !balance.IsInt64() {
		return 0, fmt.Errorf("balance %s out of range", balance)
	}
	return balance.Int64(), nil
}
