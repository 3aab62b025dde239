package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contract = "0xfa28a33f198dc84454881fbb14c9d69dea97efdb"
	wallet   = "0x00000000000000000000000000000000000000aa"
)

type fakeCaller struct {
	result []byte
	err    error
	last   ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.last = call
	return f.result, f.err
}

func uint256(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func TestNFTReader_Balance(t *testing.T) {
	caller := &fakeCaller{result: uint256(12)}
	r, err := NewNFTReader(caller, contract, 0)
	require.NoError(t, err)

	n, err := r.NFTBalance(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	require.NotNil(t, caller.last.To)
	assert.Equal(t, common.HexToAddress(contract), *caller.last.To)
	require.Len(t, caller.last.Data, 4+32)
	assert.Equal(t, []byte{0x70, 0xa0, 0x82, 0x31}, caller.last.Data[:4], "balanceOf selector")
	assert.Equal(t, common.LeftPadBytes(common.HexToAddress(wallet).Bytes(), 32), caller.last.Data[4:])
}

func TestNFTReader_Zero(t *testing.T) {
	r, err := NewNFTReader(&fakeCaller{result: uint256(0)}, contract, 0)
	require.NoError(t, err)

	n, err := r.NFTBalance(context.Background(), wallet)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestNFTReader_Errors(t *testing.T) {
	_, err := NewNFTReader(&fakeCaller{}, "nope", 0)
	assert.Error(t, err)

	r, err := NewNFTReader(&fakeCaller{err: errors.New("execution reverted")}, contract, 0)
	require.NoError(t, err)
	_, err = r.NFTBalance(context.Background(), wallet)
	assert.ErrorContains(t, err, "call balanceOf")

	_, err = r.NFTBalance(context.Background(), "0x123")
	assert.ErrorContains(t, err, "invalid wallet")

	r, err = NewNFTReader(&fakeCaller{result: []byte{}}, contract, 0)
	require.NoError(t, err)
	_, err = r.NFTBalance(context.Background(), wallet)
	assert.ErrorContains(t, err, "unpack")
}
