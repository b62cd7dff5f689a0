package types

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestRebuildPayloadCodec(t *testing.T) {
	user := sdk.AccAddress([]byte("user________________"))
	payload := RebuildPayload{
		TokenSignature:    []byte("token-sig"),
		MainCoinSignature: []byte("main-sig"),
		Allocations: []Allocation{
			{User: user, Amount: math.NewInt(100)},
			{User: user, Amount: math.NewIntWithDecimal(5, 30)},
		},
		TotalAmount: math.NewIntWithDecimal(5, 30).AddRaw(100),
	}
	bz, err := EncodeRebuildPayload(payload)
	require.NoError(t, err)

	t.Run("decode", func(t *testing.T) {
		got, err := DecodeRebuildPayload(bz)
		require.NoError(t, err)
		require.Equal(t, payload.TokenSignature, got.TokenSignature)
		require.Equal(t, payload.MainCoinSignature, got.MainCoinSignature)
		require.Len(t, got.Allocations, 2)
		require.True(t, user.Equals(got.Allocations[1].User))
		require.Equal(t, payload.Allocations[1].Amount.String(), got.Allocations[1].Amount.String())
		require.Equal(t, payload.TotalAmount.String(), got.TotalAmount.String())
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		got, err := DecodeRebuildPayload(append(append([]byte{}, bz...), 0xde, 0xad))
		require.NoError(t, err)
		require.Equal(t, payload.TotalAmount.String(), got.TotalAmount.String())
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeRebuildPayload(bz[:len(bz)-40])
		require.ErrorIs(t, err, ErrDecode)
	})
}

func TestValidateAllocations(t *testing.T) {
	user := sdk.AccAddress([]byte("user________________"))
	total, err := ValidateAllocations([]Allocation{{User: user, Amount: math.NewInt(2)}, {User: user, Amount: math.NewInt(3)}}, 10)
	require.NoError(t, err)
	require.Equal(t, "5", total.String())

	_, err = ValidateAllocations([]Allocation{{User: make([]byte, 20), Amount: math.NewInt(2)}}, 10)
	require.ErrorIs(t, err, ErrZeroAddress)
	_, err = ValidateAllocations([]Allocation{{User: user, Amount: math.NewInt(1)}, {User: user, Amount: math.NewInt(1)}}, 1)
	require.ErrorIs(t, err, ErrBatchTooLarge)

	maxUint := math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))
	_, err = ValidateAllocations([]Allocation{{User: user, Amount: maxUint}, {User: user, Amount: math.OneInt()}}, 10)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestRebuildRequestPayload(t *testing.T) {
	user := sdk.AccAddress([]byte("user________________"))
	req := RebuildRequest{
		TokenSignature:    "0x0102",
		MainCoinSignature: "0304",
		Allocations: []AllocationEntry{
			{User: user.String(), Amount: "100"},
			{User: user.String(), Amount: "200"},
		},
		TotalAmount: "300",
	}
	bz, err := req.Payload()
	require.NoError(t, err)

	got, err := DecodeRebuildPayload(bz)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, got.TokenSignature)
	require.Equal(t, []byte{3, 4}, got.MainCoinSignature)
	require.Len(t, got.Allocations, 2)
	require.Equal(t, "200", got.Allocations[1].Amount.String())
	require.Equal(t, "300", got.TotalAmount.String())

	bad := req
	bad.TokenSignature = "zz"
	_, err = bad.Payload()
	require.ErrorIs(t, err, ErrInvalidParams)

	bad = req
	bad.Allocations = []AllocationEntry{{User: "nope", Amount: "1"}}
	_, err = bad.Payload()
	require.ErrorIs(t, err, ErrInvalidAddress)

	bad = req
	bad.TotalAmount = "-1"
	_, err = bad.Payload()
	require.ErrorIs(t, err, ErrAmountMismatch)
}
