package types

import (
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// RebuildPayload is the command carried by a collateral pool transfer to the
// builder. On the wire it is the ABI tuple
//
//	(bytes tokenSignature, bytes mainCoinSignature, (address,uint256)[] allocations, uint256 totalAmount)
type RebuildPayload struct {
	TokenSignature    []byte
	MainCoinSignature []byte
	Allocations       []Allocation
	TotalAmount       math.Int
}

type allocationABI struct {
	User   common.Address
	Amount *big.Int
}

var rebuildArguments = mustRebuildArguments()

func mustRebuildArguments() abi.Arguments {
	bytesType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	uintType, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}
	allocationsType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "user", Type: "address"},
		{Name: "amount", Type: "uint256"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{
		{Name: "tokenSignature", Type: bytesType},
		{Name: "mainCoinSignature", Type: bytesType},
		{Name: "allocations", Type: allocationsType},
		{Name: "totalAmount", Type: uintType},
	}
}

// EncodeRebuildPayload ABI encodes p
func EncodeRebuildPayload(p RebuildPayload) ([]byte, error) {
	allocations := make([]allocationABI, len(p.Allocations))
	for i, a := range p.Allocations {
		if a.Amount.IsNil() {
			return nil, ErrZeroAmount.Wrapf("allocation %d", i)
		}
		allocations[i] = allocationABI{
			User:   common.BytesToAddress(a.User),
			Amount: a.Amount.BigInt(),
		}
	}
	total := big.NewInt(0)
	if !p.TotalAmount.IsNil() {
		total = p.TotalAmount.BigInt()
	}
	tokenSig, mainCoinSig := p.TokenSignature, p.MainCoinSignature
	if tokenSig == nil {
		tokenSig = []byte{}
	}
	if mainCoinSig == nil {
		mainCoinSig = []byte{}
	}
	bz, err := rebuildArguments.Pack(tokenSig, mainCoinSig, allocations, total)
	if err != nil {
		return nil, ErrDecode.Wrapf("encode: %s", err)
	}
	return bz, nil
}

// DecodeRebuildPayload parses an ABI encoded rebuild command. Trailing bytes
// after the encoded tuple are ignored.
func DecodeRebuildPayload(bz []byte) (p RebuildPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrDecode.Wrapf("%v", r)
		}
	}()

	values, err := rebuildArguments.Unpack(bz)
	if err != nil {
		return RebuildPayload{}, ErrDecode.Wrap(err.Error())
	}
	if len(values) != len(rebuildArguments) {
		return RebuildPayload{}, ErrDecode.Wrapf("expected %d fields, got %d", len(rebuildArguments), len(values))
	}

	tokenSig, ok := values[0].([]byte)
	if !ok {
		return RebuildPayload{}, ErrDecode.Wrap("token signature")
	}
	mainCoinSig, ok := values[1].([]byte)
	if !ok {
		return RebuildPayload{}, ErrDecode.Wrap("main coin signature")
	}
	allocations := *abi.ConvertType(values[2], new([]allocationABI)).(*[]allocationABI)
	total, ok := values[3].(*big.Int)
	if !ok {
		return RebuildPayload{}, ErrDecode.Wrap("total amount")
	}

	p = RebuildPayload{
		TokenSignature:    tokenSig,
		MainCoinSignature: mainCoinSig,
		Allocations:       make([]Allocation, len(allocations)),
		TotalAmount:       math.NewIntFromBigInt(total),
	}
	for i, a := range allocations {
		p.Allocations[i] = Allocation{
			User:   sdk.AccAddress(a.User.Bytes()),
			Amount: math.NewIntFromBigInt(a.Amount),
		}
	}
	return p, nil
}

// RebuildRequest is the JSON form of a rebuild command: hex signatures,
// bech32 users and decimal amounts
type RebuildRequest struct {
	TokenSignature    string            `json:"token_signature"`
	MainCoinSignature string            `json:"main_coin_signature"`
	Allocations       []AllocationEntry `json:"allocations"`
	TotalAmount       string            `json:"total_amount"`
}

// Payload converts r into the ABI encoded transfer payload
func (r RebuildRequest) Payload() ([]byte, error) {
	tokenSig, err := decodeHex(r.TokenSignature)
	if err != nil {
		return nil, err
	}
	mainCoinSig, err := decodeHex(r.MainCoinSignature)
	if err != nil {
		return nil, err
	}
	allocations, err := ParseAllocations(r.Allocations)
	if err != nil {
		return nil, err
	}
	total, ok := math.NewIntFromString(r.TotalAmount)
	if !ok || total.IsNegative() {
		return nil, ErrAmountMismatch.Wrapf("total amount %q", r.TotalAmount)
	}
	return EncodeRebuildPayload(RebuildPayload{
		TokenSignature:    tokenSig,
		MainCoinSignature: mainCoinSig,
		Allocations:       allocations,
		TotalAmount:       total,
	})
}
