package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgBuildMassPools       = "build_mass_pools"
	TypeMsgBuildRefundMassPools = "build_refund_mass_pools"
	TypeMsgUpdateParams         = "update_params"
)

// AllocationEntry is the JSON form of an Allocation
type AllocationEntry struct {
	User   string `json:"user"`
	Amount string `json:"amount"`
}

// ParseAllocations converts JSON entries into allocations
func ParseAllocations(entries []AllocationEntry) ([]Allocation, error) {
	out := make([]Allocation, len(entries))
	for i, e := range entries {
		user, err := sdk.AccAddressFromBech32(e.User)
		if err != nil {
			return nil, ErrInvalidAddress.Wrapf("allocation %d: %s", i, err)
		}
		amount, ok := math.NewIntFromString(e.Amount)
		if !ok {
			return nil, ErrZeroAmount.Wrapf("allocation %d: %q", i, e.Amount)
		}
		out[i] = Allocation{User: user, Amount: amount}
	}
	return out, nil
}

func parseInts(raw []string) ([]math.Int, error) {
	out := make([]math.Int, len(raw))
	for i, s := range raw {
		v, ok := math.NewIntFromString(s)
		if !ok || v.IsNegative() {
			return nil, ErrInvalidParams.Wrapf("param %d: %q", i, s)
		}
		out[i] = v
	}
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, ErrInvalidParams.Wrapf("not hex: %s", err)
	}
	return bz, nil
}

// MsgBuildMassPools creates one pool per allocation under Provider
type MsgBuildMassPools struct {
	Sender         string            `json:"sender"`
	Provider       string            `json:"provider"` // provider address or name
	Token          string            `json:"token"`
	Allocations    []AllocationEntry `json:"allocations"`
	ScheduleParams []string          `json:"schedule_params"`
	Signature      string            `json:"signature"`
}

// Route implements sdk.Msg
func (msg MsgBuildMassPools) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgBuildMassPools) Type() string { return TypeMsgBuildMassPools }

// ValidateBasic implements sdk.Msg
func (msg MsgBuildMassPools) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if msg.Provider == "" {
		return ErrInvalidProvider
	}
	if msg.Token == "" {
		return ErrZeroAddress.Wrap("token")
	}
	if len(msg.Allocations) == 0 {
		return ErrEmptyInput
	}
	if _, err := ParseAllocations(msg.Allocations); err != nil {
		return err
	}
	if _, err := parseInts(msg.ScheduleParams); err != nil {
		return err
	}
	_, err := decodeHex(msg.Signature)
	return err
}

// Parsed returns the decoded allocations, schedule params and signature
func (msg MsgBuildMassPools) Parsed() ([]Allocation, []math.Int, []byte, error) {
	allocations, err := ParseAllocations(msg.Allocations)
	if err != nil {
		return nil, nil, nil, err
	}
	schedule, err := parseInts(msg.ScheduleParams)
	if err != nil {
		return nil, nil, nil, err
	}
	sig, err := decodeHex(msg.Signature)
	if err != nil {
		return nil, nil, nil, err
	}
	return allocations, schedule, sig, nil
}

// GetSigners implements sdk.Msg
func (msg MsgBuildMassPools) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgBuildMassPools) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgBuildMassPools) Reset() { *msg = MsgBuildMassPools{} }

// String implements proto.Message
func (msg MsgBuildMassPools) String() string {
	return fmt.Sprintf("MsgBuildMassPools{Sender: %s, Provider: %s, Token: %s, Allocations: %d}",
		msg.Sender, msg.Provider, msg.Token, len(msg.Allocations))
}

// MsgBuildMassPoolsResponse is the response for MsgBuildMassPools
type MsgBuildMassPoolsResponse struct {
	FirstPoolID uint64 `json:"first_pool_id"`
	Count       uint64 `json:"count"`
}

// MsgBuildRefundMassPools opens a collateral pool funded with MainCoinAmount
// and one refund pool per allocation backed by it.
type MsgBuildRefundMassPools struct {
	Sender            string            `json:"sender"`
	Token             string            `json:"token"`
	MainCoin          string            `json:"main_coin"`
	Allocations       []AllocationEntry `json:"allocations"`
	MainCoinAmount    string            `json:"main_coin_amount"`
	FinishTime        string            `json:"finish_time"`
	TokenSignature    string            `json:"token_signature"`
	MainCoinSignature string            `json:"main_coin_signature"`
}

// Route implements sdk.Msg
func (msg MsgBuildRefundMassPools) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgBuildRefundMassPools) Type() string { return TypeMsgBuildRefundMassPools }

// ValidateBasic implements sdk.Msg
func (msg MsgBuildRefundMassPools) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if msg.Token == "" || msg.MainCoin == "" {
		return ErrZeroAddress.Wrap("token")
	}
	if len(msg.Allocations) == 0 {
		return ErrEmptyInput
	}
	_, _, _, _, err := msg.Parsed()
	return err
}

// Parsed returns allocations, main coin amount, finish time and both signatures
func (msg MsgBuildRefundMassPools) Parsed() ([]Allocation, []math.Int, []byte, []byte, error) {
	allocations, err := ParseAllocations(msg.Allocations)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	amounts, err := parseInts([]string{msg.MainCoinAmount, msg.FinishTime})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tokenSig, err := decodeHex(msg.TokenSignature)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mainCoinSig, err := decodeHex(msg.MainCoinSignature)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return allocations, amounts, tokenSig, mainCoinSig, nil
}

// GetSigners implements sdk.Msg
func (msg MsgBuildRefundMassPools) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgBuildRefundMassPools) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgBuildRefundMassPools) Reset() { *msg = MsgBuildRefundMassPools{} }

// String implements proto.Message
func (msg MsgBuildRefundMassPools) String() string {
	return fmt.Sprintf("MsgBuildRefundMassPools{Sender: %s, Token: %s, MainCoin: %s, Allocations: %d}",
		msg.Sender, msg.Token, msg.MainCoin, len(msg.Allocations))
}

// MsgBuildRefundMassPoolsResponse is the response for MsgBuildRefundMassPools
type MsgBuildRefundMassPoolsResponse struct {
	CollateralPoolID  uint64 `json:"collateral_pool_id"`
	FirstRefundPoolID uint64 `json:"first_refund_pool_id"`
	Count             uint64 `json:"count"`
}

// MsgUpdateParams replaces the builder params (authority only)
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// Route implements sdk.Msg
func (msg MsgUpdateParams) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateParams) Type() string { return TypeMsgUpdateParams }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateParams) ValidateBasic() error {
	return msg.Params.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateParams) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateParams) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateParams) Reset() { *msg = MsgUpdateParams{} }

// String implements proto.Message
func (msg MsgUpdateParams) String() string {
	return fmt.Sprintf("MsgUpdateParams{MaxBatchSize: %d}", msg.Params.MaxBatchSize)
}

// MsgUpdateParamsResponse is the response for MsgUpdateParams
type MsgUpdateParamsResponse struct{}
