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
	TypeMsgCreateRefundPool = "create_refund_pool"
	TypeMsgRefund           = "refund"
)

// MsgCreateRefundPool deposits Amount of Token from Sender and opens a refund
// pool for Owner guaranteed by CollateralPoolID.
type MsgCreateRefundPool struct {
	Sender           string `json:"sender"`
	Owner            string `json:"owner"`
	Token            string `json:"token"`
	Amount           string `json:"amount"`
	FinishTime       string `json:"finish_time"`
	CollateralPoolID uint64 `json:"collateral_pool_id"`
	Signature        string `json:"signature"`
}

// Route implements sdk.Msg
func (msg MsgCreateRefundPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateRefundPool) Type() string { return TypeMsgCreateRefundPool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateRefundPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if _, _, err := msg.Amounts(); err != nil {
		return err
	}
	if _, err := msg.SignatureBytes(); err != nil {
		return err
	}
	return nil
}

// Amounts parses amount and finish time
func (msg MsgCreateRefundPool) Amounts() (amount, finish math.Int, err error) {
	var ok bool
	if amount, ok = math.NewIntFromString(msg.Amount); !ok || amount.IsNegative() {
		return amount, finish, ErrInvalidAmount.Wrapf("amount %q", msg.Amount)
	}
	if finish, ok = math.NewIntFromString(msg.FinishTime); !ok || finish.IsNegative() {
		return amount, finish, ErrInvalidAmount.Wrapf("finish time %q", msg.FinishTime)
	}
	return amount, finish, nil
}

// SignatureBytes decodes the hex signature
func (msg MsgCreateRefundPool) SignatureBytes() ([]byte, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(msg.Signature, "0x"))
	if err != nil {
		return nil, ErrInvalidAddress.Wrapf("signature is not hex: %s", err)
	}
	return bz, nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreateRefundPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreateRefundPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateRefundPool) Reset() { *msg = MsgCreateRefundPool{} }

// String implements proto.Message
func (msg MsgCreateRefundPool) String() string {
	return fmt.Sprintf("MsgCreateRefundPool{Owner: %s, Token: %s, Amount: %s, Collateral: %d}",
		msg.Owner, msg.Token, msg.Amount, msg.CollateralPoolID)
}

// MsgCreateRefundPoolResponse is the response for MsgCreateRefundPool
type MsgCreateRefundPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgRefund gives the remaining tokens of a refund pool back in exchange for
// main coin from its collateral.
type MsgRefund struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgRefund) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRefund) Type() string { return TypeMsgRefund }

// ValidateBasic implements sdk.Msg
func (msg MsgRefund) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRefund) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRefund) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRefund) Reset() { *msg = MsgRefund{} }

// String implements proto.Message
func (msg MsgRefund) String() string {
	return fmt.Sprintf("MsgRefund{Sender: %s, PoolID: %d}", msg.Sender, msg.PoolID)
}

// MsgRefundResponse is the response for MsgRefund
type MsgRefundResponse struct {
	MainCoin string `json:"main_coin"`
}
