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
	TypeMsgCreateCollateralPool = "create_collateral_pool"
	TypeMsgClaimRefundedTokens  = "claim_refunded_tokens"
)

// MsgCreateCollateralPool deposits MainCoinAmount of MainCoin from Sender and
// opens a collateral pool for Owner backing refunds of Token.
type MsgCreateCollateralPool struct {
	Sender         string `json:"sender"`
	Owner          string `json:"owner"`
	MainCoin       string `json:"main_coin"`
	Token          string `json:"token"`
	MainCoinAmount string `json:"main_coin_amount"`
	FinishTime     string `json:"finish_time"`
	RateToWei      string `json:"rate_to_wei"`
	Signature      string `json:"signature"`
}

// Route implements sdk.Msg
func (msg MsgCreateCollateralPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateCollateralPool) Type() string { return TypeMsgCreateCollateralPool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateCollateralPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if msg.MainCoin == "" || msg.Token == "" {
		return ErrInvalidToken
	}
	if _, _, _, err := msg.Amounts(); err != nil {
		return err
	}
	if _, err := msg.SignatureBytes(); err != nil {
		return err
	}
	return nil
}

// Amounts parses main coin amount, finish time and rate
func (msg MsgCreateCollateralPool) Amounts() (amount, finish, rate math.Int, err error) {
	var ok bool
	if amount, ok = math.NewIntFromString(msg.MainCoinAmount); !ok || !amount.IsPositive() {
		return amount, finish, rate, ErrZeroAmount.Wrapf("main coin amount %q", msg.MainCoinAmount)
	}
	if finish, ok = math.NewIntFromString(msg.FinishTime); !ok || finish.IsNegative() {
		return amount, finish, rate, ErrInvalidFinishTime.Wrapf("%q", msg.FinishTime)
	}
	if rate, ok = math.NewIntFromString(msg.RateToWei); !ok || !rate.IsPositive() {
		return amount, finish, rate, ErrInvalidRate.Wrapf("rate %q", msg.RateToWei)
	}
	return amount, finish, rate, nil
}

// SignatureBytes decodes the hex signature
func (msg MsgCreateCollateralPool) SignatureBytes() ([]byte, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(msg.Signature, "0x"))
	if err != nil {
		return nil, ErrInvalidAddress.Wrapf("signature is not hex: %s", err)
	}
	return bz, nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreateCollateralPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreateCollateralPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateCollateralPool) Reset() { *msg = MsgCreateCollateralPool{} }

// String implements proto.Message
func (msg MsgCreateCollateralPool) String() string {
	return fmt.Sprintf("MsgCreateCollateralPool{Owner: %s, MainCoin: %s, Token: %s, Amount: %s, Rate: %s}",
		msg.Owner, msg.MainCoin, msg.Token, msg.MainCoinAmount, msg.RateToWei)
}

// MsgCreateCollateralPoolResponse is the response for MsgCreateCollateralPool
type MsgCreateCollateralPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgClaimRefundedTokens pays the tokens collected through refunds to the
// collateral pool owner once the collateral finished.
type MsgClaimRefundedTokens struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClaimRefundedTokens) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimRefundedTokens) Type() string { return TypeMsgClaimRefundedTokens }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimRefundedTokens) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimRefundedTokens) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimRefundedTokens) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimRefundedTokens) Reset() { *msg = MsgClaimRefundedTokens{} }

// String implements proto.Message
func (msg MsgClaimRefundedTokens) String() string {
	return fmt.Sprintf("MsgClaimRefundedTokens{Sender: %s, PoolID: %d}", msg.Sender, msg.PoolID)
}

// MsgClaimRefundedTokensResponse is the response for MsgClaimRefundedTokens
type MsgClaimRefundedTokensResponse struct {
	Claimed string `json:"claimed"`
}
