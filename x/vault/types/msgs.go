package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// Message types
const (
	TypeMsgMint             = "mint"
	TypeMsgSetTrustedSigner = "set_trusted_signer"
)

// MsgMint credits an account out of thin air. Restricted to the authority and
// used to seed balances on dev networks.
type MsgMint struct {
	Authority string `json:"authority"`
	To        string `json:"to"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgMint) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgMint) Type() string { return TypeMsgMint }

// ValidateBasic implements sdk.Msg
func (msg MsgMint) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.To); err != nil {
		return ErrInvalidAddress.Wrapf("to: %s", err)
	}
	if msg.Token == "" {
		return ErrInvalidToken
	}
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok || !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount %q", msg.Amount)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgMint) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgMint) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgMint) Reset() { *msg = MsgMint{} }

// String implements proto.Message
func (msg MsgMint) String() string {
	return fmt.Sprintf("MsgMint{To: %s, Token: %s, Amount: %s}", msg.To, msg.Token, msg.Amount)
}

// MsgMintResponse is the response for MsgMint
type MsgMintResponse struct {
	Balance string `json:"balance"`
}

// MsgSetTrustedSigner installs the key whose signatures authorize deposits.
// An empty Signer disables the check beyond requiring a non-empty signature.
type MsgSetTrustedSigner struct {
	Authority string `json:"authority"`
	Signer    string `json:"signer"` // 0x hex address
}

// Route implements sdk.Msg
func (msg MsgSetTrustedSigner) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetTrustedSigner) Type() string { return TypeMsgSetTrustedSigner }

// ValidateBasic implements sdk.Msg
func (msg MsgSetTrustedSigner) ValidateBasic() error {
	if msg.Signer != "" && !common.IsHexAddress(msg.Signer) {
		return ErrInvalidAddress.Wrapf("signer %q is not a hex address", msg.Signer)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetTrustedSigner) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetTrustedSigner) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetTrustedSigner) Reset() { *msg = MsgSetTrustedSigner{} }

// String implements proto.Message
func (msg MsgSetTrustedSigner) String() string {
	return fmt.Sprintf("MsgSetTrustedSigner{Signer: %s}", msg.Signer)
}

// MsgSetTrustedSignerResponse is the response for MsgSetTrustedSigner
type MsgSetTrustedSignerResponse struct{}
