package types

import (
	"encoding/hex"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgTransferPool        = "transfer_pool"
	TypeMsgSetApprovedProvider = "set_approved_provider"
	TypeMsgApprovePool         = "approve_pool"
	TypeMsgSetApprovalForAll   = "set_approval_for_all"
	TypeMsgWithdrawPool        = "withdraw_pool"
)

// MsgTransferPool moves a pool to a new owner. Payload is forwarded to the
// receiver when the recipient registered one.
type MsgTransferPool struct {
	Sender  string `json:"sender"`
	From    string `json:"from"`
	To      string `json:"to"`
	PoolID  uint64 `json:"pool_id"`
	Payload string `json:"payload,omitempty"` // hex encoded
}

// Route implements sdk.Msg
func (msg MsgTransferPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgTransferPool) Type() string { return TypeMsgTransferPool }

// ValidateBasic implements sdk.Msg
func (msg MsgTransferPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.From); err != nil {
		return ErrInvalidAddress.Wrapf("from: %s", err)
	}
	if msg.To == "" {
		return ErrZeroAddress
	}
	if _, err := sdk.AccAddressFromBech32(msg.To); err != nil {
		return ErrInvalidAddress.Wrapf("to: %s", err)
	}
	if _, err := msg.PayloadBytes(); err != nil {
		return err
	}
	return nil
}

// PayloadBytes decodes the hex payload
func (msg MsgTransferPool) PayloadBytes() ([]byte, error) {
	if msg.Payload == "" {
		return nil, nil
	}
	s := msg.Payload
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidParams.Wrapf("payload is not hex: %s", err)
	}
	return bz, nil
}

// GetSigners implements sdk.Msg
func (msg MsgTransferPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgTransferPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgTransferPool) Reset() { *msg = MsgTransferPool{} }

// String implements proto.Message
func (msg MsgTransferPool) String() string {
	return fmt.Sprintf("MsgTransferPool{From: %s, To: %s, PoolID: %d}", msg.From, msg.To, msg.PoolID)
}

// MsgTransferPoolResponse defines the TransferPool response
type MsgTransferPoolResponse struct {
	Owner string `json:"owner"`
}

// MsgSetApprovedProvider toggles allowlist membership (authority only)
type MsgSetApprovedProvider struct {
	Authority string `json:"authority"`
	Provider  string `json:"provider"`
	Allowed   bool   `json:"allowed"`
}

// Route implements sdk.Msg
func (msg MsgSetApprovedProvider) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetApprovedProvider) Type() string { return TypeMsgSetApprovedProvider }

// ValidateBasic implements sdk.Msg
func (msg MsgSetApprovedProvider) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return ErrInvalidAddress.Wrapf("authority: %s", err)
	}
	if msg.Provider == "" {
		return ErrZeroAddress
	}
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return ErrInvalidAddress.Wrapf("provider: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetApprovedProvider) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetApprovedProvider) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetApprovedProvider) Reset() { *msg = MsgSetApprovedProvider{} }

// String implements proto.Message
func (msg MsgSetApprovedProvider) String() string {
	return fmt.Sprintf("MsgSetApprovedProvider{Provider: %s, Allowed: %t}", msg.Provider, msg.Allowed)
}

// MsgSetApprovedProviderResponse defines the SetApprovedProvider response
type MsgSetApprovedProviderResponse struct{}

// MsgApprovePool approves a single delegate for a pool. An empty spender
// clears the approval.
type MsgApprovePool struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	PoolID  uint64 `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgApprovePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgApprovePool) Type() string { return TypeMsgApprovePool }

// ValidateBasic implements sdk.Msg
func (msg MsgApprovePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if msg.Spender != "" {
		if _, err := sdk.AccAddressFromBech32(msg.Spender); err != nil {
			return ErrInvalidAddress.Wrapf("spender: %s", err)
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgApprovePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgApprovePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgApprovePool) Reset() { *msg = MsgApprovePool{} }

// String implements proto.Message
func (msg MsgApprovePool) String() string {
	return fmt.Sprintf("MsgApprovePool{Owner: %s, Spender: %s, PoolID: %d}", msg.Owner, msg.Spender, msg.PoolID)
}

// MsgApprovePoolResponse defines the ApprovePool response
type MsgApprovePoolResponse struct{}

// MsgSetApprovalForAll grants or revokes an operator over all pools of owner
type MsgSetApprovalForAll struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// Route implements sdk.Msg
func (msg MsgSetApprovalForAll) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetApprovalForAll) Type() string { return TypeMsgSetApprovalForAll }

// ValidateBasic implements sdk.Msg
func (msg MsgSetApprovalForAll) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Operator); err != nil {
		return ErrInvalidAddress.Wrapf("operator: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetApprovalForAll) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetApprovalForAll) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetApprovalForAll) Reset() { *msg = MsgSetApprovalForAll{} }

// String implements proto.Message
func (msg MsgSetApprovalForAll) String() string {
	return fmt.Sprintf("MsgSetApprovalForAll{Owner: %s, Operator: %s, Approved: %t}", msg.Owner, msg.Operator, msg.Approved)
}

// MsgSetApprovalForAllResponse defines the SetApprovalForAll response
type MsgSetApprovalForAllResponse struct{}

// MsgWithdrawPool releases unlocked value of a pool to its owner
type MsgWithdrawPool struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
	Amount string `json:"amount,omitempty"` // empty means everything available
}

// Route implements sdk.Msg
func (msg MsgWithdrawPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdrawPool) Type() string { return TypeMsgWithdrawPool }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdrawPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if _, err := msg.RequestedAmount(); err != nil {
		return err
	}
	return nil
}

// RequestedAmount parses the requested amount, zero when unset
func (msg MsgWithdrawPool) RequestedAmount() (math.Int, error) {
	if msg.Amount == "" {
		return math.ZeroInt(), nil
	}
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok || amount.IsNegative() {
		return math.Int{}, ErrInvalidParams.Wrapf("invalid amount %q", msg.Amount)
	}
	return amount, nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdrawPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdrawPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdrawPool) Reset() { *msg = MsgWithdrawPool{} }

// String implements proto.Message
func (msg MsgWithdrawPool) String() string {
	return fmt.Sprintf("MsgWithdrawPool{Sender: %s, PoolID: %d, Amount: %s}", msg.Sender, msg.PoolID, msg.Amount)
}

// MsgWithdrawPoolResponse defines the WithdrawPool response
type MsgWithdrawPoolResponse struct {
	Released  string `json:"released"`
	Remaining string `json:"remaining"`
}
