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
	TypeMsgCreatePool = "create_pool"
)

// MsgCreatePool deposits value from Sender and registers a pool for Owner
// under the named provider.
type MsgCreatePool struct {
	Sender    string   `json:"sender"`
	Owner     string   `json:"owner"`
	Provider  string   `json:"provider"` // deal, lock or timed
	Token     string   `json:"token"`
	Params    []string `json:"params"`
	Signature string   `json:"signature"` // hex encoded
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidAddress.Wrapf("sender: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %s", err)
	}
	if _, err := ParseKind(msg.Provider); err != nil {
		return err
	}
	if msg.Token == "" {
		return ErrInvalidParams.Wrap("token cannot be empty")
	}
	if _, err := msg.ParsedParams(); err != nil {
		return err
	}
	if _, err := msg.SignatureBytes(); err != nil {
		return err
	}
	return nil
}

// ParsedParams converts the decimal params
func (msg MsgCreatePool) ParsedParams() ([]math.Int, error) {
	return ParseParams(msg.Params)
}

// SignatureBytes decodes the hex signature
func (msg MsgCreatePool) SignatureBytes() ([]byte, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(msg.Signature, "0x"))
	if err != nil {
		return nil, ErrInvalidParams.Wrapf("signature is not hex: %s", err)
	}
	return bz, nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Sender: %s, Owner: %s, Provider: %s, Token: %s, Params: %v}",
		msg.Sender, msg.Owner, msg.Provider, msg.Token, msg.Params)
}

// MsgCreatePoolResponse is the response for MsgCreatePool
type MsgCreatePoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// ParseParams converts decimal strings into params
func ParseParams(raw []string) ([]math.Int, error) {
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
