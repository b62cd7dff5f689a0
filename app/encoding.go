package app

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	refundtypes "github.com/openalpha/lockdeal/x/refund/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

// EncodingConfig specifies the concrete encoding types to use for the engine
type EncodingConfig struct {
	InterfaceRegistry cdctypes.InterfaceRegistry
	Codec             codec.Codec
	Amino             *codec.LegacyAmino
}

// MakeEncodingConfig creates the engine codecs. Every module message is
// registered on amino under its envelope type name.
func MakeEncodingConfig() EncodingConfig {
	amino := codec.NewLegacyAmino()
	for _, b := range ModuleBasics {
		b.RegisterLegacyAminoCodec(amino)
	}
	amino.Seal()

	registry := cdctypes.NewInterfaceRegistry()
	return EncodingConfig{
		InterfaceRegistry: registry,
		Codec:             codec.NewProtoCodec(registry),
		Amino:             amino,
	}
}

// TxEnvelope is the JSON wire form of a single message
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

var (
	msgFactories = func() map[string]func() sdk.Msg {
		out := make(map[string]func() sdk.Msg)
		for _, factories := range []map[string]func() sdk.Msg{
			registrytypes.MsgFactories,
			vaulttypes.MsgFactories,
			providertypes.MsgFactories,
			collateraltypes.MsgFactories,
			refundtypes.MsgFactories,
			buildertypes.MsgFactories,
		} {
			for name, factory := range factories {
				out[name] = factory
			}
		}
		return out
	}()

	msgNames = func() map[reflect.Type]string {
		names := make(map[reflect.Type]string, len(msgFactories))
		for name, factory := range msgFactories {
			names[reflect.TypeOf(factory())] = name
		}
		return names
	}()
)

// MsgTypes lists the message type names accepted by DecodeMsg
func MsgTypes() []string {
	out := make([]string, 0, len(msgFactories))
	for name := range msgFactories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MsgTypeName returns the registered type name of msg
func MsgTypeName(msg sdk.Msg) string {
	if name, ok := msgNames[reflect.TypeOf(msg)]; ok {
		return name
	}
	return fmt.Sprintf("%T", msg)
}

// DecodeMsg parses a TxEnvelope
func DecodeMsg(bz []byte) (sdk.Msg, error) {
	var env TxEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}
	return DecodeEnvelope(env)
}

// DecodeEnvelope builds the message named by env.Type from env.Value
func DecodeEnvelope(env TxEnvelope) (sdk.Msg, error) {
	factory, ok := msgFactories[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
	msg := factory()
	if len(env.Value) == 0 {
		return nil, fmt.Errorf("%s: empty value", env.Type)
	}
	if err := json.Unmarshal(env.Value, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", env.Type, err)
	}
	return msg, nil
}

// EncodeMsg wraps msg in a TxEnvelope
func EncodeMsg(msg sdk.Msg) ([]byte, error) {
	name, ok := msgNames[reflect.TypeOf(msg)]
	if !ok {
		return nil, fmt.Errorf("unregistered message %T", msg)
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(TxEnvelope{Type: name, Value: value})
}
