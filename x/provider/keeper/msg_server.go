package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/provider/types"
)

// MsgServer defines the provider MsgServer
type MsgServer struct {
	providers map[types.Kind]*Keeper
}

// NewMsgServerImpl creates a new MsgServer over the given providers
func NewMsgServerImpl(providers ...*Keeper) *MsgServer {
	m := &MsgServer{providers: make(map[types.Kind]*Keeper, len(providers))}
	for _, p := range providers {
		m.providers[p.Kind()] = p
	}
	return m
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	kind, _ := types.ParseKind(msg.Provider)
	provider, ok := m.providers[kind]
	if !ok {
		return nil, types.ErrUnknownKind.Wrapf("%s provider is not wired", kind)
	}

	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	params, _ := msg.ParsedParams()
	sig, _ := msg.SignatureBytes()

	poolID, err := provider.CreatePool(sdk.UnwrapSDKContext(ctx), sender, owner, msg.Token, params, sig)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: poolID}, nil
}
