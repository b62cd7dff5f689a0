package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/refund/types"
)

// MsgServer defines the refund MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateRefundPool handles MsgCreateRefundPool
func (m *MsgServer) CreateRefundPool(ctx context.Context, msg *types.MsgCreateRefundPool) (*types.MsgCreateRefundPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	amount, finish, _ := msg.Amounts()
	sig, _ := msg.SignatureBytes()

	poolID, err := m.keeper.CreateRefundPool(sdk.UnwrapSDKContext(ctx), sender, owner, msg.Token, amount, finish, msg.CollateralPoolID, sig)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateRefundPoolResponse{PoolID: poolID}, nil
}

// Refund handles MsgRefund
func (m *MsgServer) Refund(ctx context.Context, msg *types.MsgRefund) (*types.MsgRefundResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	mainCoin, err := m.keeper.Refund(sdk.UnwrapSDKContext(ctx), sender, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgRefundResponse{MainCoin: mainCoin.String()}, nil
}
