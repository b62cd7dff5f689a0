package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/builder/types"
)

// MsgServer defines the builder MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// BuildMassPools handles MsgBuildMassPools
func (m *MsgServer) BuildMassPools(ctx context.Context, msg *types.MsgBuildMassPools) (*types.MsgBuildMassPoolsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	allocations, schedule, sig, _ := msg.Parsed()

	first, err := m.keeper.BuildMassPools(sdk.UnwrapSDKContext(ctx), sender, msg.Provider, msg.Token, allocations, schedule, sig)
	if err != nil {
		return nil, err
	}
	return &types.MsgBuildMassPoolsResponse{FirstPoolID: first, Count: uint64(len(allocations))}, nil
}

// BuildRefundMassPools handles MsgBuildRefundMassPools
func (m *MsgServer) BuildRefundMassPools(ctx context.Context, msg *types.MsgBuildRefundMassPools) (*types.MsgBuildRefundMassPoolsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	allocations, amounts, tokenSig, mainCoinSig, _ := msg.Parsed()

	collateralID, first, err := m.keeper.BuildRefundMassPools(
		sdk.UnwrapSDKContext(ctx), sender, msg.Token, msg.MainCoin, allocations,
		amounts[0], amounts[1], tokenSig, mainCoinSig,
	)
	if err != nil {
		return nil, err
	}
	return &types.MsgBuildRefundMassPoolsResponse{
		CollateralPoolID:  collateralID,
		FirstRefundPoolID: first,
		Count:             uint64(len(allocations)),
	}, nil
}

// UpdateParams handles MsgUpdateParams
func (m *MsgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.UpdateParams(sdk.UnwrapSDKContext(ctx), msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}
