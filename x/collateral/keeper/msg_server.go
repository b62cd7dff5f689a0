package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/collateral/types"
)

// MsgServer defines the collateral MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateCollateralPool handles MsgCreateCollateralPool
func (m *MsgServer) CreateCollateralPool(ctx context.Context, msg *types.MsgCreateCollateralPool) (*types.MsgCreateCollateralPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	amount, finish, rate, _ := msg.Amounts()
	sig, _ := msg.SignatureBytes()

	poolID, err := m.keeper.CreateCollateralPool(sdk.UnwrapSDKContext(ctx), sender, owner, msg.MainCoin, msg.Token, amount, finish, rate, sig)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateCollateralPoolResponse{PoolID: poolID}, nil
}

// ClaimRefundedTokens handles MsgClaimRefundedTokens
func (m *MsgServer) ClaimRefundedTokens(ctx context.Context, msg *types.MsgClaimRefundedTokens) (*types.MsgClaimRefundedTokensResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	claimed, err := m.keeper.ClaimRefundedTokens(sdk.UnwrapSDKContext(ctx), sender, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRefundedTokensResponse{Claimed: claimed.String()}, nil
}
