package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// MsgServer defines the registry MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// TransferPool handles MsgTransferPool
func (m *MsgServer) TransferPool(ctx context.Context, msg *types.MsgTransferPool) (*types.MsgTransferPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	from, _ := sdk.AccAddressFromBech32(msg.From)
	to, _ := sdk.AccAddressFromBech32(msg.To)
	payload, _ := msg.PayloadBytes()

	if err := m.keeper.TransferFrom(sdkCtx, sender, from, to, msg.PoolID, payload); err != nil {
		return nil, err
	}

	// a receiver may hand the pool straight back, so report the final owner
	pool, err := m.keeper.GetPool(sdkCtx, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferPoolResponse{Owner: pool.Owner}, nil
}

// SetApprovedProvider handles MsgSetApprovedProvider (authority only)
func (m *MsgServer) SetApprovedProvider(ctx context.Context, msg *types.MsgSetApprovedProvider) (*types.MsgSetApprovedProviderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	provider, _ := sdk.AccAddressFromBech32(msg.Provider)
	if err := m.keeper.SetApproved(sdk.UnwrapSDKContext(ctx), msg.Authority, provider, msg.Allowed); err != nil {
		return nil, err
	}
	return &types.MsgSetApprovedProviderResponse{}, nil
}

// ApprovePool handles MsgApprovePool
func (m *MsgServer) ApprovePool(ctx context.Context, msg *types.MsgApprovePool) (*types.MsgApprovePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	var spender sdk.AccAddress
	if msg.Spender != "" {
		spender, _ = sdk.AccAddressFromBech32(msg.Spender)
	}
	if err := m.keeper.Approve(sdk.UnwrapSDKContext(ctx), owner, spender, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgApprovePoolResponse{}, nil
}

// SetApprovalForAll handles MsgSetApprovalForAll
func (m *MsgServer) SetApprovalForAll(ctx context.Context, msg *types.MsgSetApprovalForAll) (*types.MsgSetApprovalForAllResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	owner, _ := sdk.AccAddressFromBech32(msg.Owner)
	operator, _ := sdk.AccAddressFromBech32(msg.Operator)
	if err := m.keeper.SetApprovalForAll(sdk.UnwrapSDKContext(ctx), owner, operator, msg.Approved); err != nil {
		return nil, err
	}
	return &types.MsgSetApprovalForAllResponse{}, nil
}

// WithdrawPool handles MsgWithdrawPool
func (m *MsgServer) WithdrawPool(ctx context.Context, msg *types.MsgWithdrawPool) (*types.MsgWithdrawPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sender, _ := sdk.AccAddressFromBech32(msg.Sender)
	amount, _ := msg.RequestedAmount()

	released, err := m.keeper.Withdraw(sdkCtx, sender, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}
	pool, err := m.keeper.GetPool(sdkCtx, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawPoolResponse{
		Released:  released.String(),
		Remaining: pool.Amount().String(),
	}, nil
}
