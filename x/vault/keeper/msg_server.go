package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openalpha/lockdeal/x/vault/types"
)

// MsgServer defines the vault MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Mint handles MsgMint
func (m *MsgServer) Mint(ctx context.Context, msg *types.MsgMint) (*types.MsgMintResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	to, _ := sdk.AccAddressFromBech32(msg.To)
	amount, _ := math.NewIntFromString(msg.Amount)

	if err := m.keeper.Mint(sdkCtx, msg.Authority, to, msg.Token, amount); err != nil {
		return nil, err
	}
	return &types.MsgMintResponse{Balance: m.keeper.GetBalance(sdkCtx, to, msg.Token).String()}, nil
}

// SetTrustedSigner handles MsgSetTrustedSigner
func (m *MsgServer) SetTrustedSigner(ctx context.Context, msg *types.MsgSetTrustedSigner) (*types.MsgSetTrustedSignerResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	var signer common.Address
	if msg.Signer != "" {
		signer = common.HexToAddress(msg.Signer)
	}
	if err := m.keeper.SetTrustedSigner(sdk.UnwrapSDKContext(ctx), msg.Authority, signer); err != nil {
		return nil, err
	}
	return &types.MsgSetTrustedSignerResponse{}, nil
}
