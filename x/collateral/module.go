package collateral

import (
	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/openalpha/lockdeal/x/collateral/keeper"
	"github.com/openalpha/lockdeal/x/collateral/types"
)

var (
	_ module.HasName      = AppModuleBasic{}
	_ appmodule.AppModule = AppModule{}
)

// AppModuleBasic defines the basic application module for collateral
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	types.RegisterLegacyAminoCodec(cdc)
}

// AppModule implements an application module for the collateral module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(keeper *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         keeper,
	}
}

// Route delivers msg to the collateral MsgServer
func (am AppModule) Route(ctx sdk.Context, msg sdk.Msg) (any, error) {
	srv := keeper.NewMsgServerImpl(am.keeper)
	switch m := msg.(type) {
	case *types.MsgCreateCollateralPool:
		return srv.CreateCollateralPool(ctx, m)
	case *types.MsgClaimRefundedTokens:
		return srv.ClaimRefundedTokens(ctx, m)
	}
	return nil, sdkerrors.ErrUnknownRequest.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}
