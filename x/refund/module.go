package refund

import (
	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/openalpha/lockdeal/x/refund/keeper"
	"github.com/openalpha/lockdeal/x/refund/types"
)

var (
	_ module.HasName      = AppModuleBasic{}
	_ appmodule.AppModule = AppModule{}
)

// AppModuleBasic defines the basic application module for refund
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	types.RegisterLegacyAminoCodec(cdc)
}

// AppModule implements an application module for the refund module
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

func (am AppModule) Route(ctx sdk.Context, msg sdk.Msg) (any, error) {
	srv := keeper.NewMsgServerImpl(am.keeper)
	switch m := msg.(type) {
	case *types.MsgCreateRefundPool:
		return srv.CreateRefundPool(ctx, m)
	case *types.MsgRefund:
		return srv.Refund(ctx, m)
	}
	return nil, sdkerrors.ErrUnknownRequest.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}
