package provider

import (
	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/openalpha/lockdeal/x/provider/keeper"
	"github.com/openalpha/lockdeal/x/provider/types"
)

var (
	_ module.HasName      = AppModuleBasic{}
	_ appmodule.AppModule = AppModule{}
)

// AppModuleBasic defines the basic application module for the pool providers
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	types.RegisterLegacyAminoCodec(cdc)
}

// AppModule serves the deal, lock and timed providers as one module.
// Provider state has no genesis: pools only come from messages.
type AppModule struct {
	AppModuleBasic
	providers []*keeper.Keeper
}

// NewAppModule creates a new AppModule over the wired providers
func NewAppModule(providers ...*keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		providers:      providers,
	}
}

// Route delivers msg to the provider MsgServer
func (am AppModule) Route(ctx sdk.Context, msg sdk.Msg) (any, error) {
	if m, ok := msg.(*types.MsgCreatePool); ok {
		return keeper.NewMsgServerImpl(am.providers...).CreatePool(ctx, m)
	}
	return nil, sdkerrors.ErrUnknownRequest.Wrapf("unrecognized %s message type: %T", types.ModuleName, msg)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}
