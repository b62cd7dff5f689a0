package app

import (
	"encoding/json"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

func TestMakeEncodingConfig_AminoNames(t *testing.T) {
	amino := MakeEncodingConfig().Amino
	for _, name := range MsgTypes() {
		bz, err := amino.MarshalJSON(msgFactories[name]())
		require.NoError(t, err, name)

		var env TxEnvelope
		require.NoError(t, json.Unmarshal(bz, &env), name)
		require.Equal(t, name, env.Type)
	}
}

func TestNewApp_WithGenesis(t *testing.T) {
	gs := DefaultGenesis(testConfig())
	gs.set(buildertypes.ModuleName, &buildertypes.GenesisState{Params: buildertypes.Params{MaxBatchSize: 5}})
	gs.set(vaulttypes.ModuleName, &vaulttypes.GenesisState{
		Balances: []vaulttypes.Balance{{Address: testAddr(1).String(), Token: "tkn", Amount: "700"}},
	})

	app, err := NewApp(log.NewNopLogger(), dbm.NewMemDB(), testConfig(),
		WithClock(func() time.Time { return genesis }), WithGenesis(gs))
	require.NoError(t, err)

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		require.Equal(t, uint32(5), app.BuilderKeeper.GetParams(ctx).MaxBatchSize)
		require.Equal(t, "700", app.VaultKeeper.GetBalance(ctx, testAddr(1), "tkn").String())
		require.True(t, app.RegistryKeeper.IsApproved(ctx, app.BuilderKeeper.Address()))
		return nil
	}))

	exported, err := app.ExportGenesis()
	require.NoError(t, err)
	require.NoError(t, app.ValidateGenesis(exported))

	builderGenesis, err := buildertypes.ParseGenesis(exported[buildertypes.ModuleName])
	require.NoError(t, err)
	require.Equal(t, uint32(5), builderGenesis.Params.MaxBatchSize)

	vaultGenesis, err := vaulttypes.ParseGenesis(exported[vaulttypes.ModuleName])
	require.NoError(t, err)
	require.Equal(t, []vaulttypes.Balance{{Address: testAddr(1).String(), Token: "tkn", Amount: "700"}}, vaultGenesis.Balances)

	registryGenesis, err := registrytypes.ParseGenesis(exported[registrytypes.ModuleName])
	require.NoError(t, err)
	require.Len(t, registryGenesis.ApprovedProviders, 6)
}

func TestNewApp_InvalidGenesis(t *testing.T) {
	for name, mutate := range map[string]func(GenesisState){
		"unknown section": func(gs GenesisState) { gs["bank"] = json.RawMessage(`{}`) },
		"bad signer": func(gs GenesisState) {
			gs.set(vaulttypes.ModuleName, &vaulttypes.GenesisState{TrustedSigner: "nothex"})
		},
		"zero batch size": func(gs GenesisState) {
			gs.set(buildertypes.ModuleName, &buildertypes.GenesisState{})
		},
		"malformed registry": func(gs GenesisState) { gs[registrytypes.ModuleName] = json.RawMessage(`[`) },
	} {
		t.Run(name, func(t *testing.T) {
			gs := DefaultGenesis(testConfig())
			mutate(gs)
			db := dbm.NewMemDB()
			_, err := NewApp(log.NewNopLogger(), db, testConfig(), WithGenesis(gs))
			require.ErrorContains(t, err, "invalid genesis")
		})
	}
}

func TestNewApp_TrustedSignerFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedSigner = "0x00000000000000000000000000000000000000aa"
	app, err := NewApp(log.NewNopLogger(), dbm.NewMemDB(), cfg)
	require.NoError(t, err)

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		signer, ok := app.VaultKeeper.GetTrustedSigner(ctx)
		require.True(t, ok)
		require.Equal(t, byte(0xaa), signer[19])
		return nil
	}))

	cfg.TrustedSigner = "0xzz"
	_, err = NewApp(log.NewNopLogger(), dbm.NewMemDB(), cfg)
	require.ErrorContains(t, err, "trusted signer")
}

type unroutedMsg struct {
	vaulttypes.MsgMint
}

func TestDeliver_UnroutedMsg(t *testing.T) {
	app := newTestApp(t)
	msg := &unroutedMsg{vaulttypes.MsgMint{Authority: "authority", To: testAddr(1).String(), Token: "tkn", Amount: "1"}}
	_, err := app.Deliver(msg)
	require.ErrorIs(t, err, ErrUnknownMsg)
	require.Equal(t, int64(1), app.LastHeight())
}
