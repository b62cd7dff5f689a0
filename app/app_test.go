package app

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

var genesis = time.Unix(1_700_000_000, 0)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Authority = "authority"
	return cfg
}

func newTestApp(t *testing.T) *App {
	app, err := NewApp(log.NewNopLogger(), dbm.NewMemDB(), testConfig(), WithClock(func() time.Time { return genesis }))
	require.NoError(t, err)
	return app
}

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

func deliverJSON(t *testing.T, app *App, msgType string, value string) (*TxResult, error) {
	msg, err := DecodeMsg([]byte(fmt.Sprintf(`{"type":%q,"value":%s}`, msgType, value)))
	require.NoError(t, err)
	return app.Deliver(msg)
}

func mint(t *testing.T, app *App, to sdk.AccAddress, token, amount string) {
	_, err := app.Deliver(&vaulttypes.MsgMint{Authority: "authority", To: to.String(), Token: token, Amount: amount})
	require.NoError(t, err)
}

func countEvents(events []Event, typ string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestNewApp_InitialState(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, int64(1), app.LastHeight())

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		for _, addr := range []sdk.AccAddress{
			app.DealProvider.Address(), app.LockProvider.Address(), app.TimedProvider.Address(),
			app.CollateralKeeper.Address(), app.RefundKeeper.Address(), app.BuilderKeeper.Address(),
		} {
			require.True(t, app.RegistryKeeper.IsApproved(ctx, addr), addr.String())
		}
		require.Equal(t, buildertypes.DefaultMaxBatchSize, app.BuilderKeeper.GetParams(ctx).MaxBatchSize)
		return nil
	}))
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.DBBackend = "rocksdb"
	require.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.Authority = ""
	require.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.MaxBatchSize = 0
	require.ErrorIs(t, cfg.Validate(), buildertypes.ErrInvalidParams)
}

func TestDeliver_BuildMassPools(t *testing.T) {
	app := newTestApp(t)
	project := testAddr(0xAA)
	mint(t, app, project, "ulock", "1000")

	var received []Event
	app.Subscribe(func(height int64, events []Event) { received = append(received, events...) })

	finish := strconv.FormatInt(genesis.Unix()+86_400, 10)
	res, err := deliverJSON(t, app, "builder/MsgBuildMassPools", fmt.Sprintf(`{
		"sender": %q,
		"provider": "deal",
		"token": "ulock",
		"allocations": [{"user": %q, "amount": "100"}, {"user": %q, "amount": "250"}],
		"schedule_params": [%q],
		"signature": "0xabcd"
	}`, project, testAddr(1), testAddr(2), finish))
	require.NoError(t, err)
	require.Equal(t, "builder/MsgBuildMassPools", res.MsgType)
	require.Equal(t, 2, countEvents(res.Events, registrytypes.EventTypePoolCreated))
	require.Equal(t, 2, countEvents(received, registrytypes.EventTypePoolCreated))

	resp, ok := res.Response.(*buildertypes.MsgBuildMassPoolsResponse)
	require.True(t, ok)
	require.Equal(t, uint64(0), resp.FirstPoolID)

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		pool, err := app.RegistryKeeper.GetPool(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, testAddr(2).String(), pool.Owner)
		require.Equal(t, "650", app.VaultKeeper.GetBalance(ctx, project, "ulock").String())
		return nil
	}))
}

func TestDeliver_FailureDoesNotCommit(t *testing.T) {
	app := newTestApp(t)
	project := testAddr(0xAA)
	mint(t, app, project, "ulock", "100")
	height := app.LastHeight()

	finish := strconv.FormatInt(genesis.Unix()+86_400, 10)
	_, err := app.Deliver(&buildertypes.MsgBuildMassPools{
		Sender:   project.String(),
		Provider: "deal",
		Token:    "ulock",
		Allocations: []buildertypes.AllocationEntry{
			{User: testAddr(1).String(), Amount: "60"},
			{User: testAddr(2).String(), Amount: "60"},
		},
		ScheduleParams: []string{finish},
		Signature:      "abcd",
	})
	require.ErrorIs(t, err, vaulttypes.ErrInsufficientFunds)
	require.Equal(t, height, app.LastHeight())

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		require.Equal(t, uint64(0), app.RegistryKeeper.TotalPools(ctx))
		require.Equal(t, "100", app.VaultKeeper.GetBalance(ctx, project, "ulock").String())
		return nil
	}))
}

func TestExecute_PanicIsAnError(t *testing.T) {
	app := newTestApp(t)
	height := app.LastHeight()

	_, err := app.Execute(func(ctx sdk.Context) error {
		require.NoError(t, app.VaultKeeper.Mint(ctx, "authority", testAddr(1), "ulock", math.NewInt(5)))
		panic("boom")
	})
	require.ErrorIs(t, err, ErrPanic)
	require.ErrorContains(t, err, "boom")
	require.Equal(t, height, app.LastHeight())

	done := make(chan error, 1)
	go func() {
		_, err := app.Deliver(&vaulttypes.MsgMint{Authority: "authority", To: testAddr(2).String(), Token: "ulock", Amount: "1"})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("deliver blocked after a panic")
	}

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		require.True(t, app.VaultKeeper.GetBalance(ctx, testAddr(1), "ulock").IsZero())
		require.Equal(t, "1", app.VaultKeeper.GetBalance(ctx, testAddr(2), "ulock").String())
		return nil
	}))
}

func TestDeliver_AmountOverflow(t *testing.T) {
	app := newTestApp(t)
	project := testAddr(0xAA)
	maxUint := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)).String()
	height := app.LastHeight()

	finish := strconv.FormatInt(genesis.Unix()+86_400, 10)
	_, err := app.Deliver(&buildertypes.MsgBuildMassPools{
		Sender:   project.String(),
		Provider: "deal",
		Token:    "ulock",
		Allocations: []buildertypes.AllocationEntry{
			{User: testAddr(1).String(), Amount: maxUint},
			{User: testAddr(2).String(), Amount: maxUint},
		},
		ScheduleParams: []string{finish},
		Signature:      "abcd",
	})
	require.ErrorIs(t, err, buildertypes.ErrBatchTooLarge)
	require.Equal(t, height, app.LastHeight())

	mint(t, app, project, "ulock", maxUint)
	_, err = app.Deliver(&vaulttypes.MsgMint{Authority: "authority", To: project.String(), Token: "ulock", Amount: "1"})
	require.ErrorIs(t, err, vaulttypes.ErrInvalidAmount)
}

func TestDeliver_RebuildThroughTransfer(t *testing.T) {
	app := newTestApp(t)
	project := testAddr(0xAA)
	mint(t, app, project, "ulock", "10000")
	mint(t, app, project, "ubusd", "10000")

	finish := strconv.FormatInt(genesis.Unix()+7*86_400, 10)
	res, err := app.Deliver(&buildertypes.MsgBuildRefundMassPools{
		Sender:            project.String(),
		Token:             "ulock",
		MainCoin:          "ubusd",
		Allocations:       []buildertypes.AllocationEntry{{User: testAddr(1).String(), Amount: "1000"}},
		MainCoinAmount:    "100",
		FinishTime:        finish,
		TokenSignature:    "abcd",
		MainCoinSignature: "abcd",
	})
	require.NoError(t, err)
	collateralID := res.Response.(*buildertypes.MsgBuildRefundMassPoolsResponse).CollateralPoolID

	payload, err := buildertypes.EncodeRebuildPayload(buildertypes.RebuildPayload{
		TokenSignature:    []byte{0x01},
		MainCoinSignature: []byte{0x02},
		Allocations: []buildertypes.Allocation{
			{User: testAddr(2), Amount: math.NewInt(300)},
			{User: testAddr(3), Amount: math.NewInt(200)},
		},
		TotalAmount: math.NewInt(500),
	})
	require.NoError(t, err)

	res, err = app.Deliver(&registrytypes.MsgTransferPool{
		Sender:  project.String(),
		From:    project.String(),
		To:      app.BuilderKeeper.Address().String(),
		PoolID:  collateralID,
		Payload: hex.EncodeToString(payload),
	})
	require.NoError(t, err)
	require.Equal(t, project.String(), res.Response.(*registrytypes.MsgTransferPoolResponse).Owner)
	require.Equal(t, 1, countEvents(res.Events, buildertypes.EventTypePoolsRebuilt))

	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		pool, err := app.RegistryKeeper.GetPool(ctx, collateralID)
		require.NoError(t, err)
		// rate 10^20 per token: 500 tokens add 50 main coin
		require.Equal(t, "150", pool.Amount().String())
		require.Equal(t, []uint64{1, 2, 3}, app.RefundKeeper.GetRefundPools(ctx, collateralID))
		return nil
	}))
}

func TestApp_ReopenPersistentStore(t *testing.T) {
	cfg := testConfig()
	cfg.DBBackend = string(dbm.GoLevelDBBackend)
	cfg.HomeDir = t.TempDir()
	project := testAddr(0xAA)
	clock := WithClock(func() time.Time { return genesis })

	db, err := cfg.OpenDB()
	require.NoError(t, err)
	app, err := NewApp(log.NewNopLogger(), db, cfg, clock)
	require.NoError(t, err)
	mint(t, app, project, "ulock", "500")
	height := app.LastHeight()
	require.NoError(t, app.Close())

	db, err = cfg.OpenDB()
	require.NoError(t, err)
	app, err = NewApp(log.NewNopLogger(), db, cfg, clock)
	require.NoError(t, err)
	defer app.Close()

	require.Equal(t, height, app.LastHeight())
	require.NoError(t, app.Query(func(ctx sdk.Context) error {
		require.Equal(t, "500", app.VaultKeeper.GetBalance(ctx, project, "ulock").String())
		return nil
	}))
}

func TestDecodeMsg(t *testing.T) {
	_, err := DecodeMsg([]byte(`{"type":"nope/MsgNothing","value":{}}`))
	require.Error(t, err)
	_, err = DecodeMsg([]byte(`{"type":"vault/MsgMint"}`))
	require.Error(t, err)

	msg := &registrytypes.MsgWithdrawPool{Sender: testAddr(1).String(), PoolID: 7}
	bz, err := EncodeMsg(msg)
	require.NoError(t, err)
	decoded, err := DecodeMsg(bz)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
	require.Contains(t, MsgTypes(), "registry/MsgWithdrawPool")
}
