package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	collateralkeeper "github.com/openalpha/lockdeal/x/collateral/keeper"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	"github.com/openalpha/lockdeal/x/refund/types"
	registrykeeper "github.com/openalpha/lockdeal/x/registry/keeper"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaultkeeper "github.com/openalpha/lockdeal/x/vault/keeper"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

const (
	testAuthority = "authority"
	mainCoin      = "ubusd"
	projectToken  = "ulock"
	genesisTime   = int64(1_700_000_000)
)

var (
	testSig = []byte("signature")
	// one token is worth a tenth of a main coin
	tenthRate = math.NewIntWithDecimal(1, 20)
)

type fixture struct {
	ctx        sdk.Context
	registry   *registrykeeper.Keeper
	vault      *vaultkeeper.Keeper
	collateral *collateralkeeper.Keeper
	refund     *Keeper
}

func setupFixture(t testing.TB) *fixture {
	registryKey := storetypes.NewKVStoreKey(registrytypes.StoreKey)
	vaultKey := storetypes.NewKVStoreKey(vaulttypes.StoreKey)
	collateralKey := storetypes.NewKVStoreKey(collateraltypes.StoreKey)
	refundKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range []*storetypes.KVStoreKey{registryKey, vaultKey, collateralKey, refundKey} {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(genesisTime, 0))

	vault := vaultkeeper.NewKeeper(vaultKey, testAuthority, log.NewNopLogger())
	registry := registrykeeper.NewKeeper(registryKey, vault, testAuthority, log.NewNopLogger())
	collateral := collateralkeeper.NewKeeper(collateralKey, registry, vault, log.NewNopLogger())
	refund := NewKeeper(refundKey, registry, collateral, vault, log.NewNopLogger())
	registry.RegisterProvider(collateral)
	registry.RegisterProvider(refund)
	require.NoError(t, registry.SetApproved(ctx, testAuthority, collateral.Address(), true))
	require.NoError(t, registry.SetApproved(ctx, testAuthority, refund.Address(), true))

	return &fixture{ctx: ctx, registry: registry, vault: vault, collateral: collateral, refund: refund}
}

func (f *fixture) at(unix int64) sdk.Context {
	return f.ctx.WithBlockTime(time.Unix(unix, 0))
}

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

// newCollateral opens a 100 main coin collateral for project finishing at finish
func (f *fixture) newCollateral(t testing.TB, project sdk.AccAddress, finish int64) uint64 {
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, project, mainCoin, math.NewInt(100)))
	id, err := f.collateral.CreateCollateralPool(f.ctx, project, project, mainCoin, projectToken,
		math.NewInt(100), math.NewInt(finish), tenthRate, testSig)
	require.NoError(t, err)
	return id
}

func TestCreateRefundPool_Links(t *testing.T) {
	f := setupFixture(t)
	project, user := testAddr(1), testAddr(2)
	collateralID := f.newCollateral(t, project, genesisTime+100)
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, project, projectToken, math.NewInt(1000)))

	var ids []uint64
	for i := 0; i < 3; i++ {
		id, err := f.refund.CreateRefundPool(f.ctx, project, user, projectToken,
			math.NewInt(300), math.NewInt(genesisTime+50), collateralID, testSig)
		require.NoError(t, err)
		require.Equal(t, collateralID, f.refund.PoolIDToCollateralID(f.ctx, id))
		ids = append(ids, id)
	}
	require.Equal(t, ids, f.refund.GetRefundPools(f.ctx, collateralID))
	require.Equal(t, uint64(0), f.refund.PoolIDToCollateralID(f.ctx, collateralID))
	require.Equal(t, "100", f.vault.GetBalance(f.ctx, project, projectToken).String())
}

func TestCreateRefundPool_InvalidCollateral(t *testing.T) {
	f := setupFixture(t)
	project := testAddr(1)
	collateralID := f.newCollateral(t, project, genesisTime+100)
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, project, projectToken, math.NewInt(1000)))

	refundID, err := f.refund.CreateRefundPool(f.ctx, project, project, projectToken,
		math.NewInt(10), math.NewInt(genesisTime+50), collateralID, testSig)
	require.NoError(t, err)

	// a refund pool is not a collateral pool
	_, err = f.refund.CreateRefundPool(f.ctx, project, project, projectToken,
		math.NewInt(10), math.NewInt(genesisTime+50), refundID, testSig)
	require.ErrorIs(t, err, types.ErrInvalidCollateralProvider)

	_, err = f.refund.CreateRefundPool(f.ctx, project, project, projectToken,
		math.NewInt(10), math.NewInt(genesisTime+50), 999, testSig)
	require.ErrorIs(t, err, types.ErrInvalidCollateralProvider)

	_, err = f.refund.CreateRefundPool(f.ctx, project, project, "uother",
		math.NewInt(10), math.NewInt(genesisTime+50), collateralID, testSig)
	require.ErrorIs(t, err, types.ErrTokenMismatch)

	_, err = f.refund.RegisterRefundPool(f.ctx, testAddr(9), project, projectToken,
		math.NewInt(10), math.NewInt(genesisTime+50), collateralID)
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRefund(t *testing.T) {
	f := setupFixture(t)
	project, user := testAddr(1), testAddr(2)
	finish := genesisTime + 100
	collateralID := f.newCollateral(t, project, finish)
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, project, projectToken, math.NewInt(1000)))

	refundID, err := f.refund.CreateRefundPool(f.ctx, project, user, projectToken,
		math.NewInt(305), math.NewInt(genesisTime+50), collateralID, testSig)
	require.NoError(t, err)

	_, err = f.refund.Refund(f.ctx, project, refundID)
	require.ErrorIs(t, err, types.ErrNotOwnerOrApproved)
	_, err = f.refund.Refund(f.ctx, user, collateralID)
	require.ErrorIs(t, err, types.ErrNotRefundPool)

	out, err := f.refund.Refund(f.ctx, user, refundID)
	require.NoError(t, err)
	require.Equal(t, "30", out.String())
	require.Equal(t, "30", f.vault.GetBalance(f.ctx, user, mainCoin).String())

	refundPool, err := f.registry.GetPool(f.ctx, refundID)
	require.NoError(t, err)
	require.True(t, refundPool.IsClosed())

	collateralPool, err := f.registry.GetPool(f.ctx, collateralID)
	require.NoError(t, err)
	require.Equal(t, "70", collateralPool.Amount().String())

	_, err = f.refund.Refund(f.ctx, user, refundID)
	require.ErrorIs(t, err, providertypes.ErrPoolClosed)

	claimed, err := f.collateral.ClaimRefundedTokens(f.at(finish), project, collateralID)
	require.NoError(t, err)
	require.Equal(t, "305", claimed.String())
}

func TestRefund_AfterCollateralFinish(t *testing.T) {
	f := setupFixture(t)
	project, user := testAddr(1), testAddr(2)
	finish := genesisTime + 100
	collateralID := f.newCollateral(t, project, finish)
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, project, projectToken, math.NewInt(10)))

	refundID, err := f.refund.CreateRefundPool(f.ctx, project, user, projectToken,
		math.NewInt(10), math.NewInt(genesisTime+50), collateralID, testSig)
	require.NoError(t, err)

	_, err = f.refund.Refund(f.at(finish), user, refundID)
	require.ErrorIs(t, err, collateraltypes.ErrRefundWindowClosed)

	released, err := f.registry.Withdraw(f.at(finish), user, refundID, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, "10", released.String())
	require.Equal(t, "10", f.vault.GetBalance(f.ctx, user, projectToken).String())
}
