package keeper

import (
	"math/big"
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

	"github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
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

var testSig = []byte("signature")

type fixture struct {
	ctx        sdk.Context
	registry   *registrykeeper.Keeper
	vault      *vaultkeeper.Keeper
	collateral *Keeper
	// builder stands in for an approved module calling the ledger
	builder sdk.AccAddress
}

func setupFixture(t testing.TB) *fixture {
	registryKey := storetypes.NewKVStoreKey(registrytypes.StoreKey)
	vaultKey := storetypes.NewKVStoreKey(vaulttypes.StoreKey)
	collateralKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range []*storetypes.KVStoreKey{registryKey, vaultKey, collateralKey} {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockTime(time.Unix(genesisTime, 0))

	vault := vaultkeeper.NewKeeper(vaultKey, testAuthority, log.NewNopLogger())
	registry := registrykeeper.NewKeeper(registryKey, vault, testAuthority, log.NewNopLogger())
	collateral := NewKeeper(collateralKey, registry, vault, log.NewNopLogger())
	registry.RegisterProvider(collateral)

	builder := testAddr(0xB0)
	require.NoError(t, registry.SetApproved(ctx, testAuthority, collateral.Address(), true))
	require.NoError(t, registry.SetApproved(ctx, testAuthority, builder, true))

	return &fixture{ctx: ctx, registry: registry, vault: vault, collateral: collateral, builder: builder}
}

func (f *fixture) at(unix int64) sdk.Context {
	return f.ctx.WithBlockTime(time.Unix(unix, 0))
}

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

// largest amount a pool can hold
var maxUint = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

// rate that values one token at half a main coin
var halfRate = math.NewIntWithDecimal(5, 20)

func mainCoinFor(t *testing.T, tokens int64, rate math.Int) string {
	t.Helper()
	v, err := types.MainCoinFor(math.NewInt(tokens), rate)
	require.NoError(t, err)
	return v.String()
}

func TestRateArithmetic(t *testing.T) {
	require.Equal(t, "300", mainCoinFor(t, 600, halfRate))
	require.Equal(t, "0", mainCoinFor(t, 1, halfRate))
	// floor, never round to nearest
	require.Equal(t, "1", mainCoinFor(t, 3, halfRate))

	rate, err := types.RateFor(math.NewInt(10), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "3333333333333333333333", rate.String())
	rate, err = types.RateFor(math.NewInt(10), math.ZeroInt())
	require.NoError(t, err)
	require.True(t, rate.IsZero())

	_, err = types.MainCoinFor(maxUint, math.NewIntWithDecimal(1, 30))
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	_, err = types.RateFor(maxUint, math.OneInt())
	require.ErrorIs(t, err, types.ErrInvalidRate)
}

func TestCreateCollateralPool(t *testing.T) {
	f := setupFixture(t)
	owner := testAddr(1)
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, owner, mainCoin, math.NewInt(1000)))
	finish := math.NewInt(genesisTime + 100)

	_, err := f.collateral.CreateCollateralPool(f.ctx, owner, owner, mainCoin, projectToken, math.NewInt(1000), finish, math.ZeroInt(), testSig)
	require.ErrorIs(t, err, types.ErrInvalidRate)
	_, err = f.collateral.CreateCollateralPool(f.ctx, owner, owner, mainCoin, projectToken, math.NewInt(1000), math.NewInt(genesisTime), halfRate, testSig)
	require.ErrorIs(t, err, providertypes.ErrScheduleInvalid)

	id, err := f.collateral.CreateCollateralPool(f.ctx, owner, owner, mainCoin, projectToken, math.NewInt(1000), finish, halfRate, testSig)
	require.NoError(t, err)
	require.True(t, f.collateral.IsCollateralPool(f.ctx, id))
	require.Equal(t, halfRate.String(), f.collateral.Rate(f.ctx, id).String())
	require.Equal(t, "1000", f.vault.Locked(f.ctx, mainCoin).String())

	record, ok := f.collateral.GetRecord(f.ctx, id)
	require.True(t, ok)
	require.Equal(t, projectToken, record.Token)
}

func TestIncrease(t *testing.T) {
	f := setupFixture(t)
	owner := testAddr(1)
	id, err := f.collateral.RegisterCollateralPool(f.ctx, f.builder, owner, mainCoin, projectToken,
		math.NewInt(1000), math.NewInt(genesisTime+100), halfRate)
	require.NoError(t, err)

	_, err = f.collateral.Increase(f.ctx, testAddr(7), id, math.NewInt(600))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	extra, err := f.collateral.Increase(f.ctx, f.builder, id, math.NewInt(601))
	require.NoError(t, err)
	require.Equal(t, "300", extra.String())

	pool, err := f.registry.GetPool(f.ctx, id)
	require.NoError(t, err)
	require.Equal(t, "1300", pool.Amount().String())
}

func TestIncrease_Overflow(t *testing.T) {
	f := setupFixture(t)
	id, err := f.collateral.RegisterCollateralPool(f.ctx, f.builder, testAddr(1), mainCoin, projectToken,
		maxUint, math.NewInt(genesisTime+100), types.RateScale)
	require.NoError(t, err)

	_, err = f.collateral.Increase(f.ctx, f.builder, id, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	pool, err := f.registry.GetPool(f.ctx, id)
	require.NoError(t, err)
	require.Equal(t, maxUint.String(), pool.Amount().String())
}

func TestIncrease_NotCollateralPool(t *testing.T) {
	f := setupFixture(t)
	id, err := f.registry.MintPool(f.ctx, f.builder, testAddr(1), projectToken,
		[]math.Int{math.NewInt(10), math.NewInt(genesisTime + 100)})
	require.NoError(t, err)

	_, err = f.collateral.Increase(f.ctx, f.builder, id, math.NewInt(600))
	require.ErrorIs(t, err, types.ErrNotCollateralPool)
	require.False(t, f.collateral.IsCollateralPool(f.ctx, id))
}

func TestSwapAndClaim(t *testing.T) {
	f := setupFixture(t)
	owner := testAddr(1)
	finish := genesisTime + 100
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, owner, mainCoin, math.NewInt(1000)))
	id, err := f.collateral.CreateCollateralPool(f.ctx, owner, owner, mainCoin, projectToken,
		math.NewInt(1000), math.NewInt(finish), halfRate, testSig)
	require.NoError(t, err)

	_, err = f.collateral.Swap(f.ctx, f.builder, id, math.NewInt(4000))
	require.ErrorIs(t, err, types.ErrInsufficientCollateral)

	out, err := f.collateral.Swap(f.ctx, f.builder, id, math.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "200", out.String())

	_, err = f.collateral.Swap(f.at(finish), f.builder, id, math.NewInt(1))
	require.ErrorIs(t, err, types.ErrRefundWindowClosed)

	_, err = f.collateral.ClaimRefundedTokens(f.ctx, owner, id)
	require.ErrorIs(t, err, types.ErrNotFinished)
	_, err = f.collateral.ClaimRefundedTokens(f.at(finish), testAddr(2), id)
	require.ErrorIs(t, err, types.ErrNotOwner)

	// the swapped tokens sit in custody, as a refund ledger would have put them
	require.NoError(t, f.vault.Mint(f.ctx, testAuthority, f.vault.Address(), projectToken, math.NewInt(400)))
	claimed, err := f.collateral.ClaimRefundedTokens(f.at(finish), owner, id)
	require.NoError(t, err)
	require.Equal(t, "400", claimed.String())
	require.Equal(t, "400", f.vault.GetBalance(f.ctx, owner, projectToken).String())

	_, err = f.collateral.ClaimRefundedTokens(f.at(finish), owner, id)
	require.ErrorIs(t, err, types.ErrNothingToClaim)

	released, err := f.registry.Withdraw(f.at(finish), owner, id, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, "800", released.String())
}
