package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/lockdeal/x/registry/types"
)

const testAuthority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

type mockVault struct {
	released map[string]math.Int
}

func (v *mockVault) Release(_ sdk.Context, to sdk.AccAddress, token string, amount math.Int) error {
	key := to.String() + "/" + token
	cur, ok := v.released[key]
	if !ok {
		cur = math.ZeroInt()
	}
	v.released[key] = cur.Add(amount)
	return nil
}

// mockProvider releases everything on request
type mockProvider struct {
	addr     sdk.AccAddress
	registry *Keeper
}

func (p *mockProvider) Address() sdk.AccAddress { return p.addr }
func (p *mockProvider) Name() string            { return "mock" }

func (p *mockProvider) Releasable(_ sdk.Context, pool types.Pool) math.Int {
	return pool.Amount()
}

func (p *mockProvider) Withdraw(ctx sdk.Context, pool types.Pool, amount math.Int) (math.Int, error) {
	avail := pool.Amount()
	if amount.IsZero() || amount.GT(avail) {
		amount = avail
	}
	params := types.CopyParams(pool.Params)
	params[0] = avail.Sub(amount)
	if err := p.registry.SetPoolParams(ctx, p.addr, pool.PoolID, params); err != nil {
		return math.ZeroInt(), err
	}
	return amount, nil
}

type recordingReceiver struct {
	calls   int
	caller  sdk.AccAddress
	from    sdk.AccAddress
	payload []byte
	err     error
}

func (r *recordingReceiver) OnPoolReceived(_ sdk.Context, caller, _, from sdk.AccAddress, _ uint64, payload []byte) error {
	r.calls++
	r.caller = caller
	r.from = from
	r.payload = payload
	return r.err
}

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

func setupKeeper(t testing.TB) (*Keeper, sdk.Context, *mockVault) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	vault := &mockVault{released: make(map[string]math.Int)}
	return NewKeeper(storeKey, vault, testAuthority, log.NewNopLogger()), ctx, vault
}

func ints(vals ...int64) []math.Int {
	out := make([]math.Int, len(vals))
	for i, v := range vals {
		out[i] = math.NewInt(v)
	}
	return out
}

func TestMintPool_RequiresApproval(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider := testAddr(1)
	owner := testAddr(2)

	_, err := k.MintPool(ctx, provider, owner, "uatom", ints(100, 10))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, owner, "uatom", ints(100, 10))
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	pool, err := k.GetPool(ctx, id)
	require.NoError(t, err)
	require.Equal(t, owner.String(), pool.Owner)
	require.Equal(t, provider.String(), pool.Provider)
	require.Equal(t, "100", pool.Amount().String())
}

func TestMintPool_SequentialIDs(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider := testAddr(1)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))

	for i := uint64(0); i < 5; i++ {
		id, err := k.MintPool(ctx, provider, testAddr(2), "uatom", ints(1, 1))
		require.NoError(t, err)
		require.Equal(t, i, id)
	}
	require.Equal(t, uint64(5), k.TotalPools(ctx))
}

func TestMintPool_ZeroAddress(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider := testAddr(1)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))

	_, err := k.MintPool(ctx, provider, nil, "uatom", ints(1))
	require.ErrorIs(t, err, types.ErrZeroAddress)
	_, err = k.MintPool(ctx, provider, testAddr(2), "", ints(1))
	require.ErrorIs(t, err, types.ErrZeroAddress)
	_, err = k.MintPool(ctx, provider, testAddr(2), "uatom", nil)
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestGetPool_NotFound(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	_, err := k.GetPool(ctx, 42)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestSetApproved_OnlyAuthority(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	err := k.SetApproved(ctx, testAddr(9).String(), testAddr(1), true)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.False(t, k.IsApproved(ctx, testAddr(1)))

	require.NoError(t, k.SetApproved(ctx, testAuthority, testAddr(1), true))
	require.True(t, k.IsApproved(ctx, testAddr(1)))
	require.NoError(t, k.SetApproved(ctx, testAuthority, testAddr(1), false))
	require.False(t, k.IsApproved(ctx, testAddr(1)))
}

func TestSetPoolParams(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, other := testAddr(1), testAddr(3)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	require.NoError(t, k.SetApproved(ctx, testAuthority, other, true))
	id, err := k.MintPool(ctx, provider, testAddr(2), "uatom", ints(100, 10))
	require.NoError(t, err)

	require.ErrorIs(t, k.SetPoolParams(ctx, other, id, ints(50, 10)), types.ErrInvalidPoolProvider)
	require.ErrorIs(t, k.SetPoolParams(ctx, provider, id, ints(50)), types.ErrInvalidParams)
	require.NoError(t, k.SetPoolParams(ctx, provider, id, ints(50, 10)))

	pool, err := k.GetPool(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "50", pool.Amount().String())
}

func TestTransferFrom(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, alice, bob, carol := testAddr(1), testAddr(2), testAddr(3), testAddr(4)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	require.ErrorIs(t, k.TransferFrom(ctx, alice, alice, nil, id, nil), types.ErrZeroAddress)
	require.ErrorIs(t, k.TransferFrom(ctx, bob, alice, bob, id, nil), types.ErrNotOwnerOrApproved)
	require.ErrorIs(t, k.TransferFrom(ctx, bob, bob, carol, id, nil), types.ErrNotOwnerOrApproved)

	require.NoError(t, k.Approve(ctx, alice, bob, id))
	require.True(t, bob.Equals(k.GetApproved(ctx, id)))
	require.NoError(t, k.TransferFrom(ctx, bob, alice, carol, id, nil))

	pool, err := k.GetPool(ctx, id)
	require.NoError(t, err)
	require.Equal(t, carol.String(), pool.Owner)
	require.Nil(t, k.GetApproved(ctx, id))
	require.Empty(t, k.GetPoolsByOwner(ctx, alice))
	require.Len(t, k.GetPoolsByOwner(ctx, carol), 1)
}

func TestTransferFrom_Operator(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, alice, op := testAddr(1), testAddr(2), testAddr(5)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	require.ErrorIs(t, k.SetApprovalForAll(ctx, alice, alice, true), types.ErrSelfApproval)
	require.NoError(t, k.SetApprovalForAll(ctx, alice, op, true))
	require.True(t, k.IsApprovedForAll(ctx, alice, op))
	require.NoError(t, k.TransferFrom(ctx, op, alice, op, id, nil))
}

func TestTransferFrom_NotifiesReceiver(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, alice, hook := testAddr(1), testAddr(2), testAddr(7)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	recv := &recordingReceiver{}
	k.RegisterReceiver(hook, recv)
	require.NoError(t, k.TransferFrom(ctx, alice, alice, hook, id, []byte{0xAB}))
	require.Equal(t, 1, recv.calls)
	require.True(t, k.Address().Equals(recv.caller))
	require.True(t, alice.Equals(recv.from))
	require.Equal(t, []byte{0xAB}, recv.payload)
}

func TestTransferFrom_ReceiverErrorPropagates(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, alice, hook := testAddr(1), testAddr(2), testAddr(7)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	boom := errors.New("boom")
	k.RegisterReceiver(hook, &recordingReceiver{err: boom})

	require.ErrorIs(t, k.TransferFrom(ctx, alice, alice, hook, id, nil), boom)

	pool, err := k.GetPool(ctx, id)
	require.NoError(t, err)
	require.Equal(t, alice.String(), pool.Owner)
}

func TestWithdraw(t *testing.T) {
	k, ctx, vault := setupKeeper(t)
	providerAddr, alice, bob := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, k.SetApproved(ctx, testAuthority, providerAddr, true))
	k.RegisterProvider(&mockProvider{addr: providerAddr, registry: k})

	id, err := k.MintPool(ctx, providerAddr, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	_, err = k.Withdraw(ctx, bob, id, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrNotOwnerOrApproved)

	released, err := k.Withdraw(ctx, alice, id, math.NewInt(30))
	require.NoError(t, err)
	require.Equal(t, "30", released.String())

	releasable, err := k.Releasable(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "70", releasable.String())

	released, err = k.Withdraw(ctx, alice, id, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, "70", released.String())
	require.Equal(t, "100", vault.released[alice.String()+"/uatom"].String())

	pool, err := k.GetPool(ctx, id)
	require.NoError(t, err)
	require.True(t, pool.IsClosed())
}

func TestWithdraw_UnknownProvider(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	providerAddr, alice := testAddr(1), testAddr(2)
	require.NoError(t, k.SetApproved(ctx, testAuthority, providerAddr, true))
	id, err := k.MintPool(ctx, providerAddr, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	_, err = k.Withdraw(ctx, alice, id, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrProviderNotRegistered)
}

func TestGetPools(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider := testAddr(1)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	for i := 0; i < 4; i++ {
		_, err := k.MintPool(ctx, provider, testAddr(2), "uatom", ints(int64(i+1), 1))
		require.NoError(t, err)
	}
	pools := k.GetPools(ctx, 1, 2)
	require.Len(t, pools, 2)
	require.Equal(t, uint64(1), pools[0].PoolID)
	require.Equal(t, uint64(2), pools[1].PoolID)
}

func TestMsgServer_TransferPool(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	provider, alice, bob := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, k.SetApproved(ctx, testAuthority, provider, true))
	id, err := k.MintPool(ctx, provider, alice, "uatom", ints(100, 10))
	require.NoError(t, err)

	srv := NewMsgServerImpl(k)
	resp, err := srv.TransferPool(ctx, &types.MsgTransferPool{
		Sender: alice.String(),
		From:   alice.String(),
		To:     bob.String(),
		PoolID: id,
	})
	require.NoError(t, err)
	require.Equal(t, bob.String(), resp.Owner)
}
