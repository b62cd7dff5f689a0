package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/lockdeal/api"
	"github.com/openalpha/lockdeal/app"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

var genesis = time.Unix(1_700_000_000, 0)

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

func setup(t *testing.T) (*app.App, *Client) {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.Authority = "authority"
	a, err := app.NewApp(log.NewNopLogger(), dbm.NewMemDB(), cfg, app.WithClock(func() time.Time { return genesis }))
	require.NoError(t, err)

	apiCfg := api.DefaultConfig()
	apiCfg.DisableRateLimit = true
	srv, err := api.NewServer(a, apiCfg, nil, log.NewNopLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return a, NewClient(&Config{BaseURL: ts.URL, Timeout: 5 * time.Second}, ts.Client())
}

func TestClient_RefundMassAndRebuild(t *testing.T) {
	a, c := setup(t)
	ctx := context.Background()
	project := testAddr(0xAA)

	for _, token := range []string{"ulock", "ubusd"} {
		_, err := c.Submit(ctx, &vaulttypes.MsgMint{Authority: "authority", To: project.String(), Token: token, Amount: "10000"})
		require.NoError(t, err)
	}

	res, err := c.Submit(ctx, &buildertypes.MsgBuildRefundMassPools{
		Sender:            project.String(),
		Token:             "ulock",
		MainCoin:          "ubusd",
		Allocations:       []buildertypes.AllocationEntry{{User: testAddr(1).String(), Amount: "1000"}},
		MainCoinAmount:    "100",
		FinishTime:        strconv.FormatInt(genesis.Unix()+7*86_400, 10),
		TokenSignature:    "abcd",
		MainCoinSignature: "abcd",
	})
	require.NoError(t, err)
	require.Equal(t, "builder/MsgBuildRefundMassPools", res.MsgType)

	collateral, err := c.GetCollateral(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "100", collateral.Pool.Amount)
	require.Equal(t, []uint64{1}, collateral.RefundPoolIDs)

	payload, err := c.EncodeRebuild(ctx, buildertypes.RebuildRequest{
		TokenSignature:    "01",
		MainCoinSignature: "02",
		Allocations: []buildertypes.AllocationEntry{
			{User: testAddr(2).String(), Amount: "300"},
			{User: testAddr(3).String(), Amount: "200"},
		},
		TotalAmount: "500",
	})
	require.NoError(t, err)

	res, err = c.Submit(ctx, &registrytypes.MsgTransferPool{
		Sender:  project.String(),
		From:    project.String(),
		To:      a.BuilderKeeper.Address().String(),
		PoolID:  0,
		Payload: payload[2:],
	})
	require.NoError(t, err)

	rebuilt := 0
	for _, e := range res.Events {
		if e.Type == buildertypes.EventTypePoolsRebuilt {
			rebuilt++
			require.Equal(t, "0", e.Attributes["collateral_pool_id"])
		}
	}
	require.Equal(t, 1, rebuilt)

	collateral, err = c.GetCollateral(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "150", collateral.Pool.Amount)
	require.Equal(t, project.String(), collateral.Pool.Owner)
	require.Equal(t, []uint64{1, 2, 3}, collateral.RefundPoolIDs)

	owned, err := c.PoolsByOwner(ctx, testAddr(2).String())
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, "300", owned[0].Amount)

	unlocks, err := c.Unlocks(ctx, genesis.Add(8*24*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, unlocks, 4)

	balance, err := c.GetBalance(ctx, project.String(), "ulock")
	require.NoError(t, err)
	require.Equal(t, "8500", balance.Amount)

	txs, ok, failed, _ := c.GetMetrics()
	require.Equal(t, uint64(4), txs)
	require.Equal(t, uint64(4), ok)
	require.Zero(t, failed)
}

func TestClient_Errors(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()

	_, err := c.GetPool(ctx, 42)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "registry_2", apiErr.Code)

	_, err = c.Submit(ctx, &vaulttypes.MsgMint{Authority: "mallory", To: testAddr(1).String(), Token: "ulock", Amount: "1"})
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusForbidden, apiErr.Status)

	txs, ok, failed, _ := c.GetMetrics()
	require.Equal(t, uint64(1), txs)
	require.Zero(t, ok)
	require.Equal(t, uint64(1), failed)

	c.ResetMetrics()
	txs, _, _, _ = c.GetMetrics()
	require.Zero(t, txs)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pool":{"pool_id":7,"amount":"5"}}`))
	}))
	defer ts.Close()

	c := NewClient(&Config{BaseURL: ts.URL + "/", RetryAttempts: 3, RetryBackoff: time.Millisecond}, nil)
	pool, err := c.GetPool(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), pool.PoolID)
	require.Equal(t, int32(3), calls.Load())

	calls.Store(-10)
	c = NewClient(&Config{BaseURL: ts.URL, RetryAttempts: 1, RetryBackoff: time.Millisecond}, nil)
	_, err = c.GetPool(context.Background(), 7)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}
