package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/lockdeal/api/middleware"
	"github.com/openalpha/lockdeal/api/types"
	"github.com/openalpha/lockdeal/app"
	lockmetrics "github.com/openalpha/lockdeal/metrics"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

var genesis = time.Unix(1_700_000_000, 0)

type testEnv struct {
	app   *app.App
	srv   *Server
	clock *atomic.Int64
}

func testAddr(b byte) sdk.AccAddress {
	addr := make([]byte, 20)
	addr[19] = b
	return addr
}

func setupServer(t *testing.T, cfg *Config) *testEnv {
	t.Helper()
	clock := new(atomic.Int64)
	clock.Store(genesis.Unix())

	appCfg := app.DefaultConfig()
	appCfg.Authority = "authority"
	a, err := app.NewApp(log.NewNopLogger(), dbm.NewMemDB(), appCfg,
		app.WithClock(func() time.Time { return time.Unix(clock.Load(), 0) }))
	require.NoError(t, err)

	if cfg == nil {
		cfg = DefaultConfig()
		cfg.DisableRateLimit = true
	}
	srv, err := NewServer(a, cfg, lockmetrics.NewUnregistered(), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return &testEnv{app: a, srv: srv, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		bz, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(bz)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:4000"
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) submit(t *testing.T, msgType string, value interface{}) *httptest.ResponseRecorder {
	t.Helper()
	bz, err := json.Marshal(value)
	require.NoError(t, err)
	return e.do(t, http.MethodPost, "/v1/tx", types.TxRequest{Type: msgType, Value: bz})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// buildPools mints 1000 ulock to the project and splits 350 of it into two
// deal pools finishing a day after genesis
func (e *testEnv) buildPools(t *testing.T) (project sdk.AccAddress, finish int64) {
	t.Helper()
	project = testAddr(0xAA)
	rec := e.submit(t, "vault/MsgMint", map[string]string{
		"authority": "authority", "to": project.String(), "token": "ulock", "amount": "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	finish = genesis.Unix() + 86_400
	rec = e.submit(t, "builder/MsgBuildMassPools", map[string]interface{}{
		"sender":   project.String(),
		"provider": "deal",
		"token":    "ulock",
		"allocations": []map[string]string{
			{"user": testAddr(1).String(), "amount": "100"},
			{"user": testAddr(2).String(), "amount": "250"},
		},
		"schedule_params": []string{strconv.FormatInt(finish, 10)},
		"signature":       "0xabcd",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return project, finish
}

func TestServer_Health(t *testing.T) {
	env := setupServer(t, nil)
	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode[map[string]interface{}](t, rec)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, float64(1), body["height"])
}

func TestServer_SubmitAndQuery(t *testing.T) {
	env := setupServer(t, nil)
	project, finish := env.buildPools(t)

	list := decode[types.ListPoolsResponse](t, env.do(t, http.MethodGet, "/v1/pools", nil))
	require.Equal(t, uint64(2), list.Total)
	require.Len(t, list.Pools, 2)
	require.Equal(t, "dealprovider", list.Pools[0].ProviderName)

	page := decode[types.ListPoolsResponse](t, env.do(t, http.MethodGet, "/v1/pools?start=0&limit=1", nil))
	require.Len(t, page.Pools, 1)
	require.Equal(t, uint64(1), page.Next)

	rec := env.do(t, http.MethodGet, "/v1/pools/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]types.Pool](t, rec)["pool"]
	require.Equal(t, testAddr(2).String(), got.Owner)
	require.Equal(t, "250", got.Amount)

	owned := decode[map[string][]types.Pool](t, env.do(t, http.MethodGet, "/v1/owners/"+testAddr(1).String()+"/pools", nil))
	require.Len(t, owned["pools"], 1)
	require.Equal(t, uint64(0), owned["pools"][0].PoolID)

	unlocks := decode[struct {
		Unlocks []types.Unlock `json:"unlocks"`
	}](t, env.do(t, http.MethodGet, fmt.Sprintf("/v1/unlocks?before=%d", finish+1), nil))
	require.Len(t, unlocks.Unlocks, 2)
	require.Equal(t, finish, unlocks.Unlocks[0].FinishTime)

	balance := decode[types.Balance](t, env.do(t, http.MethodGet, "/v1/balances/"+project.String()+"/ulock", nil))
	require.Equal(t, "650", balance.Amount)
	require.Equal(t, uint64(1), balance.Nonce)

	releasable := decode[types.ReleasableResponse](t, env.do(t, http.MethodGet, "/v1/pools/0/releasable", nil))
	require.Equal(t, "0", releasable.Releasable)
}

func TestServer_IndexFollowsCommits(t *testing.T) {
	env := setupServer(t, nil)
	env.buildPools(t)

	rec := env.submit(t, "registry/MsgTransferPool", map[string]interface{}{
		"sender":  testAddr(1).String(),
		"from":    testAddr(1).String(),
		"to":      testAddr(3).String(),
		"pool_id": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, env.app.LastHeight(), env.srv.Service().SyncedHeight())
	require.Empty(t, env.srv.Service().Index().ByOwner(testAddr(1).String()))
	require.Len(t, env.srv.Service().Index().ByOwner(testAddr(3).String()), 1)

	// withdrawing everything closes the pool and drops it from the calendar
	env.clock.Store(genesis.Unix() + 86_400)
	rec = env.submit(t, "registry/MsgWithdrawPool", map[string]interface{}{
		"sender":  testAddr(3).String(),
		"pool_id": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	due := env.srv.Service().Index().DueBefore(genesis.Unix()+86_401, 0)
	require.Len(t, due, 1)
	require.Equal(t, uint64(1), due[0].PoolID)

	pool, ok := env.srv.Service().Index().Get(0)
	require.True(t, ok)
	require.True(t, pool.Closed)
}

func TestAppService_SyncedHeightOnlyAdvances(t *testing.T) {
	env := setupServer(t, nil)
	svc := env.srv.Service()
	base := svc.SyncedHeight()

	svc.OnCommit(base+2, nil)
	svc.OnCommit(base+1, nil)
	require.Equal(t, base+2, svc.SyncedHeight())

	var wg sync.WaitGroup
	for h := base + 3; h < base+53; h++ {
		wg.Add(1)
		go func(h int64) {
			defer wg.Done()
			svc.OnCommit(h, nil)
		}(h)
	}
	wg.Wait()
	require.Equal(t, base+52, svc.SyncedHeight())
}

func TestServer_ErrorMapping(t *testing.T) {
	env := setupServer(t, nil)
	env.buildPools(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown pool", http.MethodGet, "/v1/pools/99", nil, http.StatusNotFound, "registry_2"},
		{"bad pool id", http.MethodGet, "/v1/pools/abc", nil, http.StatusBadRequest, "invalid_pool_id"},
		{"not a collateral pool", http.MethodGet, "/v1/collateral/0", nil, http.StatusNotFound, "collateral_1"},
		{"bad owner", http.MethodGet, "/v1/owners/nope/pools", nil, http.StatusBadRequest, "registry_8"},
		{"bad limit", http.MethodGet, "/v1/pools?limit=-1", nil, http.StatusBadRequest, "invalid_limit"},
		{"bad json", http.MethodPost, "/v1/tx", "{", http.StatusBadRequest, "invalid_json"},
		{"missing type", http.MethodPost, "/v1/tx", `{"value":{}}`, http.StatusBadRequest, "missing_type"},
		{"unknown type", http.MethodPost, "/v1/tx", `{"type":"x/Nope","value":{}}`, http.StatusBadRequest, "tx_failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			require.Equal(t, tc.code, decode[map[string]string](t, rec)["error"])
		})
	}

	t.Run("wrong authority", func(t *testing.T) {
		rec := env.submit(t, "registry/MsgSetApprovedProvider", map[string]interface{}{
			"authority": "mallory", "provider": testAddr(9).String(), "allowed": true,
		})
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("not owner", func(t *testing.T) {
		rec := env.submit(t, "registry/MsgTransferPool", map[string]interface{}{
			"sender": testAddr(2).String(), "from": testAddr(1).String(), "to": testAddr(3).String(), "pool_id": 0,
		})
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})
}

func TestServer_EncodeRebuild(t *testing.T) {
	env := setupServer(t, nil)
	rec := env.do(t, http.MethodPost, "/v1/rebuild/encode", buildertypes.RebuildRequest{
		TokenSignature:    "0x01",
		MainCoinSignature: "02",
		Allocations: []buildertypes.AllocationEntry{
			{User: testAddr(2).String(), Amount: "300"},
			{User: testAddr(3).String(), Amount: "200"},
		},
		TotalAmount: "500",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[types.EncodeRebuildResponse](t, rec)
	require.True(t, strings.HasPrefix(resp.Payload, "0x"))
	bz, err := hex.DecodeString(strings.TrimPrefix(resp.Payload, "0x"))
	require.NoError(t, err)

	payload, err := buildertypes.DecodeRebuildPayload(bz)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, payload.TokenSignature)
	require.Len(t, payload.Allocations, 2)
	require.Equal(t, testAddr(3), payload.Allocations[1].User)
	require.Equal(t, "500", payload.TotalAmount.String())

	rec = env.do(t, http.MethodPost, "/v1/rebuild/encode", buildertypes.RebuildRequest{TokenSignature: "zz"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_MsgTypes(t *testing.T) {
	env := setupServer(t, nil)
	body := decode[map[string][]string](t, env.do(t, http.MethodGet, "/v1/msg-types", nil))
	require.Contains(t, body["types"], "builder/MsgBuildMassPools")
	require.Contains(t, body["types"], "registry/MsgTransferPool")
}

func TestServer_RateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = middleware.DefaultRateLimitConfig()
	cfg.RateLimit.IPRequestsPerSecond = 1
	cfg.RateLimit.IPBurst = 2
	env := setupServer(t, cfg)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil).Code)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decode[map[string]interface{}](t, rec)["error"])
}

func TestServer_CORSPreflight(t *testing.T) {
	env := setupServer(t, nil)
	rec := env.do(t, http.MethodOptions, "/v1/tx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
