package api

import (
	"context"
	"encoding/hex"
	"strconv"
	"sync/atomic"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/api/types"
	"github.com/openalpha/lockdeal/app"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

const syncPageSize = 500

// poolEvents are the event types after which the named pools are re-read
var poolEvents = map[string]bool{
	registrytypes.EventTypePoolCreated:     true,
	registrytypes.EventTypePoolUpdated:     true,
	registrytypes.EventTypePoolTransferred: true,
	registrytypes.EventTypePoolWithdrawn:   true,
}

// AppService implements PoolService and TxService against an App. Owner and
// unlock lookups are answered from a PoolIndex fed by committed events.
type AppService struct {
	app    *app.App
	index  *PoolIndex
	logger log.Logger
	synced atomic.Int64
}

var (
	_ types.PoolService = (*AppService)(nil)
	_ types.TxService   = (*AppService)(nil)
)

// NewAppService loads the current pool table into a fresh index and
// subscribes to later commits
func NewAppService(a *app.App, logger log.Logger) (*AppService, error) {
	s := &AppService{
		app:    a,
		index:  NewPoolIndex(),
		logger: logger.With("module", "api"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	a.Subscribe(s.OnCommit)
	return s, nil
}

// Index exposes the off-state pool index
func (s *AppService) Index() *PoolIndex {
	return s.index
}

// SyncedHeight is the height of the last commit applied to the index
func (s *AppService) SyncedHeight() int64 {
	return s.synced.Load()
}

func (s *AppService) load() error {
	var pools []types.Pool
	height := s.app.LastHeight()
	err := s.app.Query(func(ctx sdk.Context) error {
		total := s.app.RegistryKeeper.TotalPools(ctx)
		for start := uint64(0); start < total; start += syncPageSize {
			for _, p := range s.app.RegistryKeeper.GetPools(ctx, start, syncPageSize) {
				pools = append(pools, s.poolView(p))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range pools {
		s.index.Put(p)
	}
	s.advanceSynced(height)
	s.logger.Info("pool index loaded", "pools", len(pools), "height", height)
	return nil
}

// OnCommit re-reads every pool touched by a commit
func (s *AppService) OnCommit(height int64, events []app.Event) {
	touched := make(map[uint64]struct{})
	for _, e := range events {
		if !poolEvents[e.Type] {
			continue
		}
		if id, ok := parsePoolID(e.Attributes[registrytypes.AttributeKeyPoolID]); ok {
			touched[id] = struct{}{}
		}
	}
	if len(touched) > 0 {
		err := s.app.Query(func(ctx sdk.Context) error {
			for id := range touched {
				pool, err := s.app.RegistryKeeper.GetPool(ctx, id)
				if err != nil {
					return err
				}
				s.index.Put(s.poolView(pool))
			}
			return nil
		})
		if err != nil {
			s.logger.Error("pool index update failed", "height", height, "error", err)
			return
		}
	}
	s.advanceSynced(height)
}

// advanceSynced raises the synced height; listeners of concurrent commits
// may run out of order.
func (s *AppService) advanceSynced(height int64) {
	for {
		cur := s.synced.Load()
		if height <= cur || s.synced.CompareAndSwap(cur, height) {
			return
		}
	}
}

func (s *AppService) poolView(p *registrytypes.Pool) types.Pool {
	params := make([]string, len(p.Params))
	for i, v := range p.Params {
		params[i] = v.String()
	}
	view := types.Pool{
		PoolID:   p.PoolID,
		Provider: p.Provider,
		Owner:    p.Owner,
		Token:    p.Token,
		Params:   params,
		Amount:   p.Amount().String(),
		Closed:   p.IsClosed(),
	}
	if provider, ok := s.app.RegistryKeeper.GetProvider(p.Provider); ok {
		view.ProviderName = provider.Name()
	}
	return view
}

// GetPool reads a pool from state
func (s *AppService) GetPool(_ context.Context, poolID uint64) (*types.Pool, error) {
	var view types.Pool
	err := s.app.Query(func(ctx sdk.Context) error {
		pool, err := s.app.RegistryKeeper.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		view = s.poolView(pool)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListPools pages through the pool table in id order
func (s *AppService) ListPools(_ context.Context, start uint64, limit int) (*types.ListPoolsResponse, error) {
	resp := &types.ListPoolsResponse{Pools: []types.Pool{}}
	err := s.app.Query(func(ctx sdk.Context) error {
		resp.Total = s.app.RegistryKeeper.TotalPools(ctx)
		for _, p := range s.app.RegistryKeeper.GetPools(ctx, start, limit) {
			resp.Pools = append(resp.Pools, s.poolView(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n := len(resp.Pools); n > 0 {
		if last := resp.Pools[n-1].PoolID; last+1 < resp.Total {
			resp.Next = last + 1
		}
	}
	return resp, nil
}

// Releasable evaluates the pool's provider rule at the latest block time
func (s *AppService) Releasable(_ context.Context, poolID uint64) (*types.ReleasableResponse, error) {
	var resp types.ReleasableResponse
	err := s.app.Query(func(ctx sdk.Context) error {
		amount, err := s.app.RegistryKeeper.Releasable(ctx, poolID)
		if err != nil {
			return err
		}
		resp = types.ReleasableResponse{
			PoolID:     poolID,
			Releasable: amount.String(),
			At:         ctx.BlockTime().Unix(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// PoolsByOwner answers from the index
func (s *AppService) PoolsByOwner(_ context.Context, owner string) ([]types.Pool, error) {
	if _, err := sdk.AccAddressFromBech32(owner); err != nil {
		return nil, registrytypes.ErrInvalidAddress.Wrap(err.Error())
	}
	return s.index.ByOwner(owner), nil
}

// Unlocks lists open pools finishing before the given time
func (s *AppService) Unlocks(_ context.Context, before int64, limit int) ([]types.Unlock, error) {
	return s.index.DueBefore(before, limit), nil
}

// GetCollateral reads a collateral pool, its record and its refund pools
func (s *AppService) GetCollateral(_ context.Context, poolID uint64) (*types.Collateral, error) {
	var resp types.Collateral
	err := s.app.Query(func(ctx sdk.Context) error {
		record, ok := s.app.CollateralKeeper.GetRecord(ctx, poolID)
		if !ok {
			return collateraltypes.ErrNotCollateralPool.Wrapf("pool %d", poolID)
		}
		pool, err := s.app.RegistryKeeper.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		resp = types.Collateral{
			Pool:           s.poolView(pool),
			RateToWei:      record.RateToWei.String(),
			Token:          record.Token,
			RefundedTokens: record.RefundedTokens.String(),
			RefundPoolIDs:  s.app.RefundKeeper.GetRefundPools(ctx, poolID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.RefundPoolIDs == nil {
		resp.RefundPoolIDs = []uint64{}
	}
	return &resp, nil
}

// GetBalance reads a vault balance and the account's deposit nonce
func (s *AppService) GetBalance(_ context.Context, addr, token string) (*types.Balance, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, registrytypes.ErrInvalidAddress.Wrap(err.Error())
	}
	resp := types.Balance{Address: addr, Token: token}
	err = s.app.Query(func(ctx sdk.Context) error {
		resp.Amount = s.app.VaultKeeper.GetBalance(ctx, acc, token).String()
		resp.Nonce = s.app.VaultKeeper.GetNonce(ctx, acc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit decodes and delivers one message
func (s *AppService) Submit(ctx context.Context, req *types.TxRequest) (*types.TxResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg, err := app.DecodeEnvelope(app.TxEnvelope{Type: req.Type, Value: req.Value})
	if err != nil {
		return nil, err
	}
	res, err := s.app.Deliver(msg)
	if err != nil {
		return nil, err
	}
	events := make([]types.Event, len(res.Events))
	for i, e := range res.Events {
		events[i] = types.Event{Type: e.Type, Attributes: e.Attributes}
	}
	return &types.TxResponse{
		Height:   res.Height,
		MsgType:  res.MsgType,
		Response: res.Response,
		Events:   events,
	}, nil
}

// MsgTypes lists accepted message types
func (s *AppService) MsgTypes() []string {
	return app.MsgTypes()
}

// EncodeRebuild ABI encodes a rebuild command for a collateral transfer
func (s *AppService) EncodeRebuild(_ context.Context, req *buildertypes.RebuildRequest) (*types.EncodeRebuildResponse, error) {
	bz, err := req.Payload()
	if err != nil {
		return nil, err
	}
	return &types.EncodeRebuildResponse{Payload: "0x" + hex.EncodeToString(bz)}, nil
}

func parsePoolID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil
}
