package types

import (
	"context"
	"encoding/json"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

// Pool is a pool as served over HTTP
type Pool struct {
	PoolID       uint64   `json:"pool_id"`
	Provider     string   `json:"provider"`
	ProviderName string   `json:"provider_name,omitempty"`
	Owner        string   `json:"owner"`
	Token        string   `json:"token"`
	Params       []string `json:"params"`
	Amount       string   `json:"amount"`
	Closed       bool     `json:"closed"`
}

// ListPoolsResponse is a page of pools ordered by id
type ListPoolsResponse struct {
	Pools []Pool `json:"pools"`
	Total uint64 `json:"total"`
	Next  uint64 `json:"next,omitempty"`
}

// ReleasableResponse is the amount an owner could withdraw now
type ReleasableResponse struct {
	PoolID     uint64 `json:"pool_id"`
	Releasable string `json:"releasable"`
	At         int64  `json:"at"`
}

// Unlock is an open pool scheduled to be fully releasable at FinishTime
type Unlock struct {
	PoolID     uint64 `json:"pool_id"`
	Owner      string `json:"owner"`
	Token      string `json:"token"`
	Amount     string `json:"amount"`
	StartTime  int64  `json:"start_time,omitempty"`
	FinishTime int64  `json:"finish_time"`
}

// Collateral is a collateral pool with its ledger record
type Collateral struct {
	Pool           Pool     `json:"pool"`
	RateToWei      string   `json:"rate_to_wei"`
	Token          string   `json:"token"`
	RefundedTokens string   `json:"refunded_tokens"`
	RefundPoolIDs  []uint64 `json:"refund_pool_ids"`
}

// Balance is a vault balance
type Balance struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Amount  string `json:"amount"`
	Nonce   uint64 `json:"nonce"`
}

// TxRequest is a signed-off message envelope submitted for execution
type TxRequest struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// TxResponse reports a committed message
type TxResponse struct {
	Height   int64   `json:"height"`
	MsgType  string  `json:"msg_type"`
	Response any     `json:"response"`
	Events   []Event `json:"events"`
}

// Event is a committed module event
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// EncodeRebuildResponse carries a hex encoded rebuild payload
type EncodeRebuildResponse struct {
	Payload string `json:"payload"`
}

// PoolService reads pools and their ledgers
type PoolService interface {
	GetPool(ctx context.Context, poolID uint64) (*Pool, error)
	ListPools(ctx context.Context, start uint64, limit int) (*ListPoolsResponse, error)
	Releasable(ctx context.Context, poolID uint64) (*ReleasableResponse, error)
	PoolsByOwner(ctx context.Context, owner string) ([]Pool, error)
	Unlocks(ctx context.Context, before int64, limit int) ([]Unlock, error)
	GetCollateral(ctx context.Context, poolID uint64) (*Collateral, error)
	GetBalance(ctx context.Context, addr, token string) (*Balance, error)
}

// TxService executes messages
type TxService interface {
	Submit(ctx context.Context, req *TxRequest) (*TxResponse, error)
	MsgTypes() []string
	EncodeRebuild(ctx context.Context, req *buildertypes.RebuildRequest) (*EncodeRebuildResponse, error)
}
