package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/openalpha/lockdeal/api/types"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// PoolHandler serves pool, collateral and balance reads
type PoolHandler struct {
	service types.PoolService
	now     func() time.Time
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(service types.PoolService) *PoolHandler {
	return &PoolHandler{service: service, now: time.Now}
}

// ListPools handles GET /v1/pools?start=&limit=
func (h *PoolHandler) ListPools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var start uint64
	if raw := query.Get("start"); raw != "" {
		v, ok := parseUint(w, raw, "start")
		if !ok {
			return
		}
		start = v
	}
	limit, ok := pageLimit(w, query.Get("limit"))
	if !ok {
		return
	}

	resp, err := h.service.ListPools(r.Context(), start, limit)
	if err != nil {
		writeServiceError(w, err, "list_pools_failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPool handles GET /v1/pools/{id}
func (h *PoolHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUint(w, r.PathValue("id"), "pool_id")
	if !ok {
		return
	}
	pool, err := h.service.GetPool(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "pool_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pool": pool})
}

// Releasable handles GET /v1/pools/{id}/releasable
func (h *PoolHandler) Releasable(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUint(w, r.PathValue("id"), "pool_id")
	if !ok {
		return
	}
	resp, err := h.service.Releasable(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "releasable_failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PoolsByOwner handles GET /v1/owners/{owner}/pools
func (h *PoolHandler) PoolsByOwner(w http.ResponseWriter, r *http.Request) {
	pools, err := h.service.PoolsByOwner(r.Context(), r.PathValue("owner"))
	if err != nil {
		writeServiceError(w, err, "owner_pools_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pools": pools})
}

// Unlocks handles GET /v1/unlocks?before=&limit=. before defaults to now.
func (h *PoolHandler) Unlocks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	before := h.now().Unix()
	if raw := query.Get("before"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_before", "before must be a unix time")
			return
		}
		before = v
	}
	limit, ok := pageLimit(w, query.Get("limit"))
	if !ok {
		return
	}

	unlocks, err := h.service.Unlocks(r.Context(), before, limit)
	if err != nil {
		writeServiceError(w, err, "unlocks_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"before":  before,
		"unlocks": unlocks,
	})
}

// GetCollateral handles GET /v1/collateral/{id}
func (h *PoolHandler) GetCollateral(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUint(w, r.PathValue("id"), "pool_id")
	if !ok {
		return
	}
	resp, err := h.service.GetCollateral(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "collateral_not_found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /v1/balances/{address}/{token}
func (h *PoolHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetBalance(r.Context(), r.PathValue("address"), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err, "balance_failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func pageLimit(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return defaultPageLimit, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
		return 0, false
	}
	if v > maxPageLimit {
		v = maxPageLimit
	}
	return v, true
}
