package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/openalpha/lockdeal/api/types"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

const maxBodyBytes = 1 << 20

// TxHandler accepts messages for execution
type TxHandler struct {
	service types.TxService
}

// NewTxHandler creates a new tx handler
func NewTxHandler(service types.TxService) *TxHandler {
	return &TxHandler{service: service}
}

// Submit handles POST /v1/tx
func (h *TxHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.TxRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "missing_type", "type is required")
		return
	}

	resp, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "tx_failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MsgTypes handles GET /v1/msg-types
func (h *TxHandler) MsgTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"types": h.service.MsgTypes()})
}

// EncodeRebuild handles POST /v1/rebuild/encode
func (h *TxHandler) EncodeRebuild(w http.ResponseWriter, r *http.Request) {
	var req buildertypes.RebuildRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	resp, err := h.service.EncodeRebuild(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "encode_failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
