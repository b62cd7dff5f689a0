package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	refundtypes "github.com/openalpha/lockdeal/x/refund/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

var (
	notFoundErrors = []error{
		registrytypes.ErrNotFound,
		collateraltypes.ErrNotCollateralPool,
		refundtypes.ErrNotRefundPool,
	}
	forbiddenErrors = []error{
		registrytypes.ErrUnauthorized,
		registrytypes.ErrNotOwnerOrApproved,
		registrytypes.ErrInvalidPoolProvider,
		providertypes.ErrUnauthorized,
		collateraltypes.ErrUnauthorized,
		collateraltypes.ErrNotOwner,
		refundtypes.ErrUnauthorized,
		refundtypes.ErrNotOwnerOrApproved,
		buildertypes.ErrUnauthorized,
		buildertypes.ErrInvalidLockDealNFT,
		vaulttypes.ErrUnauthorized,
		vaulttypes.ErrInvalidSignature,
	}
)

// StatusFor maps a module error to an HTTP status
func StatusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range forbiddenErrors {
		if errors.Is(err, target) {
			return http.StatusForbidden
		}
	}
	return http.StatusBadRequest
}

// errorCode is "<codespace>_<code>" for registered errors
func errorCode(err error, fallback string) string {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	if codespace == "" || codespace == errorsmod.UndefinedCodespace {
		return fallback
	}
	return codespace + "_" + strconv.FormatUint(uint64(code), 10)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	writeError(w, StatusFor(err), errorCode(err, fallback), err.Error())
}

func parseUint(w http.ResponseWriter, raw, name string) (uint64, bool) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an unsigned integer")
		return 0, false
	}
	return v, true
}
