package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidCollateralProvider = errors.Register(ModuleName, 1, "invalid collateral provider")
	ErrUnauthorized              = errors.Register(ModuleName, 2, "unauthorized")
	ErrNotRefundPool             = errors.Register(ModuleName, 3, "pool is not a refund pool")
	ErrNotOwnerOrApproved        = errors.Register(ModuleName, 4, "caller is not owner or approved")
	ErrTokenMismatch             = errors.Register(ModuleName, 5, "token does not match collateral")
	ErrInvalidAddress            = errors.Register(ModuleName, 6, "invalid address")
	ErrInvalidAmount             = errors.Register(ModuleName, 7, "invalid amount")
)
