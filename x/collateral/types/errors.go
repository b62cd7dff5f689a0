package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrNotCollateralPool      = errors.Register(ModuleName, 1, "pool is not a collateral pool")
	ErrUnauthorized           = errors.Register(ModuleName, 2, "unauthorized")
	ErrInvalidRate            = errors.Register(ModuleName, 3, "rate must be positive")
	ErrZeroAmount             = errors.Register(ModuleName, 4, "amount must be positive")
	ErrRefundWindowClosed     = errors.Register(ModuleName, 5, "collateral finish time reached")
	ErrInsufficientCollateral = errors.Register(ModuleName, 6, "insufficient collateral")
	ErrNotFinished            = errors.Register(ModuleName, 7, "collateral still active")
	ErrNothingToClaim         = errors.Register(ModuleName, 8, "nothing to claim")
	ErrNotOwner               = errors.Register(ModuleName, 9, "caller is not the pool owner")
	ErrInvalidAddress         = errors.Register(ModuleName, 10, "invalid address")
	ErrInvalidToken           = errors.Register(ModuleName, 11, "invalid token")
	ErrInvalidFinishTime      = errors.Register(ModuleName, 12, "invalid finish time")
	ErrInvalidAmount          = errors.Register(ModuleName, 13, "amount out of range")
)
