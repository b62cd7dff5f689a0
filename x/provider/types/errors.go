package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrInvalidParams       = errors.Register(ModuleName, 1, "invalid params")
	ErrZeroAmount          = errors.Register(ModuleName, 2, "amount must be positive")
	ErrScheduleInvalid     = errors.Register(ModuleName, 3, "invalid schedule")
	ErrNothingToWithdraw   = errors.Register(ModuleName, 4, "nothing to withdraw")
	ErrPoolClosed          = errors.Register(ModuleName, 5, "pool closed")
	ErrUnauthorized        = errors.Register(ModuleName, 6, "unauthorized")
	ErrInvalidPoolProvider = errors.Register(ModuleName, 7, "pool belongs to another provider")
	ErrInvalidAddress      = errors.Register(ModuleName, 8, "invalid address")
	ErrUnknownKind         = errors.Register(ModuleName, 9, "unknown provider kind")
	ErrAmountOverflow      = errors.Register(ModuleName, 10, "amount exceeds 256 bits")
)
