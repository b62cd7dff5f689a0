package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrEmptyInput                = errors.Register(ModuleName, 1, "empty input")
	ErrZeroAmount                = errors.Register(ModuleName, 2, "amount must be positive")
	ErrZeroAddress               = errors.Register(ModuleName, 3, "zero address")
	ErrBatchTooLarge             = errors.Register(ModuleName, 4, "batch too large")
	ErrInvalidProvider           = errors.Register(ModuleName, 5, "invalid provider")
	ErrInvalidLockDealNFT        = errors.Register(ModuleName, 6, "notification not sent by the registry")
	ErrEmptyBytesArray           = errors.Register(ModuleName, 7, "empty payload")
	ErrInvalidCollateralProvider = errors.Register(ModuleName, 8, "invalid collateral provider")
	ErrDecode                    = errors.Register(ModuleName, 9, "payload decode error")
	ErrAmountMismatch            = errors.Register(ModuleName, 10, "allocations do not sum to total amount")
	ErrUnauthorized              = errors.Register(ModuleName, 11, "unauthorized")
	ErrInvalidAddress            = errors.Register(ModuleName, 12, "invalid address")
	ErrInvalidParams             = errors.Register(ModuleName, 13, "invalid params")
)
