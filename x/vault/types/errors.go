package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized      = errors.Register(ModuleName, 1, "unauthorized")
	ErrInvalidAmount     = errors.Register(ModuleName, 2, "invalid amount")
	ErrInsufficientFunds = errors.Register(ModuleName, 3, "insufficient funds")
	ErrInvalidSignature  = errors.Register(ModuleName, 4, "invalid signature")
	ErrInvalidToken      = errors.Register(ModuleName, 5, "invalid token")
	ErrInvalidAddress    = errors.Register(ModuleName, 6, "invalid address")
	ErrInvalidGenesis    = errors.Register(ModuleName, 7, "invalid genesis")
)
