package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized          = errors.Register(ModuleName, 1, "unauthorized")
	ErrNotFound              = errors.Register(ModuleName, 2, "pool not found")
	ErrZeroAddress           = errors.Register(ModuleName, 3, "zero address")
	ErrNotOwnerOrApproved    = errors.Register(ModuleName, 4, "caller is not owner or approved")
	ErrInvalidParams         = errors.Register(ModuleName, 5, "invalid pool params")
	ErrProviderNotRegistered = errors.Register(ModuleName, 6, "provider not registered")
	ErrInvalidPoolProvider   = errors.Register(ModuleName, 7, "caller is not the pool provider")
	ErrInvalidAddress        = errors.Register(ModuleName, 8, "invalid address")
	ErrSelfApproval          = errors.Register(ModuleName, 9, "approval to current owner")
	ErrInvalidGenesis        = errors.Register(ModuleName, 10, "invalid genesis")
)
