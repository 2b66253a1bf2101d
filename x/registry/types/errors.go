package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrProfileNotFound      = errors.Register(ModuleName, 1, "profile not found")
	ErrProfileAlreadyExists = errors.Register(ModuleName, 2, "profile already exists for owner and nonce")
	ErrUnauthorized         = errors.Register(ModuleName, 3, "caller is not the profile owner")
	ErrInvalidNonce         = errors.Register(ModuleName, 4, "invalid nonce")
	ErrEmptyName            = errors.Register(ModuleName, 5, "profile name must not be empty")
	ErrInvalidAddress       = errors.Register(ModuleName, 6, "invalid address")
)
