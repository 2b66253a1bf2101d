package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPoolNotFound          = errors.Register(ModuleName, 1, "pool not found")
	ErrUnauthorized          = errors.Register(ModuleName, 2, "caller lacks the required pool role")
	ErrStrategyNotApproved   = errors.Register(ModuleName, 3, "strategy is not approved for cloning")
	ErrAmountMismatch        = errors.Register(ModuleName, 4, "attached value does not match declared amount")
	ErrStrategyNotFound      = errors.Register(ModuleName, 5, "strategy not registered")
	ErrTokenMismatch         = errors.Register(ModuleName, 6, "attached token does not match pool token")
	ErrInsufficientPoolFunds = errors.Register(ModuleName, 7, "pool balance insufficient for distribution")
	ErrInvalidAmount         = errors.Register(ModuleName, 8, "amount must be positive")
)
