package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrRecipientNotFound         = errors.Register(ModuleName, 1, "recipient not found")
	ErrUnauthorizedRegistration  = errors.Register(ModuleName, 2, "caller may not register under this recipient identity")
	ErrInvalidMetadata           = errors.Register(ModuleName, 3, "metadata is required for this pool")
	ErrInvalidGrantAmount        = errors.Register(ModuleName, 4, "a non-zero grant amount is required for this pool")
	ErrRecipientAlreadyFinalized = errors.Register(ModuleName, 5, "recipient is past pending and cannot be re-registered")
	ErrInvalidStatusTransition   = errors.Register(ModuleName, 6, "recipient status transition not allowed")
	ErrRecipientNotAccepted      = errors.Register(ModuleName, 7, "recipient is not accepted")
	ErrMilestonesExceedGrant     = errors.Register(ModuleName, 8, "milestone amounts exceed the remaining grant")
	ErrInvalidMilestoneStatus    = errors.Register(ModuleName, 9, "milestone is not reviewable in its current status")
	ErrRecipientNotDistributable = errors.Register(ModuleName, 10, "recipient is not eligible for distribution")
	ErrRecipientTerminal         = errors.Register(ModuleName, 11, "recipient is in a terminal status")
	ErrAlreadyInitialized        = errors.Register(ModuleName, 12, "strategy already initialized for this pool")
	ErrNotInitialized            = errors.Register(ModuleName, 13, "strategy not initialized for this pool")
	ErrInvalidRegistration       = errors.Register(ModuleName, 14, "invalid registration data")
)
