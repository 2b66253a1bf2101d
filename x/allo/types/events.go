package types

// Event types and attribute keys emitted by the allo module.
const (
	EventTypeStrategyApproved = "allo_strategy_approved"
	EventTypeStrategyRemoved  = "allo_strategy_removed"
	EventTypePoolCreated      = "allo_pool_created"
	EventTypePoolFunded       = "allo_pool_funded"
	EventTypePoolMetadataSet  = "allo_pool_metadata_updated"
	EventTypeFundsReleased    = "allo_funds_released"
	EventTypeManagerAdded     = "allo_manager_added"
	EventTypeManagerRemoved   = "allo_manager_removed"

	AttributeKeyPoolID    = "pool_id"
	AttributeKeyProfileID = "profile_id"
	AttributeKeyStrategy  = "strategy"
	AttributeKeyToken     = "token"
	AttributeKeyAmount    = "amount"
	AttributeKeyFunder    = "funder"
	AttributeKeyRecipient = "recipient"
	AttributeKeyManager   = "manager"
)
