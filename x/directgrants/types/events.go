package types

// Event types and attribute keys emitted by the direct grants strategy.
const (
	EventTypeRegistered             = "directgrants_registered"
	EventTypeRecipientStatusUpdated = "directgrants_recipient_status_updated"
	EventTypeMilestonesSubmitted    = "directgrants_milestones_submitted"
	EventTypeMilestoneReviewed      = "directgrants_milestone_reviewed"
	EventTypeDistributionMade       = "directgrants_distribution_made"

	AttributeKeyPoolID           = "pool_id"
	AttributeKeyRecipientID      = "recipient_id"
	AttributeKeyRecipientAddress = "recipient_address"
	AttributeKeyStatus           = "status"
	AttributeKeyAmount           = "amount"
	AttributeKeyMilestoneIndex   = "milestone_index"
)
