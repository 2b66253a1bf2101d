package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Recipient status values shared between the pool ledger and strategies.
const (
	RecipientStatusNone      = "none"
	RecipientStatusPending   = "pending"
	RecipientStatusAccepted  = "accepted"
	RecipientStatusRejected  = "rejected"
	RecipientStatusInReview  = "in_review"
	RecipientStatusCanceled  = "canceled"
	RecipientStatusCompleted = "completed"
)

// StatusUpdate is one entry of a batched recipient review.
type StatusUpdate struct {
	RecipientID string `json:"recipient_id"`
	NewStatus   string `json:"new_status"`
}

// MilestoneInput is one milestone descriptor submitted by a recipient.
type MilestoneInput struct {
	Amount   string   `json:"amount"`
	Metadata Metadata `json:"metadata"`
}

// Strategy is the capability interface a pool binds at creation time. The
// pool ledger authorizes callers and forwards; all allocation policy lives
// behind this interface. New strategies are added by implementing it and
// registering with the allo keeper, never by extending the ledger.
type Strategy interface {
	Name() string

	// Initialize configures a fresh per-pool instance from the opaque
	// init data forwarded by createPool.
	Initialize(ctx sdk.Context, poolID uint64, data []byte) error

	// RegisterRecipient decodes strategy-specific registration data and
	// returns the derived recipient ID.
	RegisterRecipient(ctx sdk.Context, poolID uint64, caller string, data []byte) (string, error)

	// ReviewRecipients applies a batch of status transitions atomically.
	ReviewRecipients(ctx sdk.Context, poolID uint64, updates []StatusUpdate) error

	// SubmitMilestones records a recipient's ordered milestone plan.
	SubmitMilestones(ctx sdk.Context, poolID uint64, caller, recipientID string, milestones []MilestoneInput) error

	// ReviewMilestone records a reviewer verdict for one milestone.
	ReviewMilestone(ctx sdk.Context, poolID uint64, recipientID string, milestoneIndex uint64, status string) error

	// Distribute releases funds to each recipient in order, atomic per
	// recipient but not across the batch.
	Distribute(ctx sdk.Context, poolID uint64, recipientIDs []string) error

	// CancelRecipients moves non-terminal recipients to canceled.
	CancelRecipients(ctx sdk.Context, poolID uint64, recipientIDs []string) error
}
