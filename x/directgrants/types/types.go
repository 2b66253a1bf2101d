package types

import (
	"time"

	"cosmossdk.io/math"
	allotypes "github.com/openalpha/grantchain/x/allo/types"
)

// Module name and store key
const (
	ModuleName = "directgrants"
	StoreKey   = ModuleName

	// StrategyName identifies this strategy in the allo allow list.
	StrategyName = "direct-grants"
)

// Metadata aliases the shared opaque metadata type.
type Metadata = allotypes.Metadata

// Milestone review status values
const (
	MilestoneStatusNone     = "none"
	MilestoneStatusPending  = "pending"
	MilestoneStatusAccepted = "accepted"
	MilestoneStatusRejected = "rejected"
)

// Config is the per-pool strategy configuration, set once at pool creation
// through initStrategyData and immutable afterwards.
type Config struct {
	RegistryGating      bool `json:"registry_gating"`
	MetadataRequired    bool `json:"metadata_required"`
	GrantAmountRequired bool `json:"grant_amount_required"`
}

// RegistrationData is the strategy-specific payload forwarded opaquely
// through the pool ledger's registerRecipient.
type RegistrationData struct {
	RecipientID      string   `json:"recipient_id,omitempty"`
	RecipientAddress string   `json:"recipient_address,omitempty"`
	GrantAmount      string   `json:"grant_amount,omitempty"`
	Metadata         Metadata `json:"metadata"`
}

// Recipient tracks one grant lifecycle inside a pool.
type Recipient struct {
	RecipientID            string   `json:"recipient_id"`
	UseRegistryAnchor      bool     `json:"use_registry_anchor"`
	RecipientAddress       string   `json:"recipient_address,omitempty"`
	GrantAmount            math.Int `json:"grant_amount"`
	Distributed            math.Int `json:"distributed"`
	Metadata               Metadata `json:"metadata"`
	Status                 string   `json:"status"`
	MilestonesReviewStatus string   `json:"milestones_review_status"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewRecipient creates a pending recipient record.
func NewRecipient(recipientID string, useRegistryAnchor bool, recipientAddress string, grantAmount math.Int, metadata Metadata) *Recipient {
	now := time.Now().Unix()
	return &Recipient{
		RecipientID:            recipientID,
		UseRegistryAnchor:      useRegistryAnchor,
		RecipientAddress:       recipientAddress,
		GrantAmount:            grantAmount,
		Distributed:            math.ZeroInt(),
		Metadata:               metadata,
		Status:                 allotypes.RecipientStatusPending,
		MilestonesReviewStatus: MilestoneStatusNone,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// IsTerminal reports whether the recipient can never change status again.
func (r *Recipient) IsTerminal() bool {
	switch r.Status {
	case allotypes.RecipientStatusRejected,
		allotypes.RecipientStatusCanceled,
		allotypes.RecipientStatusCompleted:
		return true
	}
	return false
}

// Remaining returns the undistributed portion of the grant.
func (r *Recipient) Remaining() math.Int {
	return r.GrantAmount.Sub(r.Distributed)
}

// Milestone is one independently reviewable sub-portion of a grant.
type Milestone struct {
	Amount        math.Int `json:"amount"`
	Metadata      Metadata `json:"metadata"`
	ReviewStatus  string   `json:"review_status"`
	DistributedAt int64    `json:"distributed_at"`
}
