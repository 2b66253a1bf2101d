package keeper

import (
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
)

// SubmitMilestones records a recipient's ordered payout plan and parks the
// recipient in review until a manager rules on it. The caller must control
// the recipient identity. Resubmission replaces the plan wholesale as long
// as no prior plan was accepted.
func (k *Keeper) SubmitMilestones(ctx sdk.Context, poolID uint64, caller, recipientID string, milestones []allotypes.MilestoneInput) error {
	if _, ok := k.GetConfig(ctx, poolID); !ok {
		return types.ErrNotInitialized
	}

	recipient := k.GetRecipient(ctx, poolID, recipientID)
	if recipient == nil {
		return types.ErrRecipientNotFound
	}
	if !k.controlsIdentity(ctx, recipient, caller) {
		return allotypes.ErrUnauthorized
	}
	switch recipient.Status {
	case allotypes.RecipientStatusAccepted, allotypes.RecipientStatusInReview:
	default:
		return types.ErrRecipientNotAccepted
	}
	if recipient.MilestonesReviewStatus == types.MilestoneStatusAccepted {
		return types.ErrInvalidMilestoneStatus
	}
	if len(milestones) == 0 {
		return types.ErrInvalidRegistration
	}

	plan := make([]types.Milestone, len(milestones))
	total := math.ZeroInt()
	for i, input := range milestones {
		amount, ok := math.NewIntFromString(input.Amount)
		if !ok || !amount.IsPositive() {
			return types.ErrInvalidGrantAmount
		}
		total = total.Add(amount)
		plan[i] = types.Milestone{
			Amount:       amount,
			Metadata:     input.Metadata,
			ReviewStatus: types.MilestoneStatusPending,
		}
	}
	if recipient.GrantAmount.IsPositive() && total.GT(recipient.Remaining()) {
		return types.ErrMilestonesExceedGrant
	}

	k.SetMilestones(ctx, poolID, recipientID, plan)

	recipient.Status = allotypes.RecipientStatusInReview
	recipient.MilestonesReviewStatus = types.MilestoneStatusPending
	recipient.UpdatedAt = time.Now().Unix()
	k.SetRecipient(ctx, poolID, recipient)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMilestonesSubmitted,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
		),
	)

	k.logger.Info("Milestones submitted",
		"pool_id", poolID,
		"recipient_id", recipientID,
		"count", len(plan),
	)
	return nil
}

// ReviewMilestone records a manager verdict for one milestone. An accepted
// verdict releases the recipient from review so distribution can proceed.
func (k *Keeper) ReviewMilestone(ctx sdk.Context, poolID uint64, recipientID string, milestoneIndex uint64, status string) error {
	if status != types.MilestoneStatusAccepted && status != types.MilestoneStatusRejected {
		return types.ErrInvalidMilestoneStatus
	}

	recipient := k.GetRecipient(ctx, poolID, recipientID)
	if recipient == nil {
		return types.ErrRecipientNotFound
	}

	milestones := k.GetMilestones(ctx, poolID, recipientID)
	if milestoneIndex >= uint64(len(milestones)) {
		return types.ErrInvalidMilestoneStatus
	}
	if milestones[milestoneIndex].ReviewStatus != types.MilestoneStatusPending {
		return types.ErrInvalidMilestoneStatus
	}

	milestones[milestoneIndex].ReviewStatus = status
	k.SetMilestones(ctx, poolID, recipientID, milestones)

	// Only an accepted verdict releases the recipient from review. A
	// rejection leaves it in review until a milestone is accepted or a
	// corrected plan is resubmitted.
	recipient.MilestonesReviewStatus = status
	if status == types.MilestoneStatusAccepted && recipient.Status == allotypes.RecipientStatusInReview {
		recipient.Status = allotypes.RecipientStatusAccepted
	}
	recipient.UpdatedAt = time.Now().Unix()
	k.SetRecipient(ctx, poolID, recipient)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMilestoneReviewed,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
			sdk.NewAttribute(types.AttributeKeyMilestoneIndex, strconv.FormatUint(milestoneIndex, 10)),
			sdk.NewAttribute(types.AttributeKeyStatus, status),
		),
	)
	return nil
}

// controlsIdentity reports whether caller may act as the recipient: either
// the recipient is the caller's own account, or it is a registry anchor of a
// profile the caller belongs to.
func (k *Keeper) controlsIdentity(ctx sdk.Context, recipient *types.Recipient, caller string) bool {
	if !recipient.UseRegistryAnchor {
		return recipient.RecipientID == caller
	}
	profile := k.registryKeeper.GetProfileByAnchor(ctx, recipient.RecipientID)
	return profile != nil && profile.IsOwnerOrMember(caller)
}
