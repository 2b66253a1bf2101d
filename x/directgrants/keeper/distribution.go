package keeper

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
)

// Distribute pays out each listed recipient in order. Each recipient's
// transfer and state update land together, but the batch is not atomic: an
// error stops the loop and earlier payouts stand.
func (k *Keeper) Distribute(ctx sdk.Context, poolID uint64, recipientIDs []string) error {
	if _, ok := k.GetConfig(ctx, poolID); !ok {
		return types.ErrNotInitialized
	}

	for _, recipientID := range recipientIDs {
		if err := k.distributeOne(ctx, poolID, recipientID); err != nil {
			return err
		}
	}
	return nil
}

// distributeOne releases the next eligible amount to one recipient. With a
// milestone plan that is the first accepted undistributed milestone; without
// one it is the full remaining grant. The ledger enforces the pool balance.
func (k *Keeper) distributeOne(ctx sdk.Context, poolID uint64, recipientID string) error {
	recipient := k.GetRecipient(ctx, poolID, recipientID)
	if recipient == nil {
		return types.ErrRecipientNotFound
	}
	if recipient.Status != allotypes.RecipientStatusAccepted {
		return types.ErrRecipientNotDistributable
	}
	if recipient.RecipientAddress == "" {
		return types.ErrRecipientNotDistributable
	}

	amount := recipient.Remaining()
	milestones := k.GetMilestones(ctx, poolID, recipientID)
	milestoneIndex := -1
	if len(milestones) > 0 {
		for i := range milestones {
			if milestones[i].ReviewStatus == types.MilestoneStatusAccepted && milestones[i].DistributedAt == 0 {
				milestoneIndex = i
				break
			}
		}
		if milestoneIndex < 0 {
			return types.ErrRecipientNotDistributable
		}
		amount = milestones[milestoneIndex].Amount
	}
	if !amount.IsPositive() {
		return types.ErrRecipientNotDistributable
	}

	if err := k.alloKeeper.ReleaseFunds(ctx, poolID, recipient.RecipientAddress, amount); err != nil {
		return err
	}

	now := time.Now().Unix()
	if milestoneIndex >= 0 {
		milestones[milestoneIndex].DistributedAt = now
		k.SetMilestones(ctx, poolID, recipientID, milestones)
	}

	recipient.Distributed = recipient.Distributed.Add(amount)
	recipient.UpdatedAt = now
	if recipient.GrantAmount.IsPositive() && recipient.Distributed.GTE(recipient.GrantAmount) {
		recipient.Status = allotypes.RecipientStatusCompleted
	}
	k.SetRecipient(ctx, poolID, recipient)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDistributionMade,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	if recipient.Status == allotypes.RecipientStatusCompleted {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRecipientStatusUpdated,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
				sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
				sdk.NewAttribute(types.AttributeKeyStatus, allotypes.RecipientStatusCompleted),
			),
		)
	}

	k.logger.Info("Distribution made",
		"pool_id", poolID,
		"recipient_id", recipientID,
		"amount", amount.String(),
		"status", recipient.Status,
	)
	return nil
}
