package keeper

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
)

// ReviewRecipients applies a batch of status verdicts atomically: every
// update is validated before any is written, so a single bad entry rejects
// the whole batch without side effects. Validation runs in batch order
// against the staged result of earlier entries, so a later update to the
// same recipient sees the status the batch would leave it in.
func (k *Keeper) ReviewRecipients(ctx sdk.Context, poolID uint64, updates []allotypes.StatusUpdate) error {
	if _, ok := k.GetConfig(ctx, poolID); !ok {
		return types.ErrNotInitialized
	}

	staged := make(map[string]*types.Recipient, len(updates))
	for _, update := range updates {
		recipient, ok := staged[update.RecipientID]
		if !ok {
			recipient = k.GetRecipient(ctx, poolID, update.RecipientID)
			if recipient == nil {
				return types.ErrRecipientNotFound
			}
			staged[update.RecipientID] = recipient
		}
		if !validTransition(recipient.Status, update.NewStatus) {
			return types.ErrInvalidStatusTransition
		}
		recipient.Status = update.NewStatus
	}

	now := time.Now().Unix()
	for _, update := range updates {
		recipient := staged[update.RecipientID]
		recipient.UpdatedAt = now
		k.SetRecipient(ctx, poolID, recipient)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRecipientStatusUpdated,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
				sdk.NewAttribute(types.AttributeKeyRecipientID, update.RecipientID),
				sdk.NewAttribute(types.AttributeKeyStatus, update.NewStatus),
			),
		)
	}

	k.logger.Info("Recipients reviewed", "pool_id", poolID, "count", len(updates))
	return nil
}

// validTransition encodes the reviewer's reachable edges of the recipient
// state machine. Terminal states never transition; completion is only ever
// reached through distribution.
func validTransition(from, to string) bool {
	switch to {
	case allotypes.RecipientStatusAccepted, allotypes.RecipientStatusRejected:
	default:
		return false
	}
	switch from {
	case allotypes.RecipientStatusPending, allotypes.RecipientStatusInReview:
		return true
	}
	return false
}

// CancelRecipients moves recipients to canceled. Validated as a batch the
// same way reviews are; a terminal recipient rejects the whole call, and a
// recipient listed twice is terminal by its second entry.
func (k *Keeper) CancelRecipients(ctx sdk.Context, poolID uint64, recipientIDs []string) error {
	if _, ok := k.GetConfig(ctx, poolID); !ok {
		return types.ErrNotInitialized
	}

	staged := make(map[string]*types.Recipient, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		recipient, ok := staged[recipientID]
		if !ok {
			recipient = k.GetRecipient(ctx, poolID, recipientID)
			if recipient == nil {
				return types.ErrRecipientNotFound
			}
			staged[recipientID] = recipient
		}
		if recipient.IsTerminal() {
			return types.ErrRecipientTerminal
		}
		recipient.Status = allotypes.RecipientStatusCanceled
	}

	now := time.Now().Unix()
	for _, recipientID := range recipientIDs {
		recipient := staged[recipientID]
		recipient.UpdatedAt = now
		k.SetRecipient(ctx, poolID, recipient)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRecipientStatusUpdated,
				sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
				sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
				sdk.NewAttribute(types.AttributeKeyStatus, allotypes.RecipientStatusCanceled),
			),
		)
	}

	k.logger.Info("Recipients canceled", "pool_id", poolID, "count", len(recipientIDs))
	return nil
}
