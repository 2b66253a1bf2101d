package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/grantchain/x/allo/types"
)

// The pool ledger never implements allocation policy itself: each operation
// below resolves the pool, enforces the role the operation requires, and
// forwards to the bound strategy. Role checks always precede dispatch.

// RegisterRecipient forwards opaque registration data to the pool's bound
// strategy. No role is required; the strategy decides who may register.
func (k *Keeper) RegisterRecipient(ctx sdk.Context, caller string, poolID uint64, data []byte) (string, error) {
	_, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return "", err
	}
	return strategy.RegisterRecipient(ctx, poolID, caller, data)
}

// ReviewRecipients forwards a batched status review. Manager or admin.
func (k *Keeper) ReviewRecipients(ctx sdk.Context, caller string, poolID uint64, updates []types.StatusUpdate) error {
	pool, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return err
	}
	if !k.IsPoolManager(ctx, pool, caller) {
		return types.ErrUnauthorized
	}
	return strategy.ReviewRecipients(ctx, poolID, updates)
}

// SubmitMilestones forwards a recipient's milestone plan. Recipient-facing;
// the strategy verifies the caller controls the recipient identity.
func (k *Keeper) SubmitMilestones(ctx sdk.Context, caller string, poolID uint64, recipientID string, milestones []types.MilestoneInput) error {
	_, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return err
	}
	return strategy.SubmitMilestones(ctx, poolID, caller, recipientID, milestones)
}

// ReviewMilestone forwards a milestone verdict. Manager or admin.
func (k *Keeper) ReviewMilestone(ctx sdk.Context, caller string, poolID uint64, recipientID string, milestoneIndex uint64, status string) error {
	pool, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return err
	}
	if !k.IsPoolManager(ctx, pool, caller) {
		return types.ErrUnauthorized
	}
	return strategy.ReviewMilestone(ctx, poolID, recipientID, milestoneIndex, status)
}

// Distribute forwards a distribution batch. Manager or admin.
func (k *Keeper) Distribute(ctx sdk.Context, caller string, poolID uint64, recipientIDs []string) error {
	pool, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return err
	}
	if !k.IsPoolManager(ctx, pool, caller) {
		return types.ErrUnauthorized
	}
	return strategy.Distribute(ctx, poolID, recipientIDs)
}

// CancelRecipients forwards a cancellation batch. Manager or admin.
func (k *Keeper) CancelRecipients(ctx sdk.Context, caller string, poolID uint64, recipientIDs []string) error {
	pool, strategy, err := k.resolve(ctx, poolID)
	if err != nil {
		return err
	}
	if !k.IsPoolManager(ctx, pool, caller) {
		return types.ErrUnauthorized
	}
	return strategy.CancelRecipients(ctx, poolID, recipientIDs)
}

func (k *Keeper) resolve(ctx sdk.Context, poolID uint64) (*types.Pool, types.Strategy, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, nil, types.ErrPoolNotFound
	}
	strategy := k.GetStrategy(pool.StrategyName)
	if strategy == nil {
		return nil, nil, types.ErrStrategyNotFound
	}
	return pool, strategy, nil
}
