package keeper

import (
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/grantchain/x/allo/types"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// AddCloneableStrategy allow-lists a wired strategy template. Authority only.
func (k *Keeper) AddCloneableStrategy(ctx sdk.Context, caller, name string) error {
	if caller != k.authority {
		return types.ErrUnauthorized
	}
	if k.GetStrategy(name) == nil {
		return types.ErrStrategyNotFound
	}

	k.GetStore(ctx).Set(cloneableKey(name), []byte{1})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStrategyApproved,
			sdk.NewAttribute(types.AttributeKeyStrategy, name),
		),
	)

	k.logger.Info("Strategy approved for cloning", "strategy", name)
	return nil
}

// RemoveCloneableStrategy removes a template from the allow list. Authority
// only. Pools already bound to the strategy are unaffected.
func (k *Keeper) RemoveCloneableStrategy(ctx sdk.Context, caller, name string) error {
	if caller != k.authority {
		return types.ErrUnauthorized
	}

	k.GetStore(ctx).Delete(cloneableKey(name))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStrategyRemoved,
			sdk.NewAttribute(types.AttributeKeyStrategy, name),
		),
	)
	return nil
}

// CreatePool creates a profile-scoped pool bound to an allow-listed strategy
// and applies the initial funding transfer. The caller must be the profile's
// owner or a member. For the native token the attached value must equal the
// declared amount exactly; nothing is mutated on a mismatch.
func (k *Keeper) CreatePool(ctx sdk.Context, creator, profileID, strategyName string, initData []byte, token string, amount math.Int, value sdk.Coins, metadata types.Metadata, managers []string) (*types.Pool, error) {
	profile := k.registryKeeper.GetProfile(ctx, profileID)
	if profile == nil {
		return nil, registrytypes.ErrProfileNotFound
	}
	if !profile.IsOwnerOrMember(creator) {
		return nil, types.ErrUnauthorized
	}
	if !k.IsCloneableStrategy(ctx, strategyName) {
		return nil, types.ErrStrategyNotApproved
	}
	strategy := k.GetStrategy(strategyName)
	if strategy == nil {
		return nil, types.ErrStrategyNotFound
	}
	if amount.IsNegative() {
		return nil, types.ErrInvalidAmount
	}
	if token == types.NativeDenom {
		if !value.AmountOf(types.NativeDenom).Equal(amount) {
			return nil, types.ErrAmountMismatch
		}
	}

	poolID := k.NextPoolID(ctx)
	pool := types.NewPool(poolID, profileID, strategyName, token, metadata)

	// Admin to the creator, manager to each listed address.
	k.GrantRole(ctx, pool.AdminRole, creator)
	for _, m := range managers {
		k.GrantRole(ctx, pool.ManagerRole, m)
	}

	if err := strategy.Initialize(ctx, poolID, initData); err != nil {
		return nil, err
	}

	params := k.GetParams(ctx)
	if err := k.collectBaseFee(ctx, creator, params); err != nil {
		return nil, err
	}
	if amount.IsPositive() {
		if err := k.creditPool(ctx, pool, creator, amount, params); err != nil {
			return nil, err
		}
	}

	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
			sdk.NewAttribute(types.AttributeKeyStrategy, strategyName),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)

	k.logger.Info("Pool created",
		"pool_id", poolID,
		"profile_id", profileID,
		"strategy", strategyName,
		"amount", amount.String(),
	)

	return pool, nil
}

// FundPool adds funds to an existing pool. Open to anyone. The native
// attached-value check mirrors createPool.
func (k *Keeper) FundPool(ctx sdk.Context, funder string, poolID uint64, amount math.Int, value sdk.Coins) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	if pool.Token == types.NativeDenom {
		if !value.AmountOf(types.NativeDenom).Equal(amount) {
			return types.ErrAmountMismatch
		}
		for _, coin := range value {
			if coin.Denom != pool.Token {
				return types.ErrTokenMismatch
			}
		}
	}

	if err := k.creditPool(ctx, pool, funder, amount, k.GetParams(ctx)); err != nil {
		return err
	}
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolFunded,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyFunder, funder),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)

	k.logger.Info("Pool funded",
		"pool_id", poolID,
		"funder", funder,
		"amount", amount.String(),
	)
	return nil
}

// creditPool moves amount from funder into module custody, skimming the
// percent fee to the treasury first. The pool record is mutated but not
// persisted; callers save it once all effects are applied.
func (k *Keeper) creditPool(ctx sdk.Context, pool *types.Pool, funder string, amount math.Int, params types.Params) error {
	funderAddr, err := sdk.AccAddressFromBech32(funder)
	if err != nil {
		return err
	}

	fee := math.ZeroInt()
	if params.Treasury != "" && params.PercentFee.IsPositive() {
		fee = params.PercentFee.MulInt(amount).TruncateInt()
	}
	net := amount.Sub(fee)

	if fee.IsPositive() {
		treasuryAddr, err := sdk.AccAddressFromBech32(params.Treasury)
		if err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoins(ctx, funderAddr, treasuryAddr, sdk.NewCoins(sdk.NewCoin(pool.Token, fee))); err != nil {
			return err
		}
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, funderAddr, types.ModuleName, sdk.NewCoins(sdk.NewCoin(pool.Token, net))); err != nil {
		return err
	}

	pool.Balance = pool.Balance.Add(net)
	pool.TotalFunded = pool.TotalFunded.Add(net)
	pool.UpdatedAt = time.Now().Unix()
	return nil
}

// collectBaseFee charges the one-time pool creation fee, if configured.
func (k *Keeper) collectBaseFee(ctx sdk.Context, creator string, params types.Params) error {
	if params.Treasury == "" || !params.BaseFee.IsPositive() {
		return nil
	}
	creatorAddr, err := sdk.AccAddressFromBech32(creator)
	if err != nil {
		return err
	}
	treasuryAddr, err := sdk.AccAddressFromBech32(params.Treasury)
	if err != nil {
		return err
	}
	return k.bankKeeper.SendCoins(ctx, creatorAddr, treasuryAddr, sdk.NewCoins(sdk.NewCoin(types.NativeDenom, params.BaseFee)))
}

// ReleaseFunds pays out from pool custody to a recipient address. Called by
// the bound strategy during distribution; the balance precondition is checked
// here so fund conservation holds no matter what the strategy does.
func (k *Keeper) ReleaseFunds(ctx sdk.Context, poolID uint64, to string, amount math.Int) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	if pool.Balance.LT(amount) {
		return types.ErrInsufficientPoolFunds
	}

	toAddr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, toAddr, sdk.NewCoins(sdk.NewCoin(pool.Token, amount))); err != nil {
		return err
	}

	pool.Balance = pool.Balance.Sub(amount)
	pool.TotalDistributed = pool.TotalDistributed.Add(amount)
	pool.UpdatedAt = time.Now().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundsReleased,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipient, to),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// UpdatePoolMetadata replaces the pool metadata pointer. Manager or admin.
func (k *Keeper) UpdatePoolMetadata(ctx sdk.Context, caller string, poolID uint64, metadata types.Metadata) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !k.IsPoolManager(ctx, pool, caller) {
		return types.ErrUnauthorized
	}

	pool.Metadata = metadata
	pool.UpdatedAt = time.Now().Unix()
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolMetadataSet,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
		),
	)
	return nil
}

// AddPoolManager grants the manager role. Admin only; managers cannot grow
// their own role set.
func (k *Keeper) AddPoolManager(ctx sdk.Context, caller string, poolID uint64, manager string) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !k.IsPoolAdmin(ctx, pool, caller) {
		return types.ErrUnauthorized
	}

	k.GrantRole(ctx, pool.ManagerRole, manager)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeManagerAdded,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyManager, manager),
		),
	)
	return nil
}

// RemovePoolManager revokes the manager role. Admin only.
func (k *Keeper) RemovePoolManager(ctx sdk.Context, caller string, poolID uint64, manager string) error {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !k.IsPoolAdmin(ctx, pool, caller) {
		return types.ErrUnauthorized
	}

	k.RevokeRole(ctx, pool.ManagerRole, manager)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeManagerRemoved,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyManager, manager),
		),
	)
	return nil
}
