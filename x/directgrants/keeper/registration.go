package keeper

import (
	"encoding/json"
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
)

// RegisterRecipient decodes the registration payload, resolves the recipient
// identity, and writes a pending application. Re-registration is allowed only
// while the recipient is still pending; it overwrites the application in
// place and the status stays pending.
func (k *Keeper) RegisterRecipient(ctx sdk.Context, poolID uint64, caller string, data []byte) (string, error) {
	cfg, ok := k.GetConfig(ctx, poolID)
	if !ok {
		return "", types.ErrNotInitialized
	}

	var reg types.RegistrationData
	if err := json.Unmarshal(data, &reg); err != nil {
		return "", types.ErrInvalidRegistration
	}

	recipientID, useAnchor, err := k.resolveIdentity(ctx, cfg, caller, reg.RecipientID)
	if err != nil {
		return "", err
	}

	if cfg.MetadataRequired && reg.Metadata.IsEmpty() {
		return "", types.ErrInvalidMetadata
	}

	grantAmount := math.ZeroInt()
	if reg.GrantAmount != "" {
		grantAmount, ok = math.NewIntFromString(reg.GrantAmount)
		if !ok || grantAmount.IsNegative() {
			return "", types.ErrInvalidGrantAmount
		}
	}
	if cfg.GrantAmountRequired && !grantAmount.IsPositive() {
		return "", types.ErrInvalidGrantAmount
	}

	existing := k.GetRecipient(ctx, poolID, recipientID)
	if existing != nil {
		if existing.Status != allotypes.RecipientStatusPending {
			return "", types.ErrRecipientAlreadyFinalized
		}
		existing.UseRegistryAnchor = useAnchor
		existing.RecipientAddress = reg.RecipientAddress
		existing.GrantAmount = grantAmount
		existing.Metadata = reg.Metadata
		existing.UpdatedAt = time.Now().Unix()
		k.SetRecipient(ctx, poolID, existing)
	} else {
		k.SetRecipient(ctx, poolID, types.NewRecipient(recipientID, useAnchor, reg.RecipientAddress, grantAmount, reg.Metadata))
	}

	// The event carries the full application so read models can be rebuilt
	// from the stream alone. Registration always lands in pending.
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRegistered,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRecipientID, recipientID),
			sdk.NewAttribute(types.AttributeKeyRecipientAddress, reg.RecipientAddress),
			sdk.NewAttribute(types.AttributeKeyStatus, allotypes.RecipientStatusPending),
			sdk.NewAttribute(types.AttributeKeyAmount, grantAmount.String()),
		),
	)

	k.logger.Info("Recipient registered",
		"pool_id", poolID,
		"recipient_id", recipientID,
		"registry_anchor", useAnchor,
	)
	return recipientID, nil
}

// resolveIdentity maps the declared recipient ID to either a registry anchor
// the caller may act for, or the caller's own account. Under registry gating
// an anchor is mandatory.
func (k *Keeper) resolveIdentity(ctx sdk.Context, cfg types.Config, caller, declared string) (string, bool, error) {
	if cfg.RegistryGating {
		if declared == "" {
			return "", false, types.ErrInvalidRegistration
		}
		profile := k.registryKeeper.GetProfileByAnchor(ctx, declared)
		if profile == nil || !profile.IsOwnerOrMember(caller) {
			return "", false, types.ErrUnauthorizedRegistration
		}
		return declared, true, nil
	}

	if declared == "" || declared == caller {
		return caller, false, nil
	}

	// Registering under somebody else's identity still requires membership
	// of the profile the anchor belongs to.
	profile := k.registryKeeper.GetProfileByAnchor(ctx, declared)
	if profile == nil || !profile.IsOwnerOrMember(caller) {
		return "", false, types.ErrUnauthorizedRegistration
	}
	return declared, true, nil
}
