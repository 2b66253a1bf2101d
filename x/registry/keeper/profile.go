package keeper

import (
	"strconv"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/grantchain/x/registry/types"
)

// CreateProfile registers a new profile for (owner, nonce). The profile ID is
// derived from the pair, so a duplicate registration is detected by a direct
// store lookup. A dedicated anchor custody account is derived and indexed
// alongside the profile.
func (k *Keeper) CreateProfile(ctx sdk.Context, creator string, nonce uint64, name string, metadata types.Metadata, owner string, members []string) (*types.Profile, error) {
	if name == "" {
		return nil, types.ErrEmptyName
	}
	if owner == "" {
		owner = creator
	}

	profileID := types.ProfileID(owner, nonce)
	if k.HasProfile(ctx, profileID) {
		return nil, types.ErrProfileAlreadyExists
	}

	profile := types.NewProfile(nonce, name, metadata, owner, members)
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProfileCreated,
			sdk.NewAttribute(types.AttributeKeyProfileID, profile.ID),
			sdk.NewAttribute(types.AttributeKeyOwner, profile.Owner),
			sdk.NewAttribute(types.AttributeKeyAnchor, profile.Anchor),
			sdk.NewAttribute(types.AttributeKeyName, profile.Name),
			sdk.NewAttribute("nonce", strconv.FormatUint(nonce, 10)),
		),
	)

	k.logger.Info("Profile created",
		"profile_id", profile.ID,
		"owner", profile.Owner,
		"anchor", profile.Anchor,
	)

	return profile, nil
}

// UpdateProfileName changes the display name. Owner only.
func (k *Keeper) UpdateProfileName(ctx sdk.Context, caller, profileID, name string) error {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return types.ErrProfileNotFound
	}
	if !profile.IsOwner(caller) {
		return types.ErrUnauthorized
	}
	if name == "" {
		return types.ErrEmptyName
	}

	profile.Name = name
	profile.UpdatedAt = time.Now().Unix()
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProfileNameUpdated,
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
			sdk.NewAttribute(types.AttributeKeyName, name),
		),
	)
	return nil
}

// UpdateProfileMetadata replaces the metadata pointer. Owner only.
func (k *Keeper) UpdateProfileMetadata(ctx sdk.Context, caller, profileID string, metadata types.Metadata) error {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return types.ErrProfileNotFound
	}
	if !profile.IsOwner(caller) {
		return types.ErrUnauthorized
	}

	profile.Metadata = metadata
	profile.UpdatedAt = time.Now().Unix()
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProfileMetadataSet,
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
		),
	)
	return nil
}

// AddMembers grants membership to each address. Owner only; addresses already
// present are skipped.
func (k *Keeper) AddMembers(ctx sdk.Context, caller, profileID string, members []string) error {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return types.ErrProfileNotFound
	}
	if !profile.IsOwner(caller) {
		return types.ErrUnauthorized
	}

	for _, m := range members {
		if !profile.IsMember(m) {
			profile.Members = append(profile.Members, m)
		}
	}
	profile.UpdatedAt = time.Now().Unix()
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMembersAdded,
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
			sdk.NewAttribute("members", strings.Join(members, ",")),
		),
	)
	return nil
}

// RemoveMembers revokes membership. Owner only.
func (k *Keeper) RemoveMembers(ctx sdk.Context, caller, profileID string, members []string) error {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return types.ErrProfileNotFound
	}
	if !profile.IsOwner(caller) {
		return types.ErrUnauthorized
	}

	remove := make(map[string]bool, len(members))
	for _, m := range members {
		remove[m] = true
	}
	kept := profile.Members[:0]
	for _, m := range profile.Members {
		if !remove[m] {
			kept = append(kept, m)
		}
	}
	profile.Members = kept
	profile.UpdatedAt = time.Now().Unix()
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMembersRemoved,
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
			sdk.NewAttribute("members", strings.Join(members, ",")),
		),
	)
	return nil
}

// TransferOwnership hands the profile to a new owner. Owner only. The anchor
// and profile ID are unaffected; only future authorization changes.
func (k *Keeper) TransferOwnership(ctx sdk.Context, caller, profileID, newOwner string) error {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return types.ErrProfileNotFound
	}
	if !profile.IsOwner(caller) {
		return types.ErrUnauthorized
	}

	profile.Owner = newOwner
	profile.UpdatedAt = time.Now().Unix()
	k.SetProfile(ctx, profile)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOwnershipTransferred,
			sdk.NewAttribute(types.AttributeKeyProfileID, profileID),
			sdk.NewAttribute(types.AttributeKeyNewOwner, newOwner),
		),
	)

	k.logger.Info("Profile ownership transferred",
		"profile_id", profileID,
		"new_owner", newOwner,
	)
	return nil
}
