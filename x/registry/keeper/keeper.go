package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/grantchain/x/registry/types"
)

// Store key prefixes
var (
	ProfileKeyPrefix = []byte{0x01}
	AnchorKeyPrefix  = []byte{0x02}
)

// Keeper manages the registry module state
type Keeper struct {
	cdc      codec.BinaryCodec
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new registry keeper
func NewKeeper(cdc codec.BinaryCodec, storeKey storetypes.StoreKey, logger log.Logger) *Keeper {
	return &Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		logger:   logger.With("module", "x/registry"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func profileKey(profileID string) []byte {
	return append(ProfileKeyPrefix, []byte(profileID)...)
}

func anchorKey(anchor string) []byte {
	return append(AnchorKeyPrefix, []byte(anchor)...)
}

// SetProfile saves a profile and its anchor reverse index
func (k *Keeper) SetProfile(ctx sdk.Context, profile *types.Profile) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(profile)
	store.Set(profileKey(profile.ID), bz)
	store.Set(anchorKey(profile.Anchor), []byte(profile.ID))
}

// GetProfile retrieves a profile by ID
func (k *Keeper) GetProfile(ctx sdk.Context, profileID string) *types.Profile {
	store := k.GetStore(ctx)
	bz := store.Get(profileKey(profileID))
	if bz == nil {
		return nil
	}
	var profile types.Profile
	if err := json.Unmarshal(bz, &profile); err != nil {
		return nil
	}
	return &profile
}

// GetProfileByAnchor resolves a profile through its anchor custody account
func (k *Keeper) GetProfileByAnchor(ctx sdk.Context, anchor string) *types.Profile {
	store := k.GetStore(ctx)
	bz := store.Get(anchorKey(anchor))
	if bz == nil {
		return nil
	}
	return k.GetProfile(ctx, string(bz))
}

// HasProfile reports whether a profile exists for the given ID
func (k *Keeper) HasProfile(ctx sdk.Context, profileID string) bool {
	return k.GetStore(ctx).Has(profileKey(profileID))
}

// GetAllProfiles returns every registered profile
func (k *Keeper) GetAllProfiles(ctx sdk.Context) []*types.Profile {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ProfileKeyPrefix)
	defer iterator.Close()

	var profiles []*types.Profile
	for ; iterator.Valid(); iterator.Next() {
		var profile types.Profile
		if err := json.Unmarshal(iterator.Value(), &profile); err != nil {
			continue
		}
		profiles = append(profiles, &profile)
	}
	return profiles
}

// IsOwnerOrMember reports whether addr may act for the profile. Consumed by
// the allo module for pool creation and registry-gated registration checks.
func (k *Keeper) IsOwnerOrMember(ctx sdk.Context, profileID, addr string) bool {
	profile := k.GetProfile(ctx, profileID)
	if profile == nil {
		return false
	}
	return profile.IsOwnerOrMember(addr)
}
