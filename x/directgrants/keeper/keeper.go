package keeper

import (
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

var _ allotypes.Strategy = (*Keeper)(nil)

// Store key prefixes. Every record is scoped by pool ID so one keeper
// serves any number of pools bound to this strategy.
var (
	ConfigKeyPrefix    = []byte{0x01}
	RecipientKeyPrefix = []byte{0x02}
	MilestoneKeyPrefix = []byte{0x03}
)

// AlloKeeper is the slice of the pool ledger this strategy needs: custody
// release only. Balances and fund conservation stay the ledger's problem.
type AlloKeeper interface {
	ReleaseFunds(ctx sdk.Context, poolID uint64, to string, amount math.Int) error
}

// RegistryKeeper resolves anchor identities for gated registration.
type RegistryKeeper interface {
	GetProfileByAnchor(ctx sdk.Context, anchor string) *registrytypes.Profile
}

// Keeper implements the direct grants allocation strategy.
type Keeper struct {
	cdc            codec.BinaryCodec
	storeKey       storetypes.StoreKey
	alloKeeper     AlloKeeper
	registryKeeper RegistryKeeper
	logger         log.Logger
}

// NewKeeper creates a new direct grants keeper
func NewKeeper(cdc codec.BinaryCodec, storeKey storetypes.StoreKey, alloKeeper AlloKeeper, registryKeeper RegistryKeeper, logger log.Logger) *Keeper {
	return &Keeper{
		cdc:            cdc,
		storeKey:       storeKey,
		alloKeeper:     alloKeeper,
		registryKeeper: registryKeeper,
		logger:         logger.With("module", "x/directgrants"),
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

// Name returns the strategy identifier used in the allo allow list.
func (k *Keeper) Name() string {
	return types.StrategyName
}

func poolScoped(prefix []byte, poolID uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], poolID)
	return key
}

func configKey(poolID uint64) []byte {
	return poolScoped(ConfigKeyPrefix, poolID)
}

func recipientKey(poolID uint64, recipientID string) []byte {
	return append(poolScoped(RecipientKeyPrefix, poolID), []byte(recipientID)...)
}

func milestonesKey(poolID uint64, recipientID string) []byte {
	return append(poolScoped(MilestoneKeyPrefix, poolID), []byte(recipientID)...)
}

// Initialize decodes per-pool configuration from the opaque init data
// forwarded by the pool ledger. Empty data yields the zero config.
func (k *Keeper) Initialize(ctx sdk.Context, poolID uint64, data []byte) error {
	store := k.GetStore(ctx)
	if store.Has(configKey(poolID)) {
		return types.ErrAlreadyInitialized
	}

	var cfg types.Config
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return types.ErrInvalidRegistration
		}
	}

	bz, _ := json.Marshal(cfg)
	store.Set(configKey(poolID), bz)

	k.logger.Info("Strategy initialized",
		"pool_id", poolID,
		"registry_gating", cfg.RegistryGating,
		"metadata_required", cfg.MetadataRequired,
		"grant_amount_required", cfg.GrantAmountRequired,
	)
	return nil
}

// GetConfig returns the per-pool configuration.
func (k *Keeper) GetConfig(ctx sdk.Context, poolID uint64) (types.Config, bool) {
	bz := k.GetStore(ctx).Get(configKey(poolID))
	if bz == nil {
		return types.Config{}, false
	}
	var cfg types.Config
	if err := json.Unmarshal(bz, &cfg); err != nil {
		return types.Config{}, false
	}
	return cfg, true
}

// SetRecipient saves a recipient record
func (k *Keeper) SetRecipient(ctx sdk.Context, poolID uint64, recipient *types.Recipient) {
	bz, _ := json.Marshal(recipient)
	k.GetStore(ctx).Set(recipientKey(poolID, recipient.RecipientID), bz)
}

// GetRecipient retrieves a recipient record, nil when absent
func (k *Keeper) GetRecipient(ctx sdk.Context, poolID uint64, recipientID string) *types.Recipient {
	bz := k.GetStore(ctx).Get(recipientKey(poolID, recipientID))
	if bz == nil {
		return nil
	}
	var recipient types.Recipient
	if err := json.Unmarshal(bz, &recipient); err != nil {
		return nil
	}
	return &recipient
}

// GetAllRecipients returns every recipient registered in a pool
func (k *Keeper) GetAllRecipients(ctx sdk.Context, poolID uint64) []*types.Recipient {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, poolScoped(RecipientKeyPrefix, poolID))
	defer iterator.Close()

	var recipients []*types.Recipient
	for ; iterator.Valid(); iterator.Next() {
		var recipient types.Recipient
		if err := json.Unmarshal(iterator.Value(), &recipient); err != nil {
			continue
		}
		recipients = append(recipients, &recipient)
	}
	return recipients
}

// SetMilestones replaces the ordered milestone list for a recipient
func (k *Keeper) SetMilestones(ctx sdk.Context, poolID uint64, recipientID string, milestones []types.Milestone) {
	bz, _ := json.Marshal(milestones)
	k.GetStore(ctx).Set(milestonesKey(poolID, recipientID), bz)
}

// GetMilestones retrieves the ordered milestone list, nil when none submitted
func (k *Keeper) GetMilestones(ctx sdk.Context, poolID uint64, recipientID string) []types.Milestone {
	bz := k.GetStore(ctx).Get(milestonesKey(poolID, recipientID))
	if bz == nil {
		return nil
	}
	var milestones []types.Milestone
	if err := json.Unmarshal(bz, &milestones); err != nil {
		return nil
	}
	return milestones
}
