package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/grantchain/x/allo/types"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// Store key prefixes
var (
	PoolKeyPrefix      = []byte{0x01}
	PoolCountKey       = []byte{0x02}
	CloneableKeyPrefix = []byte{0x03}
	RoleKeyPrefix      = []byte{0x04}
	ParamsKey          = []byte{0x05}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// RegistryKeeper defines the expected interface for the registry module
type RegistryKeeper interface {
	GetProfile(ctx sdk.Context, profileID string) *registrytypes.Profile
	GetProfileByAnchor(ctx sdk.Context, anchor string) *registrytypes.Profile
	IsOwnerOrMember(ctx sdk.Context, profileID, addr string) bool
}

// Keeper manages the allo module state: pools, custody, roles and the
// cloneable strategy allow list.
type Keeper struct {
	cdc            codec.BinaryCodec
	storeKey       storetypes.StoreKey
	bankKeeper     BankKeeper
	registryKeeper RegistryKeeper
	strategies     map[string]types.Strategy
	logger         log.Logger
	authority      string
}

// NewKeeper creates a new allo keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	registryKeeper RegistryKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:            cdc,
		storeKey:       storeKey,
		bankKeeper:     bankKeeper,
		registryKeeper: registryKeeper,
		strategies:     make(map[string]types.Strategy),
		authority:      authority,
		logger:         logger.With("module", "x/allo"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// RegisterStrategy wires a strategy implementation into the keeper. Called
// once at app construction; allow-listing for pool creation is a separate
// on-ledger operation.
func (k *Keeper) RegisterStrategy(s types.Strategy) {
	k.strategies[s.Name()] = s
}

// GetStrategy resolves a wired strategy implementation by name
func (k *Keeper) GetStrategy(name string) types.Strategy {
	return k.strategies[name]
}

// ============ Pool storage ============

func poolKey(poolID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, poolID)
	return append(PoolKeyPrefix, bz...)
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(poolKey(pool.ID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID uint64) *types.Pool {
	store := k.GetStore(ctx)
	bz := store.Get(poolKey(poolID))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools ordered by ID
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// NextPoolID increments and returns the pool counter. Pool IDs start at 1
// and are unique across all pools ever created.
func (k *Keeper) NextPoolID(ctx sdk.Context) uint64 {
	store := k.GetStore(ctx)
	var id uint64
	if bz := store.Get(PoolCountKey); bz != nil {
		id = binary.BigEndian.Uint64(bz)
	}
	id++
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	store.Set(PoolCountKey, bz)
	return id
}

// ============ Cloneable strategy allow list ============

func cloneableKey(name string) []byte {
	return append(CloneableKeyPrefix, []byte(name)...)
}

// IsCloneableStrategy reports whether a strategy template is allow-listed
func (k *Keeper) IsCloneableStrategy(ctx sdk.Context, name string) bool {
	return k.GetStore(ctx).Has(cloneableKey(name))
}

// ============ Roles ============

func roleMemberKey(role, addr string) []byte {
	return append(RoleKeyPrefix, []byte(role+":"+addr)...)
}

// GrantRole adds addr to the role's member set
func (k *Keeper) GrantRole(ctx sdk.Context, role, addr string) {
	k.GetStore(ctx).Set(roleMemberKey(role, addr), []byte{1})
}

// RevokeRole removes addr from the role's member set
func (k *Keeper) RevokeRole(ctx sdk.Context, role, addr string) {
	k.GetStore(ctx).Delete(roleMemberKey(role, addr))
}

// HasRole reports whether addr holds the role
func (k *Keeper) HasRole(ctx sdk.Context, role, addr string) bool {
	return k.GetStore(ctx).Has(roleMemberKey(role, addr))
}

// IsPoolManager reports whether addr holds the pool's manager or admin role.
// Admin is a superset of manager.
func (k *Keeper) IsPoolManager(ctx sdk.Context, pool *types.Pool, addr string) bool {
	return k.HasRole(ctx, pool.ManagerRole, addr) || k.HasRole(ctx, pool.AdminRole, addr)
}

// IsPoolAdmin reports whether addr holds the pool's admin role
func (k *Keeper) IsPoolAdmin(ctx sdk.Context, pool *types.Pool, addr string) bool {
	return k.HasRole(ctx, pool.AdminRole, addr)
}

// ============ Params ============

// SetParams saves the funding fee params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(ParamsKey, bz)
}

// GetParams returns the funding fee params, defaulting to fee-free
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}
