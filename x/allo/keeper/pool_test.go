package keeper

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/grantchain/x/allo/types"
	registrykeeper "github.com/openalpha/grantchain/x/registry/keeper"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// bankSend records one transfer through the mock bank keeper
type bankSend struct {
	from   string
	to     string
	amount sdk.Coins
}

// mockBankKeeper records transfers and always succeeds
type mockBankKeeper struct {
	toModule   []bankSend
	fromModule []bankSend
	direct     []bankSend
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	m.toModule = append(m.toModule, bankSend{from: senderAddr.String(), to: recipientModule, amount: amt})
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	m.fromModule = append(m.fromModule, bankSend{from: senderModule, to: recipientAddr.String(), amount: amt})
	return nil
}

func (m *mockBankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	m.direct = append(m.direct, bankSend{from: fromAddr.String(), to: toAddr.String(), amount: amt})
	return nil
}

// stubStrategy satisfies the strategy interface with no-ops
type stubStrategy struct {
	initialized map[uint64][]byte
}

func newStubStrategy() *stubStrategy {
	return &stubStrategy{initialized: make(map[uint64][]byte)}
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Initialize(ctx sdk.Context, poolID uint64, data []byte) error {
	s.initialized[poolID] = data
	return nil
}

func (s *stubStrategy) RegisterRecipient(ctx sdk.Context, poolID uint64, caller string, data []byte) (string, error) {
	return caller, nil
}

func (s *stubStrategy) ReviewRecipients(ctx sdk.Context, poolID uint64, updates []types.StatusUpdate) error {
	return nil
}

func (s *stubStrategy) SubmitMilestones(ctx sdk.Context, poolID uint64, caller, recipientID string, milestones []types.MilestoneInput) error {
	return nil
}

func (s *stubStrategy) ReviewMilestone(ctx sdk.Context, poolID uint64, recipientID string, milestoneIndex uint64, status string) error {
	return nil
}

func (s *stubStrategy) Distribute(ctx sdk.Context, poolID uint64, recipientIDs []string) error {
	return nil
}

func (s *stubStrategy) CancelRecipients(ctx sdk.Context, poolID uint64, recipientIDs []string) error {
	return nil
}

// testEnv bundles the keepers a pool ledger test needs
type testEnv struct {
	keeper    *Keeper
	registry  *registrykeeper.Keeper
	bank      *mockBankKeeper
	strategy  *stubStrategy
	ctx       sdk.Context
	authority string
}

func setupEnv(tb testing.TB) *testEnv {
	tb.Helper()

	alloKey := storetypes.NewKVStoreKey(types.StoreKey)
	registryKey := storetypes.NewKVStoreKey(registrytypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(alloKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(registryKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	bank := &mockBankKeeper{}
	registry := registrykeeper.NewKeeper(cdc, registryKey, log.NewNopLogger())
	authority := testAddr("authority")

	k := NewKeeper(cdc, alloKey, bank, registry, authority, log.NewNopLogger())
	strategy := newStubStrategy()
	k.RegisterStrategy(strategy)

	return &testEnv{
		keeper:    k,
		registry:  registry,
		bank:      bank,
		strategy:  strategy,
		ctx:       ctx,
		authority: authority,
	}
}

// testAddr derives a deterministic bech32 account address from a label
func testAddr(label string) string {
	sum := sha256.Sum256([]byte(label))
	return sdk.AccAddress(sum[:20]).String()
}

// createTestProfile registers a profile and returns it
func (env *testEnv) createTestProfile(tb testing.TB, owner string, nonce uint64) *registrytypes.Profile {
	tb.Helper()
	profile, err := env.registry.CreateProfile(env.ctx, owner, nonce, "Grants Org", registrytypes.Metadata{Protocol: 1, Pointer: "QmOrg"}, "", nil)
	if err != nil {
		tb.Fatalf("CreateProfile failed: %v", err)
	}
	return profile
}

// approveStub allow-lists the stub strategy
func (env *testEnv) approveStub(tb testing.TB) {
	tb.Helper()
	if err := env.keeper.AddCloneableStrategy(env.ctx, env.authority, "stub"); err != nil {
		tb.Fatalf("AddCloneableStrategy failed: %v", err)
	}
}

func nativeCoins(amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(types.NativeDenom, math.NewInt(amount)))
}

func TestAddCloneableStrategy(t *testing.T) {
	env := setupEnv(t)

	// Only the authority may manage the allow list
	if err := env.keeper.AddCloneableStrategy(env.ctx, testAddr("rando"), "stub"); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	// Unwired strategies cannot be allow-listed
	if err := env.keeper.AddCloneableStrategy(env.ctx, env.authority, "ghost"); !errors.Is(err, types.ErrStrategyNotFound) {
		t.Errorf("expected ErrStrategyNotFound, got %v", err)
	}

	env.approveStub(t)
	if !env.keeper.IsCloneableStrategy(env.ctx, "stub") {
		t.Error("expected stub strategy to be allow-listed")
	}

	if err := env.keeper.RemoveCloneableStrategy(env.ctx, env.authority, "stub"); err != nil {
		t.Fatalf("RemoveCloneableStrategy failed: %v", err)
	}
	if env.keeper.IsCloneableStrategy(env.ctx, "stub") {
		t.Error("expected stub strategy to be removed from allow list")
	}
}

func TestCreatePool(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	manager := testAddr("mgr")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	initData := []byte(`{"registry_gating":false}`)
	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", initData, types.NativeDenom, math.NewInt(1000), nativeCoins(1000), types.Metadata{Protocol: 1, Pointer: "QmPool"}, []string{manager})
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	if pool.ID != 1 {
		t.Errorf("expected first pool ID 1, got %d", pool.ID)
	}
	if !pool.Balance.Equal(math.NewInt(1000)) {
		t.Errorf("expected balance 1000, got %s", pool.Balance)
	}
	if !pool.TotalFunded.Equal(math.NewInt(1000)) {
		t.Errorf("expected total funded 1000, got %s", pool.TotalFunded)
	}

	// Creator gets admin, listed managers get manager
	if !env.keeper.IsPoolAdmin(env.ctx, pool, owner) {
		t.Error("expected creator to hold the admin role")
	}
	if !env.keeper.IsPoolManager(env.ctx, pool, manager) {
		t.Error("expected listed manager to hold the manager role")
	}
	// Admin implies manager but not the reverse
	if !env.keeper.IsPoolManager(env.ctx, pool, owner) {
		t.Error("expected admin to pass the manager check")
	}
	if env.keeper.IsPoolAdmin(env.ctx, pool, manager) {
		t.Error("expected manager to fail the admin check")
	}

	// Init data was forwarded to the strategy
	if string(env.strategy.initialized[pool.ID]) != string(initData) {
		t.Error("expected init data to reach the strategy")
	}

	// Funds moved into module custody
	if len(env.bank.toModule) != 1 || env.bank.toModule[0].to != types.ModuleName {
		t.Fatalf("expected one transfer into module custody, got %+v", env.bank.toModule)
	}
}

func TestCreatePoolValidation(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	testCases := []struct {
		name      string
		creator   string
		profileID string
		strategy  string
		amount    math.Int
		value     sdk.Coins
		wantErr   error
	}{
		{
			name:      "unknown profile",
			creator:   owner,
			profileID: "missing",
			strategy:  "stub",
			amount:    math.ZeroInt(),
			value:     sdk.NewCoins(),
			wantErr:   registrytypes.ErrProfileNotFound,
		},
		{
			name:      "creator not owner or member",
			creator:   testAddr("stranger"),
			profileID: profile.ID,
			strategy:  "stub",
			amount:    math.ZeroInt(),
			value:     sdk.NewCoins(),
			wantErr:   types.ErrUnauthorized,
		},
		{
			name:      "strategy not allow-listed",
			creator:   owner,
			profileID: profile.ID,
			strategy:  "ghost",
			amount:    math.ZeroInt(),
			value:     sdk.NewCoins(),
			wantErr:   types.ErrStrategyNotApproved,
		},
		{
			name:      "declared amount without attached value",
			creator:   owner,
			profileID: profile.ID,
			strategy:  "stub",
			amount:    math.NewInt(500),
			value:     sdk.NewCoins(),
			wantErr:   types.ErrAmountMismatch,
		},
		{
			name:      "attached value exceeds declared amount",
			creator:   owner,
			profileID: profile.ID,
			strategy:  "stub",
			amount:    math.NewInt(500),
			value:     nativeCoins(600),
			wantErr:   types.ErrAmountMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.keeper.CreatePool(env.ctx, tc.creator, tc.profileID, tc.strategy, nil, types.NativeDenom, tc.amount, tc.value, types.Metadata{}, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	// Nothing was persisted by the failed attempts
	if len(env.keeper.GetAllPools(env.ctx)) != 0 {
		t.Error("expected no pools after failed creations")
	}
}

func TestFundPool(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", nil, types.NativeDenom, math.ZeroInt(), sdk.NewCoins(), types.Metadata{}, nil)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	funder := testAddr("funder")
	if err := env.keeper.FundPool(env.ctx, funder, pool.ID, math.NewInt(300), nativeCoins(300)); err != nil {
		t.Fatalf("FundPool failed: %v", err)
	}

	got := env.keeper.GetPool(env.ctx, pool.ID)
	if !got.Balance.Equal(math.NewInt(300)) {
		t.Errorf("expected balance 300, got %s", got.Balance)
	}

	// Mismatched attached value must not change anything
	if err := env.keeper.FundPool(env.ctx, funder, pool.ID, math.NewInt(100), nativeCoins(50)); !errors.Is(err, types.ErrAmountMismatch) {
		t.Errorf("expected ErrAmountMismatch, got %v", err)
	}
	if got := env.keeper.GetPool(env.ctx, pool.ID); !got.Balance.Equal(math.NewInt(300)) {
		t.Errorf("expected balance unchanged at 300, got %s", got.Balance)
	}

	if err := env.keeper.FundPool(env.ctx, funder, 99, math.NewInt(100), nativeCoins(100)); !errors.Is(err, types.ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
	if err := env.keeper.FundPool(env.ctx, funder, pool.ID, math.ZeroInt(), sdk.NewCoins()); !errors.Is(err, types.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero amount, got %v", err)
	}
}

func TestFundPoolPercentFee(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	treasury := testAddr("treasury")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	// 1% skim to the treasury on every funding
	env.keeper.SetParams(env.ctx, types.Params{
		Treasury:   treasury,
		PercentFee: math.LegacyNewDecWithPrec(1, 2),
		BaseFee:    math.ZeroInt(),
	})

	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", nil, types.NativeDenom, math.ZeroInt(), sdk.NewCoins(), types.Metadata{}, nil)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	if err := env.keeper.FundPool(env.ctx, testAddr("funder"), pool.ID, math.NewInt(100), nativeCoins(100)); err != nil {
		t.Fatalf("FundPool failed: %v", err)
	}

	got := env.keeper.GetPool(env.ctx, pool.ID)
	if !got.Balance.Equal(math.NewInt(99)) {
		t.Errorf("expected net balance 99 after 1%% fee, got %s", got.Balance)
	}
	if len(env.bank.direct) != 1 || env.bank.direct[0].to != treasury {
		t.Fatalf("expected one treasury transfer, got %+v", env.bank.direct)
	}
	if !env.bank.direct[0].amount.AmountOf(types.NativeDenom).Equal(math.NewInt(1)) {
		t.Errorf("expected treasury fee 1, got %s", env.bank.direct[0].amount)
	}
}

func TestReleaseFunds(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", nil, types.NativeDenom, math.NewInt(500), nativeCoins(500), types.Metadata{}, nil)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	recipient := testAddr("recipient")
	if err := env.keeper.ReleaseFunds(env.ctx, pool.ID, recipient, math.NewInt(200)); err != nil {
		t.Fatalf("ReleaseFunds failed: %v", err)
	}

	got := env.keeper.GetPool(env.ctx, pool.ID)
	if !got.Balance.Equal(math.NewInt(300)) {
		t.Errorf("expected balance 300, got %s", got.Balance)
	}
	if !got.TotalDistributed.Equal(math.NewInt(200)) {
		t.Errorf("expected total distributed 200, got %s", got.TotalDistributed)
	}
	if len(env.bank.fromModule) != 1 || env.bank.fromModule[0].to != recipient {
		t.Fatalf("expected one payout transfer, got %+v", env.bank.fromModule)
	}

	// Over-release is refused and the balance is untouched
	if err := env.keeper.ReleaseFunds(env.ctx, pool.ID, recipient, math.NewInt(301)); !errors.Is(err, types.ErrInsufficientPoolFunds) {
		t.Errorf("expected ErrInsufficientPoolFunds, got %v", err)
	}
	if got := env.keeper.GetPool(env.ctx, pool.ID); !got.Balance.Equal(math.NewInt(300)) {
		t.Errorf("expected balance unchanged at 300, got %s", got.Balance)
	}
}

func TestPoolManagerAdministration(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	manager := testAddr("mgr")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", nil, types.NativeDenom, math.ZeroInt(), sdk.NewCoins(), types.Metadata{}, nil)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	if err := env.keeper.AddPoolManager(env.ctx, owner, pool.ID, manager); err != nil {
		t.Fatalf("AddPoolManager failed: %v", err)
	}
	if !env.keeper.IsPoolManager(env.ctx, pool, manager) {
		t.Error("expected manager role to be granted")
	}

	// Managers cannot grow the role set themselves
	if err := env.keeper.AddPoolManager(env.ctx, manager, pool.ID, testAddr("other")); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for manager, got %v", err)
	}

	if err := env.keeper.RemovePoolManager(env.ctx, owner, pool.ID, manager); err != nil {
		t.Fatalf("RemovePoolManager failed: %v", err)
	}
	if env.keeper.IsPoolManager(env.ctx, pool, manager) {
		t.Error("expected manager role to be revoked")
	}
}

func TestDispatchRequiresRole(t *testing.T) {
	env := setupEnv(t)
	owner := testAddr("alice")
	profile := env.createTestProfile(t, owner, 1)
	env.approveStub(t)

	pool, err := env.keeper.CreatePool(env.ctx, owner, profile.ID, "stub", nil, types.NativeDenom, math.ZeroInt(), sdk.NewCoins(), types.Metadata{}, nil)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	stranger := testAddr("stranger")

	if err := env.keeper.ReviewRecipients(env.ctx, stranger, pool.ID, nil); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for review, got %v", err)
	}
	if err := env.keeper.Distribute(env.ctx, stranger, pool.ID, nil); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for distribute, got %v", err)
	}
	if err := env.keeper.CancelRecipients(env.ctx, stranger, pool.ID, nil); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for cancel, got %v", err)
	}

	// Registration has no role gate; the strategy decides
	if _, err := env.keeper.RegisterRecipient(env.ctx, stranger, pool.ID, nil); err != nil {
		t.Errorf("expected ungated registration to pass through, got %v", err)
	}

	// Unknown pool fails before any role check
	if err := env.keeper.Distribute(env.ctx, owner, 99, nil); !errors.Is(err, types.ErrPoolNotFound) {
		t.Errorf("expected ErrPoolNotFound, got %v", err)
	}
}
