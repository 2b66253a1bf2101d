package keeper

import (
	"context"
	"crypto/sha256"
	"encoding/json"
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

	allokeeper "github.com/openalpha/grantchain/x/allo/keeper"
	allotypes "github.com/openalpha/grantchain/x/allo/types"
	"github.com/openalpha/grantchain/x/directgrants/types"
	registrykeeper "github.com/openalpha/grantchain/x/registry/keeper"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// mockBankKeeper always succeeds; pool accounting is tracked by the ledger
type mockBankKeeper struct{}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return nil
}

func (m *mockBankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	return nil
}

// grantsEnv wires the registry, pool ledger and strategy keepers together
// the same way the app does
type grantsEnv struct {
	ctx      sdk.Context
	registry *registrykeeper.Keeper
	allo     *allokeeper.Keeper
	grants   *Keeper
	owner    string
	poolID   uint64
}

func testAddr(label string) string {
	sum := sha256.Sum256([]byte(label))
	return sdk.AccAddress(sum[:20]).String()
}

func mustJSON(tb testing.TB, v interface{}) []byte {
	tb.Helper()
	bz, err := json.Marshal(v)
	if err != nil {
		tb.Fatalf("marshal failed: %v", err)
	}
	return bz
}

// setupGrantsEnv builds the full keeper stack and creates one pool bound to
// the direct grants strategy with the given config and initial funding.
func setupGrantsEnv(tb testing.TB, cfg types.Config, funding int64) *grantsEnv {
	tb.Helper()

	registryKey := storetypes.NewKVStoreKey(registrytypes.StoreKey)
	alloKey := storetypes.NewKVStoreKey(allotypes.StoreKey)
	grantsKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(registryKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(alloKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(grantsKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	authority := testAddr("authority")
	registry := registrykeeper.NewKeeper(cdc, registryKey, log.NewNopLogger())
	allo := allokeeper.NewKeeper(cdc, alloKey, &mockBankKeeper{}, registry, authority, log.NewNopLogger())
	grants := NewKeeper(cdc, grantsKey, allo, registry, log.NewNopLogger())
	allo.RegisterStrategy(grants)

	if err := allo.AddCloneableStrategy(ctx, authority, types.StrategyName); err != nil {
		tb.Fatalf("AddCloneableStrategy failed: %v", err)
	}

	owner := testAddr("pool-owner")
	profile, err := registry.CreateProfile(ctx, owner, 1, "Grants Org", registrytypes.Metadata{Protocol: 1, Pointer: "QmOrg"}, "", nil)
	if err != nil {
		tb.Fatalf("CreateProfile failed: %v", err)
	}

	amount := math.NewInt(funding)
	value := sdk.NewCoins()
	if funding > 0 {
		value = sdk.NewCoins(sdk.NewCoin(allotypes.NativeDenom, amount))
	}
	pool, err := allo.CreatePool(ctx, owner, profile.ID, types.StrategyName, mustJSON(tb, cfg), allotypes.NativeDenom, amount, value, allotypes.Metadata{}, nil)
	if err != nil {
		tb.Fatalf("CreatePool failed: %v", err)
	}

	return &grantsEnv{
		ctx:      ctx,
		registry: registry,
		allo:     allo,
		grants:   grants,
		owner:    owner,
		poolID:   pool.ID,
	}
}

// register runs a registration through the pool ledger dispatch
func (env *grantsEnv) register(tb testing.TB, caller string, data types.RegistrationData) string {
	tb.Helper()
	recipientID, err := env.allo.RegisterRecipient(env.ctx, caller, env.poolID, mustJSON(tb, data))
	if err != nil {
		tb.Fatalf("RegisterRecipient failed: %v", err)
	}
	return recipientID
}

// accept moves one recipient to accepted through the manager review path
func (env *grantsEnv) accept(tb testing.TB, recipientID string) {
	tb.Helper()
	err := env.allo.ReviewRecipients(env.ctx, env.owner, env.poolID, []allotypes.StatusUpdate{
		{RecipientID: recipientID, NewStatus: allotypes.RecipientStatusAccepted},
	})
	if err != nil {
		tb.Fatalf("ReviewRecipients failed: %v", err)
	}
}

func TestGrantLifecycle(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{GrantAmountRequired: true}, 1000)

	applicant := testAddr("applicant")
	payout := testAddr("payout")
	recipientID := env.register(t, applicant, types.RegistrationData{
		RecipientAddress: payout,
		GrantAmount:      "400",
		Metadata:         types.Metadata{Protocol: 1, Pointer: "QmApp"},
	})

	// Without an anchor the identity is the caller's own account
	if recipientID != applicant {
		t.Errorf("expected recipient ID %s, got %s", applicant, recipientID)
	}
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected pending status, got %s", recipient.Status)
	}

	env.accept(t, recipientID)

	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusCompleted {
		t.Errorf("expected completed status after full payout, got %s", recipient.Status)
	}
	if !recipient.Distributed.Equal(math.NewInt(400)) {
		t.Errorf("expected distributed 400, got %s", recipient.Distributed)
	}

	pool := env.allo.GetPool(env.ctx, env.poolID)
	if !pool.Balance.Equal(math.NewInt(600)) {
		t.Errorf("expected pool balance 600, got %s", pool.Balance)
	}
	if !pool.TotalDistributed.Equal(math.NewInt(400)) {
		t.Errorf("expected total distributed 400, got %s", pool.TotalDistributed)
	}

	// Completed recipients cannot be paid again
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Errorf("expected ErrRecipientNotDistributable, got %v", err)
	}
}

func TestRegistrationValidation(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{MetadataRequired: true, GrantAmountRequired: true}, 0)
	applicant := testAddr("applicant")

	testCases := []struct {
		name    string
		data    types.RegistrationData
		wantErr error
	}{
		{
			name:    "missing metadata",
			data:    types.RegistrationData{GrantAmount: "100"},
			wantErr: types.ErrInvalidMetadata,
		},
		{
			name:    "missing grant amount",
			data:    types.RegistrationData{Metadata: types.Metadata{Protocol: 1, Pointer: "Qm"}},
			wantErr: types.ErrInvalidGrantAmount,
		},
		{
			name:    "malformed grant amount",
			data:    types.RegistrationData{GrantAmount: "not-a-number", Metadata: types.Metadata{Protocol: 1, Pointer: "Qm"}},
			wantErr: types.ErrInvalidGrantAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.allo.RegisterRecipient(env.ctx, applicant, env.poolID, mustJSON(t, tc.data))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRegistrationEventAttributes(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 0)

	applicant := testAddr("applicant")
	payout := testAddr("payout")
	recipientID := env.register(t, applicant, types.RegistrationData{
		RecipientAddress: payout,
		GrantAmount:      "400",
	})

	// Read models are rebuilt from events alone, so the registration event
	// must carry the full application, not just its identifiers.
	var attrs map[string]string
	for _, ev := range env.ctx.EventManager().Events() {
		if ev.Type != types.EventTypeRegistered {
			continue
		}
		attrs = make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
	}
	if attrs == nil {
		t.Fatal("expected a registration event")
	}
	if attrs[types.AttributeKeyRecipientID] != recipientID {
		t.Errorf("expected recipient_id %s, got %s", recipientID, attrs[types.AttributeKeyRecipientID])
	}
	if attrs[types.AttributeKeyRecipientAddress] != payout {
		t.Errorf("expected recipient_address %s, got %s", payout, attrs[types.AttributeKeyRecipientAddress])
	}
	if attrs[types.AttributeKeyStatus] != allotypes.RecipientStatusPending {
		t.Errorf("expected status pending, got %q", attrs[types.AttributeKeyStatus])
	}
	if attrs[types.AttributeKeyAmount] != "400" {
		t.Errorf("expected amount 400, got %q", attrs[types.AttributeKeyAmount])
	}
}

func TestRegistryGating(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{RegistryGating: true}, 0)

	member := testAddr("member")
	profile, err := env.registry.CreateProfile(env.ctx, testAddr("org-owner"), 7, "Applicant Org", registrytypes.Metadata{Protocol: 1, Pointer: "QmA"}, "", []string{member})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	// No anchor declared
	if _, err := env.allo.RegisterRecipient(env.ctx, member, env.poolID, mustJSON(t, types.RegistrationData{})); !errors.Is(err, types.ErrInvalidRegistration) {
		t.Errorf("expected ErrInvalidRegistration, got %v", err)
	}

	// Caller outside the profile
	stranger := testAddr("stranger")
	if _, err := env.allo.RegisterRecipient(env.ctx, stranger, env.poolID, mustJSON(t, types.RegistrationData{RecipientID: profile.Anchor})); !errors.Is(err, types.ErrUnauthorizedRegistration) {
		t.Errorf("expected ErrUnauthorizedRegistration, got %v", err)
	}

	// Profile member registering under the org anchor
	recipientID := env.register(t, member, types.RegistrationData{RecipientID: profile.Anchor})
	if recipientID != profile.Anchor {
		t.Errorf("expected recipient ID to be the anchor, got %s", recipientID)
	}
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.UseRegistryAnchor {
		t.Error("expected recipient to be anchor-backed")
	}
}

func TestReRegistration(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 0)
	applicant := testAddr("applicant")

	env.register(t, applicant, types.RegistrationData{GrantAmount: "100"})

	// Pending applications can be overwritten in place
	recipientID := env.register(t, applicant, types.RegistrationData{GrantAmount: "250", RecipientAddress: testAddr("payout")})
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.GrantAmount.Equal(math.NewInt(250)) {
		t.Errorf("expected updated grant amount 250, got %s", recipient.GrantAmount)
	}
	if recipient.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected status to stay pending, got %s", recipient.Status)
	}

	// Once accepted the application is locked
	env.accept(t, recipientID)
	if _, err := env.allo.RegisterRecipient(env.ctx, applicant, env.poolID, mustJSON(t, types.RegistrationData{GrantAmount: "999"})); !errors.Is(err, types.ErrRecipientAlreadyFinalized) {
		t.Errorf("expected ErrRecipientAlreadyFinalized, got %v", err)
	}
	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.GrantAmount.Equal(math.NewInt(250)) {
		t.Errorf("expected grant amount unchanged at 250, got %s", recipient.GrantAmount)
	}
}

func TestBatchReviewAtomicity(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 0)

	first := env.register(t, testAddr("a"), types.RegistrationData{GrantAmount: "10"})
	second := env.register(t, testAddr("b"), types.RegistrationData{GrantAmount: "20"})

	// Second update is an illegal transition, so the first must not apply
	err := env.allo.ReviewRecipients(env.ctx, env.owner, env.poolID, []allotypes.StatusUpdate{
		{RecipientID: first, NewStatus: allotypes.RecipientStatusAccepted},
		{RecipientID: second, NewStatus: allotypes.RecipientStatusCompleted},
	})
	if !errors.Is(err, types.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if got := env.grants.GetRecipient(env.ctx, env.poolID, first); got.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected first recipient untouched, got %s", got.Status)
	}

	// Unknown recipient rejects the batch the same way
	err = env.allo.ReviewRecipients(env.ctx, env.owner, env.poolID, []allotypes.StatusUpdate{
		{RecipientID: first, NewStatus: allotypes.RecipientStatusAccepted},
		{RecipientID: "missing", NewStatus: allotypes.RecipientStatusAccepted},
	})
	if !errors.Is(err, types.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
	if got := env.grants.GetRecipient(env.ctx, env.poolID, first); got.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected first recipient still pending, got %s", got.Status)
	}
}

func TestBatchReviewDuplicateRecipient(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 0)

	recipientID := env.register(t, testAddr("applicant"), types.RegistrationData{GrantAmount: "10"})

	// The second entry must see the staged accepted status, and accepted
	// recipients cannot be rejected by review.
	err := env.allo.ReviewRecipients(env.ctx, env.owner, env.poolID, []allotypes.StatusUpdate{
		{RecipientID: recipientID, NewStatus: allotypes.RecipientStatusAccepted},
		{RecipientID: recipientID, NewStatus: allotypes.RecipientStatusRejected},
	})
	if !errors.Is(err, types.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if got := env.grants.GetRecipient(env.ctx, env.poolID, recipientID); got.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected recipient still pending, got %s", got.Status)
	}

	// Listing a recipient twice in one cancel batch hits the terminal check
	if err := env.allo.CancelRecipients(env.ctx, env.owner, env.poolID, []string{recipientID, recipientID}); !errors.Is(err, types.ErrRecipientTerminal) {
		t.Fatalf("expected ErrRecipientTerminal, got %v", err)
	}
	if got := env.grants.GetRecipient(env.ctx, env.poolID, recipientID); got.Status != allotypes.RecipientStatusPending {
		t.Errorf("expected recipient still pending after failed cancel, got %s", got.Status)
	}
}

func TestDistributeInsufficientFunds(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 100)

	applicant := testAddr("applicant")
	recipientID := env.register(t, applicant, types.RegistrationData{
		RecipientAddress: testAddr("payout"),
		GrantAmount:      "500",
	})
	env.accept(t, recipientID)

	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, allotypes.ErrInsufficientPoolFunds) {
		t.Fatalf("expected ErrInsufficientPoolFunds, got %v", err)
	}

	// Neither the recipient nor the pool moved
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.Distributed.IsZero() {
		t.Errorf("expected nothing distributed, got %s", recipient.Distributed)
	}
	if recipient.Status != allotypes.RecipientStatusAccepted {
		t.Errorf("expected status accepted, got %s", recipient.Status)
	}
	pool := env.allo.GetPool(env.ctx, env.poolID)
	if !pool.Balance.Equal(math.NewInt(100)) {
		t.Errorf("expected pool balance 100, got %s", pool.Balance)
	}
}

func TestDistributeRequiresPayoutAddress(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 100)

	applicant := testAddr("applicant")
	recipientID := env.register(t, applicant, types.RegistrationData{GrantAmount: "50"})
	env.accept(t, recipientID)

	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Errorf("expected ErrRecipientNotDistributable for unset payout address, got %v", err)
	}
}

func TestMilestoneFlow(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 1000)

	applicant := testAddr("applicant")
	recipientID := env.register(t, applicant, types.RegistrationData{
		RecipientAddress: testAddr("payout"),
		GrantAmount:      "300",
	})
	env.accept(t, recipientID)

	// Plan exceeding the grant is refused
	err := env.allo.SubmitMilestones(env.ctx, applicant, env.poolID, recipientID, []allotypes.MilestoneInput{
		{Amount: "200"},
		{Amount: "200"},
	})
	if !errors.Is(err, types.ErrMilestonesExceedGrant) {
		t.Fatalf("expected ErrMilestonesExceedGrant, got %v", err)
	}

	// Only the recipient may submit a plan
	err = env.allo.SubmitMilestones(env.ctx, testAddr("stranger"), env.poolID, recipientID, []allotypes.MilestoneInput{{Amount: "100"}})
	if !errors.Is(err, allotypes.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	err = env.allo.SubmitMilestones(env.ctx, applicant, env.poolID, recipientID, []allotypes.MilestoneInput{
		{Amount: "100", Metadata: types.Metadata{Protocol: 1, Pointer: "Qm1"}},
		{Amount: "200", Metadata: types.Metadata{Protocol: 1, Pointer: "Qm2"}},
	})
	if err != nil {
		t.Fatalf("SubmitMilestones failed: %v", err)
	}

	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusInReview {
		t.Fatalf("expected in_review after submission, got %s", recipient.Status)
	}

	// In review means not distributable yet
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Fatalf("expected ErrRecipientNotDistributable while in review, got %v", err)
	}

	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 0, types.MilestoneStatusAccepted); err != nil {
		t.Fatalf("ReviewMilestone failed: %v", err)
	}
	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusAccepted {
		t.Fatalf("expected accepted after milestone verdict, got %s", recipient.Status)
	}

	// First distribution pays exactly the accepted milestone
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.Distributed.Equal(math.NewInt(100)) {
		t.Errorf("expected distributed 100, got %s", recipient.Distributed)
	}

	// Second milestone still pending review
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Fatalf("expected ErrRecipientNotDistributable for pending milestone, got %v", err)
	}

	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 1, types.MilestoneStatusAccepted); err != nil {
		t.Fatalf("ReviewMilestone failed: %v", err)
	}
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.Distributed.Equal(math.NewInt(300)) {
		t.Errorf("expected full grant distributed, got %s", recipient.Distributed)
	}
	if recipient.Status != allotypes.RecipientStatusCompleted {
		t.Errorf("expected completed, got %s", recipient.Status)
	}
	pool := env.allo.GetPool(env.ctx, env.poolID)
	if !pool.Balance.Equal(math.NewInt(700)) {
		t.Errorf("expected pool balance 700, got %s", pool.Balance)
	}
}

func TestReviewMilestoneValidation(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 100)

	applicant := testAddr("applicant")
	recipientID := env.register(t, applicant, types.RegistrationData{GrantAmount: "100", RecipientAddress: testAddr("payout")})
	env.accept(t, recipientID)

	if err := env.allo.SubmitMilestones(env.ctx, applicant, env.poolID, recipientID, []allotypes.MilestoneInput{{Amount: "100"}}); err != nil {
		t.Fatalf("SubmitMilestones failed: %v", err)
	}

	// Verdict must be accepted or rejected
	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 0, "maybe"); !errors.Is(err, types.ErrInvalidMilestoneStatus) {
		t.Errorf("expected ErrInvalidMilestoneStatus for bad verdict, got %v", err)
	}
	// Index out of range
	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 5, types.MilestoneStatusAccepted); !errors.Is(err, types.ErrInvalidMilestoneStatus) {
		t.Errorf("expected ErrInvalidMilestoneStatus for bad index, got %v", err)
	}

	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 0, types.MilestoneStatusRejected); err != nil {
		t.Fatalf("ReviewMilestone failed: %v", err)
	}
	// Settled milestones cannot be re-reviewed
	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 0, types.MilestoneStatusAccepted); !errors.Is(err, types.ErrInvalidMilestoneStatus) {
		t.Errorf("expected ErrInvalidMilestoneStatus for settled milestone, got %v", err)
	}

	// A rejected plan leaves nothing distributable
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Errorf("expected ErrRecipientNotDistributable, got %v", err)
	}
}

func TestRejectedMilestoneKeepsRecipientInReview(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 1000)

	applicant := testAddr("applicant")
	recipientID := env.register(t, applicant, types.RegistrationData{
		RecipientAddress: testAddr("payout"),
		GrantAmount:      "200",
	})
	env.accept(t, recipientID)

	if err := env.allo.SubmitMilestones(env.ctx, applicant, env.poolID, recipientID, []allotypes.MilestoneInput{
		{Amount: "100"},
		{Amount: "100"},
	}); err != nil {
		t.Fatalf("SubmitMilestones failed: %v", err)
	}

	// A rejected verdict keeps the recipient parked in review
	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 0, types.MilestoneStatusRejected); err != nil {
		t.Fatalf("ReviewMilestone failed: %v", err)
	}
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusInReview {
		t.Fatalf("expected in_review after rejection, got %s", recipient.Status)
	}
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientNotDistributable) {
		t.Fatalf("expected ErrRecipientNotDistributable while in review, got %v", err)
	}

	// Accepting the other milestone releases the recipient
	if err := env.allo.ReviewMilestone(env.ctx, env.owner, env.poolID, recipientID, 1, types.MilestoneStatusAccepted); err != nil {
		t.Fatalf("ReviewMilestone failed: %v", err)
	}
	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusAccepted {
		t.Fatalf("expected accepted after acceptance, got %s", recipient.Status)
	}

	// Distribution pays the accepted milestone, skipping the rejected one
	if err := env.allo.Distribute(env.ctx, env.owner, env.poolID, []string{recipientID}); err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	recipient = env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if !recipient.Distributed.Equal(math.NewInt(100)) {
		t.Errorf("expected distributed 100, got %s", recipient.Distributed)
	}
}

func TestCancelRecipients(t *testing.T) {
	env := setupGrantsEnv(t, types.Config{}, 0)

	recipientID := env.register(t, testAddr("applicant"), types.RegistrationData{GrantAmount: "10"})

	if err := env.allo.CancelRecipients(env.ctx, env.owner, env.poolID, []string{recipientID}); err != nil {
		t.Fatalf("CancelRecipients failed: %v", err)
	}
	recipient := env.grants.GetRecipient(env.ctx, env.poolID, recipientID)
	if recipient.Status != allotypes.RecipientStatusCanceled {
		t.Errorf("expected canceled, got %s", recipient.Status)
	}

	// Terminal recipients reject the whole batch
	if err := env.allo.CancelRecipients(env.ctx, env.owner, env.poolID, []string{recipientID}); !errors.Is(err, types.ErrRecipientTerminal) {
		t.Errorf("expected ErrRecipientTerminal, got %v", err)
	}

	// Canceled recipients cannot be reviewed back to life
	err := env.allo.ReviewRecipients(env.ctx, env.owner, env.poolID, []allotypes.StatusUpdate{
		{RecipientID: recipientID, NewStatus: allotypes.RecipientStatusAccepted},
	})
	if !errors.Is(err, types.ErrInvalidStatusTransition) {
		t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
	}
}
