package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/grantchain/x/allo/types"
)

// MsgServer defines the allo MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func parseAmount(s string) (math.Int, error) {
	if s == "" {
		return math.ZeroInt(), nil
	}
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, types.ErrInvalidAmount
	}
	return amount, nil
}

func parseValue(s string) (sdk.Coins, error) {
	if s == "" {
		return sdk.NewCoins(), nil
	}
	return sdk.ParseCoinsNormalized(s)
}

// AddCloneableStrategy handles MsgAddCloneableStrategy
func (m *MsgServer) AddCloneableStrategy(ctx context.Context, msg *types.MsgAddCloneableStrategy) (*types.MsgAddCloneableStrategy, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.AddCloneableStrategy(sdkCtx, msg.Authority, msg.Strategy); err != nil {
		return nil, err
	}
	return msg, nil
}

// RemoveCloneableStrategy handles MsgRemoveCloneableStrategy
func (m *MsgServer) RemoveCloneableStrategy(ctx context.Context, msg *types.MsgRemoveCloneableStrategy) (*types.MsgRemoveCloneableStrategy, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.RemoveCloneableStrategy(sdkCtx, msg.Authority, msg.Strategy); err != nil {
		return nil, err
	}
	return msg, nil
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	value, err := parseValue(msg.Value)
	if err != nil {
		return nil, err
	}

	pool, err := m.keeper.CreatePool(sdkCtx, msg.Creator, msg.ProfileID, msg.Strategy, msg.InitData, msg.Token, amount, value, msg.Metadata, msg.Managers)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreatePoolResponse{PoolID: pool.ID}, nil
}

// FundPool handles MsgFundPool
func (m *MsgServer) FundPool(ctx context.Context, msg *types.MsgFundPool) (*types.MsgFundPool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	value, err := parseValue(msg.Value)
	if err != nil {
		return nil, err
	}

	if err := m.keeper.FundPool(sdkCtx, msg.Funder, msg.PoolID, amount, value); err != nil {
		return nil, err
	}
	return msg, nil
}

// UpdatePoolMetadata handles MsgUpdatePoolMetadata
func (m *MsgServer) UpdatePoolMetadata(ctx context.Context, msg *types.MsgUpdatePoolMetadata) (*types.MsgUpdatePoolMetadata, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdatePoolMetadata(sdkCtx, msg.Caller, msg.PoolID, msg.Metadata); err != nil {
		return nil, err
	}
	return msg, nil
}

// AddPoolManager handles MsgAddPoolManager
func (m *MsgServer) AddPoolManager(ctx context.Context, msg *types.MsgAddPoolManager) (*types.MsgAddPoolManager, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.AddPoolManager(sdkCtx, msg.Caller, msg.PoolID, msg.Manager); err != nil {
		return nil, err
	}
	return msg, nil
}

// RemovePoolManager handles MsgRemovePoolManager
func (m *MsgServer) RemovePoolManager(ctx context.Context, msg *types.MsgRemovePoolManager) (*types.MsgRemovePoolManager, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.RemovePoolManager(sdkCtx, msg.Caller, msg.PoolID, msg.Manager); err != nil {
		return nil, err
	}
	return msg, nil
}

// RegisterRecipient handles MsgRegisterRecipient
func (m *MsgServer) RegisterRecipient(ctx context.Context, msg *types.MsgRegisterRecipient) (*types.MsgRegisterRecipientResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	recipientID, err := m.keeper.RegisterRecipient(sdkCtx, msg.Caller, msg.PoolID, msg.Data)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterRecipientResponse{RecipientID: recipientID}, nil
}

// ReviewRecipients handles MsgReviewRecipients
func (m *MsgServer) ReviewRecipients(ctx context.Context, msg *types.MsgReviewRecipients) (*types.MsgReviewRecipients, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.ReviewRecipients(sdkCtx, msg.Caller, msg.PoolID, msg.Updates); err != nil {
		return nil, err
	}
	return msg, nil
}

// SubmitMilestones handles MsgSubmitMilestones
func (m *MsgServer) SubmitMilestones(ctx context.Context, msg *types.MsgSubmitMilestones) (*types.MsgSubmitMilestones, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.SubmitMilestones(sdkCtx, msg.Caller, msg.PoolID, msg.RecipientID, msg.Milestones); err != nil {
		return nil, err
	}
	return msg, nil
}

// ReviewMilestone handles MsgReviewMilestone
func (m *MsgServer) ReviewMilestone(ctx context.Context, msg *types.MsgReviewMilestone) (*types.MsgReviewMilestone, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.ReviewMilestone(sdkCtx, msg.Caller, msg.PoolID, msg.RecipientID, msg.MilestoneIndex, msg.Status); err != nil {
		return nil, err
	}
	return msg, nil
}

// Distribute handles MsgDistribute
func (m *MsgServer) Distribute(ctx context.Context, msg *types.MsgDistribute) (*types.MsgDistribute, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.Distribute(sdkCtx, msg.Caller, msg.PoolID, msg.RecipientIDs); err != nil {
		return nil, err
	}
	return msg, nil
}

// CancelRecipients handles MsgCancelRecipients
func (m *MsgServer) CancelRecipients(ctx context.Context, msg *types.MsgCancelRecipients) (*types.MsgCancelRecipients, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.CancelRecipients(sdkCtx, msg.Caller, msg.PoolID, msg.RecipientIDs); err != nil {
		return nil, err
	}
	return msg, nil
}
