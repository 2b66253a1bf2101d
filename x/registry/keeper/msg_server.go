package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/grantchain/x/registry/types"
)

// MsgServer defines the registry MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateProfile handles MsgCreateProfile
func (m *MsgServer) CreateProfile(ctx context.Context, msg *types.MsgCreateProfile) (*types.MsgCreateProfileResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	profile, err := m.keeper.CreateProfile(sdkCtx, msg.Creator, msg.Nonce, msg.Name, msg.Metadata, msg.Owner, msg.Members)
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateProfileResponse{
		ProfileID: profile.ID,
		Anchor:    profile.Anchor,
	}, nil
}

// UpdateProfileName handles MsgUpdateProfileName
func (m *MsgServer) UpdateProfileName(ctx context.Context, msg *types.MsgUpdateProfileName) (*types.MsgUpdateProfileName, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdateProfileName(sdkCtx, msg.Caller, msg.ProfileID, msg.Name); err != nil {
		return nil, err
	}
	return msg, nil
}

// UpdateProfileMetadata handles MsgUpdateProfileMetadata
func (m *MsgServer) UpdateProfileMetadata(ctx context.Context, msg *types.MsgUpdateProfileMetadata) (*types.MsgUpdateProfileMetadata, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdateProfileMetadata(sdkCtx, msg.Caller, msg.ProfileID, msg.Metadata); err != nil {
		return nil, err
	}
	return msg, nil
}

// AddMembers handles MsgAddMembers
func (m *MsgServer) AddMembers(ctx context.Context, msg *types.MsgAddMembers) (*types.MsgAddMembers, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.AddMembers(sdkCtx, msg.Caller, msg.ProfileID, msg.Members); err != nil {
		return nil, err
	}
	return msg, nil
}

// RemoveMembers handles MsgRemoveMembers
func (m *MsgServer) RemoveMembers(ctx context.Context, msg *types.MsgRemoveMembers) (*types.MsgRemoveMembers, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.RemoveMembers(sdkCtx, msg.Caller, msg.ProfileID, msg.Members); err != nil {
		return nil, err
	}
	return msg, nil
}

// TransferOwnership handles MsgTransferOwnership
func (m *MsgServer) TransferOwnership(ctx context.Context, msg *types.MsgTransferOwnership) (*types.MsgTransferOwnership, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.TransferOwnership(sdkCtx, msg.Caller, msg.ProfileID, msg.NewOwner); err != nil {
		return nil, err
	}
	return msg, nil
}
