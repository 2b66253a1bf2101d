package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgAddCloneableStrategy    = "add_cloneable_strategy"
	TypeMsgRemoveCloneableStrategy = "remove_cloneable_strategy"
	TypeMsgCreatePool              = "create_pool"
	TypeMsgFundPool                = "fund_pool"
	TypeMsgUpdatePoolMetadata      = "update_pool_metadata"
	TypeMsgAddPoolManager          = "add_pool_manager"
	TypeMsgRemovePoolManager       = "remove_pool_manager"
	TypeMsgRegisterRecipient       = "register_recipient"
	TypeMsgReviewRecipients        = "review_recipients"
	TypeMsgSubmitMilestones        = "submit_milestones"
	TypeMsgReviewMilestone         = "review_milestone"
	TypeMsgDistribute              = "distribute"
	TypeMsgCancelRecipients        = "cancel_recipients"
)

// MsgAddCloneableStrategy allow-lists a registered strategy template
type MsgAddCloneableStrategy struct {
	Authority string `json:"authority"`
	Strategy  string `json:"strategy"`
}

func (msg MsgAddCloneableStrategy) Route() string { return ModuleName }
func (msg MsgAddCloneableStrategy) Type() string  { return TypeMsgAddCloneableStrategy }

func (msg MsgAddCloneableStrategy) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Strategy == "" {
		return ErrStrategyNotFound
	}
	return nil
}

func (msg MsgAddCloneableStrategy) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

func (*MsgAddCloneableStrategy) ProtoMessage()    {}
func (msg *MsgAddCloneableStrategy) Reset()       { *msg = MsgAddCloneableStrategy{} }
func (msg MsgAddCloneableStrategy) String() string {
	return fmt.Sprintf("MsgAddCloneableStrategy{Strategy: %s}", msg.Strategy)
}

// MsgRemoveCloneableStrategy removes a template from the allow list
type MsgRemoveCloneableStrategy struct {
	Authority string `json:"authority"`
	Strategy  string `json:"strategy"`
}

func (msg MsgRemoveCloneableStrategy) Route() string { return ModuleName }
func (msg MsgRemoveCloneableStrategy) Type() string  { return TypeMsgRemoveCloneableStrategy }

func (msg MsgRemoveCloneableStrategy) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	return nil
}

func (msg MsgRemoveCloneableStrategy) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

func (*MsgRemoveCloneableStrategy) ProtoMessage()    {}
func (msg *MsgRemoveCloneableStrategy) Reset()       { *msg = MsgRemoveCloneableStrategy{} }
func (msg MsgRemoveCloneableStrategy) String() string {
	return fmt.Sprintf("MsgRemoveCloneableStrategy{Strategy: %s}", msg.Strategy)
}

// MsgCreatePool creates a profile-scoped pool with an initial funding
// transfer. Value carries the coins attached to the call; for the native
// token it must equal Amount exactly.
type MsgCreatePool struct {
	Creator   string   `json:"creator"`
	ProfileID string   `json:"profile_id"`
	Strategy  string   `json:"strategy"`
	InitData  []byte   `json:"init_data,omitempty"`
	Token     string   `json:"token"`
	Amount    string   `json:"amount"`
	Value     string   `json:"value,omitempty"`
	Metadata  Metadata `json:"metadata"`
	Managers  []string `json:"managers,omitempty"`
}

func (msg MsgCreatePool) Route() string { return ModuleName }
func (msg MsgCreatePool) Type() string  { return TypeMsgCreatePool }

func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return err
	}
	if msg.Strategy == "" {
		return ErrStrategyNotFound
	}
	for _, m := range msg.Managers {
		if _, err := sdk.AccAddressFromBech32(m); err != nil {
			return err
		}
	}
	return nil
}

func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

func (*MsgCreatePool) ProtoMessage()    {}
func (msg *MsgCreatePool) Reset()       { *msg = MsgCreatePool{} }
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Creator: %s, ProfileID: %s, Strategy: %s, Amount: %s}", msg.Creator, msg.ProfileID, msg.Strategy, msg.Amount)
}

// MsgCreatePoolResponse is the createPool response
type MsgCreatePoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

// MsgFundPool adds funds to an existing pool. Open to anyone.
type MsgFundPool struct {
	Funder string `json:"funder"`
	PoolID uint64 `json:"pool_id"`
	Amount string `json:"amount"`
	Value  string `json:"value,omitempty"`
}

func (msg MsgFundPool) Route() string { return ModuleName }
func (msg MsgFundPool) Type() string  { return TypeMsgFundPool }

func (msg MsgFundPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Funder); err != nil {
		return err
	}
	return nil
}

func (msg MsgFundPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Funder)
	return []sdk.AccAddress{addr}
}

func (*MsgFundPool) ProtoMessage()    {}
func (msg *MsgFundPool) Reset()       { *msg = MsgFundPool{} }
func (msg MsgFundPool) String() string {
	return fmt.Sprintf("MsgFundPool{Funder: %s, PoolID: %d, Amount: %s}", msg.Funder, msg.PoolID, msg.Amount)
}

// MsgUpdatePoolMetadata replaces a pool's metadata pointer
type MsgUpdatePoolMetadata struct {
	Caller   string   `json:"caller"`
	PoolID   uint64   `json:"pool_id"`
	Metadata Metadata `json:"metadata"`
}

func (msg MsgUpdatePoolMetadata) Route() string { return ModuleName }
func (msg MsgUpdatePoolMetadata) Type() string  { return TypeMsgUpdatePoolMetadata }

func (msg MsgUpdatePoolMetadata) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgUpdatePoolMetadata) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgUpdatePoolMetadata) ProtoMessage()    {}
func (msg *MsgUpdatePoolMetadata) Reset()       { *msg = MsgUpdatePoolMetadata{} }
func (msg MsgUpdatePoolMetadata) String() string {
	return fmt.Sprintf("MsgUpdatePoolMetadata{PoolID: %d}", msg.PoolID)
}

// MsgAddPoolManager grants the pool manager role. Admin only.
type MsgAddPoolManager struct {
	Caller  string `json:"caller"`
	PoolID  uint64 `json:"pool_id"`
	Manager string `json:"manager"`
}

func (msg MsgAddPoolManager) Route() string { return ModuleName }
func (msg MsgAddPoolManager) Type() string  { return TypeMsgAddPoolManager }

func (msg MsgAddPoolManager) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	_, err := sdk.AccAddressFromBech32(msg.Manager)
	return err
}

func (msg MsgAddPoolManager) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgAddPoolManager) ProtoMessage()    {}
func (msg *MsgAddPoolManager) Reset()       { *msg = MsgAddPoolManager{} }
func (msg MsgAddPoolManager) String() string {
	return fmt.Sprintf("MsgAddPoolManager{PoolID: %d, Manager: %s}", msg.PoolID, msg.Manager)
}

// MsgRemovePoolManager revokes the pool manager role. Admin only.
type MsgRemovePoolManager struct {
	Caller  string `json:"caller"`
	PoolID  uint64 `json:"pool_id"`
	Manager string `json:"manager"`
}

func (msg MsgRemovePoolManager) Route() string { return ModuleName }
func (msg MsgRemovePoolManager) Type() string  { return TypeMsgRemovePoolManager }

func (msg MsgRemovePoolManager) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	_, err := sdk.AccAddressFromBech32(msg.Manager)
	return err
}

func (msg MsgRemovePoolManager) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgRemovePoolManager) ProtoMessage()    {}
func (msg *MsgRemovePoolManager) Reset()       { *msg = MsgRemovePoolManager{} }
func (msg MsgRemovePoolManager) String() string {
	return fmt.Sprintf("MsgRemovePoolManager{PoolID: %d, Manager: %s}", msg.PoolID, msg.Manager)
}

// MsgRegisterRecipient forwards opaque registration data to the pool's
// bound strategy.
type MsgRegisterRecipient struct {
	Caller string `json:"caller"`
	PoolID uint64 `json:"pool_id"`
	Data   []byte `json:"data"`
}

func (msg MsgRegisterRecipient) Route() string { return ModuleName }
func (msg MsgRegisterRecipient) Type() string  { return TypeMsgRegisterRecipient }

func (msg MsgRegisterRecipient) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgRegisterRecipient) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgRegisterRecipient) ProtoMessage()    {}
func (msg *MsgRegisterRecipient) Reset()       { *msg = MsgRegisterRecipient{} }
func (msg MsgRegisterRecipient) String() string {
	return fmt.Sprintf("MsgRegisterRecipient{Caller: %s, PoolID: %d}", msg.Caller, msg.PoolID)
}

// MsgRegisterRecipientResponse carries the derived recipient ID
type MsgRegisterRecipientResponse struct {
	RecipientID string `json:"recipient_id"`
}

// MsgReviewRecipients applies a batch of recipient status transitions
type MsgReviewRecipients struct {
	Caller  string         `json:"caller"`
	PoolID  uint64         `json:"pool_id"`
	Updates []StatusUpdate `json:"updates"`
}

func (msg MsgReviewRecipients) Route() string { return ModuleName }
func (msg MsgReviewRecipients) Type() string  { return TypeMsgReviewRecipients }

func (msg MsgReviewRecipients) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgReviewRecipients) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgReviewRecipients) ProtoMessage()    {}
func (msg *MsgReviewRecipients) Reset()       { *msg = MsgReviewRecipients{} }
func (msg MsgReviewRecipients) String() string {
	return fmt.Sprintf("MsgReviewRecipients{PoolID: %d, Updates: %d}", msg.PoolID, len(msg.Updates))
}

// MsgSubmitMilestones records a recipient's milestone plan
type MsgSubmitMilestones struct {
	Caller      string           `json:"caller"`
	PoolID      uint64           `json:"pool_id"`
	RecipientID string           `json:"recipient_id"`
	Milestones  []MilestoneInput `json:"milestones"`
}

func (msg MsgSubmitMilestones) Route() string { return ModuleName }
func (msg MsgSubmitMilestones) Type() string  { return TypeMsgSubmitMilestones }

func (msg MsgSubmitMilestones) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgSubmitMilestones) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgSubmitMilestones) ProtoMessage()    {}
func (msg *MsgSubmitMilestones) Reset()       { *msg = MsgSubmitMilestones{} }
func (msg MsgSubmitMilestones) String() string {
	return fmt.Sprintf("MsgSubmitMilestones{PoolID: %d, RecipientID: %s, Milestones: %d}", msg.PoolID, msg.RecipientID, len(msg.Milestones))
}

// MsgReviewMilestone records a reviewer verdict for one milestone
type MsgReviewMilestone struct {
	Caller         string `json:"caller"`
	PoolID         uint64 `json:"pool_id"`
	RecipientID    string `json:"recipient_id"`
	MilestoneIndex uint64 `json:"milestone_index"`
	Status         string `json:"status"`
}

func (msg MsgReviewMilestone) Route() string { return ModuleName }
func (msg MsgReviewMilestone) Type() string  { return TypeMsgReviewMilestone }

func (msg MsgReviewMilestone) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgReviewMilestone) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgReviewMilestone) ProtoMessage()    {}
func (msg *MsgReviewMilestone) Reset()       { *msg = MsgReviewMilestone{} }
func (msg MsgReviewMilestone) String() string {
	return fmt.Sprintf("MsgReviewMilestone{PoolID: %d, RecipientID: %s, Index: %d}", msg.PoolID, msg.RecipientID, msg.MilestoneIndex)
}

// MsgDistribute releases funds to a batch of recipients
type MsgDistribute struct {
	Caller       string   `json:"caller"`
	PoolID       uint64   `json:"pool_id"`
	RecipientIDs []string `json:"recipient_ids"`
}

func (msg MsgDistribute) Route() string { return ModuleName }
func (msg MsgDistribute) Type() string  { return TypeMsgDistribute }

func (msg MsgDistribute) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgDistribute) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgDistribute) ProtoMessage()    {}
func (msg *MsgDistribute) Reset()       { *msg = MsgDistribute{} }
func (msg MsgDistribute) String() string {
	return fmt.Sprintf("MsgDistribute{PoolID: %d, Recipients: %d}", msg.PoolID, len(msg.RecipientIDs))
}

// MsgCancelRecipients cancels a batch of non-terminal recipients
type MsgCancelRecipients struct {
	Caller       string   `json:"caller"`
	PoolID       uint64   `json:"pool_id"`
	RecipientIDs []string `json:"recipient_ids"`
}

func (msg MsgCancelRecipients) Route() string { return ModuleName }
func (msg MsgCancelRecipients) Type() string  { return TypeMsgCancelRecipients }

func (msg MsgCancelRecipients) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Caller)
	return err
}

func (msg MsgCancelRecipients) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgCancelRecipients) ProtoMessage()    {}
func (msg *MsgCancelRecipients) Reset()       { *msg = MsgCancelRecipients{} }
func (msg MsgCancelRecipients) String() string {
	return fmt.Sprintf("MsgCancelRecipients{PoolID: %d, Recipients: %d}", msg.PoolID, len(msg.RecipientIDs))
}
