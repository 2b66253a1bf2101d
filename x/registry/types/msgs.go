package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreateProfile         = "create_profile"
	TypeMsgUpdateProfileName     = "update_profile_name"
	TypeMsgUpdateProfileMetadata = "update_profile_metadata"
	TypeMsgAddMembers            = "add_members"
	TypeMsgRemoveMembers         = "remove_members"
	TypeMsgTransferOwnership     = "transfer_ownership"
)

// MsgCreateProfile registers a new profile. Owner defaults to the creator
// when left empty.
type MsgCreateProfile struct {
	Creator  string   `json:"creator"`
	Nonce    uint64   `json:"nonce"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata"`
	Owner    string   `json:"owner,omitempty"`
	Members  []string `json:"members,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgCreateProfile) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateProfile) Type() string { return TypeMsgCreateProfile }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateProfile) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return ErrInvalidAddress
	}
	if msg.Name == "" {
		return ErrEmptyName
	}
	for _, m := range msg.Members {
		if _, err := sdk.AccAddressFromBech32(m); err != nil {
			return ErrInvalidAddress
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreateProfile) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreateProfile) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateProfile) Reset() { *msg = MsgCreateProfile{} }

// String implements proto.Message
func (msg MsgCreateProfile) String() string {
	return fmt.Sprintf("MsgCreateProfile{Creator: %s, Nonce: %d, Name: %s}", msg.Creator, msg.Nonce, msg.Name)
}

// MsgCreateProfileResponse is the createProfile response
type MsgCreateProfileResponse struct {
	ProfileID string `json:"profile_id"`
	Anchor    string `json:"anchor"`
}

// MsgUpdateProfileName changes a profile display name
type MsgUpdateProfileName struct {
	Caller    string `json:"caller"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
}

func (msg MsgUpdateProfileName) Route() string { return ModuleName }
func (msg MsgUpdateProfileName) Type() string  { return TypeMsgUpdateProfileName }

func (msg MsgUpdateProfileName) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress
	}
	if msg.Name == "" {
		return ErrEmptyName
	}
	return nil
}

func (msg MsgUpdateProfileName) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgUpdateProfileName) ProtoMessage()    {}
func (msg *MsgUpdateProfileName) Reset()       { *msg = MsgUpdateProfileName{} }
func (msg MsgUpdateProfileName) String() string {
	return fmt.Sprintf("MsgUpdateProfileName{ProfileID: %s, Name: %s}", msg.ProfileID, msg.Name)
}

// MsgUpdateProfileMetadata replaces a profile metadata pointer
type MsgUpdateProfileMetadata struct {
	Caller    string   `json:"caller"`
	ProfileID string   `json:"profile_id"`
	Metadata  Metadata `json:"metadata"`
}

func (msg MsgUpdateProfileMetadata) Route() string { return ModuleName }
func (msg MsgUpdateProfileMetadata) Type() string  { return TypeMsgUpdateProfileMetadata }

func (msg MsgUpdateProfileMetadata) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress
	}
	return nil
}

func (msg MsgUpdateProfileMetadata) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgUpdateProfileMetadata) ProtoMessage()    {}
func (msg *MsgUpdateProfileMetadata) Reset()       { *msg = MsgUpdateProfileMetadata{} }
func (msg MsgUpdateProfileMetadata) String() string {
	return fmt.Sprintf("MsgUpdateProfileMetadata{ProfileID: %s}", msg.ProfileID)
}

// MsgAddMembers grants profile membership
type MsgAddMembers struct {
	Caller    string   `json:"caller"`
	ProfileID string   `json:"profile_id"`
	Members   []string `json:"members"`
}

func (msg MsgAddMembers) Route() string { return ModuleName }
func (msg MsgAddMembers) Type() string  { return TypeMsgAddMembers }

func (msg MsgAddMembers) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress
	}
	for _, m := range msg.Members {
		if _, err := sdk.AccAddressFromBech32(m); err != nil {
			return ErrInvalidAddress
		}
	}
	return nil
}

func (msg MsgAddMembers) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgAddMembers) ProtoMessage()    {}
func (msg *MsgAddMembers) Reset()       { *msg = MsgAddMembers{} }
func (msg MsgAddMembers) String() string {
	return fmt.Sprintf("MsgAddMembers{ProfileID: %s, Members: %d}", msg.ProfileID, len(msg.Members))
}

// MsgRemoveMembers revokes profile membership
type MsgRemoveMembers struct {
	Caller    string   `json:"caller"`
	ProfileID string   `json:"profile_id"`
	Members   []string `json:"members"`
}

func (msg MsgRemoveMembers) Route() string { return ModuleName }
func (msg MsgRemoveMembers) Type() string  { return TypeMsgRemoveMembers }

func (msg MsgRemoveMembers) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress
	}
	return nil
}

func (msg MsgRemoveMembers) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgRemoveMembers) ProtoMessage()    {}
func (msg *MsgRemoveMembers) Reset()       { *msg = MsgRemoveMembers{} }
func (msg MsgRemoveMembers) String() string {
	return fmt.Sprintf("MsgRemoveMembers{ProfileID: %s, Members: %d}", msg.ProfileID, len(msg.Members))
}

// MsgTransferOwnership hands the profile to a new owner
type MsgTransferOwnership struct {
	Caller    string `json:"caller"`
	ProfileID string `json:"profile_id"`
	NewOwner  string `json:"new_owner"`
}

func (msg MsgTransferOwnership) Route() string { return ModuleName }
func (msg MsgTransferOwnership) Type() string  { return TypeMsgTransferOwnership }

func (msg MsgTransferOwnership) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return ErrInvalidAddress
	}
	if _, err := sdk.AccAddressFromBech32(msg.NewOwner); err != nil {
		return ErrInvalidAddress
	}
	return nil
}

func (msg MsgTransferOwnership) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

func (*MsgTransferOwnership) ProtoMessage()    {}
func (msg *MsgTransferOwnership) Reset()       { *msg = MsgTransferOwnership{} }
func (msg MsgTransferOwnership) String() string {
	return fmt.Sprintf("MsgTransferOwnership{ProfileID: %s, NewOwner: %s}", msg.ProfileID, msg.NewOwner)
}
