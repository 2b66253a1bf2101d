package types

// Event types and attribute keys emitted by the registry module. Off-ledger
// indexers reconstruct profile state from these records.
const (
	EventTypeProfileCreated       = "registry_profile_created"
	EventTypeProfileNameUpdated   = "registry_profile_name_updated"
	EventTypeProfileMetadataSet   = "registry_profile_metadata_updated"
	EventTypeMembersAdded         = "registry_members_added"
	EventTypeMembersRemoved       = "registry_members_removed"
	EventTypeOwnershipTransferred = "registry_ownership_transferred"

	AttributeKeyProfileID = "profile_id"
	AttributeKeyOwner     = "owner"
	AttributeKeyAnchor    = "anchor"
	AttributeKeyName      = "name"
	AttributeKeyNewOwner  = "new_owner"
)
