package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// Module name and store key
const (
	ModuleName = "registry"
	StoreKey   = ModuleName
)

// Metadata is an opaque pointer plus protocol version. The core never
// interprets the pointer contents.
type Metadata struct {
	Protocol uint64 `json:"protocol"`
	Pointer  string `json:"pointer"`
}

// IsEmpty reports whether the metadata carries no pointer.
func (m Metadata) IsEmpty() bool {
	return m.Pointer == ""
}

// Profile is a durable registered identity with an owner, members and a
// dedicated anchor custody account.
type Profile struct {
	ID       string   `json:"id"`
	Nonce    uint64   `json:"nonce"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata"`
	Owner    string   `json:"owner"`
	Members  []string `json:"members,omitempty"`
	Anchor   string   `json:"anchor"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewProfile creates a profile record. The ID and anchor are derived, never
// caller supplied.
func NewProfile(nonce uint64, name string, metadata Metadata, owner string, members []string) *Profile {
	now := time.Now().Unix()
	id := ProfileID(owner, nonce)
	return &Profile{
		ID:        id,
		Nonce:     nonce,
		Name:      name,
		Metadata:  metadata,
		Owner:     owner,
		Members:   members,
		Anchor:    AnchorAddress(id),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwner reports whether addr is the profile owner.
func (p *Profile) IsOwner(addr string) bool {
	return p.Owner == addr
}

// IsMember reports whether addr is a profile member.
func (p *Profile) IsMember(addr string) bool {
	for _, m := range p.Members {
		if m == addr {
			return true
		}
	}
	return false
}

// IsOwnerOrMember reports whether addr may act on behalf of the profile.
func (p *Profile) IsOwnerOrMember(addr string) bool {
	return p.IsOwner(addr) || p.IsMember(addr)
}

// ProfileID derives the deterministic profile identifier from the owner and
// the caller-chosen nonce. The same pair always yields the same ID, so
// uniqueness reduces to a direct key lookup.
func ProfileID(owner string, nonce uint64) string {
	h := sha256.Sum256([]byte(owner + ":" + strconv.FormatUint(nonce, 10)))
	return hex.EncodeToString(h[:])
}

// AnchorAddress derives the bech32 custody account bound 1:1 to a profile.
func AnchorAddress(profileID string) string {
	idBytes, err := hex.DecodeString(profileID)
	if err != nil {
		idBytes = []byte(profileID)
	}
	return sdk.AccAddress(address.Hash("profile-anchor", idBytes)[:20]).String()
}
