package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"cosmossdk.io/math"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// Module name and store key
const (
	ModuleName = "allo"
	StoreKey   = ModuleName

	// NativeDenom is the sentinel funding token for the ledger's native asset.
	NativeDenom = "stake"
)

// Metadata aliases the registry's opaque metadata type so both pool and
// profile metadata carry the same shape.
type Metadata = registrytypes.Metadata

// Pool is a funded allocation unit bound to one profile and one strategy.
// The strategy binding never changes after creation.
type Pool struct {
	ID           uint64   `json:"id"`
	ProfileID    string   `json:"profile_id"`
	StrategyName string   `json:"strategy_name"`
	Token        string   `json:"token"`
	Metadata     Metadata `json:"metadata"`
	ManagerRole  string   `json:"manager_role"`
	AdminRole    string   `json:"admin_role"`

	Balance          math.Int `json:"balance"`
	TotalFunded      math.Int `json:"total_funded"`
	TotalDistributed math.Int `json:"total_distributed"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates a pool record with derived role identifiers and a zero
// balance. Funding is applied separately so fee skims stay in one place.
func NewPool(id uint64, profileID, strategyName, token string, metadata Metadata) *Pool {
	now := time.Now().Unix()
	return &Pool{
		ID:               id,
		ProfileID:        profileID,
		StrategyName:     strategyName,
		Token:            token,
		Metadata:         metadata,
		ManagerRole:      ManagerRole(id),
		AdminRole:        AdminRole(id),
		Balance:          math.ZeroInt(),
		TotalFunded:      math.ZeroInt(),
		TotalDistributed: math.ZeroInt(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ManagerRole derives the manager role identifier for a pool.
func ManagerRole(poolID uint64) string {
	return roleID(poolID, "manager")
}

// AdminRole derives the admin role identifier for a pool.
func AdminRole(poolID uint64) string {
	return roleID(poolID, "admin")
}

func roleID(poolID uint64, role string) string {
	h := sha256.Sum256([]byte(strconv.FormatUint(poolID, 10) + ":" + role))
	return hex.EncodeToString(h[:])
}

// Params holds the ledger-wide funding fee configuration. Both fees default
// to zero; the percent fee is taken from every funding transfer and the base
// fee once at pool creation, both credited to the treasury account.
type Params struct {
	Treasury   string         `json:"treasury,omitempty"`
	PercentFee math.LegacyDec `json:"percent_fee"`
	BaseFee    math.Int       `json:"base_fee"`
}

// DefaultParams returns fee-free params with no treasury.
func DefaultParams() Params {
	return Params{
		Treasury:   "",
		PercentFee: math.LegacyZeroDec(),
		BaseFee:    math.ZeroInt(),
	}
}
