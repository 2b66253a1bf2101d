package indexer

import (
	"sync"

	"cosmossdk.io/math"
	"github.com/google/btree"
)

const btreeDegree = 32 // B-tree degree, affects node size and cache efficiency

// PoolRecord is the read model of a funding pool
type PoolRecord struct {
	PoolID    uint64
	ProfileID string
	Strategy  string
	Token     string
	Balance   math.Int
	Funded    math.Int
}

// RecipientRecord is the read model of a grant recipient
type RecipientRecord struct {
	PoolID      uint64
	RecipientID string
	Address     string
	Status      string
	GrantAmount math.Int
	Distributed math.Int
}

// ProfileRecord is the read model of a registry profile
type ProfileRecord struct {
	ProfileID string
	Owner     string
	Anchor    string
	Name      string
}

// poolItem wraps a pool record for use in btree
// Implements btree.Item interface
type poolItem struct {
	record *PoolRecord
}

// Less implements btree.Item interface, ascending order by pool ID
func (a *poolItem) Less(b btree.Item) bool {
	return a.record.PoolID < b.(*poolItem).record.PoolID
}

// recipientItem wraps a recipient record for use in btree.
// Ordered by pool ID first so every recipient of one pool is contiguous.
type recipientItem struct {
	record *RecipientRecord
}

// Less implements btree.Item interface
func (a *recipientItem) Less(b btree.Item) bool {
	other := b.(*recipientItem)
	if a.record.PoolID != other.record.PoolID {
		return a.record.PoolID < other.record.PoolID
	}
	return a.record.RecipientID < other.record.RecipientID
}

// profileItem wraps a profile record for use in btree
type profileItem struct {
	record *ProfileRecord
}

// Less implements btree.Item interface, ascending order by profile ID
func (a *profileItem) Less(b btree.Item) bool {
	return a.record.ProfileID < b.(*profileItem).record.ProfileID
}

// Store holds the indexer's ordered read models
type Store struct {
	pools      *btree.BTree
	recipients *btree.BTree
	profiles   *btree.BTree
	mu         sync.RWMutex
}

// NewStore creates an empty read model store
func NewStore() *Store {
	return &Store{
		pools:      btree.New(btreeDegree),
		recipients: btree.New(btreeDegree),
		profiles:   btree.New(btreeDegree),
	}
}

// ============ Pools ============

// UpsertPool adds or replaces a pool record
func (s *Store) UpsertPool(record *PoolRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools.ReplaceOrInsert(&poolItem{record: record})
}

// GetPool returns a copy of the pool record, or nil if not indexed
func (s *Store) GetPool(poolID uint64) *PoolRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.pools.Get(&poolItem{record: &PoolRecord{PoolID: poolID}})
	if item == nil {
		return nil
	}
	copy := *item.(*poolItem).record
	return &copy
}

// CreditPool adds funds to a pool's balance and funded totals
func (s *Store) CreditPool(poolID uint64, amount math.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.pools.Get(&poolItem{record: &PoolRecord{PoolID: poolID}})
	if item == nil {
		return
	}
	record := item.(*poolItem).record
	record.Balance = record.Balance.Add(amount)
	record.Funded = record.Funded.Add(amount)
}

// DebitPool subtracts released funds from a pool's balance
func (s *Store) DebitPool(poolID uint64, amount math.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.pools.Get(&poolItem{record: &PoolRecord{PoolID: poolID}})
	if item == nil {
		return
	}
	record := item.(*poolItem).record
	record.Balance = record.Balance.Sub(amount)
}

// Pools returns copies of all pool records in ascending pool ID order
func (s *Store) Pools() []*PoolRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*PoolRecord, 0, s.pools.Len())
	s.pools.Ascend(func(item btree.Item) bool {
		copy := *item.(*poolItem).record
		records = append(records, &copy)
		return true
	})
	return records
}

// PoolCount returns the number of indexed pools
func (s *Store) PoolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pools.Len()
}

// ============ Recipients ============

// UpsertRecipient adds or replaces a recipient record
func (s *Store) UpsertRecipient(record *RecipientRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients.ReplaceOrInsert(&recipientItem{record: record})
}

// GetRecipient returns a copy of the recipient record, or nil if not indexed
func (s *Store) GetRecipient(poolID uint64, recipientID string) *RecipientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.recipients.Get(&recipientItem{record: &RecipientRecord{
		PoolID:      poolID,
		RecipientID: recipientID,
	}})
	if item == nil {
		return nil
	}
	copy := *item.(*recipientItem).record
	return &copy
}

// SetRecipientStatus updates the status of an indexed recipient
func (s *Store) SetRecipientStatus(poolID uint64, recipientID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.recipients.Get(&recipientItem{record: &RecipientRecord{
		PoolID:      poolID,
		RecipientID: recipientID,
	}})
	if item == nil {
		return
	}
	item.(*recipientItem).record.Status = status
}

// RecordDistribution adds a payout to a recipient's distributed total
func (s *Store) RecordDistribution(poolID uint64, recipientID string, amount math.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.recipients.Get(&recipientItem{record: &RecipientRecord{
		PoolID:      poolID,
		RecipientID: recipientID,
	}})
	if item == nil {
		return
	}
	record := item.(*recipientItem).record
	record.Distributed = record.Distributed.Add(amount)
}

// RecipientsByPool returns copies of a pool's recipient records in
// ascending recipient ID order
func (s *Store) RecipientsByPool(poolID uint64) []*RecipientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*RecipientRecord, 0)
	pivot := &recipientItem{record: &RecipientRecord{PoolID: poolID}}
	s.recipients.AscendGreaterOrEqual(pivot, func(item btree.Item) bool {
		record := item.(*recipientItem).record
		if record.PoolID != poolID {
			return false
		}
		copy := *record
		records = append(records, &copy)
		return true
	})
	return records
}

// RecipientCount returns the number of indexed recipients across all pools
func (s *Store) RecipientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipients.Len()
}

// ============ Profiles ============

// UpsertProfile adds or replaces a profile record
func (s *Store) UpsertProfile(record *ProfileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles.ReplaceOrInsert(&profileItem{record: record})
}

// GetProfile returns a copy of the profile record, or nil if not indexed
func (s *Store) GetProfile(profileID string) *ProfileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item := s.profiles.Get(&profileItem{record: &ProfileRecord{ProfileID: profileID}})
	if item == nil {
		return nil
	}
	copy := *item.(*profileItem).record
	return &copy
}

// SetProfileOwner updates the owner of an indexed profile
func (s *Store) SetProfileOwner(profileID, newOwner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.profiles.Get(&profileItem{record: &ProfileRecord{ProfileID: profileID}})
	if item == nil {
		return
	}
	item.(*profileItem).record.Owner = newOwner
}

// ProfileCount returns the number of indexed profiles
func (s *Store) ProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles.Len()
}
