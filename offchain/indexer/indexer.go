package indexer

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/huandu/skiplist"

	"github.com/openalpha/grantchain/metrics"
	allotypes "github.com/openalpha/grantchain/x/allo/types"
	grantstypes "github.com/openalpha/grantchain/x/directgrants/types"
	registrytypes "github.com/openalpha/grantchain/x/registry/types"
)

// Config holds the indexer configuration
type Config struct {
	BufferSize    int           // Maximum buffered events before a flush is forced
	FlushInterval time.Duration // Time interval between ordered flushes
	WebSocketURL  string        // WebSocket URL for event subscription
	ChainRPCURL   string        // Chain RPC URL for catch-up queries
}

// DefaultConfig returns the default indexer configuration
func DefaultConfig() *Config {
	return &Config{
		BufferSize:    1000,
		FlushInterval: 500 * time.Millisecond,
		WebSocketURL:  "ws://localhost:26657/websocket",
		ChainRPCURL:   "http://localhost:26657",
	}
}

// Event represents a ledger event observed on the chain
type Event struct {
	Height     int64
	Type       string
	Attributes map[string]string
	Timestamp  time.Time
}

// Attr returns an attribute value, or the empty string if absent
func (e Event) Attr(key string) string {
	return e.Attributes[key]
}

// Indexer consumes ledger events and maintains ordered read models.
// Events may arrive out of height order from the source; they are held in a
// height-keyed buffer and applied to the read models in ascending order.
type Indexer struct {
	config *Config
	source EventSource
	store  *Store

	// Events buffered by height until the next flush
	buffer   *skiplist.SkipList
	buffered int
	bufMu    sync.Mutex

	lastHeight int64
	indexed    int64

	// Serializes flushes so events apply in height order
	flushMu sync.Mutex

	// Subscribers keyed by UUID
	subscribers map[string]*subscription
	subMu       sync.RWMutex

	// Control channels
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type subscription struct {
	id    string
	types map[string]bool // empty set means every event type
	ch    chan Event
}

// NewIndexer creates a new indexer instance
func NewIndexer(config *Config, source EventSource) *Indexer {
	if config == nil {
		config = DefaultConfig()
	}
	if source == nil {
		source = NewMockSource()
	}

	return &Indexer{
		config:      config,
		source:      source,
		store:       NewStore(),
		buffer:      skiplist.New(skiplist.Int64),
		subscribers: make(map[string]*subscription),
		stopCh:      make(chan struct{}),
	}
}

// Store returns the indexer's read model store
func (ix *Indexer) Store() *Store {
	return ix.store
}

// Start starts the indexer
func (ix *Indexer) Start(ctx context.Context) error {
	log.Println("Starting indexer...")

	if err := ix.source.Start(ctx); err != nil {
		return err
	}

	// Start event listener
	ix.wg.Add(1)
	go ix.eventLoop(ctx)

	// Start ordered flush loop
	ix.wg.Add(1)
	go ix.flushLoop(ctx)

	log.Println("Indexer started")
	return nil
}

// Stop stops the indexer
func (ix *Indexer) Stop() error {
	log.Println("Stopping indexer...")
	close(ix.stopCh)
	ix.wg.Wait()
	if err := ix.source.Stop(); err != nil {
		log.Printf("Error stopping event source: %v", err)
	}

	ix.subMu.Lock()
	for _, sub := range ix.subscribers {
		close(sub.ch)
	}
	ix.subscribers = make(map[string]*subscription)
	ix.subMu.Unlock()

	log.Println("Indexer stopped")
	return nil
}

// eventLoop buffers incoming events by height
func (ix *Indexer) eventLoop(ctx context.Context) {
	defer ix.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.stopCh:
			return
		case event, ok := <-ix.source.Events():
			if !ok {
				return
			}
			if ix.bufferEvent(event) {
				ix.Flush()
			}
		}
	}
}

// flushLoop periodically applies buffered events in height order
func (ix *Indexer) flushLoop(ctx context.Context) {
	defer ix.wg.Done()

	ticker := time.NewTicker(ix.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Apply any remaining events before stopping
			ix.Flush()
			return
		case <-ix.stopCh:
			ix.Flush()
			return
		case <-ticker.C:
			ix.Flush()
		}
	}
}

// bufferEvent inserts an event into the height-ordered buffer.
// Returns true when the buffer reached the configured size.
func (ix *Indexer) bufferEvent(event Event) bool {
	ix.bufMu.Lock()
	defer ix.bufMu.Unlock()

	if el := ix.buffer.Get(event.Height); el != nil {
		el.Value = append(el.Value.([]Event), event)
	} else {
		ix.buffer.Set(event.Height, []Event{event})
	}
	ix.buffered++

	return ix.buffered >= ix.config.BufferSize
}

// Flush drains the buffer and applies its events in ascending height order
func (ix *Indexer) Flush() {
	ix.flushMu.Lock()
	defer ix.flushMu.Unlock()

	ix.bufMu.Lock()
	events := make([]Event, 0, ix.buffered)
	for ix.buffer.Len() > 0 {
		front := ix.buffer.Front()
		events = append(events, front.Value.([]Event)...)
		if h := front.Key().(int64); h > ix.lastHeight {
			ix.lastHeight = h
		}
		ix.buffer.RemoveFront()
	}
	ix.buffered = 0
	ix.bufMu.Unlock()

	for _, event := range events {
		if err := ix.apply(event); err != nil {
			log.Printf("Error applying event %s at height %d: %v", event.Type, event.Height, err)
			continue
		}
		ix.dispatch(event)
	}
}

// apply updates the read models from a single event
func (ix *Indexer) apply(event Event) error {
	switch event.Type {
	case allotypes.EventTypePoolCreated:
		poolID, err := strconv.ParseUint(event.Attr(allotypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		amount := parseInt(event.Attr(allotypes.AttributeKeyAmount))
		ix.store.UpsertPool(&PoolRecord{
			PoolID:    poolID,
			ProfileID: event.Attr(allotypes.AttributeKeyProfileID),
			Strategy:  event.Attr(allotypes.AttributeKeyStrategy),
			Token:     event.Attr(allotypes.AttributeKeyToken),
			Balance:   amount,
			Funded:    amount,
		})

	case allotypes.EventTypePoolFunded:
		poolID, err := strconv.ParseUint(event.Attr(allotypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		amount := parseInt(event.Attr(allotypes.AttributeKeyAmount))
		ix.store.CreditPool(poolID, amount)

	case allotypes.EventTypeFundsReleased:
		poolID, err := strconv.ParseUint(event.Attr(allotypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		amount := parseInt(event.Attr(allotypes.AttributeKeyAmount))
		ix.store.DebitPool(poolID, amount)

	case grantstypes.EventTypeRegistered:
		poolID, err := strconv.ParseUint(event.Attr(grantstypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		ix.store.UpsertRecipient(&RecipientRecord{
			PoolID:      poolID,
			RecipientID: event.Attr(grantstypes.AttributeKeyRecipientID),
			Address:     event.Attr(grantstypes.AttributeKeyRecipientAddress),
			Status:      event.Attr(grantstypes.AttributeKeyStatus),
			GrantAmount: parseInt(event.Attr(grantstypes.AttributeKeyAmount)),
			Distributed: math.ZeroInt(),
		})

	case grantstypes.EventTypeRecipientStatusUpdated:
		poolID, err := strconv.ParseUint(event.Attr(grantstypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		ix.store.SetRecipientStatus(poolID,
			event.Attr(grantstypes.AttributeKeyRecipientID),
			event.Attr(grantstypes.AttributeKeyStatus))

	case grantstypes.EventTypeDistributionMade:
		poolID, err := strconv.ParseUint(event.Attr(grantstypes.AttributeKeyPoolID), 10, 64)
		if err != nil {
			return err
		}
		amount := parseInt(event.Attr(grantstypes.AttributeKeyAmount))
		ix.store.RecordDistribution(poolID,
			event.Attr(grantstypes.AttributeKeyRecipientID), amount)

	case registrytypes.EventTypeProfileCreated:
		ix.store.UpsertProfile(&ProfileRecord{
			ProfileID: event.Attr(registrytypes.AttributeKeyProfileID),
			Owner:     event.Attr(registrytypes.AttributeKeyOwner),
			Anchor:    event.Attr(registrytypes.AttributeKeyAnchor),
			Name:      event.Attr(registrytypes.AttributeKeyName),
		})

	case registrytypes.EventTypeOwnershipTransferred:
		ix.store.SetProfileOwner(
			event.Attr(registrytypes.AttributeKeyProfileID),
			event.Attr(registrytypes.AttributeKeyNewOwner))

	default:
		// Unrelated chain event, nothing to index
		return nil
	}

	atomic.AddInt64(&ix.indexed, 1)
	metrics.GetCollector().RecordIndexedEvent(event.Type)
	metrics.GetCollector().UpdateSystemMetrics(event.Height)
	return nil
}

// dispatch forwards an applied event to matching subscribers
func (ix *Indexer) dispatch(event Event) {
	ix.subMu.RLock()
	defer ix.subMu.RUnlock()

	for _, sub := range ix.subscribers {
		if len(sub.types) > 0 && !sub.types[event.Type] {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Subscriber is not keeping up, event dropped
		}
	}
}

// Subscribe registers a subscriber for the given event types.
// With no types given the subscriber receives every indexed event.
// Returns the subscription ID and the event channel.
func (ix *Indexer) Subscribe(eventTypes ...string) (string, <-chan Event) {
	sub := &subscription{
		id:    uuid.New().String(),
		types: make(map[string]bool, len(eventTypes)),
		ch:    make(chan Event, 256),
	}
	for _, t := range eventTypes {
		sub.types[t] = true
	}

	ix.subMu.Lock()
	ix.subscribers[sub.id] = sub
	metrics.GetCollector().IndexerSubscriptions.Set(float64(len(ix.subscribers)))
	ix.subMu.Unlock()

	return sub.id, sub.ch
}

// Unsubscribe removes a subscriber and closes its channel
func (ix *Indexer) Unsubscribe(id string) {
	ix.subMu.Lock()
	defer ix.subMu.Unlock()

	if sub, exists := ix.subscribers[id]; exists {
		close(sub.ch)
		delete(ix.subscribers, id)
		metrics.GetCollector().IndexerSubscriptions.Set(float64(len(ix.subscribers)))
	}
}

// Stats returns indexer statistics
type Stats struct {
	BufferedEvents  int
	IndexedEvents   int64
	LastHeight      int64
	PoolCount       int
	RecipientCount  int
	ProfileCount    int
	SubscriberCount int
}

// GetStats returns current indexer statistics
func (ix *Indexer) GetStats() Stats {
	ix.bufMu.Lock()
	buffered := ix.buffered
	lastHeight := ix.lastHeight
	ix.bufMu.Unlock()
	indexed := atomic.LoadInt64(&ix.indexed)

	ix.subMu.RLock()
	subscribers := len(ix.subscribers)
	ix.subMu.RUnlock()

	return Stats{
		BufferedEvents:  buffered,
		IndexedEvents:   indexed,
		LastHeight:      lastHeight,
		PoolCount:       ix.store.PoolCount(),
		RecipientCount:  ix.store.RecipientCount(),
		ProfileCount:    ix.store.ProfileCount(),
		SubscriberCount: subscribers,
	}
}

// parseInt parses an attribute amount, falling back to zero on bad input
func parseInt(s string) math.Int {
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt()
	}
	return v
}
