package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventSource delivers chain events to the indexer
type EventSource interface {
	// Start begins delivering events
	Start(ctx context.Context) error

	// Stop stops the source
	Stop() error

	// Events returns the channel events are delivered on
	Events() <-chan Event
}

// ============ WebSocket source ============

const (
	// Time allowed to write a message to the node
	writeWait = 10 * time.Second

	// Delay before redialing after a broken connection
	redialDelay = 3 * time.Second

	sourceBufferSize = 1000
)

// WebSocketSource subscribes to transaction events over the node's
// WebSocket endpoint and forwards them as indexer events
type WebSocketSource struct {
	url string

	conn   *websocket.Conn
	connMu sync.Mutex

	eventCh chan Event
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWebSocketSource creates a source reading from the given WebSocket URL
func NewWebSocketSource(url string) *WebSocketSource {
	return &WebSocketSource{
		url:     url,
		eventCh: make(chan Event, sourceBufferSize),
		stopCh:  make(chan struct{}),
	}
}

// Events returns the event delivery channel
func (s *WebSocketSource) Events() <-chan Event {
	return s.eventCh
}

// Start dials the node and begins the read pump
func (s *WebSocketSource) Start(ctx context.Context) error {
	if err := s.dial(); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.url, err)
	}

	s.wg.Add(1)
	go s.readPump(ctx)

	return nil
}

// Stop closes the connection and stops the read pump
func (s *WebSocketSource) Stop() error {
	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.eventCh)
	return nil
}

// dial connects and subscribes to transaction events
func (s *WebSocketSource) dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
	if err != nil {
		return err
	}

	subscribe := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "subscribe",
		Params: map[string]interface{}{
			"query": "tm.event='Tx'",
		},
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(subscribe); err != nil {
		_ = conn.Close()
		return err
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// readPump reads messages from the node and forwards decoded events.
// A broken connection is redialed until the source is stopped.
func (s *WebSocketSource) readPump(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			default:
			}

			log.Printf("WebSocket read error: %v, redialing in %v", err, redialDelay)
			time.Sleep(redialDelay)
			if err := s.dial(); err != nil {
				log.Printf("WebSocket redial failed: %v", err)
			}
			continue
		}

		for _, event := range decodeTxMessage(message) {
			select {
			case s.eventCh <- event:
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// rpcRequest is a JSON-RPC request to the node
type rpcRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      int                    `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
}

// txResultMessage is the subset of the node's Tx subscription payload the
// indexer reads
type txResultMessage struct {
	Result struct {
		Data struct {
			Value struct {
				TxResult struct {
					Height string `json:"height"`
					Result struct {
						Events []abciEvent `json:"events"`
					} `json:"result"`
				} `json:"TxResult"`
			} `json:"value"`
		} `json:"data"`
	} `json:"result"`
}

type abciEvent struct {
	Type       string `json:"type"`
	Attributes []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"attributes"`
}

// decodeTxMessage decodes a subscription message into indexer events.
// Messages that are not transaction results decode to nothing.
func decodeTxMessage(message []byte) []Event {
	var msg txResultMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return nil
	}

	txResult := msg.Result.Data.Value.TxResult
	if txResult.Height == "" || len(txResult.Result.Events) == 0 {
		return nil
	}

	height, err := strconv.ParseInt(txResult.Height, 10, 64)
	if err != nil {
		return nil
	}

	now := time.Now()
	events := make([]Event, 0, len(txResult.Result.Events))
	for _, abci := range txResult.Result.Events {
		attrs := make(map[string]string, len(abci.Attributes))
		for _, attr := range abci.Attributes {
			attrs[attr.Key] = attr.Value
		}
		events = append(events, Event{
			Height:     height,
			Type:       abci.Type,
			Attributes: attrs,
			Timestamp:  now,
		})
	}
	return events
}

// ============ Mock source ============

// MockSource is an in-process event source for testing
type MockSource struct {
	eventCh chan Event
	stopped bool
	mu      sync.Mutex
}

// NewMockSource creates a new mock source
func NewMockSource() *MockSource {
	return &MockSource{
		eventCh: make(chan Event, sourceBufferSize),
	}
}

// Start is a no-op for the mock source
func (s *MockSource) Start(ctx context.Context) error {
	return nil
}

// Stop closes the event channel
func (s *MockSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.eventCh)
	}
	return nil
}

// Events returns the event delivery channel
func (s *MockSource) Events() <-chan Event {
	return s.eventCh
}

// Emit delivers an event to the indexer
func (s *MockSource) Emit(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.eventCh <- event
}
