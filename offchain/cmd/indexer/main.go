package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openalpha/grantchain/metrics"
	"github.com/openalpha/grantchain/offchain/indexer"
)

// Config holds the application configuration
type Config struct {
	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`
	WebSocketURL  string        `json:"websocket_url"`
	ChainRPCURL   string        `json:"chain_rpc_url"`
	MetricsAddr   string        `json:"metrics_addr"` // empty disables the metrics endpoint
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BufferSize:    1000,
		FlushInterval: 500 * time.Millisecond,
		WebSocketURL:  "ws://localhost:26657/websocket",
		ChainRPCURL:   "http://localhost:26657",
		MetricsAddr:   ":9091",
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	bufferSize := flag.Int("buffer-size", 0, "Maximum buffered events before a forced flush")
	flushInterval := flag.Duration("flush-interval", 0, "Time interval between ordered flushes")
	rpcURL := flag.String("rpc", "", "Chain RPC URL")
	wsURL := flag.String("ws", "", "WebSocket URL")
	metricsAddr := flag.String("metrics", "", "Metrics listen address")
	flag.Parse()

	// Load configuration
	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with command line flags
	if *bufferSize > 0 {
		config.BufferSize = *bufferSize
	}
	if *flushInterval > 0 {
		config.FlushInterval = *flushInterval
	}
	if *rpcURL != "" {
		config.ChainRPCURL = *rpcURL
	}
	if *wsURL != "" {
		config.WebSocketURL = *wsURL
	}
	if *metricsAddr != "" {
		config.MetricsAddr = *metricsAddr
	}

	// Print configuration
	log.Println("=== GrantChain Indexer ===")
	log.Printf("Buffer Size: %d", config.BufferSize)
	log.Printf("Flush Interval: %v", config.FlushInterval)
	log.Printf("Chain RPC: %s", config.ChainRPCURL)
	log.Printf("WebSocket: %s", config.WebSocketURL)
	log.Printf("Metrics: %s", config.MetricsAddr)
	log.Println("==========================")

	// Create event source and indexer
	source := indexer.NewWebSocketSource(config.WebSocketURL)
	indexerConfig := &indexer.Config{
		BufferSize:    config.BufferSize,
		FlushInterval: config.FlushInterval,
		WebSocketURL:  config.WebSocketURL,
		ChainRPCURL:   config.ChainRPCURL,
	}
	ix := indexer.NewIndexer(indexerConfig, source)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the indexer
	if err := ix.Start(ctx); err != nil {
		log.Fatalf("Failed to start indexer: %v", err)
	}

	// Serve metrics if configured
	if config.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(config.MetricsAddr, mux); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Periodic stats logging
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	log.Println("Indexer is running. Press Ctrl+C to stop.")

	for {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal: %v", sig)
			cancel()
			if err := ix.Stop(); err != nil {
				log.Printf("Error stopping indexer: %v", err)
			}
			log.Println("Indexer stopped")
			return
		case <-statsTicker.C:
			stats := ix.GetStats()
			log.Printf("Stats: Height=%d, Indexed=%d, Buffered=%d, Pools=%d, Recipients=%d, Subscribers=%d",
				stats.LastHeight, stats.IndexedEvents, stats.BufferedEvents,
				stats.PoolCount, stats.RecipientCount, stats.SubscriberCount)
		}
	}
}
