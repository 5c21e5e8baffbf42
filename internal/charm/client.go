// ABOUTME: Charm KV client for cloud snapshot backup with SSH key auth
// ABOUTME: Stores whole-cache snapshots under the snapshot: key prefix
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"

	"github.com/harper/chatstash/internal/models"
)

// SnapshotPrefix is the key prefix for stored snapshots
const SnapshotPrefix = "snapshot:"

// LatestKey is the key holding the most recent snapshot
const LatestKey = SnapshotPrefix + "latest"

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "chatstash",
		AutoSync: true,
	}
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
	clientMu     sync.Mutex
)

// Client wraps charm KV for snapshot backup operations
type Client struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// InitClient initializes the global charm client (thread-safe singleton)
func InitClient() error {
	clientOnce.Do(func() {
		globalClient, clientErr = NewClient(DefaultConfig())
	})
	return clientErr
}

// GetClient returns the global client, initializing if needed
func GetClient() (*Client, error) {
	clientMu.Lock()
	defer clientMu.Unlock()

	// If client was closed, reinitialize
	if globalClient != nil && globalClient.kv == nil {
		clientOnce = sync.Once{}
		globalClient = nil
	}

	if err := InitClient(); err != nil {
		return nil, err
	}
	return globalClient, nil
}

// ResetGlobalClient resets the global client (for testing)
func ResetGlobalClient() {
	clientMu.Lock()
	defer clientMu.Unlock()
	if globalClient != nil {
		_ = globalClient.Close()
	}
	clientOnce = sync.Once{}
	globalClient = nil
	clientErr = nil
}

// NewClient creates a new charm client with the given config
func NewClient(cfg *Config) (*Client, error) {
	// Set CHARM_HOST before opening KV
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// Close closes the KV database
func (c *Client) Close() error {
	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil // Mark as closed so GetClient knows to reinitialize
		return err
	}
	return nil
}

// syncIfEnabled syncs to cloud after writes
func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// PushSnapshot stores a snapshot both under a timestamped key and as the
// latest backup
func (c *Client) PushSnapshot(snapshot *models.Snapshot) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := SnapshotPrefix + time.Now().UTC().Format("20060102T150405Z")
	if err := c.kv.Set([]byte(key), data); err != nil {
		return "", fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	if err := c.kv.Set([]byte(LatestKey), data); err != nil {
		return "", fmt.Errorf("failed to store latest snapshot: %w", err)
	}

	c.syncIfEnabled()
	return key, nil
}

// PullSnapshot fetches a stored snapshot. An empty key pulls the latest.
func (c *Client) PullSnapshot(key string) (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		key = LatestKey
	}

	data, err := c.kv.Get([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no snapshot stored under %s", key)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return &snapshot, nil
}

// ListSnapshots returns stored snapshot keys, newest first
func (c *Client) ListSnapshots() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, SnapshotPrefix) && keyStr != LatestKey {
			result = append(result, keyStr)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(result)))
	return result, nil
}

// DeleteSnapshot removes a stored snapshot
func (c *Client) DeleteSnapshot(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	return c.kv.Sync()
}
