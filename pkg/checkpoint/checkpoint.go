package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"igprofile/pkg/logger"
)

// Checkpoint records where a scrape left off so a later run can resume from
// the same cursor instead of starting over. Nothing is persisted unless the
// caller opts in.
type Checkpoint struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`

	// EndCursor is the opaque pagination token of the last completed page.
	EndCursor string `json:"end_cursor"`

	// SeenPosts is the set of post ids already accumulated, keyed by id.
	// Resuming with it keeps the run idempotent across restarts.
	SeenPosts map[string]bool `json:"seen_posts"`

	// NewestTimestamp is the taken_at of the newest post scraped so far,
	// usable as the stop-before bound of an incremental follow-up run.
	NewestTimestamp int64 `json:"newest_timestamp"`

	TotalScraped int       `json:"total_scraped"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// Manager handles checkpoint operations for one username
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a new checkpoint manager
func NewManager(username string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &Manager{
		checkpointPath: filepath.Join(checkpointsDir, fmt.Sprintf("%s.checkpoint.json", username)),
		logger:         logger.GetLogger(),
	}, nil
}

// NewManagerAt creates a manager with an explicit checkpoint path, for tests.
func NewManagerAt(path string) *Manager {
	return &Manager{
		checkpointPath: path,
		logger:         logger.GetLogger(),
	}
}

// Create creates and saves a fresh checkpoint
func (m *Manager) Create(username, userID string) (*Checkpoint, error) {
	cp := &Checkpoint{
		Username:  username,
		UserID:    userID,
		SeenPosts: make(map[string]bool),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Version:   1,
	}

	if err := m.Save(cp); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	return cp, nil
}

// Load loads an existing checkpoint. Returns nil when none exists.
func (m *Manager) Load() (*Checkpoint, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var cp Checkpoint
	if err := json.NewDecoder(file).Decode(&cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if cp.SeenPosts == nil {
		cp.SeenPosts = make(map[string]bool)
	}

	m.logger.DebugWithFields("checkpoint loaded", map[string]interface{}{
		"username":      cp.Username,
		"end_cursor":    cp.EndCursor,
		"total_scraped": cp.TotalScraped,
	})

	return &cp, nil
}

// Save writes the checkpoint atomically
func (m *Manager) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmpPath := m.checkpointPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, m.checkpointPath); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Exists reports whether a checkpoint file is present
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// getDataDirectory returns the platform-appropriate data directory
func getDataDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "igprofile"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "igprofile"), nil
		}
		return filepath.Join(home, "igprofile"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "igprofile"), nil
		}
		return filepath.Join(home, ".local", "share", "igprofile"), nil
	}
}
