package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofile/pkg/models"
)

func sampleResult() *models.ScrapeResult {
	return &models.ScrapeResult{
		Profile: &models.Profile{
			Username:      "testuser",
			FullName:      "Test User",
			FollowerCount: 1500,
		},
		Posts: []models.Post{
			{ID: "1000", Shortcode: "C0000", MediaType: "image", Permalink: "https://www.instagram.com/p/C0000/"},
		},
		TotalPosts:  1,
		CompletedAt: time.Now().UTC(),
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")

	require.NoError(t, NewWriter(path, true).Write(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded models.ScrapeResult
	require.NoError(t, json.Unmarshal(data, &loaded))

	assert.Equal(t, "testuser", loaded.Profile.Username)
	require.Len(t, loaded.Posts, 1)
	assert.Equal(t, "1000", loaded.Posts[0].ID)
	assert.Equal(t, 1, loaded.TotalPosts)
}

func TestWriteCompact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, NewWriter(path, false).Write(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Compact output is a single line.
	assert.Equal(t, byte('\n'), data[len(data)-1])
	assert.NotContains(t, string(data[:len(data)-1]), "\n")
}

func TestWriteReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, NewWriter(path, true).Write(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}
