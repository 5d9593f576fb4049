package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	log := NewIsolatedLogger(path)

	log.Info("AUDIT", "document.uploaded", map[string]interface{}{"owner": "alice"})
	log.Debug("AUDIT", "below file level", nil)
	_ = log.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "document.uploaded", lines[0]["message"])
	assert.Equal(t, "AUDIT", lines[0]["module"])
	assert.Equal(t, "alice", lines[0]["details"].(map[string]interface{})["owner"])
}
