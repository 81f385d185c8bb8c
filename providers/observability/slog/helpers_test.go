package slog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// removeTime drops the time key from a JSON log line.
func removeTime(t *testing.T, line []byte) string {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	delete(entry, "time")

	out, err := json.Marshal(entry)
	require.NoError(t, err)
	return string(out)
}
