package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = "warn"
	opts.Console = &buf

	log, flush, err := New(opts)
	require.NoError(t, err)
	log.Info("hidden")
	log.Error(nil, "shown", "variant", "DroneController")
	flush()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "DroneController")
}

func TestVerbosityMapsToDebug(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = "debug"
	opts.Console = &buf

	log, flush, err := New(opts)
	require.NoError(t, err)
	log.V(1).Info("detail")
	flush()
	assert.Contains(t, buf.String(), "detail")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightctl.log")
	opts := DefaultOptions()
	opts.File = path
	opts.Console = &bytes.Buffer{}

	log, flush, err := New(opts)
	require.NoError(t, err)
	log.Info("run saved", "id", "DroneController_1")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run saved"`)
	assert.Contains(t, string(data), `"id":"DroneController_1"`)
}

func TestBadLevel(t *testing.T) {
	opts := DefaultOptions()
	opts.Level = "loud"
	_, _, err := New(opts)
	assert.Error(t, err)
}
