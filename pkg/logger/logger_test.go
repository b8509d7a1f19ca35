package logger

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/AldairAG/PayGlobal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payglobal.log")
	l, closeLog, err := New(&config.LogConfig{Level: "info", Filename: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)

	l.Debug("dropped")
	l.Info("kept")
	require.NoError(t, l.Sync())
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestNewStdoutOnlyCloses(t *testing.T) {
	l, closeLog, err := New(&config.LogConfig{Level: "info"})
	require.NoError(t, err)
	l.Info("hello")
	assert.NoError(t, l.Sync())
	closeLog()
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(&config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

type stubSyncer struct {
	err error
}

func (s stubSyncer) Write(p []byte) (int, error) { return len(p), nil }
func (s stubSyncer) Sync() error                 { return s.err }

func TestConsoleSyncerIgnoresUnsyncableStdout(t *testing.T) {
	for _, errno := range []syscall.Errno{syscall.EINVAL, syscall.ENOTTY} {
		c := consoleSyncer{stubSyncer{err: &os.PathError{Op: "sync", Path: "/dev/stdout", Err: errno}}}
		assert.NoError(t, c.Sync(), errno.Error())
	}

	other := errors.New("sync failed")
	c := consoleSyncer{stubSyncer{err: other}}
	assert.ErrorIs(t, c.Sync(), other)
}
