package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/pkg/logger"
)

func TestNewWithOutput(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Level: "info", Format: "json"}, &buf)
		log.Info("server started", slog.String("addr", ":8080"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "server started", record["msg"])
		assert.Equal(t, ":8080", record["addr"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Level: "debug", Format: "text"}, &buf)
		log.Debug("probe")
		assert.Contains(t, buf.String(), "msg=probe")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Level: "error", Format: "json"}, &buf)
		log.Info("dropped")
		log.Error("kept")

		lines := strings.TrimSpace(buf.String())
		assert.Equal(t, 1, strings.Count(lines, "\n")+1)
		assert.Contains(t, lines, "kept")
	})

	t.Run("unknown values fall back to info json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewWithOutput(logger.Config{Level: "loud", Format: "xml"}, &buf)
		log.Info("ok")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "ok", record["msg"])
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.Equal(t, "component", logger.Component("auth").Key)
}
