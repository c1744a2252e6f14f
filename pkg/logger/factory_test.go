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

	"github.com/mcwamsie/finsco-hub/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to json at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("visible", slog.String("key", "value"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "visible", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

		log.Info("hello")
		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelError))

		log.Warn("hidden")
		assert.Zero(t, buf.Len())

		log.Error("boom")
		assert.NotZero(t, buf.Len())
	})

	t.Run("service attribute tags every record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithService("dispatcher"))

		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "dispatcher", record["service"])
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	log := logger.NewFromConfig(logger.Config{Level: "debug", Format: logger.FormatJSON})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(t.Context(), slog.LevelDebug))
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		t.Parallel()

		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)
	})

	t.Run("errors attr skips nils", func(t *testing.T) {
		t.Parallel()

		assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

		attr := logger.Errors(errors.New("first"), nil, errors.New("third"))
		assert.Equal(t, "errors", attr.Key)
		assert.Len(t, attr.Value.Group(), 2)
	})

	t.Run("identity attrs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "user_id", logger.UserID("member-1").Key)
		assert.Equal(t, "notification_id", logger.NotificationID("n-1").Key)
		assert.Equal(t, "component", logger.Component("dispatcher").Key)
	})
}
