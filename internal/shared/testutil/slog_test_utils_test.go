package testutil

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.False(t, handler.ContainsAttr("key", "other"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		AssertLogContains(t, handler, slog.LevelWarn, "warn")
	})

	t.Run("derived loggers share the store and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "cleaner").WithGroup("stats").Info("done", "rows", 4)

		records := handler.GetRecords()
		require.Len(t, records, 1)
		assert.Equal(t, "cleaner", records[0].Attrs["component"])
		assert.EqualValues(t, 4, records[0].Attrs["stats.rows"])
		AssertLogAttr(t, handler, "component", "cleaner")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})
}

func TestFixtures(t *testing.T) {
	for name, content := range map[string]string{"sample": SampleESGCSV, "dirty": DirtyESGCSV} {
		t.Run(name, func(t *testing.T) {
			path := WriteCSV(t, content)

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			assert.Equal(t, ESGHeader, lines[0])
			for _, line := range lines {
				assert.Equal(t, 13, strings.Count(line, ","), line)
			}
		})
	}
}
