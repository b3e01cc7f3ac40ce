package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(&buf, "warn", false)

		log.Info().Msg("hidden")
		log.Warn().Str("user_id", "u1").Msg("shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, `"user_id":"u1"`)
		assert.Contains(t, out, `"level":"warn"`)
	})

	t.Run("UnknownLevel", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(&buf, "loud", false)
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("Pretty", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(&buf, "debug", true)
		log.Debug().Msg("console line")
		assert.Contains(t, buf.String(), "console line")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}
