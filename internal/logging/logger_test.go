package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", "json", &buf)

	logger.Info().Str("item_id", "p1").Msg("scored")

	out := buf.String()
	if !strings.Contains(out, `"item_id":"p1"`) {
		t.Errorf("expected item_id field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"scored"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", "json", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("loud", "json", &buf)

	logger.Debug().Msg("debug")
	logger.Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"message":"debug"`) {
		t.Errorf("unknown level should default to info: %q", out)
	}
	if !strings.Contains(out, `"message":"info"`) {
		t.Errorf("info entry missing: %q", out)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error().Msg("dropped")
}
