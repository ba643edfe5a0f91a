package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-protocol-registry/cache"
)

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{"zap", "", "logrus", "LOGRUS"} {
		t.Run("backend "+backend, func(t *testing.T) {
			var buf bytes.Buffer
			l, flush, err := New(backend, "info", &buf)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			l.Debug("hidden", nil)
			l.Info("sector created", cache.Fields{"acronym": "FIN"})
			_ = flush()

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != 1 {
				t.Fatalf("want one line at info level, got %q", buf.String())
			}
			var entry map[string]any
			if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
				t.Fatalf("not JSON: %v", err)
			}
			if entry["msg"] != "sector created" || entry["acronym"] != "FIN" {
				t.Errorf("entry = %v", entry)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, _, err := New("slog", "info", nil); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, _, err := New("zap", "loud", nil); err == nil {
		t.Error("expected error for unknown zap level")
	}
	if _, _, err := New("logrus", "loud", nil); err == nil {
		t.Error("expected error for unknown logrus level")
	}
}
