// Package logx builds the process logger behind the cache.Logger interface.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-protocol-registry/cache"
)

// Backends accepted by New.
const (
	BackendZap    = "zap"
	BackendLogrus = "logrus"
)

// New returns a JSON logger writing to w (stdout when nil) at level. The
// returned flush function must be called before the process exits.
func New(backend, level string, w io.Writer) (cache.Logger, func() error, error) {
	if w == nil {
		w = os.Stdout
	}
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("logx: %w", err)
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			zap.NewAtomicLevelAt(lvl),
		)
		l := zap.New(core)
		return ZapLogger{L: l}, l.Sync, nil

	case BackendLogrus:
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("logx: %w", err)
		}
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(lvl)
		l.SetFormatter(&logrus.JSONFormatter{})
		return LogrusLogger{E: logrus.NewEntry(l)}, func() error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("logx: unknown backend %q", backend)
}
