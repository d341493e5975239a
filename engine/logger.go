package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nop    = zap.NewNop()
	logger atomic.Pointer[zap.Logger]
)

// Logger returns the engine's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger configures the engine's logger. A nil logger restores the
// no-op default. It is safe to call while modules are running.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
