package conformance

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nop    = zap.NewNop()
	logger atomic.Pointer[zap.Logger]
)

// Logger returns the package logger, a no-op until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger configures the package logger. A nil logger restores the
// no-op default; runs already in progress keep the logger they started with.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
