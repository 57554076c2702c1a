package notify

import (
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Sink receives launch events
type Sink interface {
	Launched(types.LaunchEvent)
}

// Multi forwards events to every sink in order
type Multi []Sink

func (m Multi) Launched(e types.LaunchEvent) {
	for _, s := range m {
		if s != nil {
			s.Launched(e)
		}
	}
}

// Log writes events to a logger
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging sink
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) Launched(e types.LaunchEvent) {
	l.logger.Info("App launched",
		zap.String("app", e.App),
		zap.String("source", string(e.Source)),
		zap.String("window_id", e.WindowID),
		zap.String("path", e.Path),
		zap.Bool("reused", e.Reused),
	)
}
