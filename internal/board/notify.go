package board

import "go.uber.org/zap"

// Notifier receives the transient, dismissible notifications the controller
// surfaces after each mutation attempt.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info("notification", zap.String("level", "success"), zap.String("message", msg))
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Warn("notification", zap.String("level", "error"), zap.String("message", msg))
}
