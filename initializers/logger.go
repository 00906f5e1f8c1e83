package initializers

import "go.uber.org/zap"

// NewLogger builds the process logger. It is constructed once in main and
// handed to every component; nothing in the codebase logs through a global.
func NewLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
