package logging

import (
	"os"

	"go.uber.org/zap"
)

// Logger emits structured operation events from the composition services.
// Every event carries the operation name and the entity id it acted on;
// verbosity policy stays with the zap configuration, not the callers.
type Logger struct {
	z *zap.Logger
}

func New() (*Logger, error) {
	var (
		z   *zap.Logger
		err error
	)
	if os.Getenv("ENV") == "production" {
		z, err = zap.NewProduction()
	} else {
		z, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Info(op, entityID string, fields ...zap.Field) {
	l.z.Info(op, append(fields, zap.String("entity_id", entityID))...)
}

func (l *Logger) Warn(op, entityID string, fields ...zap.Field) {
	l.z.Warn(op, append(fields, zap.String("entity_id", entityID))...)
}

func (l *Logger) Error(op, entityID string, err error, fields ...zap.Field) {
	l.z.Error(op, append(fields, zap.String("entity_id", entityID), zap.Error(err))...)
}

func (l *Logger) Sync() {
	_ = l.z.Sync()
}
