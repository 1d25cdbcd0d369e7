package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

// Configure switches to JSON output outside local/dev and applies level.
// Unknown levels keep the current one.
func Configure(env, level string) {
	defaultLogger.SetOutput(os.Stdout)
	switch env {
	case "prod", "production":
		defaultLogger.SetFormatter(&logrus.JSONFormatter{})
	default:
		defaultLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		defaultLogger.SetLevel(lvl)
	}
}

func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, ctxKey{}, For(parent).WithFields(fields))
}

func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}
	return defaultEntry.WithContext(ctx)
}
