// Package logging defines the structured logger interface used across this
// module, grounded on the teacher's src.Logger field type and its
// zap.SugaredLogger-shaped call sites (Errorw/Infow with key-value pairs).
package logging

import "go.uber.org/zap"

// Logger is the subset of zap.SugaredLogger's API this module calls.
// Components take a Logger rather than *zap.SugaredLogger directly so tests
// can substitute Nop() without pulling in zap's formatting machinery.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Sync() error
}

// NewDevelopment builds a human-readable, development-mode logger,
// mirroring the teacher's app.start.go use of zap.NewDevelopment().Sugar().
func NewDevelopment() (Logger, error) {
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// NewProduction builds a JSON, production-mode logger, mirroring the
// teacher's zap.NewProduction().Sugar().
func NewProduction() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() Logger {
	return zap.NewNop().Sugar()
}
