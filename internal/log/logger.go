package log

import "go.uber.org/zap"

var base *zap.Logger

// Init builds the process logger: production config when prod is true,
// development config otherwise. Returns the logger for defer Sync.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	base = l
	return l, nil
}

// L returns the process logger; a nop logger before Init so that
// library code and tests can log unconditionally.
func L() *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base
}
