package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// badgerLoggerAdapter routes badger's printf-style logging into zap
type badgerLoggerAdapter struct {
	sugar *zap.SugaredLogger
}

var _ badgerdb.Logger = (*badgerLoggerAdapter)(nil)

func newBadgerLoggerAdapter(logger *zap.Logger) *badgerLoggerAdapter {
	return &badgerLoggerAdapter{sugar: logger.With(zap.String("component", "badger")).Sugar()}
}

func (a *badgerLoggerAdapter) Errorf(format string, args ...interface{}) { a.sugar.Errorf(format, args...) }

func (a *badgerLoggerAdapter) Warningf(format string, args ...interface{}) { a.sugar.Warnf(format, args...) }

// Infof goes to debug: compaction and value-log GC report at info level.
func (a *badgerLoggerAdapter) Infof(format string, args ...interface{}) { a.sugar.Debugf(format, args...) }

func (a *badgerLoggerAdapter) Debugf(format string, args ...interface{}) { a.sugar.Debugf(format, args...) }
