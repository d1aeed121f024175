package logger

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ options.LogSink = (*MongoLogSink)(nil)

// MongoLogSink adapts zerolog to the Mongo driver's LogSink interface.
type MongoLogSink struct {
	logger zerolog.Logger
}

// NewMongoLogSink returns a sink that writes driver logs under component=mongo.
func NewMongoLogSink(logger zerolog.Logger) *MongoLogSink {
	return &MongoLogSink{
		logger: logger.With().Str("component", "mongo").Logger(),
	}
}

// Info receives driver messages. The driver uses level 1 for info and 2 for debug.
func (s *MongoLogSink) Info(level int, message string, keysAndValues ...interface{}) {
	e := s.logger.Debug()
	if level <= 1 {
		e = s.logger.Info()
	}
	withFields(e, keysAndValues).Msg(message)
}

func (s *MongoLogSink) Error(err error, message string, keysAndValues ...interface{}) {
	withFields(s.logger.Error().Err(err), keysAndValues).Msg(message)
}

// withFields copies driver key/value pairs onto the event.
// A trailing key without a value is dropped.
func withFields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	return e
}

// GetMongoLogLevel maps the zerolog level to the driver's component level.
func GetMongoLogLevel(level zerolog.Level) options.LogLevel {
	if level <= zerolog.DebugLevel {
		return options.LogLevelDebug
	}
	return options.LogLevelInfo
}
