// Package logger builds the zap logger crmchart writes to and carries the
// build, chart and entity fields through a chart build.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/crmchart/internal/config"
)

// Context field keys.
const (
	FieldBuild  = "build"
	FieldChart  = "chart"
	FieldEntity = "entity"
)

// Logger is a sugared zap logger with build context helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a Logger from configuration. Empty settings mean info level,
// json format and stderr. Output names a file, "stdout" or "stderr"; stdout is
// normally reserved for chart output.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	sink, _, err := zap.Open(output)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %q: %w", output, err)
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	return FromCore(zapcore.NewCore(encoder, sink, level)), nil
}

// FromCore wraps an existing zap core.
func FromCore(core zapcore.Core) *Logger {
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{SugaredLogger: base.Sugar()}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newEncoder(format string) (zapcore.Encoder, error) {
	switch format {
	case "json", "":
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "time"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.MillisDurationEncoder
		return zapcore.NewJSONEncoder(ec), nil
	case "text":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
		return zapcore.NewConsoleEncoder(ec), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

func (l *Logger) with(key, value string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(key, value)}
}

// WithBuild tags entries with the build id.
func (l *Logger) WithBuild(buildID string) *Logger {
	return l.with(FieldBuild, buildID)
}

// WithChart tags entries with the chart name.
func (l *Logger) WithChart(chartName string) *Logger {
	return l.with(FieldChart, chartName)
}

// WithEntity tags entries with an entity logical name.
func (l *Logger) WithEntity(logicalName string) *Logger {
	return l.with(FieldEntity, logicalName)
}
