package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cnosuke/tag-audit/config"
	"github.com/cnosuke/tag-audit/internal/errors"
)

// Init builds the global zap logger from cfg and returns a function that
// flushes it. Output goes to cfg.Path when set, stderr otherwise; stdout is
// left alone so the MCP transport can own it.
func Init(cfg config.LogConfig) (func(), error) {
	var zc zap.Config
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	sink := "stderr"
	if cfg.Path != "" {
		sink = cfg.Path
	}
	zc.OutputPaths = []string{sink}
	zc.ErrorOutputPaths = []string{sink}

	l, err := zc.Build()
	if err != nil {
		return func() {}, errors.Wrap(err, "failed to build logger")
	}
	undo := zap.ReplaceGlobals(l)

	return func() {
		_ = l.Sync()
		undo()
	}, nil
}
