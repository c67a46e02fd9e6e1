package logger

import (
	"testing"

	"github.com/nalgeon/be"
	"go.uber.org/zap/zapcore"
)

func TestConfigureSetsLevel(t *testing.T) {
	be.Err(t, Configure("warn"), nil)

	log := GetLogger()
	be.True(t, !log.Desugar().Core().Enabled(zapcore.InfoLevel))
	be.True(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))

	be.Err(t, Configure("info"), nil)
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	be.Err(t, Configure("loud"))
}
