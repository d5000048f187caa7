package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPackageHelpersUseInstalledLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := Get()
	Set(&Logger{SugaredLogger: zap.New(core).Sugar()})
	t.Cleanup(func() { Set(prev) })

	Infof("✅ wallet %s activated", "W1")
	Warnf("skipped")
	Errorf("❌ %d failures", 2)

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "✅ wallet W1 activated", entries[0].Message)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{true, false} {
		l, err := NewLogger(dev)
		assert.NoError(t, err)
		assert.NotNil(t, l.SugaredLogger)
	}
}
