package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitTestLogger(t *testing.T) {
	lg, props, err := InitTestLogger(t, &Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())
	lg.Debug("hello", FieldIdentifier("int"))
}

func TestInitLoggerLevel(t *testing.T) {
	_, props, err := InitTestLogger(t, &Config{Level: "trace"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())

	_, _, err = InitTestLogger(t, &Config{Level: "nope"})
	assert.Error(t, err)

	_, _, err = InitTestLogger(t, &Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestInitFileLogRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := initFileLog(&FileLogConfig{RootPath: dir, Filename: "."})
	assert.Error(t, err)

	lg, err := initFileLog(&FileLogConfig{RootPath: dir, Filename: "archiver.log"})
	require.NoError(t, err)
	assert.Equal(t, defaultLogMaxSize, lg.MaxSize)
}

func TestCtxFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	old, oldProps := L(), _globalP.Load().(*ZapProperties)
	ReplaceGlobals(zap.New(core), &ZapProperties{Core: core, Level: zap.NewAtomicLevelAt(zapcore.DebugLevel)})
	defer ReplaceGlobals(old, oldProps)

	ctx := WithModule(context.Background(), "archive")
	Ctx(ctx).Info("decoded", FieldIdentifier("list"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "archive", fields[FieldNameModule])
	assert.Equal(t, "list", fields[FieldNameIdentifier])
}

func TestRatedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := (&MLogger{Logger: zap.New(core)}).WithRateGroup("test.rated", 1, 1)

	assert.True(t, l.RatedWarn(1, "first"))
	assert.False(t, l.RatedWarn(1, "second"))
	assert.Equal(t, 1, logs.Len())

	child := l.With(FieldComponent("child"))
	assert.False(t, child.RatedInfo(1, "shares the group limiter"))
}

func TestBinderFallback(t *testing.T) {
	var b Binder
	assert.NotNil(t, b.Logger())

	custom := With(FieldComponent("custom"))
	b.SetLogger(custom)
	assert.Same(t, custom, b.Logger())
}
