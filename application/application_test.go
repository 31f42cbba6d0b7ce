package application

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/internal/serializer"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archiver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunWithConfig(t *testing.T) {
	path := writeConfig(t, "archive:\n  element-policy: drop\n  enable-metrics: true\nframer:\n  compression: zstd\nlog:\n  level: warn\n")
	app := New(
		WithConfigPath(path),
		WithRegisterer(prometheus.NewRegistry()),
		WithActivations(func(r *archive.Registry) error {
			return r.RegisterRecord("event", nil)
		}),
	)
	require.NoError(t, app.Run())
	defer app.Close()

	assert.Equal(t, archive.ElementDrop, app.Archiver().Options().ElementPolicy)
	assert.True(t, app.Archiver().Registry().Frozen())
	assert.True(t, app.Archiver().Registry().Identifiers().Contain("event"))

	c, err := app.Codec(nil)
	require.NoError(t, err)
	var stream bytes.Buffer
	require.NoError(t, c.Encode(&stream, archive.NewList(archive.Int(1), nil)))
	var v archive.Value
	require.NoError(t, c.Decode(&stream, &v))
	assert.Equal(t, 1, v.(*archive.List).Len())

	jc, err := app.Codec(serializer.JSONSerializer{})
	require.NoError(t, err)
	require.NoError(t, jc.Encode(&stream, map[string]any{"a": 1}))
}

func TestRunMissingExplicitConfig(t *testing.T) {
	app := New(WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, app.Run())
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	path, required := New().resolveConfigPath()
	assert.Equal(t, DefaultConfigPath, path)
	assert.False(t, required)

	t.Setenv(EnvConfigPath, "/etc/archiver.yaml")
	path, required = New().resolveConfigPath()
	assert.Equal(t, "/etc/archiver.yaml", path)
	assert.True(t, required)

	path, _ = New(WithConfigPath("./cli.yaml")).resolveConfigPath()
	assert.Equal(t, "./cli.yaml", path)
}

func TestActivationFailure(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")
	app := New(WithConfigPath(path), WithActivations(func(r *archive.Registry) error {
		return merr.WrapErrParameterInvalidMsg("bad activation")
	}))
	assert.ErrorIs(t, app.Run(), merr.ErrParameterInvalid)
}

func TestBuildVersion(t *testing.T) {
	v, err := BuildVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.Major)

	old := Version
	defer func() { Version = old }()
	Version = "v1.2"
	v, err = BuildVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v.String())
}
