package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/application"
)

func testConfig(t *testing.T) string {
	t.Helper()
	t.Setenv(application.EnvConfigPath, "")
	path := filepath.Join(t.TempDir(), "archiver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))
	return path
}

func runCmd(t *testing.T, stdin []byte, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, bytes.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestEncodeDecode(t *testing.T) {
	cfg := testConfig(t)
	input := `{"b":[1,"x"],"a":2.5}
"hello"
-7
`
	encoded, stderr, code := runCmd(t, []byte(input), "encode", "--config", cfg)
	require.Equal(t, 0, code, stderr)

	decoded, stderr, code := runCmd(t, []byte(encoded), "decode", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "{\"a\":2.5,\"b\":[1,\"x\"]}\n\"hello\"\n-7\n", decoded)
}

func TestInspect(t *testing.T) {
	cfg := testConfig(t)
	encoded, _, code := runCmd(t, []byte(`["a","bb"]`), "encode", "--config", cfg)
	require.Equal(t, 0, code)

	out, stderr, code := runCmd(t, []byte(encoded), "inspect", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "#0 list (len=82)\n"), out)
	assert.Contains(t, out, `[1] string (len=21) "bb"`)
}

func TestRawRecord(t *testing.T) {
	cfg := testConfig(t)
	encoded, _, code := runCmd(t, []byte(`42`), "encode", "--raw", "--config", cfg)
	require.Equal(t, 0, code)
	assert.Equal(t, "int", encoded[1:4])

	out, _, code := runCmd(t, []byte(encoded), "decode", "--raw", "--config", cfg)
	require.Equal(t, 0, code)
	assert.Equal(t, "42\n", out)
}

func TestEncodeUnsupported(t *testing.T) {
	cfg := testConfig(t)
	_, stderr, code := runCmd(t, []byte(`[true]`), "encode", "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "archivectl encode")
}

func TestDecodeCorrupt(t *testing.T) {
	cfg := testConfig(t)
	_, stderr, code := runCmd(t, []byte{0, 0, 0, 2, 3, 'i'}, "decode", "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "record 0")
}

func TestEncodeInvalidJSON(t *testing.T) {
	cfg := testConfig(t)
	_, stderr, code := runCmd(t, []byte(`{"a":`), "encode", "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read json value 0")
}

func TestConfigFailureExitStatus(t *testing.T) {
	_, stderr, code := runCmd(t, nil, "decode", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "load config")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("archive:\n  max-depth: -1\n"), 0o600))
	_, stderr, code = runCmd(t, nil, "decode", "--config", bad)
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "max-depth")
}

func TestUsage(t *testing.T) {
	_, stderr, code := runCmd(t, nil)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: archivectl")

	_, stderr, code = runCmd(t, nil, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	_, _, code = runCmd(t, nil, "decode", "--bogus")
	assert.Equal(t, 2, code)
}

func TestVersion(t *testing.T) {
	out, _, code := runCmd(t, nil, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, application.Version+"\n", out)
}
