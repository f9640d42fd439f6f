package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/errs"
)

func TestExecConverterNoCommand(t *testing.T) {
	c := &ExecConverter{}
	_, err := c.Convert(context.Background(), Request{
		RawPath:   "in.raw",
		OutputDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, errs.IsConversionFailed(err))
}

func TestExecConverterMissingBinary(t *testing.T) {
	c := &ExecConverter{Command: "definitely-not-a-real-converter-binary"}
	_, err := c.Convert(context.Background(), Request{
		RawPath:    "in.raw",
		OutputDir:  t.TempDir(),
		SonarModel: "EK80",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConversionFailed(err))
}

func TestExecConverterSuccess(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "2107RL_CW-D20210813-T220732.raw")
	require.NoError(t, os.WriteFile(raw, []byte("raw"), 0o644))

	outDir := filepath.Join(dir, "out")

	// Stand-in converter: touch the expected .nc next to --output-dir.
	script := filepath.Join(dir, "fakeconvert.sh")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\n"+
			"while [ $# -gt 0 ]; do\n"+
			"  case \"$1\" in\n"+
			"    --output-dir) shift; OUT=\"$1\";;\n"+
			"    --input) shift; IN=\"$1\";;\n"+
			"  esac\n"+
			"  shift\n"+
			"done\n"+
			"base=$(basename \"$IN\" .raw)\n"+
			"touch \"$OUT/$base.nc\"\n"),
		0o755))

	c := &ExecConverter{Command: script, Timeout: 10 * time.Second}
	out, err := c.Convert(context.Background(), Request{
		RawPath:    raw,
		OutputDir:  outDir,
		SonarModel: "EK80",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "2107RL_CW-D20210813-T220732.nc"), out)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestExecConverterNoOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "noop.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	c := &ExecConverter{Command: script}
	_, err := c.Convert(context.Background(), Request{
		RawPath:    filepath.Join(dir, "a.raw"),
		OutputDir:  dir,
		SonarModel: "EK60",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConversionFailed(err))
}

func TestExecConverterVersionFallback(t *testing.T) {
	c := &ExecConverter{Command: "definitely-not-a-real-converter-binary"}
	assert.Equal(t, "unknown", c.Version(context.Background()))
}
