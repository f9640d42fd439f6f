package convert

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/seabeam/echofetch/internal/errs"
)

// ExecConverter shells out to an echopype-style converter command:
//
//	<command> --input <raw> --output-dir <dir> --sonar-model <model> [--overwrite]
//
// The command is expected to write <stem>.nc into the output directory and
// exit non-zero on failure.
type ExecConverter struct {
	// Command is the converter executable, resolved via PATH when relative.
	Command string
	// Timeout bounds one conversion. Zero means no bound beyond ctx.
	Timeout time.Duration
}

var _ Converter = (*ExecConverter)(nil)

// Convert runs the converter synchronously.
func (c *ExecConverter) Convert(ctx context.Context, req Request) (string, error) {
	if c.Command == "" {
		return "", errs.New(errs.ErrKindConversionFailed, "no converter command configured")
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return "", errs.Wrap(errs.ErrKindConversionFailed, "cannot create output directory", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := []string{
		"--input", req.RawPath,
		"--output-dir", req.OutputDir,
		"--sonar-model", req.SonarModel,
	}
	if req.Overwrite {
		args = append(args, "--overwrite")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "converter exited with an error"
		}
		return "", errs.Wrap(errs.ErrKindConversionFailed, msg, err)
	}

	stem := strings.TrimSuffix(filepath.Base(req.RawPath), filepath.Ext(req.RawPath))
	out := filepath.Join(req.OutputDir, stem+".nc")
	if _, err := os.Stat(out); err != nil {
		return "", errs.Wrap(errs.ErrKindConversionFailed,
			"converter finished but produced no output", err)
	}
	return out, nil
}

// Version asks the converter for its version string. Failures degrade to
// "unknown"; the version is sidecar metadata, not a correctness input.
func (c *ExecConverter) Version(ctx context.Context) string {
	if c.Command == "" {
		return "unknown"
	}
	out, err := exec.CommandContext(ctx, c.Command, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
