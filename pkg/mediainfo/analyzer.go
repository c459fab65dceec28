// Package mediainfo runs the mediainfo CLI and turns its output into
// structured reports.
package mediainfo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Analyzer produces the raw mediainfo text output for a file.
type Analyzer interface {
	Analyze(ctx context.Context, path string) (string, error)
}

// CLIAnalyzer shells out to the mediainfo binary installed in the image.
type CLIAnalyzer struct {
	// Binary overrides the executable name, default "mediainfo".
	Binary string
}

var _ Analyzer = CLIAnalyzer{}

func (a CLIAnalyzer) binary() string {
	if a.Binary != "" {
		return a.Binary
	}

	return "mediainfo"
}

func (a CLIAnalyzer) Analyze(ctx context.Context, path string) (string, error) {
	var stdout, stderr bytes.Buffer

	//nolint:gosec
	cmd := exec.CommandContext(ctx, a.binary(), path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second
	cmd.Cancel = func() error {
		logrus.Debug("Sending termination signal to mediainfo")

		return terminate(cmd)
	}
	setNewProcessGroup(cmd)

	logrus.Debugf("Launching command: %v", cmd)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("mediainfo failed on %q: %w", path, err)
	}

	if stderr.Len() > 0 {
		logrus.Warnf("mediainfo stderr: %s", strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
