// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/gbpack/gbpack/internal/config"
	"github.com/gbpack/gbpack/internal/export"
	"github.com/gbpack/gbpack/pkg/gbmap"
)

// sampleContainer is the container exported from testutil.SampleProject.
const sampleContainer = "V2\nMyMap\nA test map\n§\n1\n1\nextra1\nextra2\n§\n1\n2\n3\n§\n§\ntex1\n10\n20\n~\n§\ncubeline1\n§\n"

type (
	// stubConfig returns a fixed configuration.
	stubConfig struct {
		cfg  *config.Config
		path string
		err  error
	}

	// exporterFunc adapts a function to ExportService.
	exporterFunc func(ctx context.Context, req export.Request, sink gbmap.ProgressSink) (export.Result, error)

	// harness runs one command line against buffers.
	harness struct {
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s *stubConfig) Resolve(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	cfg := config.DefaultConfig()
	if s.cfg != nil {
		c := *s.cfg
		cfg = &c
	}
	return cfg, s.path, nil
}

func (f exporterFunc) Run(ctx context.Context, req export.Request, sink gbmap.ProgressSink) (export.Result, error) {
	return f(ctx, req, sink)
}

// newHarness builds an App writing to buffers. A nil deps.Config uses the
// default configuration; stdout is never a terminal.
func newHarness(t *testing.T, deps Dependencies) *harness {
	t.Helper()

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	deps.Stdout = h.stdout
	deps.Stderr = h.stderr
	if deps.Config == nil {
		deps.Config = &stubConfig{}
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func(io.Writer) bool { return false }
	}
	h.app = NewApp(deps)
	return h
}

func (h *harness) run(args ...string) error {
	return h.runContext(context.Background(), args...)
}

func (h *harness) runContext(ctx context.Context, args ...string) error {
	root := NewRootCommand(h.app)
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetOut(h.stdout)
	root.SetErr(h.stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
