// SPDX-License-Identifier: MPL-2.0

package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gbpack/gbpack/internal/assets"
	"github.com/gbpack/gbpack/pkg/gbmap"
)

type (
	// Request describes one export.
	Request struct {
		// ProjectDir is the map project directory to read.
		ProjectDir string
		// OutputPath is where the container is published. An existing file
		// is replaced only once the new container is complete.
		OutputPath string
		// Overrides replace the metadata name and description.
		Overrides gbmap.Overrides
	}

	// Result describes a published container.
	Result struct {
		OutputPath string
		Bytes      int64
		// SHA256 is the hex digest of the container.
		SHA256   string
		Textures int
		MapCubes int
		Duration time.Duration
	}

	// Exporter runs exports. The zero value is not usable; call New.
	Exporter struct {
		logger  *slog.Logger
		decoder assets.TextureDecoder
		now     func() time.Time
	}

	// Option configures an Exporter.
	Option func(*Exporter)

	// countWriter is an io.Writer that counts the number of bytes written to it.
	countWriter struct {
		w     io.Writer
		count int64
	}
)

// WithLogger sets the logger for the detailed export trail.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithTextureDecoder replaces the default texture decoder.
func WithTextureDecoder(d assets.TextureDecoder) Option {
	return func(e *Exporter) { e.decoder = d }
}

// WithClock sets the time source used for Result.Duration.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		logger:  slog.Default(),
		decoder: assets.PNGTextures{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run exports req, reporting to sink. Exactly one of OnFinished or OnError is
// reported, after a log line describing the result. The returned error
// classifies with Classify; a canceled context yields gbmap.ErrCanceled.
func (e *Exporter) Run(ctx context.Context, req Request, sink gbmap.ProgressSink) (Result, error) {
	if sink == nil {
		sink = gbmap.NopSink{}
	}
	start := e.now()

	sink.OnLog("Initializing script execution...")
	e.logger.Info("export started", "project", req.ProjectDir, "output", req.OutputPath)

	set, err := assets.Gather(ctx, req.ProjectDir,
		assets.WithProgress(sink),
		assets.WithLogger(e.logger),
		assets.WithTextureDecoder(e.decoder),
	)
	if err != nil {
		return Result{}, e.fail(sink, err)
	}
	e.logger.Info("assets gathered", "textures", len(set.Textures), "map_cubes", len(set.MapCubes))

	sink.OnLog("Compiling gbmap file...")
	res, err := e.publish(ctx, req.OutputPath, set, req.Overrides, sink)
	if err != nil {
		return Result{}, e.fail(sink, err)
	}
	res.Duration = e.now().Sub(start)

	sink.OnLog("Map file creation successful!")
	e.logger.Info("export finished",
		"output", res.OutputPath,
		"bytes", res.Bytes,
		"sha256", res.SHA256,
		"duration", res.Duration,
	)
	sink.OnFinished()
	return res, nil
}

func (e *Exporter) fail(sink gbmap.ProgressSink, err error) error {
	msg := message(err)
	sink.OnLog(msg)
	if Classify(err) == OutcomeCanceled {
		e.logger.Warn("export canceled")
	} else {
		e.logger.Error("export failed", "outcome", Classify(err).String(), "error", err)
	}
	sink.OnError(msg)
	return err
}

// publish writes the container to a temporary file in the output directory
// and renames it onto outputPath when complete.
func (e *Exporter) publish(ctx context.Context, outputPath string, set *gbmap.AssetSet, ov gbmap.Overrides, sink gbmap.ProgressSink) (res Result, err error) {
	target, err := filepath.Abs(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Result{}, &gbmap.WriteError{Section: "output directory", Cause: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return Result{}, &gbmap.WriteError{Section: "temporary file", Cause: err}
	}
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			e.logger.Warn("failed to remove temporary file", "path", tmp.Name(), "error", rmErr)
		}
	}()

	hash := sha256.New()
	cw := &countWriter{w: io.MultiWriter(tmp, hash)}
	if err := gbmap.NewWriter(cw, sink).Write(ctx, set, ov); err != nil {
		return Result{}, err
	}

	if err := tmp.Chmod(0o644); err != nil {
		return Result{}, &gbmap.WriteError{Section: "temporary file", Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		return Result{}, &gbmap.WriteError{Section: "temporary file", Cause: err}
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return Result{}, &gbmap.WriteError{Section: "temporary file", Cause: err}
	}
	// A cancel that arrives after the last section still wins; the old
	// output, if any, is left in place.
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", gbmap.ErrCanceled, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return Result{}, &gbmap.WriteError{Section: "publish", Cause: err}
	}
	e.logger.Debug("container published", "temp", tmp.Name(), "target", target)

	return Result{
		OutputPath: target,
		Bytes:      cw.count,
		SHA256:     hex.EncodeToString(hash.Sum(nil)),
		Textures:   len(set.Textures),
		MapCubes:   len(set.MapCubes),
	}, nil
}

func (w *countWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.count += int64(n)
	return n, err
}
