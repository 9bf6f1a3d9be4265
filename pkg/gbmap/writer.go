// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	// TexturePhaseShare is the share of overall progress reported while
	// writing textures. Map cubes report the remainder.
	TexturePhaseShare = 30
	// MapCubePhaseShare is the share of overall progress reported while
	// writing map cubes.
	MapCubePhaseShare = 100 - TexturePhaseShare
)

type (
	// Writer serializes an AssetSet into a GBMAP container.
	Writer struct {
		out  *bufio.Writer
		sink ProgressSink
		buf  []byte
	}

	// step is one state of the container grammar. Steps run in order and
	// each is flushed before the next begins, so an I/O failure is
	// attributed to the section that caused it.
	step struct {
		section string
		phase   string
		run     func(w *Writer, ctx context.Context, set *AssetSet, ov Overrides) error
	}
)

var steps = []step{
	{section: "header", phase: "Writing version to file", run: (*Writer).writeHeader},
	{section: "name", phase: "Writing relevant section to file", run: (*Writer).writeNameDescription},
	{section: "delimiter", phase: "Writing section delimiter", run: (*Writer).writeDelimiter},
	{section: "counts", phase: "Writing map cube and custom texture counts", run: (*Writer).writeCounts},
	{section: "metadata", phase: "Writing remaining relevant section to file", run: (*Writer).writeMetadata},
	{section: "delimiter", phase: "Writing section delimiter", run: (*Writer).writeDelimiter},
	{section: "icon", phase: "Writing icon data to file", run: (*Writer).writeIcon},
	{section: "delimiter", phase: "Writing section delimiter", run: (*Writer).writeDelimiter},
	{section: "banner", phase: "Writing banner data to file", run: (*Writer).writeBanner},
	{section: "delimiter", phase: "Writing section delimiter", run: (*Writer).writeDelimiter},
	{section: "textures", run: (*Writer).writeTextures},
	{section: "delimiter", phase: "Writing section delimiter", run: (*Writer).writeDelimiter},
	{section: "map cubes", run: (*Writer).writeMapCubes},
	{section: "final delimiter", phase: "Writing final section delimiter", run: (*Writer).writeDelimiter},
}

// NewWriter returns a Writer that writes to w and reports to sink.
// A nil sink discards notifications.
func NewWriter(w io.Writer, sink ProgressSink) *Writer {
	if sink == nil {
		sink = NopSink{}
	}
	return &Writer{out: bufio.NewWriter(w), sink: sink}
}

// Write validates set and ov, then writes the complete container.
//
// The context is checked before every section and before every texture and
// map cube; a canceled context stops the write with an error matching both
// ErrCanceled and the context's error. An I/O failure stops the write with a
// *WriteError. In both cases the destination may hold a partial container.
// Write reports a log line before returning any error, but never reports
// OnFinished or OnError; those belong to whoever owns the whole export.
func (w *Writer) Write(ctx context.Context, set *AssetSet, ov Overrides) error {
	if err := errors.Join(set.Validate(), ov.Validate()); err != nil {
		w.sink.OnLog("Invalid export input: " + err.Error())
		return err
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return w.cancel(err)
		}
		if st.phase != "" {
			w.sink.OnPhase(st.phase)
		}
		if err := st.run(w, ctx, set, ov); err != nil {
			if errors.Is(err, ErrCanceled) {
				return err
			}
			return w.fail(st.section, err)
		}
		if err := w.out.Flush(); err != nil {
			return w.fail(st.section, err)
		}
	}
	return nil
}

func (w *Writer) writeHeader(_ context.Context, _ *AssetSet, _ Overrides) error {
	return w.line(Version)
}

func (w *Writer) writeNameDescription(_ context.Context, set *AssetSet, ov Overrides) error {
	if err := w.line(set.EffectiveName(ov)); err != nil {
		return err
	}
	return w.line(set.EffectiveDescription(ov))
}

func (w *Writer) writeDelimiter(_ context.Context, _ *AssetSet, _ Overrides) error {
	return w.line(SectionDelimiter)
}

func (w *Writer) writeCounts(_ context.Context, set *AssetSet, _ Overrides) error {
	if err := w.line(strconv.Itoa(len(set.MapCubes))); err != nil {
		return err
	}
	return w.line(strconv.Itoa(len(set.Textures)))
}

func (w *Writer) writeMetadata(_ context.Context, set *AssetSet, _ Overrides) error {
	for _, l := range set.Metadata.Extra() {
		if err := w.line(strings.TrimSpace(l)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeIcon(_ context.Context, set *AssetSet, _ Overrides) error {
	return w.blob(set.Icon)
}

func (w *Writer) writeBanner(_ context.Context, set *AssetSet, _ Overrides) error {
	return w.blob(set.Banner)
}

func (w *Writer) writeTextures(ctx context.Context, set *AssetSet, _ Overrides) error {
	n := len(set.Textures)
	for i, tex := range set.Textures {
		if err := ctx.Err(); err != nil {
			return w.cancel(err)
		}
		w.sink.OnPhase("Writing custom texture: " + tex.Name)
		if err := w.line(tex.Name); err != nil {
			return err
		}
		if err := w.blob(tex.Data); err != nil {
			return err
		}
		if err := w.line(TextureSentinel); err != nil {
			return err
		}
		if err := w.out.Flush(); err != nil {
			return err
		}
		w.sink.OnProgress(scaledProgress(0, TexturePhaseShare, i, n))
	}
	return nil
}

func (w *Writer) writeMapCubes(ctx context.Context, set *AssetSet, _ Overrides) error {
	n := len(set.MapCubes)
	for i, block := range set.MapCubes {
		if err := ctx.Err(); err != nil {
			return w.cancel(err)
		}
		w.sink.OnPhase(fmt.Sprintf("Writing map cube data %d/%d", i+1, n))
		for _, l := range block {
			if _, err := w.out.WriteString(l); err != nil {
				return err
			}
			if !strings.HasSuffix(l, "\n") {
				if err := w.out.WriteByte('\n'); err != nil {
					return err
				}
			}
		}
		if err := w.out.Flush(); err != nil {
			return err
		}
		w.sink.OnProgress(scaledProgress(TexturePhaseShare, MapCubePhaseShare, i, n))
	}
	return nil
}

func (w *Writer) line(s string) error {
	if _, err := w.out.WriteString(s); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

func (w *Writer) blob(data []byte) error {
	w.buf = AppendEncoded(w.buf[:0], data)
	_, err := w.out.Write(w.buf)
	return err
}

func (w *Writer) fail(section string, cause error) error {
	w.sink.OnLog(fmt.Sprintf("Error writing %s section: %v", section, cause))
	return &WriteError{Section: section, Cause: cause}
}

func (w *Writer) cancel(cause error) error {
	w.sink.OnLog("Export canceled before the container was complete")
	return canceled(cause)
}

// scaledProgress maps item i of n onto [base, base+share]. An empty phase
// (n == 0) stays at base.
func scaledProgress(base, share, i, n int) int {
	if n <= 0 {
		return base
	}
	return base + int(math.Round(float64(i+1)/float64(n)*float64(share)))
}
