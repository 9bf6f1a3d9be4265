// SPDX-License-Identifier: MPL-2.0

package gbmap

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

var errDiskFull = errors.New("disk full")

type (
	eventRecorder struct {
		events []Event
	}

	// limitWriter fails every write that would take it past limit bytes.
	limitWriter struct {
		limit int
		n     int
	}
)

func (r *eventRecorder) OnPhase(name string) {
	r.events = append(r.events, Event{Kind: EventPhase, Phase: name})
}
func (r *eventRecorder) OnProgress(p int) {
	r.events = append(r.events, Event{Kind: EventProgress, Percent: p})
}
func (r *eventRecorder) OnLog(line string) {
	r.events = append(r.events, Event{Kind: EventLog, Line: line})
}
func (r *eventRecorder) OnFinished() { r.events = append(r.events, Event{Kind: EventFinished}) }
func (r *eventRecorder) OnError(msg string) {
	r.events = append(r.events, Event{Kind: EventError, Message: msg})
}

func (r *eventRecorder) progress() []int {
	var out []int
	for _, ev := range r.events {
		if ev.Kind == EventProgress {
			out = append(out, ev.Percent)
		}
	}
	return out
}

func (r *eventRecorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		return 0, errDiskFull
	}
	w.n += len(p)
	return len(p), nil
}

func scenarioAssets() *AssetSet {
	return &AssetSet{
		Metadata: ProjectMetadata{"ignored\n", "MyMap\n", "A test map\n", "extra1\n", "extra2\n"},
		Icon:     []byte{1, 2, 3},
		Banner:   []byte{},
		Textures: []NamedTexture{{Name: "tex1", Data: []byte{10, 20}}},
		MapCubes: []MapCubeBlock{{"cubeline1\n"}},
	}
}

func writeLines(t *testing.T, set *AssetSet, ov Overrides, sink ProgressSink) []string {
	t.Helper()

	var buf bytes.Buffer
	if err := NewWriter(&buf, sink).Write(context.Background(), set, ov); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("output does not end with a newline: %q", out)
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func TestWriterScenario(t *testing.T) {
	t.Parallel()

	got := writeLines(t, scenarioAssets(), Overrides{}, nil)
	want := []string{
		"V2", "MyMap", "A test map", "§",
		"1", "1", "extra1", "extra2", "§",
		"1", "2", "3", "§",
		"§",
		"tex1", "10", "20", "~", "§",
		"cubeline1", "§",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Write() lines =\n%q\nwant\n%q", got, want)
	}
}

func TestWriterOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ov       Overrides
		wantName string
		wantDesc string
	}{
		{name: "none", ov: Overrides{}, wantName: "MyMap", wantDesc: "A test map"},
		{name: "name only", ov: Overrides{Name: "Custom"}, wantName: "Custom", wantDesc: "A test map"},
		{name: "blank override ignored", ov: Overrides{Name: "   ", Description: "\t"}, wantName: "MyMap", wantDesc: "A test map"},
		{name: "both trimmed", ov: Overrides{Name: "  Custom  ", Description: " New desc "}, wantName: "Custom", wantDesc: "New desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := writeLines(t, scenarioAssets(), tt.ov, nil)
			if got[1] != tt.wantName {
				t.Errorf("name line = %q, want %q", got[1], tt.wantName)
			}
			if got[2] != tt.wantDesc {
				t.Errorf("description line = %q, want %q", got[2], tt.wantDesc)
			}
		})
	}
}

func TestWriterMetadataTrimming(t *testing.T) {
	t.Parallel()

	set := scenarioAssets()
	set.Metadata = ProjectMetadata{"x\r\n", "Spaced Name  \r\n", "Desc\t\n", "  padded  \n", "last"}

	got := writeLines(t, set, Overrides{}, nil)
	if got[1] != "Spaced Name" || got[2] != "Desc" {
		t.Errorf("name/description = %q/%q, want trailing whitespace trimmed", got[1], got[2])
	}
	if got[6] != "padded" || got[7] != "last" {
		t.Errorf("metadata lines = %q, %q, want trimmed passthrough", got[6], got[7])
	}
}

func TestWriterEmptyLists(t *testing.T) {
	t.Parallel()

	set := scenarioAssets()
	set.Textures = nil
	set.MapCubes = nil
	rec := &eventRecorder{}

	got := writeLines(t, set, Overrides{}, rec)
	if got[4] != "0" || got[5] != "0" {
		t.Errorf("counts = %q/%q, want 0/0", got[4], got[5])
	}
	if p := rec.progress(); len(p) != 0 {
		t.Errorf("progress events = %v, want none", p)
	}
	if n := countLines(got, SectionDelimiter); n != 6 {
		t.Errorf("delimiter count = %d, want 6", n)
	}
}

func TestWriterStructure(t *testing.T) {
	t.Parallel()

	set := scenarioAssets()
	set.Textures = []NamedTexture{
		{Name: "a", Data: []byte{0}},
		{Name: "b", Data: nil},
		{Name: "c", Data: []byte{255, 254}},
	}
	set.MapCubes = []MapCubeBlock{{"one\n", "two\n"}, {"three\n"}}

	got := writeLines(t, set, Overrides{}, nil)
	if n := countLines(got, SectionDelimiter); n != 6 {
		t.Errorf("delimiter count = %d, want 6", n)
	}
	if n := countLines(got, TextureSentinel); n != len(set.Textures) {
		t.Errorf("texture sentinel count = %d, want %d", n, len(set.Textures))
	}
	if got[4] != "2" || got[5] != "3" {
		t.Errorf("counts = %q/%q, want 2/3", got[4], got[5])
	}
}

func TestWriterProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		textures int
		cubes    int
		want     []int
	}{
		{name: "three textures two cubes", textures: 3, cubes: 2, want: []int{10, 20, 30, 65, 100}},
		{name: "half values round away from zero", textures: 4, cubes: 0, want: []int{8, 15, 23, 30}},
		{name: "cubes only", textures: 0, cubes: 1, want: []int{100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := scenarioAssets()
			set.Textures = nil
			for i := range tt.textures {
				set.Textures = append(set.Textures, NamedTexture{Name: string(rune('a' + i)), Data: []byte{byte(i)}})
			}
			set.MapCubes = nil
			for range tt.cubes {
				set.MapCubes = append(set.MapCubes, MapCubeBlock{"x\n"})
			}
			rec := &eventRecorder{}

			writeLines(t, set, Overrides{}, rec)
			if got := rec.progress(); !slices.Equal(got, tt.want) {
				t.Errorf("progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriterPhases(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	writeLines(t, scenarioAssets(), Overrides{}, rec)

	var phases []string
	for _, ev := range rec.events {
		if ev.Kind == EventPhase {
			phases = append(phases, ev.Phase)
		}
	}
	want := []string{
		"Writing version to file",
		"Writing relevant section to file",
		"Writing section delimiter",
		"Writing map cube and custom texture counts",
		"Writing remaining relevant section to file",
		"Writing section delimiter",
		"Writing icon data to file",
		"Writing section delimiter",
		"Writing banner data to file",
		"Writing section delimiter",
		"Writing custom texture: tex1",
		"Writing section delimiter",
		"Writing map cube data 1/1",
		"Writing final section delimiter",
	}
	if !slices.Equal(phases, want) {
		t.Errorf("phases =\n%q\nwant\n%q", phases, want)
	}
	if rec.count(EventFinished) != 0 || rec.count(EventError) != 0 {
		t.Error("Write() must not report terminal events")
	}
}

func TestWriterUnterminatedMapCubeLine(t *testing.T) {
	t.Parallel()

	set := scenarioAssets()
	set.MapCubes = []MapCubeBlock{{"first\n", "no newline"}, {"next\n"}}

	got := writeLines(t, set, Overrides{}, nil)
	tail := got[len(got)-4:]
	want := []string{"first", "no newline", "next", "§"}
	if !slices.Equal(tail, want) {
		t.Errorf("map cube tail = %q, want %q", tail, want)
	}
}

func TestWriterMapCubeLinesVerbatim(t *testing.T) {
	t.Parallel()

	set := scenarioAssets()
	set.MapCubes = []MapCubeBlock{{"~\n", "  spaced  \n"}}

	got := writeLines(t, set, Overrides{}, nil)
	tail := got[len(got)-3:]
	want := []string{"~", "  spaced  ", "§"}
	if !slices.Equal(tail, want) {
		t.Errorf("map cube tail = %q, want %q", tail, want)
	}
}

func TestScaledProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		base, share, i, n int
		want              int
	}{
		{"empty phase stays at base", TexturePhaseShare, MapCubePhaseShare, 0, 0, TexturePhaseShare},
		{"negative count stays at base", 0, TexturePhaseShare, 0, -1, 0},
		{"last item reaches end", TexturePhaseShare, MapCubePhaseShare, 1, 2, 100},
		{"first of four", 0, TexturePhaseShare, 0, 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := scaledProgress(tt.base, tt.share, tt.i, tt.n); got != tt.want {
				t.Errorf("scaledProgress(%d, %d, %d, %d) = %d, want %d", tt.base, tt.share, tt.i, tt.n, got, tt.want)
			}
		})
	}
}

func TestInvalidOverrideErrorMessage(t *testing.T) {
	t.Parallel()

	err := Overrides{Name: SectionDelimiter}.Validate()
	var ovErr *InvalidOverrideError
	if !errors.As(err, &ovErr) {
		t.Fatalf("Validate() error = %v, want *InvalidOverrideError", err)
	}
	if !ovErr.Sentinel || ovErr.Field != "name" {
		t.Errorf("InvalidOverrideError = %+v, want sentinel name override", ovErr)
	}
	if !strings.Contains(ovErr.Error(), "container sentinel") {
		t.Errorf("Error() = %q, want sentinel wording", ovErr.Error())
	}
}

func TestWriterValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*AssetSet, *Overrides)
		wantErr error
	}{
		{
			name:    "short metadata",
			mutate:  func(s *AssetSet, _ *Overrides) { s.Metadata = ProjectMetadata{"a\n", "b\n"} },
			wantErr: ErrMalformedMetadata,
		},
		{
			name: "metadata line is a delimiter",
			mutate: func(s *AssetSet, _ *Overrides) {
				s.Metadata = append(s.Metadata, " § \n")
			},
			wantErr: ErrMalformedMetadata,
		},
		{
			name:    "texture name with newline",
			mutate:  func(s *AssetSet, _ *Overrides) { s.Textures[0].Name = "bad\nname" },
			wantErr: ErrInvalidTextureName,
		},
		{
			name:    "texture named like a sentinel",
			mutate:  func(s *AssetSet, _ *Overrides) { s.Textures[0].Name = TextureSentinel },
			wantErr: ErrInvalidTextureName,
		},
		{
			name:    "metadata name is a delimiter",
			mutate:  func(s *AssetSet, _ *Overrides) { s.Metadata[1] = SectionDelimiter + "\n" },
			wantErr: ErrMalformedMetadata,
		},
		{
			name:    "metadata description is a texture sentinel",
			mutate:  func(s *AssetSet, _ *Overrides) { s.Metadata[2] = " ~ \n" },
			wantErr: ErrMalformedMetadata,
		},
		{
			name:    "name override is a delimiter",
			mutate:  func(_ *AssetSet, ov *Overrides) { ov.Name = SectionDelimiter },
			wantErr: ErrInvalidOverride,
		},
		{
			name:    "description override is a texture sentinel",
			mutate:  func(_ *AssetSet, ov *Overrides) { ov.Description = " " + TextureSentinel },
			wantErr: ErrInvalidOverride,
		},
		{
			name:    "multi-line override",
			mutate:  func(_ *AssetSet, ov *Overrides) { ov.Description = "two\nlines" },
			wantErr: ErrInvalidOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := scenarioAssets()
			var ov Overrides
			tt.mutate(set, &ov)
			rec := &eventRecorder{}
			var buf bytes.Buffer

			err := NewWriter(&buf, rec).Write(context.Background(), set, ov)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Write() error = %v, want %v", err, tt.wantErr)
			}
			if buf.Len() != 0 {
				t.Errorf("Write() wrote %d bytes before validation failed", buf.Len())
			}
			if rec.count(EventLog) == 0 {
				t.Error("expected a log line before the error")
			}
		})
	}
}

func TestWriterCanceledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewWriter(&buf, nil).Write(ctx, scenarioAssets(), Overrides{})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("Write() error = %v, want ErrCanceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled in chain", err)
	}
	if buf.Len() != 0 {
		t.Errorf("canceled Write() wrote %q", buf.String())
	}
}

func TestWriterCanceledBetweenTextures(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	set := scenarioAssets()
	set.Textures = []NamedTexture{{Name: "first", Data: []byte{1}}, {Name: "second", Data: []byte{2}}}
	sink := SinkFuncs{Progress: func(int) { cancel() }}

	var buf bytes.Buffer
	err := NewWriter(&buf, sink).Write(ctx, set, Overrides{})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("Write() error = %v, want ErrCanceled", err)
	}
	out := buf.String()
	if !strings.Contains(out, "first\n1\n~\n") {
		t.Errorf("first texture missing from partial output %q", out)
	}
	if strings.Contains(out, "second") {
		t.Errorf("second texture written after cancellation: %q", out)
	}
}

func TestWriterWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		limit       int
		wantSection string
	}{
		{name: "nothing writable", limit: 0, wantSection: "header"},
		{name: "header only", limit: len("V2\n"), wantSection: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &eventRecorder{}
			err := NewWriter(&limitWriter{limit: tt.limit}, rec).Write(context.Background(), scenarioAssets(), Overrides{})

			var we *WriteError
			if !errors.As(err, &we) {
				t.Fatalf("Write() error = %v, want *WriteError", err)
			}
			if we.Section != tt.wantSection {
				t.Errorf("WriteError.Section = %q, want %q", we.Section, tt.wantSection)
			}
			if !errors.Is(err, ErrWrite) || !errors.Is(err, errDiskFull) {
				t.Errorf("error chain %v should match ErrWrite and the I/O cause", err)
			}
			if rec.count(EventLog) != 1 {
				t.Errorf("log events = %d, want 1", rec.count(EventLog))
			}
		})
	}
}

func countLines(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}
