// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "export map"},
			want: "failed to export map",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "open container", Resource: "Harbor.gbmap"},
			want: "failed to open container: Harbor.gbmap",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "open project folder",
				Resource:  "MapProjects/Harbor",
				Cause:     fs.ErrNotExist,
			},
			want: "failed to open project folder: MapProjects/Harbor: file does not exist",
		},
		{
			name: "cause without resource",
			err:  &ActionableError{Operation: "load configuration", Cause: errors.New("bad CUE")},
			want: "failed to load configuration: bad CUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("stat icon.png: %w", fs.ErrNotExist)
	err := NewErrorContext().WithOperation("export map").Wrap(cause).BuildError()

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
	var ae *ActionableError
	if !errors.As(fmt.Errorf("export: %w", err), &ae) {
		t.Fatal("errors.As did not find the ActionableError")
	}
	if ae.Cause != cause {
		t.Errorf("Cause = %v, want %v", ae.Cause, cause)
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "write container",
		Resource:    "out/Harbor.gbmap",
		Suggestions: []string{"Choose a writable output folder", "Close GoreBox if it has the map open"},
		Cause:       fmt.Errorf("rename: %w", root),
	}

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		got := err.Format(false)
		want := "failed to write container: out/Harbor.gbmap: rename: permission denied\n" +
			"\n  • Choose a writable output folder" +
			"\n  • Close GoreBox if it has the map open"
		if got != want {
			t.Errorf("Format(false) =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("verbose adds the chain", func(t *testing.T) {
		t.Parallel()
		got := err.Format(true)
		for _, want := range []string{"Error chain:", "1. rename: permission denied", "2. permission denied"} {
			if !strings.Contains(got, want) {
				t.Errorf("Format(true) missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("no suggestions no cause", func(t *testing.T) {
		t.Parallel()
		bare := &ActionableError{Operation: "list projects"}
		if got := bare.Format(true); got != "failed to list projects" {
			t.Errorf("Format(true) = %q", got)
		}
		if bare.HasSuggestions() {
			t.Error("HasSuggestions() = true, want false")
		}
	})
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("boom")
		ae := NewErrorContext().
			WithOperation("inspect container").
			WithResource("a.gbmap").
			WithSuggestion("one").
			WithSuggestion("two").
			WithIssue(ContainerInvalidId).
			Wrap(cause).
			Build()
		if ae == nil {
			t.Fatal("Build() = nil")
		}
		if ae.Operation != "inspect container" || ae.Resource != "a.gbmap" || ae.Cause != cause {
			t.Errorf("Build() = %+v", ae)
		}
		if len(ae.Suggestions) != 2 || !ae.HasSuggestions() {
			t.Errorf("Suggestions = %v, want two", ae.Suggestions)
		}
		if ae.Help() == nil || ae.Help().Id() != ContainerInvalidId {
			t.Errorf("Help() = %v, want the ContainerInvalidId entry", ae.Help())
		}
	})

	t.Run("missing operation", func(t *testing.T) {
		t.Parallel()
		ctx := NewErrorContext().WithResource("x").Wrap(errors.New("boom"))
		if ae := ctx.Build(); ae != nil {
			t.Errorf("Build() = %+v, want nil", ae)
		}
		if err := ctx.BuildError(); err != nil {
			t.Errorf("BuildError() = %v, want untyped nil", err)
		}
	})

	t.Run("no issue means no help", func(t *testing.T) {
		t.Parallel()
		if help := NewErrorContext().WithOperation("export map").Build().Help(); help != nil {
			t.Errorf("Help() = %v, want nil", help)
		}
	})
}

func TestErrorContextReuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().
		WithOperation("read texture").
		WithResource("CustomTextures/wall.png").
		WithSuggestion("Re-save the texture as PNG")

	first := ctx.Wrap(errors.New("truncated")).Build()
	second := ctx.WithSuggestion("Remove the texture").Wrap(errors.New("unreadable")).Build()

	if first.Cause.Error() != "truncated" || second.Cause.Error() != "unreadable" {
		t.Errorf("causes = %v, %v", first.Cause, second.Cause)
	}
	if len(first.Suggestions) != 1 {
		t.Errorf("first.Suggestions = %v; later builder calls must not leak into earlier errors", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("second.Suggestions = %v, want two", second.Suggestions)
	}
}
