// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gbpack/gbpack/internal/assets"
	"github.com/gbpack/gbpack/internal/config"
)

const (
	// SourceArgument indicates the directory was given on the command line.
	SourceArgument Source = iota
	// SourceConfig indicates the directory came from projects_dir.
	SourceConfig
	// SourceDefault indicates the GoreBox default location under the home directory.
	SourceDefault
)

// ErrProjectsDirNotFound is returned when the MapProjects directory does not exist.
var ErrProjectsDirNotFound = errors.New("MapProjects directory does not exist")

type (
	// Source represents where the projects directory came from.
	Source int

	// ProjectsDirNotFoundError reports the directory that was looked up.
	ProjectsDirNotFoundError struct {
		Dir    string
		Source Source
	}

	// Project is one exportable map project folder.
	Project struct {
		// Folder is the directory name under the projects directory.
		Folder string
		// Path is the full path of the project folder.
		Path string
		// Label is the map name from projectFile.gbi, or Folder when that line is absent.
		Label string
		// Icon is the path of icon.png.
		Icon string
	}

	// Discovery resolves and lists the MapProjects directory.
	Discovery struct {
		cfg *config.Config
	}
)

// String returns a human-readable source name
func (s Source) String() string {
	switch s {
	case SourceArgument:
		return "command line"
	case SourceConfig:
		return "projects_dir"
	case SourceDefault:
		return "GoreBox default"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *ProjectsDirNotFoundError) Error() string {
	return fmt.Sprintf("MapProjects directory does not exist: %s (from %s)", e.Dir, e.Source)
}

// Unwrap returns ErrProjectsDirNotFound for errors.Is() compatibility.
func (e *ProjectsDirNotFoundError) Unwrap() error { return ErrProjectsDirNotFound }

// DefaultProjectsDir returns ~/AppData/LocalLow/F2Games/GoreBox/MapProjects,
// where GoreBox saves map projects.
func DefaultProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "AppData", "LocalLow", "F2Games", "GoreBox", "MapProjects"), nil
}

// New creates a new Discovery instance. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Discovery{cfg: cfg}
}

// ProjectsDir resolves the directory to list: arg when non-empty, then the
// configured projects_dir, then DefaultProjectsDir.
func (d *Discovery) ProjectsDir(arg string) (string, Source, error) {
	switch {
	case arg != "":
		return arg, SourceArgument, nil
	case d.cfg.ProjectsDir != "":
		return string(d.cfg.ProjectsDir), SourceConfig, nil
	default:
		dir, err := DefaultProjectsDir()
		return dir, SourceDefault, err
	}
}

// List resolves the projects directory (see ProjectsDir) and lists it.
func (d *Discovery) List(arg string) (*Result, error) {
	dir, src, err := d.ProjectsDir(arg)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, &ProjectsDirNotFoundError{Dir: dir, Source: src}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat projects directory: %w", err)
	}

	projects, diags, err := ListProjects(dir)
	if err != nil {
		return nil, err
	}
	return &Result{Dir: dir, Source: src, Projects: projects, Diagnostics: diags}, nil
}

// ListProjects lists the project folders directly under dir, sorted by
// folder name. Sub-directories that are not projects are returned as
// diagnostics.
func ListProjects(dir string) ([]Project, []Diagnostic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &ProjectsDirNotFoundError{Dir: dir, Source: SourceArgument}
		}
		return nil, nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var (
		projects []Project
		diags    []Diagnostic
	)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !isDir(entry, path) {
			continue
		}

		project, diag, ok := loadProject(entry.Name(), path)
		if diag != nil {
			diags = append(diags, *diag)
		}
		if ok {
			projects = append(projects, project)
		}
	}

	slices.SortFunc(projects, func(a, b Project) int { return strings.Compare(a.Folder, b.Folder) })
	return projects, diags, nil
}

func loadProject(folder, path string) (Project, *Diagnostic, bool) {
	metaPath := filepath.Join(path, assets.ProjectFile)
	iconPath := filepath.Join(path, assets.IconFile)

	var missing []string
	for _, p := range []string{metaPath, iconPath} {
		if !isFile(p) {
			missing = append(missing, filepath.Base(p))
		}
	}
	if len(missing) > 0 {
		return Project{}, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeNotAProject,
			Message:  fmt.Sprintf("skipped %s: missing %s", folder, strings.Join(missing, ", ")),
			Path:     path,
		}, false
	}

	label, err := readLabel(metaPath)
	if err != nil {
		return Project{}, &Diagnostic{
			Severity: SeverityError,
			Code:     CodeMetadataUnreadable,
			Message:  fmt.Sprintf("could not read %s", metaPath),
			Path:     path,
			Cause:    err,
		}, false
	}
	if label == "" {
		label = folder
	}

	return Project{Folder: folder, Path: path, Label: label, Icon: iconPath}, nil, true
}

// readLabel returns the trimmed map name line (line index 1) of a
// projectFile.gbi, or "" when the file has fewer lines.
func readLabel(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; sc.Scan(); i++ {
		if i == 1 {
			return strings.TrimSpace(sc.Text()), nil
		}
	}
	return "", sc.Err()
}

// isDir follows symlinks so linked project folders are listed too.
func isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
