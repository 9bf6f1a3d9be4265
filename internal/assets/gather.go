// SPDX-License-Identifier: MPL-2.0

package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gbpack/gbpack/pkg/gbmap"
)

type (
	// Option configures Gather.
	Option func(*gatherOptions)

	gatherOptions struct {
		decoder TextureDecoder
		sink    gbmap.ProgressSink
		logger  *slog.Logger
	}
)

// WithTextureDecoder replaces the default PNGTextures decoder.
func WithTextureDecoder(d TextureDecoder) Option {
	return func(o *gatherOptions) { o.decoder = d }
}

// WithProgress reports a log line to sink as each kind of asset is gathered.
func WithProgress(sink gbmap.ProgressSink) Option {
	return func(o *gatherOptions) { o.sink = sink }
}

// WithLogger sets the logger for per-file detail. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *gatherOptions) { o.logger = l }
}

// Gather checks the layout of the project in dir and reads every asset into
// a new AssetSet. Textures and map cubes are ordered by file name.
//
// Missing or unreadable required entries are reported as
// *gbmap.MissingInputError; metadata with too few lines as
// *gbmap.MalformedMetadataError.
func Gather(ctx context.Context, dir string, opts ...Option) (*gbmap.AssetSet, error) {
	o := gatherOptions{decoder: PNGTextures{}, sink: gbmap.NopSink{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckLayout(dir); err != nil {
		return nil, err
	}

	set := &gbmap.AssetSet{}

	o.sink.OnLog("Gathering project metadata...")
	data, err := readRequired(filepath.Join(dir, ProjectFile), "project metadata")
	if err != nil {
		return nil, err
	}
	set.Metadata = gbmap.ParseMetadata(data)
	if err := set.Metadata.Validate(); err != nil {
		return nil, err
	}
	o.logger.Debug("read project metadata", "lines", len(set.Metadata), "name", set.Metadata.Name())

	o.sink.OnLog("Processing icon data...")
	if set.Icon, err = readRequired(filepath.Join(dir, IconFile), "icon"); err != nil {
		return nil, err
	}
	o.sink.OnLog("Processing banner data...")
	if set.Banner, err = readRequired(filepath.Join(dir, BannerFile), "banner"); err != nil {
		return nil, err
	}
	o.logger.Debug("read images", "icon_bytes", len(set.Icon), "banner_bytes", len(set.Banner))

	o.sink.OnLog("Gathering custom texture data...")
	if set.Textures, err = gatherTextures(ctx, filepath.Join(dir, CustomTexturesDir), o); err != nil {
		return nil, err
	}

	o.sink.OnLog("Gathering map cube data...")
	if set.MapCubes, err = gatherMapCubes(ctx, filepath.Join(dir, MapDataDir), o); err != nil {
		return nil, err
	}

	return set, nil
}

func gatherTextures(ctx context.Context, dir string, o gatherOptions) ([]gbmap.NamedTexture, error) {
	files, err := listFiles(dir, o.decoder.Supports)
	if err != nil {
		return nil, err
	}

	textures := make([]gbmap.NamedTexture, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", gbmap.ErrCanceled, err)
		}
		path := filepath.Join(dir, file)
		raw, err := readRequired(path, "texture")
		if err != nil {
			return nil, err
		}
		data, err := o.decoder.Decode(file, raw)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrInvalidTexture, path, err)
		}
		textures = append(textures, gbmap.NamedTexture{Name: textureName(file), Data: data})
		o.logger.Debug("gathered texture", "file", file, "bytes", len(data))
	}
	return textures, nil
}

func gatherMapCubes(ctx context.Context, dir string, o gatherOptions) ([]gbmap.MapCubeBlock, error) {
	files, err := listFiles(dir, func(ext string) bool { return ext == strings.ToLower(MapCubeExt) })
	if err != nil {
		return nil, err
	}

	blocks := make([]gbmap.MapCubeBlock, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", gbmap.ErrCanceled, err)
		}
		path := filepath.Join(dir, file)
		data, err := readRequired(path, "map cube")
		if err != nil {
			return nil, err
		}
		block := gbmap.NewMapCubeBlock(data)
		blocks = append(blocks, block)
		o.logger.Debug("gathered map cube", "file", file, "lines", len(block))
	}
	return blocks, nil
}

// listFiles returns the names of regular files in dir whose lower-case
// extension is accepted, sorted lexicographically.
func listFiles(dir string, accept func(ext string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if accept(strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func readRequired(path, asset string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gbmap.MissingInputError{Asset: asset, Path: path, Cause: err}
	}
	return data, nil
}
