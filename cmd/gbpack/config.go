// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gbpack/gbpack/internal/config"
)

// configKeys lists the keys accepted by `gbpack config set`.
const configKeys = "projects_dir, output_dir, default_output_name, ui.color_scheme, ui.verbose, ui.progress"

// newConfigCommand creates the `gbpack config` command tree.
// A broken config file only produces a warning here, so it can be shown,
// dumped or replaced.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gbpack configuration",
		Long: `Manage gbpack configuration.

Configuration is stored in:
  - Linux: ~/.config/gbpack/config.cue
  - macOS: ~/Library/Application Support/gbpack/config.cue
  - Windows: %APPDATA%\gbpack\config.cue

Every key can be overridden with a GBPACK_* environment variable,
e.g. GBPACK_OUTPUT_DIR or GBPACK_UI_PROGRESS.`,
		Annotations: map[string]string{annotationTolerateConfig: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			showConfig(app)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value in the default config file.\n\nValid keys: " + configKeys,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App) {
	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(s string) string {
		if s == "" {
			return SubtitleStyle.Render("(default)")
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if app.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), app.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	cfg := app.cfg
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("projects_dir"), value(cfg.ProjectsDir.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output_dir"), value(cfg.OutputDir.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("default_output_name"), value(cfg.DefaultOutputName.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", value(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", value(strconv.FormatBool(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  progress: %s\n", value(cfg.UI.Progress.String()))
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return app.fail(fmt.Errorf("failed to create config: %w", err))
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return app.fail(err)
	}
	path, err := config.FilePath("")
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	if app.cfgFile != "" {
		fmt.Fprintf(app.stdout, "Override (--config): %s\n", app.cfgFile)
	}
	return nil
}

func setConfigValue(app *App, key, value string) error {
	cfg := *app.cfg

	switch key {
	case "projects_dir":
		cfg.ProjectsDir = config.DirPath(value)
	case "output_dir":
		cfg.OutputDir = config.DirPath(value)
	case "default_output_name":
		cfg.DefaultOutputName = config.OutputFileName(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.progress":
		cfg.UI.Progress = config.ProgressMode(value)
	case "ui.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return app.fail(fmt.Errorf("invalid ui.verbose %q: must be true or false", value))
		}
		cfg.UI.Verbose = b
	default:
		return app.fail(fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, configKeys))
	}

	if valid, errs := cfg.IsValid(); !valid {
		return app.fail(errs[0])
	}

	if err := config.Save(&cfg, ""); err != nil {
		return app.fail(fmt.Errorf("failed to save config: %w", err))
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
