package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/oakwood-commons/textcomplete/internal/strategy"
	"github.com/oakwood-commons/textcomplete/internal/ui"
	"github.com/oakwood-commons/textcomplete/pkg/logger"
	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

var (
	configFile      string
	themeName       string
	placement       string
	maxCount        int
	dropdownHeight  int
	completeOnSpace bool
	noColor         bool
	logFile         string
	logLevel        int8
	wordsFile       string
	recordsFile     string
	screenWidth     int
	screenHeight    int
	startKeys       []string
)

var (
	rootCtx   = context.Background()
	closeLogs = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Autocomplete dropdown for terminal text inputs",
	Long: `textcomplete opens a screen of text inputs with an autocomplete dropdown.

Typing "@" followed by a name suggests people; words of two letters or more
suggest dictionary words and CEL functions. Arrow keys move the highlight,
enter or tab inserts it, esc closes the dropdown. The mouse can hover, click
and scroll the list.`,
	Example:       "\n  textcomplete\n  textcomplete --placement top --max-count 5\n  textcomplete --records team.yaml --log-file /tmp/textcomplete.log --log-level -1\n  textcomplete complete 'hello @al'\n",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		w, closeFn, err := logger.OpenOutput(logFile)
		if err != nil {
			return err
		}
		closeLogs = closeFn

		lgr := logger.Init(logLevel, w)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

		run := settings.NewCliParams()
		run.MinLogLevel = logLevel
		run.LogFile = logFile
		run.ConfigPath = resolveConfigPath(configFile)
		run.NoColor = noColor
		rootCtx = settings.IntoContext(logger.WithLogger(cmd.Context(), lgr), run)
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLogs()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInteractive(cmd)
	},
}

func runInteractive(cmd *cobra.Command) error {
	run := settings.FromContextOrDefault(rootCtx)
	lgr := logger.FromContext(rootCtx)

	cfg, err := loadRunConfig(run.ConfigPath, cmd.Flags())
	if err != nil {
		return err
	}
	theme, err := cfg.ResolveTheme(themeName)
	if err != nil {
		return err
	}

	w, h := screenWidth, screenHeight
	if w <= 0 || h <= 0 {
		dw, dh := detectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}

	lgr.V(1).Info("starting", "config", run.ConfigPath, "fields", len(cfg.Fields), "width", w, "height", h)
	return ui.RunModel(rootCtx, ui.Options{
		Config:    cfg,
		Theme:     theme,
		NoColor:   run.NoColor,
		Width:     w,
		Height:    h,
		Logger:    *lgr,
		StartKeys: startKeys,
	}, cmd.OutOrStdout())
}

// loadRunConfig merges the config file at path over the defaults and applies
// the command line flags that were set.
func loadRunConfig(path string, flags *pflag.FlagSet) (ui.Config, error) {
	cfg, err := loadMergedConfig(path)
	if err != nil {
		return cfg, err
	}
	return applyFlagOverrides(cfg, flags), nil
}

// applyFlagOverrides copies explicitly set flags into cfg. Flags left at their
// defaults never override the config file.
func applyFlagOverrides(cfg ui.Config, flags *pflag.FlagSet) ui.Config {
	if flags == nil {
		return cfg
	}
	if flags.Changed("placement") {
		cfg.Dropdown.Placement = placement
		cfg.Fields = append([]ui.FieldConfig(nil), cfg.Fields...)
		for i := range cfg.Fields {
			cfg.Fields[i].Placement = ""
		}
	}
	if flags.Changed("max-count") {
		cfg.Dropdown.MaxCount = maxCount
	}
	if flags.Changed("height") {
		cfg.Dropdown.Height = dropdownHeight
	}
	if flags.Changed("complete-on-space") {
		cfg.Dropdown.CompleteOnSpace = completeOnSpace
	}

	strategies := append([]strategy.Config(nil), cfg.Strategies...)
	for i := range strategies {
		switch strategies[i].Kind {
		case strategy.KindWords:
			if flags.Changed("words") {
				strategies[i].Source = wordsFile
				strategies[i].Words = nil
			}
		case strategy.KindRecords:
			if flags.Changed("records") {
				strategies[i].Source = recordsFile
			}
		}
	}
	cfg.Strategies = strategies
	return cfg
}

// detectTerminalSize returns the best-effort terminal width/height by probing
// stdout, stderr, and stdin, then falling back to $COLUMNS and $LINES.
func detectTerminalSize() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	w, h := envSize("COLUMNS"), envSize("LINES")
	if w <= 0 {
		w = ui.DefaultWidth
	}
	if h <= 0 {
		h = ui.DefaultHeight
	}
	return w, h
}

func envSize(name string) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML or TOML config file (default $XDG_CONFIG_HOME/textcomplete/config.yaml)")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file (default: discard)")
	pf.Int8Var(&logLevel, "log-level", 0, "log level: 0 info, -1 debug (dropdown lifecycle)")
	pf.IntVar(&maxCount, "max-count", 10, "maximum number of candidates kept in the dropdown")
	pf.BoolVar(&completeOnSpace, "complete-on-space", false, "let space insert the highlighted candidate")
	pf.StringVar(&wordsFile, "words", "", "word list file for word strategies")
	pf.StringVar(&recordsFile, "records", "", "YAML, JSON, NDJSON or TOML dataset for record strategies")

	rootCmd.Flags().StringVar(&themeName, "theme", "", "theme name (default from config; see 'textcomplete config themes')")
	rootCmd.Flags().StringVar(&placement, "placement", "", "dropdown placement: any of top, absleft, absright")
	rootCmd.Flags().IntVar(&dropdownHeight, "height", 6, "visible dropdown rows")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().IntVar(&screenWidth, "width", 0, "screen width in columns (default: terminal width)")
	rootCmd.Flags().IntVar(&screenHeight, "screen-height", 0, "screen height in rows (default: terminal height)")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <Down>, <Tab>, <Esc>, <C-n>). Literal text types normally. Example: --press \"@al<Down>\"")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, completeCmd, configCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
