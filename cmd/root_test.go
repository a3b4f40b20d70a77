package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/textcomplete/internal/strategy"
	"github.com/oakwood-commons/textcomplete/internal/ui"
	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

// overrideFlags binds the override flags to a fresh flag set and parses args.
func overrideFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	saved := []any{placement, maxCount, dropdownHeight, completeOnSpace, wordsFile, recordsFile}
	t.Cleanup(func() {
		placement = saved[0].(string)
		maxCount = saved[1].(int)
		dropdownHeight = saved[2].(int)
		completeOnSpace = saved[3].(bool)
		wordsFile = saved[4].(string)
		recordsFile = saved[5].(string)
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&placement, "placement", "", "")
	fs.IntVar(&maxCount, "max-count", 10, "")
	fs.IntVar(&dropdownHeight, "height", 6, "")
	fs.BoolVar(&completeOnSpace, "complete-on-space", false, "")
	fs.StringVar(&wordsFile, "words", "", "")
	fs.StringVar(&recordsFile, "records", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestApplyFlagOverrides(t *testing.T) {
	base, err := ui.EmbeddedDefaultConfig()
	require.NoError(t, err)

	cfg := applyFlagOverrides(base, overrideFlags(t,
		"--placement", "top absright",
		"--max-count", "3",
		"--complete-on-space",
		"--words", "words.txt",
		"--records", "team.yaml",
	))
	assert.Equal(t, "top absright", cfg.Dropdown.Placement)
	for _, f := range cfg.Fields {
		assert.Empty(t, f.Placement, "the flag wins over field placements")
	}
	assert.Equal(t, 3, cfg.Dropdown.MaxCount)
	assert.Equal(t, 6, cfg.Dropdown.Height)
	assert.True(t, cfg.Dropdown.CompleteOnSpace)

	for _, s := range cfg.Strategies {
		switch s.Kind {
		case strategy.KindWords:
			assert.Equal(t, "words.txt", s.Source)
			assert.Nil(t, s.Words)
		case strategy.KindRecords:
			assert.Equal(t, "team.yaml", s.Source)
		default:
			assert.Empty(t, s.Source)
		}
	}
	for _, s := range base.Strategies {
		assert.Empty(t, s.Source, "the input config is not modified")
	}
}

func TestApplyFlagOverridesUnchangedFlags(t *testing.T) {
	base, err := ui.EmbeddedDefaultConfig()
	require.NoError(t, err)
	base.Dropdown.MaxCount = 42

	cfg := applyFlagOverrides(base, overrideFlags(t))
	assert.Equal(t, 42, cfg.Dropdown.MaxCount, "defaults of unset flags never override the config")
	assert.Equal(t, base.Fields, cfg.Fields)

	assert.Equal(t, base, applyFlagOverrides(base, nil))
}

func TestLoadRunConfigWithRecordsFile(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "team.json")
	require.NoError(t, os.WriteFile(records, []byte(`[{"id": 1, "name": "zoe"}, {"id": 2, "name": "zack"}]`), 0o600))

	cfg, err := loadRunConfig("", overrideFlags(t, "--records", records))
	require.NoError(t, err)

	built, err := strategy.BuildAll(cfg.Strategies)
	require.NoError(t, err)
	res, err := complete(testCommand(), built, 10, "hi @z", 0)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "people", res.Candidates[0].Strategy)
}

func TestEnvSize(t *testing.T) {
	t.Setenv("TC_TEST_SIZE", "132")
	assert.Equal(t, 132, envSize("TC_TEST_SIZE"))
	t.Setenv("TC_TEST_SIZE", "wide")
	assert.Zero(t, envSize("TC_TEST_SIZE"))
	t.Setenv("TC_TEST_SIZE", "-3")
	assert.Zero(t, envSize("TC_TEST_SIZE"))
}

func TestDetectTerminalSizeIsPositive(t *testing.T) {
	w, h := detectTerminalSize()
	assert.Positive(t, w)
	assert.Positive(t, h)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Contains(t, out.String(), settings.CliBinaryName+" "+settings.VersionInformation.BuildVersion)
	assert.Contains(t, out.String(), "commit:")
}

func TestConfigCommands(t *testing.T) {
	saved := rootCtx
	rootCtx = settings.IntoContext(context.Background(), settings.NewCliParams())
	t.Cleanup(func() { rootCtx = saved })

	var out bytes.Buffer
	configThemesCmd.SetOut(&out)
	t.Cleanup(func() { configThemesCmd.SetOut(nil) })
	require.NoError(t, configThemesCmd.RunE(configThemesCmd, nil))
	assert.Equal(t, "Available themes (default: dark):\n - dark\n - light\n", out.String())

	yml, err := encodeConfig(ui.Config{App: ui.AppConfig{Name: "x"}}, "yaml")
	require.NoError(t, err)
	assert.Contains(t, yml, "name: x")

	tml, err := encodeConfig(ui.Config{App: ui.AppConfig{Name: "x"}}, "toml")
	require.NoError(t, err)
	assert.Regexp(t, `name = ['"]x['"]`, tml)

	_, err = encodeConfig(ui.Config{}, "xml")
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"complete", "config", "version"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "log-file", "log-level", "max-count", "complete-on-space", "words", "records"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	for _, flag := range []string{"theme", "placement", "height", "no-color"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), flag)
	}
}
