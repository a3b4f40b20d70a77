package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/textcomplete/pkg/settings"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print textcomplete version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v := settings.VersionInformation
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cliVersionString())
		fmt.Fprintf(out, "  commit:  %s\n", v.Commit)
		fmt.Fprintf(out, "  built:   %s\n", v.BuildTime)
		fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
