package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"pullrefresh/internal/settings"
)

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		settings.BinaryName, v.BuildVersion, v.Commit, v.BuildTime,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print " + settings.BinaryName + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}

func newConfigCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: "Print the configuration the browser would run with: defaults, then the\n" +
			"config file, then command line flags.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(o.run.ConfigPath, cmd.Flags(), nil)
			if err != nil {
				return err
			}
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
