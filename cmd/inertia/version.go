package main

import (
	"fmt"
	"runtime"

	"github.com/pthm/inertia"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var (
		short    bool
		manifest string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version, commit, and build information for the inertia CLI.

With --manifest, print the asset version derived from a build manifest
instead: the value clients send back in X-Inertia-Version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if manifest != "" {
				v, err := inertia.VersionFromFile(manifest)()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
				return nil
			}

			if short {
				fmt.Fprintln(out, version)
				return nil
			}

			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", date)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Print the asset version of this manifest file")

	return cmd
}
