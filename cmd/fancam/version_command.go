package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info, ok := debug.ReadBuildInfo()
			if !ok {
				fmt.Fprintln(out, "fancam (unknown build)")
				return nil
			}
			version := info.Main.Version
			if version == "" || version == "(devel)" {
				version = "devel"
			}
			fmt.Fprintf(out, "fancam %s (%s)\n", version, info.GoVersion)
			return nil
		},
	}
}
