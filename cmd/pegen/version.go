package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of pegen",
		Args:  exactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Version: "+version)
			fmt.Fprintln(out, "Go Version: "+runtime.Version())
			fmt.Fprintln(out, "Platform: "+runtime.GOOS+"/"+runtime.GOARCH)
		},
	}
}
