package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	buildTime       string
	lastCommit      string
	semanticVersion = "v0.0.0-dev"

	systemVersion = fmt.Sprintf("%s/%s", runtime.GOARCH, runtime.GOOS)
	golangVersion = runtime.Version()
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show information about the current binary build",
		Args:  cobra.NoArgs,
		Run:   printBuildInfo,
	}
}

func printBuildInfo(c *cobra.Command, _ []string) {
	out := c.OutOrStdout()
	fmt.Fprintf(out, "Semantic version: %s\n", semanticVersion)
	fmt.Fprintf(out, "Commit: %s\n", lastCommit)
	fmt.Fprintf(out, "Build Date: %s\n", buildTime)
	fmt.Fprintf(out, "System version: %s\n", systemVersion)
	fmt.Fprintf(out, "Golang version: %s\n", golangVersion)
}
