// Command vgit is a small, Git-compatible command-line client: init, add,
// commit, and status against the repository implemented by this module.
package main

import (
	"fmt"
	"os"

	"github.com/mlaplanche/vgit/internal/pathutil"
	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vgit",
		Short:         "a minimal, on-disk-compatible git",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &globalFlags{}
	cmd.PersistentFlags().StringVarP(&cfg.dir, "C", "C", "", "run as if started in the given directory instead of the current one")

	cmd.AddCommand(newInitCmd(cfg))
	cmd.AddCommand(newAddCmd(cfg))
	cmd.AddCommand(newCommitCmd(cfg))
	cmd.AddCommand(newStatusCmd(cfg))

	return cmd
}

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	dir string
}

func (c *globalFlags) workingDir() string {
	if c.dir != "" {
		return c.dir
	}
	return "."
}

// repoRoot resolves the repository a subcommand should operate on,
// searching upward from workingDir the way git does.
func (c *globalFlags) repoRoot() (string, error) {
	return pathutil.RepoRootFromPath(c.workingDir())
}
