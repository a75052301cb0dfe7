package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	vgit "github.com/mlaplanche/vgit"
	"github.com/mlaplanche/vgit/status"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show the working tree status",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		root, err := cfg.repoRoot()
		if err != nil {
			return err
		}
		repo, err := vgit.Open(afero.NewOsFs(), root)
		if err != nil {
			return err
		}

		statuses, err := repo.Status()
		if err != nil {
			return err
		}

		paths := make([]string, 0, len(statuses))
		for path := range statuses {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			printStatusLine(cmd, statuses[path])
		}
		return nil
	}

	return cmd
}

func printStatusLine(cmd *cobra.Command, fs status.FileStatus) {
	code := statusCode(fs.Index) + statusCode(fs.Workspace)
	line := fmt.Sprintf("%s %s", code, fs.Path.String())

	switch {
	case fs.Index != status.Untracked && fs.Index != status.Unmodified:
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), line)
	case fs.Workspace == status.Untracked:
		color.New(color.FgRed).Fprintln(cmd.OutOrStdout(), line)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

func statusCode(s status.State) string {
	switch s {
	case status.Untracked:
		return "?"
	case status.Added:
		return "A"
	case status.Modified:
		return "M"
	case status.Deleted:
		return "D"
	case status.Unmodified:
		return " "
	default:
		return " "
	}
}
