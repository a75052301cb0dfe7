package main

import (
	vgit "github.com/mlaplanche/vgit"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newAddCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <pathspec>...",
		Short: "stage file contents for the next commit",
		Args:  cobra.MinimumNArgs(1),
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
		return repo.Add(args...)
	}

	return cmd
}
