package main

import (
	"errors"
	"fmt"

	vgit "github.com/mlaplanche/vgit"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "create an empty repository",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := cfg.workingDir()
		if len(args) > 0 {
			dir = args[0]
		}

		repo, err := vgit.Init(afero.NewOsFs(), dir)
		if err != nil {
			if errors.Is(err, vgit.ErrRepositoryExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "Reinitialized existing Git repository in %s\n", dir)
				return nil
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s\n", repo.GitDir())
		return nil
	}

	return cmd
}
