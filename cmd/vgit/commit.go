package main

import (
	"fmt"

	vgit "github.com/mlaplanche/vgit"
	"github.com/mlaplanche/vgit/internal/env"
	"github.com/mlaplanche/vgit/internal/userconfig"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "record staged changes",
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		root, err := cfg.repoRoot()
		if err != nil {
			return err
		}
		fs := afero.NewOsFs()
		repo, err := vgit.Open(fs, root)
		if err != nil {
			return err
		}

		name, email := userconfig.Identity(env.NewFromOs(), fs, repo.GitDir())
		oid, err := repo.Commit(name, email, message)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", oid)
		return nil
	}

	return cmd
}
