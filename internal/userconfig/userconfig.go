// Package userconfig resolves the committer identity (name/email) a commit
// is recorded under, the way git layers $GIT_AUTHOR_* env vars over the
// repository's [user] config section.
package userconfig

import (
	"os/user"
	"path/filepath"

	"github.com/mlaplanche/vgit/internal/env"
	"github.com/mlaplanche/vgit/internal/repoconfig"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// SectionUser is the config section holding the committer identity.
const SectionUser = "user"

// Key names within the [user] section.
const (
	KeyName  = "name"
	KeyEmail = "email"
)

// Identity returns the name/email to record a commit under. It layers, in
// priority order: $GIT_AUTHOR_NAME / $GIT_AUTHOR_EMAIL (read from e), then
// the repository's [user] section in gitDir/config, then the OS account
// name with a "@localhost" email as a last resort.
func Identity(e *env.Env, fs afero.Fs, gitDir string) (name, email string) {
	name = e.Get("GIT_AUTHOR_NAME")
	email = e.Get("GIT_AUTHOR_EMAIL")
	if name != "" && email != "" {
		return name, email
	}

	if cfgName, cfgEmail, err := fromConfig(fs, gitDir); err == nil {
		if name == "" {
			name = cfgName
		}
		if email == "" {
			email = cfgEmail
		}
	}

	if name == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			name = u.Username
		} else {
			name = "unknown"
		}
	}
	if email == "" {
		email = name + "@localhost"
	}
	return name, email
}

// fromConfig reads the [user] section of gitDir/config, if present.
func fromConfig(fs afero.Fs, gitDir string) (name, email string, err error) {
	path := filepath.Join(gitDir, repoconfig.FileName)
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", "", xerrors.Errorf("could not read %s: %w", path, err)
	}
	cfg, err := ini.Load(raw)
	if err != nil {
		return "", "", xerrors.Errorf("could not parse %s: %w", path, err)
	}

	section, err := cfg.GetSection(SectionUser)
	if err != nil {
		return "", "", xerrors.Errorf("no [%s] section in %s: %w", SectionUser, path, err)
	}

	return section.Key(KeyName).String(), section.Key(KeyEmail).String(), nil
}
