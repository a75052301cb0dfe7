// Package repoconfig writes the .git/config file a freshly initialized
// repository carries, in the same [core] section format git itself uses.
package repoconfig

import (
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Section/key names of the [core] block this module writes.
const (
	SectionCore          = "core"
	KeyRepositoryVersion = "repositoryformatversion"
	KeyFileMode          = "filemode"
	KeyBare              = "bare"
	KeyLogAllRefUpdates  = "logallrefupdates"
)

// FileName is the name of the config file within a .git directory.
const FileName = "config"

// WriteDefault writes the default [core] section of a freshly initialized
// repository's config file.
func WriteDefault(fs afero.Fs, gitDir string) error {
	cfg := ini.Empty()

	core, err := cfg.NewSection(SectionCore)
	if err != nil {
		return xerrors.Errorf("could not create core section: %w", err)
	}

	values := map[string]string{
		KeyRepositoryVersion: "0",
		KeyFileMode:          "true",
		KeyBare:              "false",
		KeyLogAllRefUpdates:  "true",
	}
	for k, v := range values {
		if _, err := core.NewKey(k, v); err != nil {
			return xerrors.Errorf("could not set %s: %w", k, err)
		}
	}

	path := filepath.Join(gitDir, FileName)
	f, err := fs.Create(path)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := cfg.WriteTo(f); err != nil {
		return xerrors.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
