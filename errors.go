package vgit

import "errors"

// Errors returned by the repository facade. Each operation's failure
// modes are collapsed to one of these rather than exposing every
// lower-level error type, mirroring how git itself reports a handful of
// coarse failure categories per command.
var (
	// ErrNotARepository is returned by Open when the given directory has
	// no .git directory. Its ancestors are not searched.
	ErrNotARepository = errors.New("not a git repository")

	// ErrRepositoryExists is returned by Init when .git already exists.
	ErrRepositoryExists = errors.New("repository already exists")

	// ErrEmptyMessage is returned by Commit when given a blank message.
	ErrEmptyMessage = errors.New("empty commit message")

	// ErrNothingToCommit is returned by Commit when the index is empty.
	ErrNothingToCommit = errors.New("nothing to commit")
)
