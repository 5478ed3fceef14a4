package utils

import (
	"runtime/debug"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const (
	unknownVersion      = "unknown"
	develVersion        = "(devel)"
	shortHashLength     = 7
	dirtyVersionSuffix  = "-dirty"
	untaggedVersionHead = "0.0.0-"
)

// GetApplicationVersion attempts to determine the application version.
// It checks Go build info first, then falls back to the tag pointing at HEAD of
// the enclosing Git repository, then to the abbreviated HEAD hash.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	return versionFromRepository(".")
}

// versionFromRepository resolves a version string for the repository enclosing startDirectory.
func versionFromRepository(startDirectory string) string {
	repository, openError := git.PlainOpenWithOptions(startDirectory, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return unknownVersion
	}
	head, headError := repository.Head()
	if headError != nil {
		return unknownVersion
	}

	version := untaggedVersionHead + head.Hash().String()[:shortHashLength]
	tags, tagsError := repository.Tags()
	if tagsError == nil {
		_ = tags.ForEach(func(reference *plumbing.Reference) error {
			if resolveTagTarget(repository, reference) == head.Hash() {
				version = reference.Name().Short()
				return storer.ErrStop
			}
			return nil
		})
	}

	if worktree, worktreeError := repository.Worktree(); worktreeError == nil {
		if status, statusError := worktree.Status(); statusError == nil && !status.IsClean() {
			version += dirtyVersionSuffix
		}
	}
	return version
}

// resolveTagTarget returns the commit hash a tag reference points to, peeling annotated tags.
func resolveTagTarget(repository *git.Repository, reference *plumbing.Reference) plumbing.Hash {
	tagObject, tagError := repository.TagObject(reference.Hash())
	if tagError == nil {
		return tagObject.Target
	}
	return reference.Hash()
}
