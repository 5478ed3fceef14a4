// Package ignore decides whether paths below a rendering root are hidden by .gitignore rules.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"

	"github.com/temirov/readmetree/internal/utils"
)

const (
	commentPrefix          = "#"
	pathSegmentSeparator   = "/"
	errorReadGitignoreText = "read %s: %w"
)

// Matcher reports whether a slash-separated path relative to the rendering root is ignored.
type Matcher interface {
	Match(relativePath string, isDirectory bool) bool
}

// Never is a Matcher that ignores nothing.
var Never Matcher = neverMatcher{}

type neverMatcher struct{}

func (neverMatcher) Match(string, bool) bool { return false }

// GitignoreMatcher matches paths with go-git's gitignore implementation.
type GitignoreMatcher struct {
	matcher gitignore.Matcher
}

// NewGitignoreMatcher builds a matcher from gitignore lines. Blank lines and comments are skipped.
func NewGitignoreMatcher(lines []string) *GitignoreMatcher {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		trimmedLine := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmedLine) == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(trimmedLine, nil))
	}
	return &GitignoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// Match reports whether relativePath is excluded by the loaded patterns.
func (gitignoreMatcher *GitignoreMatcher) Match(relativePath string, isDirectory bool) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return gitignoreMatcher.matcher.Match(segments, isDirectory)
}

// LoadGitignore reads the .gitignore file at the root of a rendering.
// A missing file yields Never.
func LoadGitignore(fileSystem afero.Fs, rootDirectory string) (Matcher, error) {
	gitignorePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	content, readError := afero.ReadFile(fileSystem, gitignorePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return Never, nil
		}
		return nil, fmt.Errorf(errorReadGitignoreText, gitignorePath, readError)
	}
	return NewGitignoreMatcher(strings.Split(string(content), "\n")), nil
}

func splitPath(relativePath string) []string {
	normalizedPath := filepath.ToSlash(relativePath)
	var segments []string
	for _, segment := range strings.Split(normalizedPath, pathSegmentSeparator) {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
