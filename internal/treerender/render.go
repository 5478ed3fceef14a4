// Package treerender renders directory structures as fenced ASCII trees.
package treerender

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/temirov/readmetree/internal/ignore"
	"github.com/temirov/readmetree/internal/utils"
)

const (
	middleConnector   = "├── "
	lastConnector     = "└── "
	continuationGlyph = "│   "
	blankPadding      = "    "
	codeFence         = "```"
	lineSeparator     = "\n"

	errorInvalidDepthFormat = "max depth must be at least 1, got %d"
	errorStatRootFormat     = "stat %s: %w"
	errorRootNotDirFormat   = "%s is not a directory"
	errorReadRootFormat     = "reading directory %s: %w"
)

// Options configures a rendering.
type Options struct {
	MaxDepth   int
	Exclusions ExclusionSet
	// Matcher hides additional paths; nil hides nothing.
	Matcher ignore.Matcher
}

// Entry is a directory entry discovered during rendering.
// Children are populated only for directories that were expanded.
type Entry struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	IsDirectory bool     `json:"isDirectory"`
	Children    []*Entry `json:"children,omitempty"`
}

// Line is one rendered row: the connector prefix and the entry name.
type Line struct {
	Prefix string
	Name   string
}

// String joins the prefix and the name.
func (line Line) String() string {
	return line.Prefix + line.Name
}

// Tree is a rendered directory in pre-order.
type Tree struct {
	RootName string
	Lines    []Line
	Root     *Entry
}

// String renders the root name followed by every line, without a code fence.
func (tree Tree) String() string {
	renderedLines := make([]string, 0, len(tree.Lines)+1)
	renderedLines = append(renderedLines, tree.RootName)
	for _, line := range tree.Lines {
		renderedLines = append(renderedLines, line.String())
	}
	return strings.Join(renderedLines, lineSeparator)
}

// Markdown renders the tree wrapped in a code fence, without a trailing newline.
func (tree Tree) Markdown() string {
	return codeFence + lineSeparator + tree.String() + lineSeparator + codeFence
}

// frame is a directory level awaiting emission.
type frame struct {
	entries  []*Entry
	next     int
	depth    int
	ancestry []bool
}

// Render walks rootPath depth first and returns its tree.
// Entries at options.MaxDepth are listed but not expanded. Nested directories
// that cannot be read are rendered as empty.
func Render(fileSystem afero.Fs, rootPath string, options Options) (Tree, error) {
	if options.MaxDepth < 1 {
		return Tree{}, fmt.Errorf(errorInvalidDepthFormat, options.MaxDepth)
	}
	if options.Matcher == nil {
		options.Matcher = ignore.Never
	}
	cleanRoot := filepath.Clean(rootPath)
	rootInfo, statError := fileSystem.Stat(cleanRoot)
	if statError != nil {
		return Tree{}, fmt.Errorf(errorStatRootFormat, cleanRoot, statError)
	}
	if !rootInfo.IsDir() {
		return Tree{}, fmt.Errorf(errorRootNotDirFormat, cleanRoot)
	}

	walker := levelReader{fileSystem: fileSystem, root: cleanRoot, options: options, caser: cases.Fold()}
	rootEntries, readError := walker.read(cleanRoot)
	if readError != nil && !os.IsPermission(readError) {
		return Tree{}, fmt.Errorf(errorReadRootFormat, cleanRoot, readError)
	}

	rootName := filepath.Base(cleanRoot)
	tree := Tree{
		RootName: rootName,
		Root:     &Entry{Name: rootName, Path: cleanRoot, IsDirectory: true, Children: rootEntries},
	}

	stack := []*frame{{entries: rootEntries, depth: 1}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		if current.next >= len(current.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := current.entries[current.next]
		current.next++
		isLast := current.next == len(current.entries)

		tree.Lines = append(tree.Lines, Line{Prefix: linePrefix(current.ancestry, isLast), Name: entry.Name})

		if !entry.IsDirectory || current.depth >= options.MaxDepth {
			continue
		}
		children, childError := walker.read(entry.Path)
		if childError != nil {
			children = nil
		}
		entry.Children = children
		ancestry := make([]bool, len(current.ancestry), len(current.ancestry)+1)
		copy(ancestry, current.ancestry)
		stack = append(stack, &frame{entries: children, depth: current.depth + 1, ancestry: append(ancestry, isLast)})
	}

	return tree, nil
}

// linePrefix builds the ancestry indicator and branch connector of a line.
func linePrefix(ancestry []bool, isLast bool) string {
	var builder strings.Builder
	for _, ancestorIsLast := range ancestry {
		if ancestorIsLast {
			builder.WriteString(blankPadding)
		} else {
			builder.WriteString(continuationGlyph)
		}
	}
	if isLast {
		builder.WriteString(lastConnector)
	} else {
		builder.WriteString(middleConnector)
	}
	return builder.String()
}

type levelReader struct {
	fileSystem afero.Fs
	root       string
	options    Options
	caser      cases.Caser
}

// read lists the visible entries of one directory, directories first, then by folded name.
func (reader *levelReader) read(directoryPath string) ([]*Entry, error) {
	fileInfos, readError := afero.ReadDir(reader.fileSystem, directoryPath)
	if readError != nil {
		return nil, readError
	}

	entries := make([]*Entry, 0, len(fileInfos))
	foldedNames := make(map[*Entry]string, len(fileInfos))
	for _, fileInfo := range fileInfos {
		name := fileInfo.Name()
		if reader.options.Exclusions.Excludes(name) {
			continue
		}
		entryPath := filepath.Join(directoryPath, name)
		isDirectory := reader.isDirectory(entryPath, fileInfo)
		if reader.options.Matcher.Match(utils.RelativePathOrSelf(entryPath, reader.root), isDirectory) {
			continue
		}
		entry := &Entry{Name: name, Path: entryPath, IsDirectory: isDirectory}
		foldedNames[entry] = reader.caser.String(name)
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(left, right int) bool {
		leftEntry, rightEntry := entries[left], entries[right]
		if leftEntry.IsDirectory != rightEntry.IsDirectory {
			return leftEntry.IsDirectory
		}
		leftFolded, rightFolded := foldedNames[leftEntry], foldedNames[rightEntry]
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return leftEntry.Name < rightEntry.Name
	})
	return entries, nil
}

// isDirectory classifies an entry, following symbolic links to their target.
func (reader *levelReader) isDirectory(entryPath string, fileInfo os.FileInfo) bool {
	if fileInfo.Mode()&os.ModeSymlink == 0 {
		return fileInfo.IsDir()
	}
	targetInfo, statError := reader.fileSystem.Stat(entryPath)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}
