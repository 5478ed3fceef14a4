// Package workspace keeps the directory tree appendices of an organization workspace up to date.
//
// Every immediate subdirectory of the root is a repository whose README.md
// receives its own tree. The aggregate README under the organization directory
// receives the tree of the whole root, and optionally an index of repositories.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/readmetree/internal/appendix"
	"github.com/temirov/readmetree/internal/ignore"
	"github.com/temirov/readmetree/internal/repoindex"
	"github.com/temirov/readmetree/internal/treerender"
	"github.com/temirov/readmetree/internal/utils"
)

const (
	// DocumentKindRepository marks the README of a repository.
	DocumentKindRepository = "repository"
	// DocumentKindOrganization marks the aggregate README.
	DocumentKindOrganization = "organization"

	directoryPermissions = 0o755
	documentPermissions  = 0o644

	stubTemplate               = "# %s\n\n_%s_\n"
	organizationHeaderTemplate = "# %s — Organization Overview\n\nThis README describes the overall directory structure of the organization workspace.\n\n"

	errorStatRootFormat       = "stat root %s: %w"
	errorRootNotDirFormat     = "root %s is not a directory"
	errorInvalidDepthFormat   = "max depth must be at least 1, got %d"
	errorListRootFormat       = "list repositories in %s: %w"
	errorRenderFormat         = "render tree of %s: %w"
	errorReadDocumentFormat   = "read %s: %w"
	errorWriteDocumentFormat  = "write %s: %w"
	errorCreateDirectoryFmt   = "create directory %s: %w"
	errorLoadIgnoreFileFormat = "load ignore rules for %s: %w"

	logMessageStart        = "updating directory tree appendices"
	logMessageDocument     = "document processed"
	logMessageIndexEntry   = "repository described"
	logFieldRoot           = "root"
	logFieldRepositories   = "repositories"
	logFieldExclude        = "exclude"
	logFieldMaxDepth       = "maxDepth"
	logFieldDryRun         = "dryRun"
	logFieldPath           = "path"
	logFieldChanged        = "changed"
	logFieldCreated        = "created"
	logFieldRepositoryName = "repository"
	logFieldTitle          = "title"
)

var (
	// ErrRootNotFound reports that the workspace root does not exist.
	ErrRootNotFound = errors.New("root does not exist")
	// ErrDocumentsOutdated reports that at least one document would change.
	ErrDocumentsOutdated = errors.New("documents are out of date")
)

// Options configures an Updater.
type Options struct {
	Root                  string
	MaxDepth              int
	Exclusions            []string
	DryRun                bool
	UseGitignore          bool
	IncludeIndex          bool
	OrganizationDirectory string
	// OrganizationTitle names the workspace in a newly created aggregate README. Defaults to the root name.
	OrganizationTitle string
}

// DocumentResult is the outcome for one README.
type DocumentResult struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Created bool   `json:"created"`
}

// Report summarizes a run.
type Report struct {
	Root         string           `json:"root"`
	DryRun       bool             `json:"dryRun"`
	Repositories []string         `json:"repositories"`
	Exclusions   []string         `json:"exclude"`
	MaxDepth     int              `json:"maxDepth"`
	Documents    []DocumentResult `json:"documents"`
	ChangedCount int              `json:"changedCount"`
}

// Updater renders trees and splices them into README documents.
type Updater struct {
	fileSystem afero.Fs
	logger     *zap.Logger
	options    Options
	root       string
	exclusions treerender.ExclusionSet
}

// NewUpdater validates options and prepares an Updater. In dry-run mode every
// write lands in an in-memory layer above fileSystem, so nothing reaches it.
func NewUpdater(fileSystem afero.Fs, logger *zap.Logger, options Options) (*Updater, error) {
	if options.MaxDepth < 1 {
		return nil, fmt.Errorf(errorInvalidDepthFormat, options.MaxDepth)
	}
	root := filepath.Clean(options.Root)
	rootInfo, statError := fileSystem.Stat(root)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf(errorStatRootFormat, root, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirFormat, root)
	}

	if options.OrganizationDirectory == "" {
		options.OrganizationDirectory = utils.OrganizationDirectoryName
	}
	if options.OrganizationTitle == "" {
		options.OrganizationTitle = filepath.Base(root)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.DryRun {
		fileSystem = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fileSystem), afero.NewMemMapFs())
	}

	return &Updater{
		fileSystem: fileSystem,
		logger:     logger,
		options:    options,
		root:       root,
		exclusions: treerender.NewExclusionSet(options.Exclusions),
	}, nil
}

// Run updates every repository README, then the aggregate README.
func (updater *Updater) Run() (Report, error) {
	repositories, discoverError := updater.DiscoverRepositories()
	if discoverError != nil {
		return Report{}, discoverError
	}

	report := Report{
		Root:         updater.root,
		DryRun:       updater.options.DryRun,
		Repositories: repositories,
		Exclusions:   updater.exclusions.Names(),
		MaxDepth:     updater.options.MaxDepth,
	}
	updater.logger.Info(logMessageStart,
		zap.String(logFieldRoot, report.Root),
		zap.Strings(logFieldRepositories, report.Repositories),
		zap.Strings(logFieldExclude, report.Exclusions),
		zap.Int(logFieldMaxDepth, report.MaxDepth),
		zap.Bool(logFieldDryRun, report.DryRun),
	)

	indexEntries := make([]repoindex.Entry, 0, len(repositories))
	for _, repositoryName := range repositories {
		result, content, updateError := updater.UpdateRepository(repositoryName)
		if updateError != nil {
			return report, updateError
		}
		report.add(result)
		if updater.options.IncludeIndex {
			indexEntries = append(indexEntries, updater.describe(repositoryName, content))
		}
	}

	organizationResult, organizationError := updater.UpdateOrganization(indexEntries)
	if organizationError != nil {
		return report, organizationError
	}
	report.add(organizationResult)
	return report, nil
}

func (report *Report) add(result DocumentResult) {
	report.Documents = append(report.Documents, result)
	if result.Changed {
		report.ChangedCount++
	}
}

// DiscoverRepositories lists the immediate subdirectories of the root that are
// neither excluded nor the organization directory, sorted by name.
func (updater *Updater) DiscoverRepositories() ([]string, error) {
	fileInfos, readError := afero.ReadDir(updater.fileSystem, updater.root)
	if readError != nil {
		return nil, fmt.Errorf(errorListRootFormat, updater.root, readError)
	}
	var repositories []string
	for _, fileInfo := range fileInfos {
		name := fileInfo.Name()
		if name == updater.options.OrganizationDirectory || updater.exclusions.Excludes(name) {
			continue
		}
		if !updater.isDirectory(filepath.Join(updater.root, name), fileInfo) {
			continue
		}
		repositories = append(repositories, name)
	}
	sort.Strings(repositories)
	return repositories, nil
}

// UpdateRepository splices the tree of one repository into its README,
// creating a stub README first when it is missing. It returns the resulting document text.
func (updater *Updater) UpdateRepository(repositoryName string) (DocumentResult, string, error) {
	repositoryDirectory := filepath.Join(updater.root, repositoryName)
	documentPath := filepath.Join(repositoryDirectory, utils.ReadmeFileName)
	result := DocumentResult{Name: repositoryName, Kind: DocumentKindRepository, Path: documentPath}

	current, exists, readError := updater.readDocument(documentPath)
	if readError != nil {
		return result, "", readError
	}
	if !exists {
		current = fmt.Sprintf(stubTemplate, repositoryName, repoindex.PlaceholderSummary)
		if writeError := updater.writeDocument(documentPath, current); writeError != nil {
			return result, "", writeError
		}
		result.Created = true
	}

	tree, renderError := updater.render(repositoryDirectory)
	if renderError != nil {
		return result, "", renderError
	}
	updated := appendix.Splice(current, appendix.RepositorySection(repositoryName), tree.Markdown())
	result.Changed = result.Created || updated != current
	if updated != current {
		if writeError := updater.writeDocument(documentPath, updated); writeError != nil {
			return result, "", writeError
		}
	}
	updater.logDocument(result)
	return result, updated, nil
}

// UpdateOrganization splices the tree of the whole root into the aggregate
// README, followed by the repository index when enabled.
func (updater *Updater) UpdateOrganization(indexEntries []repoindex.Entry) (DocumentResult, error) {
	organizationDirectory := filepath.Join(updater.root, updater.options.OrganizationDirectory)
	documentPath := filepath.Join(organizationDirectory, utils.ReadmeFileName)
	result := DocumentResult{
		Name: filepath.ToSlash(filepath.Join(updater.options.OrganizationDirectory, utils.ReadmeFileName)),
		Kind: DocumentKindOrganization,
		Path: documentPath,
	}

	if mkdirError := updater.fileSystem.MkdirAll(organizationDirectory, directoryPermissions); mkdirError != nil {
		return result, fmt.Errorf(errorCreateDirectoryFmt, organizationDirectory, mkdirError)
	}
	current, exists, readError := updater.readDocument(documentPath)
	if readError != nil {
		return result, readError
	}
	if !exists {
		current = fmt.Sprintf(organizationHeaderTemplate, updater.options.OrganizationTitle)
		if writeError := updater.writeDocument(documentPath, current); writeError != nil {
			return result, writeError
		}
		result.Created = true
	}

	// The aggregate README exists before the root is rendered so the tree lists it on every run.
	tree, renderError := updater.render(updater.root)
	if renderError != nil {
		return result, renderError
	}
	updated := appendix.Splice(current, appendix.OrganizationSection(), tree.Markdown())
	if updater.options.IncludeIndex {
		updated = appendix.Splice(updated, appendix.IndexSection(), repoindex.Render(indexEntries))
	}

	result.Changed = result.Created || updated != current
	if updated != current {
		if writeError := updater.writeDocument(documentPath, updated); writeError != nil {
			return result, writeError
		}
	}
	updater.logDocument(result)
	return result, nil
}

func (updater *Updater) describe(repositoryName string, content string) repoindex.Entry {
	organizationDirectory := filepath.Join(updater.root, updater.options.OrganizationDirectory)
	documentPath := filepath.Join(updater.root, repositoryName, utils.ReadmeFileName)
	link, relError := filepath.Rel(organizationDirectory, documentPath)
	if relError != nil {
		link = documentPath
	}
	entry := repoindex.Describe(repositoryName, filepath.ToSlash(link), []byte(content))
	updater.logger.Debug(logMessageIndexEntry, zap.String(logFieldRepositoryName, repositoryName), zap.String(logFieldTitle, entry.Title))
	return entry
}

func (updater *Updater) render(directory string) (treerender.Tree, error) {
	matcher := ignore.Never
	if updater.options.UseGitignore {
		loadedMatcher, loadError := ignore.LoadGitignore(updater.fileSystem, directory)
		if loadError != nil {
			return treerender.Tree{}, fmt.Errorf(errorLoadIgnoreFileFormat, directory, loadError)
		}
		matcher = loadedMatcher
	}
	tree, renderError := treerender.Render(updater.fileSystem, directory, treerender.Options{
		MaxDepth:   updater.options.MaxDepth,
		Exclusions: updater.exclusions,
		Matcher:    matcher,
	})
	if renderError != nil {
		return treerender.Tree{}, fmt.Errorf(errorRenderFormat, directory, renderError)
	}
	return tree, nil
}

// readDocument returns the document text and whether the document exists.
func (updater *Updater) readDocument(documentPath string) (string, bool, error) {
	content, readError := afero.ReadFile(updater.fileSystem, documentPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(errorReadDocumentFormat, documentPath, readError)
	}
	return string(content), true, nil
}

func (updater *Updater) writeDocument(documentPath string, content string) error {
	if writeError := afero.WriteFile(updater.fileSystem, documentPath, []byte(content), documentPermissions); writeError != nil {
		return fmt.Errorf(errorWriteDocumentFormat, documentPath, writeError)
	}
	return nil
}

func (updater *Updater) isDirectory(entryPath string, fileInfo os.FileInfo) bool {
	if fileInfo.Mode()&os.ModeSymlink == 0 {
		return fileInfo.IsDir()
	}
	targetInfo, statError := updater.fileSystem.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}

func (updater *Updater) logDocument(result DocumentResult) {
	updater.logger.Debug(logMessageDocument,
		zap.String(logFieldPath, result.Path),
		zap.Bool(logFieldChanged, result.Changed),
		zap.Bool(logFieldCreated, result.Created),
	)
}
