package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readmetree/internal/ignore"
	"github.com/temirov/readmetree/internal/output"
	"github.com/temirov/readmetree/internal/treerender"
	"github.com/temirov/readmetree/internal/types"
)

const (
	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "print the directory tree of a path (" + treeAlias + ")"
	treeLongDescription  = `Render a single directory the same way update renders README appendices.
Use --format json for nested entries and --copy to place the fenced tree on the clipboard.`
	treeUsageExample = `  # Print the tree of the current directory
  readmetree tree

  # Copy a two-level tree of ./service to the clipboard
  readmetree tree ./service --max-depth 2 --copy`

	copyFlagName          = "copy"
	copyFlagDescription   = "copy the rendered tree to the clipboard"
	defaultPath           = "."
	errorNotDirectoryFmt  = "path '%s' is not a directory"
	errorCopyClipboardFmt = "copy tree to clipboard: %w"
	errorLoadGitignoreFmt = "load .gitignore of %s: %w"
	logMessageTreeCopied  = "tree copied to clipboard"
	logFieldTreeRoot      = "root"
)

// treeOptions stores the tree command flags.
type treeOptions struct {
	paths  pathOptions
	format string
	copy   bool
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(app *application) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			targetPath := defaultPath
			if len(arguments) == 1 {
				targetPath = arguments[0]
			}
			return app.runTree(command, targetPath, options)
		},
	}

	addPathFlags(treeCommand, &options.paths)
	treeCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &options.copy, copyFlagName, false, copyFlagDescription)
	return treeCommand
}

// runTree renders one directory and prints it, copying the Markdown form when requested.
func (app *application) runTree(command *cobra.Command, targetPath string, options treeOptions) error {
	configuration, loadError := app.loadConfiguration()
	if loadError != nil {
		return loadError
	}
	treeConfiguration := configuration.Tree

	validatedPath, validateError := app.validatePath(targetPath)
	if validateError != nil {
		return validateError
	}
	if !validatedPath.IsDir {
		return fmt.Errorf(errorNotDirectoryFmt, targetPath)
	}
	format, formatError := normalizeFormat(resolveString(command, formatFlagName, options.format, treeConfiguration.Format, types.FormatRaw))
	if formatError != nil {
		return formatError
	}
	paths := options.paths.resolve(command, treeConfiguration.Paths)

	matcher := ignore.Never
	if paths.useGitignore {
		loadedMatcher, matcherError := ignore.LoadGitignore(app.fileSystem, validatedPath.AbsolutePath)
		if matcherError != nil {
			return fmt.Errorf(errorLoadGitignoreFmt, validatedPath.AbsolutePath, matcherError)
		}
		matcher = loadedMatcher
	}

	tree, renderError := treerender.Render(app.fileSystem, validatedPath.AbsolutePath, treerender.Options{
		MaxDepth:   paths.maxDepth,
		Exclusions: treerender.NewExclusionSet(paths.exclusions),
		Matcher:    matcher,
	})
	if renderError != nil {
		return renderError
	}
	if writeError := output.WriteTree(command.OutOrStdout(), format, tree); writeError != nil {
		return writeError
	}

	if resolveBool(command, copyFlagName, options.copy, treeConfiguration.Copy, false) {
		if copyError := app.clipboard.Copy(tree.Markdown()); copyError != nil {
			return fmt.Errorf(errorCopyClipboardFmt, copyError)
		}
		app.logger.Debug(logMessageTreeCopied, zap.String(logFieldTreeRoot, validatedPath.AbsolutePath))
	}
	return nil
}
