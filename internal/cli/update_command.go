package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/readmetree/internal/output"
	"github.com/temirov/readmetree/internal/types"
	"github.com/temirov/readmetree/internal/workspace"
)

const (
	updateUse              = types.CommandUpdate
	updateAlias            = "u"
	updateShortDescription = "refresh README tree appendices (" + updateAlias + ")"
	updateLongDescription  = `Render the tree of every repository under --root into its README.md,
then render the whole workspace into .github/README.md.
Missing READMEs are created as stubs. Use --dry-run to preview and --check to fail when anything is stale.`
	updateUsageExample = `  # Refresh all appendices under ~/workspace
  readmetree update --root ~/workspace

  # Preview with a shallower tree and a custom exclusion list
  readmetree update --root . --max-depth 2 --exclude .git,node_modules --dry-run

  # Fail in CI when a README is stale
  readmetree update --root . --check`

	rootFlagName        = "root"
	dryRunFlagName      = "dry-run"
	checkFlagName       = "check"
	indexFlagName       = "index"
	rootFlagDescription = "workspace root whose subdirectories are repositories"
	dryRunFlagDesc      = "compute results without writing"
	checkFlagDesc       = "preview and fail when any README would change"
	indexFlagDesc       = "add a repository index to the aggregate README"
	errorRootRequired   = "--root is required (or set update.root in the configuration)"
	errorOutdatedFormat = "%w: %d file(s) would change"
)

// updateOptions stores the update command flags.
type updateOptions struct {
	paths  pathOptions
	root   string
	format string
	dryRun bool
	check  bool
	index  bool
}

// createUpdateCommand returns the update subcommand.
func createUpdateCommand(app *application) *cobra.Command {
	var options updateOptions

	updateCommand := &cobra.Command{
		Use:     updateUse,
		Aliases: []string{updateAlias},
		Short:   updateShortDescription,
		Long:    updateLongDescription,
		Example: updateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runUpdate(command, options)
		},
	}

	addPathFlags(updateCommand, &options.paths)
	updateCommand.Flags().StringVar(&options.root, rootFlagName, "", rootFlagDescription)
	updateCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(updateCommand.Flags(), &options.dryRun, dryRunFlagName, false, dryRunFlagDesc)
	registerBooleanFlag(updateCommand.Flags(), &options.check, checkFlagName, false, checkFlagDesc)
	registerBooleanFlag(updateCommand.Flags(), &options.index, indexFlagName, false, indexFlagDesc)
	return updateCommand
}

// runUpdate resolves options against the configuration and runs the workspace updater.
func (app *application) runUpdate(command *cobra.Command, options updateOptions) error {
	configuration, loadError := app.loadConfiguration()
	if loadError != nil {
		return loadError
	}
	updateConfiguration := configuration.Update

	root := resolveString(command, rootFlagName, options.root, updateConfiguration.Root, "")
	if root == "" {
		return errors.New(errorRootRequired)
	}
	absoluteRoot, resolveError := app.resolvePath(root)
	if resolveError != nil {
		return resolveError
	}
	format, formatError := normalizeFormat(resolveString(command, formatFlagName, options.format, updateConfiguration.Format, types.FormatRaw))
	if formatError != nil {
		return formatError
	}
	paths := options.paths.resolve(command, updateConfiguration.Paths)
	dryRun := resolveBool(command, dryRunFlagName, options.dryRun, updateConfiguration.DryRun, false) || options.check

	updater, updaterError := workspace.NewUpdater(app.fileSystem, app.logger, workspace.Options{
		Root:                  absoluteRoot,
		MaxDepth:              paths.maxDepth,
		Exclusions:            paths.exclusions,
		DryRun:                dryRun,
		UseGitignore:          paths.useGitignore,
		IncludeIndex:          resolveBool(command, indexFlagName, options.index, updateConfiguration.Index, false),
		OrganizationDirectory: configuration.Organization.Directory,
		OrganizationTitle:     configuration.Organization.Title,
	})
	if updaterError != nil {
		return updaterError
	}
	report, runError := updater.Run()
	if runError != nil {
		return runError
	}
	if writeError := output.WriteReport(command.OutOrStdout(), format, report); writeError != nil {
		return writeError
	}
	if options.check && report.ChangedCount > 0 {
		return fmt.Errorf(errorOutdatedFormat, workspace.ErrDocumentsOutdated, report.ChangedCount)
	}
	return nil
}
