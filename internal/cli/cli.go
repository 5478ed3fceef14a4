// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readmetree/internal/config"
	"github.com/temirov/readmetree/internal/services/clipboard"
	"github.com/temirov/readmetree/internal/types"
	"github.com/temirov/readmetree/internal/utils"
)

const (
	rootUse              = "readmetree"
	rootShortDescription = "readmetree keeps directory tree appendices in README files current"
	rootLongDescription  = `readmetree renders the directory structure of every repository under a workspace root
and splices it into a marked appendix of that repository's README.md.
The aggregate README under .github receives the tree of the whole workspace.
Use --version to print the application version.`
	versionTemplate = "readmetree version: {{.Version}}\n"

	configFlagName        = "config"
	verboseFlagName       = "verbose"
	formatFlagName        = "format"
	maxDepthFlagName      = "max-depth"
	excludeFlagName       = "exclude"
	gitignoreFlagName     = "gitignore"
	configFlagDescription = "path to a configuration file overriding ./.readmetree.yaml"
	verboseFlagDesc       = "enable debug logging"
	formatFlagDescription = "output format (raw or json)"
	maxDepthFlagDesc      = "maximum depth of rendered trees"
	excludeFlagDesc       = "comma-separated names never listed or descended into"
	gitignoreFlagDesc     = "also skip entries matched by the root .gitignore"

	homeDirectoryPrefix         = "~"
	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	homeDirectoryErrorFormat    = "unable to determine home directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorLoadConfigFormat       = "load configuration: %w"
)

// application carries the dependencies shared by all commands.
type application struct {
	logger           *zap.Logger
	level            zap.AtomicLevel
	fileSystem       afero.Fs
	clipboard        clipboard.Copier
	workingDirectory string
	configFilePath   string
	verbose          bool
}

// Execute runs the readmetree application.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	app := &application{
		logger:           logger,
		level:            level,
		fileSystem:       afero.NewOsFs(),
		clipboard:        clipboard.NewService(),
		workingDirectory: workingDirectory,
	}
	rootCommand := createRootCommand(app)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       utils.GetApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if app.verbose {
				app.level.SetLevel(zap.DebugLevel)
			}
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().StringVar(&app.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&app.verbose, verboseFlagName, false, verboseFlagDesc)
	rootCommand.AddCommand(
		createUpdateCommand(app),
		createTreeCommand(app),
		createConfigCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores the traversal flags shared by update and tree.
type pathOptions struct {
	maxDepth     int
	exclusions   []string
	useGitignore bool
}

// addPathFlags registers traversal flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().IntVar(&options.maxDepth, maxDepthFlagName, utils.DefaultMaxDepth, maxDepthFlagDesc)
	command.Flags().StringSliceVar(&options.exclusions, excludeFlagName, nil, excludeFlagDesc)
	registerBooleanFlag(command.Flags(), &options.useGitignore, gitignoreFlagName, false, gitignoreFlagDesc)
}

// resolve applies flag > configuration > default precedence to the traversal options.
func (options pathOptions) resolve(command *cobra.Command, configured config.PathConfiguration) pathOptions {
	resolved := pathOptions{
		maxDepth:     utils.DefaultMaxDepth,
		exclusions:   utils.DefaultExclusions,
		useGitignore: false,
	}
	if configured.MaxDepth != nil {
		resolved.maxDepth = *configured.MaxDepth
	}
	if configured.Exclude != nil {
		resolved.exclusions = configured.Exclude
	}
	if configured.UseGitignore != nil {
		resolved.useGitignore = *configured.UseGitignore
	}
	if command.Flags().Changed(maxDepthFlagName) {
		resolved.maxDepth = options.maxDepth
	}
	if command.Flags().Changed(excludeFlagName) {
		resolved.exclusions = utils.SplitList(options.exclusions)
	}
	if command.Flags().Changed(gitignoreFlagName) {
		resolved.useGitignore = options.useGitignore
	}
	return resolved
}

// resolveString returns the flag value when it was set, then the configured value, then fallback.
func resolveString(command *cobra.Command, flagName, flagValue, configured, fallback string) string {
	if command.Flags().Changed(flagName) {
		return flagValue
	}
	if configured != "" {
		return configured
	}
	return fallback
}

// resolveBool returns the flag value when it was set, then the configured value, then fallback.
func resolveBool(command *cobra.Command, flagName string, flagValue bool, configured *bool, fallback bool) bool {
	if command.Flags().Changed(flagName) {
		return flagValue
	}
	if configured != nil {
		return *configured
	}
	return fallback
}

// normalizeFormat lowercases the format and rejects unknown values.
func normalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case types.FormatRaw, types.FormatJSON:
		return normalized, nil
	default:
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
}

func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configFilePath,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	return configuration, nil
}

// resolvePath expands a leading ~ and makes the path absolute against the working directory.
func (app *application) resolvePath(inputPath string) (string, error) {
	if inputPath == homeDirectoryPrefix || strings.HasPrefix(inputPath, homeDirectoryPrefix+string(filepath.Separator)) {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf(homeDirectoryErrorFormat, homeError)
		}
		inputPath = filepath.Join(homeDirectory, strings.TrimPrefix(inputPath, homeDirectoryPrefix))
	}
	if !filepath.IsAbs(inputPath) {
		inputPath = filepath.Join(app.workingDirectory, inputPath)
	}
	absolutePath, absoluteError := filepath.Abs(inputPath)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absoluteError)
	}
	return absolutePath, nil
}

// validatePath resolves inputPath and confirms it exists.
func (app *application) validatePath(inputPath string) (types.ValidatedPath, error) {
	absolutePath, resolveError := app.resolvePath(inputPath)
	if resolveError != nil {
		return types.ValidatedPath{}, resolveError
	}
	fileInfo, statError := app.fileSystem.Stat(absolutePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, statError)
	}
	return types.ValidatedPath{AbsolutePath: absolutePath, IsDir: fileInfo.IsDir()}, nil
}
