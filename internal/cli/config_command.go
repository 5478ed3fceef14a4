package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/readmetree/internal/config"
	"github.com/temirov/readmetree/internal/types"
)

const (
	configUse              = types.CommandConfig
	configShortDescription = "manage readmetree configuration"
	configInitUse          = "init"
	configInitShortDesc    = "write a default configuration file"
	configInitLongDesc     = `Write the default configuration to ./.readmetree.yaml, or to ~/.readmetree/config.yaml with --global.
An existing file is kept unless --force is given.`
	globalFlagName          = "global"
	forceFlagName           = "force"
	globalFlagDescription   = "write the global configuration instead of the local one"
	forceFlagDescription    = "overwrite an existing configuration file"
	configWrittenMessageFmt = "Configuration written to %s\n"
)

// createConfigCommand returns the config command with its init subcommand.
func createConfigCommand(app *application) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDesc,
		Long:  configInitLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(command.OutOrStdout(), configWrittenMessageFmt, destinationPath)
			return writeError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
