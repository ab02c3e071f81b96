package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/treesnap/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a commented configuration file with the default snapshot settings.
The file is created as .treesnap.yaml in the current directory, or as
~/.treesnap/config.yaml with --global. Existing files are kept unless --force is set.`
	initGlobalFlagName        = "global"
	initGlobalFlagDescription = "write the global configuration instead of the local one"
	initForceFlagName         = "force"
	initForceFlagDescription  = "overwrite an existing configuration file"
	initWrittenFormat         = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destination, err := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.stdout, initWrittenFormat, destination)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}
