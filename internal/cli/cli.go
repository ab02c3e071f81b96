// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/analyzer"
	"github.com/temirov/treesnap/internal/config"
	"github.com/temirov/treesnap/internal/services/clipboard"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	versionFlagName        = "version"
	versionTemplate        = "treesnap version: %s\n"
	versionFlagDescription = "display application version"
	defaultPath            = "."
	rootUse                = "treesnap [path]"
	rootShortDescription   = "write a structural snapshot of a directory tree"
	rootLongDescription    = `treesnap walks a directory, filters it through ignore rules, and writes a plain-text
report of the tree into <path>/.treesnap. Files can be annotated with detected
functions, classes, and token estimates, and the report can carry file contents.
Two reports can be compared with --diff or the diff subcommand.`
	analyzedExtensionsTemplate = "\n\nCode analysis recognizes: %s"
	extensionsSeparator        = " "
	rootUsageExample           = `  # Snapshot the current directory
  treesnap

  # Include file contents and stop two levels below the root
  treesnap --include-file-content --max-depth 1 ./service

  # Ignore fixtures and write a named report
  treesnap --add-ignore "testdata/,*.golden" -o latest.snapshot.txt

  # Compare two reports
  treesnap --diff .treesnap/old.snapshot.txt .treesnap/new.snapshot.txt`
)

// dependencies carries the collaborators shared by every command.
type dependencies struct {
	logger    *zap.Logger
	clipboard clipboard.Copier
	stdout    io.Writer
}

// Execute runs the treesnap application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(dependencies{
		logger:    logger,
		clipboard: clipboard.NewService(),
		stdout:    os.Stdout,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	if deps.stdout == nil {
		deps.stdout = os.Stdout
	}
	var showVersion bool
	var flags snapshotFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription + analyzedExtensionsNote(),
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return runRoot(command, arguments, &flags, deps)
		},
	}
	rootCommand.SetOut(deps.stdout)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	addSnapshotFlags(rootCommand, &flags)
	rootCommand.AddCommand(
		createDiffCommand(deps),
		createInitCommand(deps),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runRoot dispatches between snapshot, --show-ignore and --diff modes.
func runRoot(command *cobra.Command, arguments []string, flags *snapshotFlags, deps dependencies) error {
	if flags.diff {
		if flags.showIgnore {
			return invalidOption(diffWithShowIgnoreMessage)
		}
		if len(arguments) != 2 {
			return invalidOption(diffArgumentCountMessage, len(arguments))
		}
		return runDiff(arguments[0], arguments[1], deps)
	}
	if len(arguments) > 1 {
		return invalidOption(tooManyPathsMessage, len(arguments))
	}
	root := defaultPath
	if len(arguments) == 1 {
		root = arguments[0]
	}
	return runSnapshot(command, root, flags, deps)
}

func analyzedExtensionsNote() string {
	return fmt.Sprintf(analyzedExtensionsTemplate, strings.Join(analyzer.DefaultRegistry().Extensions(), extensionsSeparator))
}

func invalidOption(format string, values ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, values...), config.ErrInvalidOption)
}
