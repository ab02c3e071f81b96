package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/diff"
)

const (
	diffUse              = "diff OLD NEW"
	diffShortDescription = "compare the trees of two snapshot reports"
	diffLongDescription  = `Compare the File Structure sections of two reports and list paths that were
added or removed. Manifest files (.yaml) are accepted in place of reports.`
	diffUsageExample    = `  treesnap diff .treesnap/20240101-090000.snapshot.txt .treesnap/20240102-090000.snapshot.txt`
	diffComparedMessage = "snapshots compared"
)

// createDiffCommand returns the diff subcommand.
func createDiffCommand(deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     diffUse,
		Short:   diffShortDescription,
		Long:    diffLongDescription,
		Example: diffUsageExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDiff(arguments[0], arguments[1], deps)
		},
	}
}

func runDiff(oldPath, newPath string, deps dependencies) error {
	result, err := diff.DiffFiles(oldPath, newPath)
	if err != nil {
		return err
	}
	deps.logger.Debug(diffComparedMessage,
		zap.String("old", oldPath),
		zap.String("new", newPath),
		zap.Int("added", result.AddedCount()),
		zap.Int("removed", result.RemovedCount()),
	)
	return diff.RenderDiff(deps.stdout, result)
}
