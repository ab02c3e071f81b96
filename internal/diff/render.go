package diff

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/types"
)

const (
	addedPrefix      = "+ "
	removedPrefix    = "- "
	noChangesMessage = "No structural changes."
	summaryFormat    = "%d added, %d removed"
	addedColor       = "2"
	removedColor     = "1"
)

// RenderDiff prints added paths, then removed paths, then a count line. Colors
// follow the writer's terminal profile, so pipes and files receive plain text.
func RenderDiff(writer io.Writer, result types.DiffResult) error {
	renderer := lipgloss.NewRenderer(writer)
	addedStyle := renderer.NewStyle().Foreground(lipgloss.Color(addedColor))
	removedStyle := renderer.NewStyle().Foreground(lipgloss.Color(removedColor))
	summaryStyle := renderer.NewStyle().Bold(true)

	for _, path := range result.Added {
		if _, err := fmt.Fprintln(writer, addedStyle.Render(addedPrefix+output.EscapeName(path))); err != nil {
			return err
		}
	}
	for _, path := range result.Removed {
		if _, err := fmt.Fprintln(writer, removedStyle.Render(removedPrefix+output.EscapeName(path))); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf(summaryFormat, result.AddedCount(), result.RemovedCount())
	if result.IsEmpty() {
		summary = noChangesMessage
	}
	_, err := fmt.Fprintln(writer, summaryStyle.Render(summary))
	return err
}
