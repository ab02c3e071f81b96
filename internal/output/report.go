// Package output renders snapshot reports and manifests.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	reportTitle             = "Snapshot Report"
	rootLabel               = "Root: "
	generatedLabel          = "Generated: "
	optionsLabel            = "Options: "
	contentsSectionHeader   = "File Contents:"
	statisticsSectionHeader = "Collection Statistics:"
	headerRuleWidth         = 50
	contentRuleWidth        = 80
	unboundedValue          = "unbounded"
)

// RenderReport writes the complete report: metadata, tree, optional content and
// optional statistics. The tree section always ends with a blank line.
func RenderReport(writer io.Writer, report *types.Report) error {
	if report == nil {
		return errors.New("nil report")
	}
	buffered := bufio.NewWriter(writer)

	fmt.Fprintln(buffered, reportTitle)
	fmt.Fprintln(buffered, rootLabel+report.RootPath)
	fmt.Fprintln(buffered, generatedLabel+utils.FormatTimestamp(report.GeneratedAt))
	fmt.Fprintln(buffered, optionsLabel+FormatOptions(report.Options))
	fmt.Fprintln(buffered, strings.Repeat("=", headerRuleWidth))
	fmt.Fprintln(buffered)

	writeSectionHeader(buffered, TreeSectionHeader)
	WriteTree(buffered, report.Tree, report.Summaries, report.Options)
	fmt.Fprintln(buffered)

	if report.Options.IncludeContent {
		writeContents(buffered, report)
	}
	if report.Options.Stats {
		WriteStatistics(buffered, report.Statistics, report.Options.TokenCount && !report.Options.Simple)
	}
	return buffered.Flush()
}

func writeSectionHeader(writer io.Writer, header string) {
	fmt.Fprintln(writer, header)
	fmt.Fprintln(writer, strings.Repeat("=", len(header)-1))
	fmt.Fprintln(writer)
}

func writeContents(writer io.Writer, report *types.Report) {
	writeSectionHeader(writer, contentsSectionHeader)
	report.Tree.Walk(func(node *types.TreeNode) {
		if node.IsDirectory() {
			return
		}
		content, found := report.Contents[node.Path]
		if !found {
			return
		}
		label := "[" + node.Path + "]"
		fmt.Fprintln(writer, label)
		fmt.Fprintln(writer, strings.Repeat("=", len(label)))
		fmt.Fprintln(writer)
		fmt.Fprint(writer, content)
		if !strings.HasSuffix(content, "\n") {
			fmt.Fprintln(writer)
		}
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, strings.Repeat("-", contentRuleWidth))
		fmt.Fprintln(writer)
	})
}

// WriteStatistics renders the statistics block.
func WriteStatistics(writer io.Writer, statistics types.Statistics, includeTokens bool) {
	writeSectionHeader(writer, statisticsSectionHeader)
	fmt.Fprintf(writer, "Total files found: %d\n", statistics.FilesFound)
	fmt.Fprintf(writer, "Files collected: %d\n", statistics.FilesCollected)
	fmt.Fprintf(writer, "Entries ignored: %d\n", statistics.FilesIgnored)
	fmt.Fprintf(writer, "Files skipped (size limit): %d\n", statistics.FilesTooLarge)
	fmt.Fprintf(writer, "Directories not descended (depth limit): %d\n", statistics.DepthLimitedDirs)
	fmt.Fprintf(writer, "Binary or undecodable files: %d\n", statistics.BinaryFiles)
	fmt.Fprintf(writer, "Access errors: %d\n", statistics.Unreadable)
	fmt.Fprintf(writer, "Special files skipped: %d\n", statistics.SpecialFiles)
	fmt.Fprintf(writer, "Directories listed: %d\n", statistics.DirectoriesListed)
	fmt.Fprintf(writer, "Total size: %s\n", utils.FormatFileSize(statistics.TotalSizeBytes))
	if includeTokens {
		fmt.Fprintf(writer, "Total estimated tokens: %d\n", statistics.TotalTokens)
	}
}

// FormatOptions renders the option set as a single key=value line.
func FormatOptions(options types.ReportOptions) string {
	maxDepth := unboundedValue
	if options.MaxDepth >= 0 {
		maxDepth = fmt.Sprintf("%d", options.MaxDepth)
	}
	maxSize := unboundedValue
	if options.MaxSizeBytes > 0 {
		maxSize = utils.FormatFileSize(options.MaxSizeBytes)
	}
	tokenizerName := options.Tokenizer
	if tokenizerName == "" {
		tokenizerName = "estimate"
	}
	pairs := []string{
		"max_depth=" + maxDepth,
		"max_size=" + maxSize,
		fmt.Sprintf("include_content=%t", options.IncludeContent),
		fmt.Sprintf("simple=%t", options.Simple),
		fmt.Sprintf("code_analysis=%t", options.CodeAnalysis),
		fmt.Sprintf("token_count=%t", options.TokenCount),
		"tokenizer=" + tokenizerName,
		fmt.Sprintf("stats=%t", options.Stats),
		fmt.Sprintf("default_ignores=%t", !options.IgnoreCleared),
	}
	return strings.Join(pairs, ", ")
}
