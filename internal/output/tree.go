package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/temirov/treesnap/internal/types"
)

// Structural markers shared with the diff parser.
const (
	TreeSectionHeader    = "File Structure:"
	TreeBranchConnector  = "├── "
	TreeLastConnector    = "└── "
	TreeBranchPadding    = "│   "
	TreeLastPadding      = "    "
	AnnotationSeparator  = " // "
	DirectoryMarker      = "/"
	TreeIndentWidthRunes = 4

	maxListedNames       = 5
	maxNameLengthRunes   = 20
	truncationMarker     = "..."
	moreNamesMarker      = ", ..."
	namesSeparator       = ", "
	tokenAnnotation      = "~%d tokens"
	functionsAnnotation  = "functions: %s"
	classesAnnotation    = "classes: %s"
	oversizedAnnotation  = "skipped: exceeds max size"
	unreadableAnnotation = "unreadable"
	binaryAnnotation     = "binary"
	symlinkAnnotation    = "symlink -> %s"
	depthAnnotation      = "not descended: depth limit"
)

// WriteTree renders the ASCII tree of root, annotating files from summaries
// according to options. Simple mode suppresses token counts and names.
func WriteTree(writer io.Writer, root *types.TreeNode, summaries map[string]types.CodeSummary, options types.ReportOptions) {
	if root == nil {
		return
	}
	fmt.Fprintf(writer, "%s%s\n", EscapeName(root.Name), DirectoryMarker)
	renderChildren(writer, root, "", summaries, options)
}

func renderChildren(writer io.Writer, node *types.TreeNode, prefix string, summaries map[string]types.CodeSummary, options types.ReportOptions) {
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, index == len(node.Children)-1)
		line := linePrefix + EscapeName(child.Name)
		if child.IsDirectory() {
			line += DirectoryMarker
		}
		annotations := nodeAnnotations(child, summaries, options)
		if len(annotations) > 0 {
			line += AnnotationSeparator + strings.Join(annotations, AnnotationSeparator)
		}
		fmt.Fprintln(writer, line)
		if child.IsDirectory() {
			renderChildren(writer, child, childPrefix, summaries, options)
		}
	}
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + TreeLastConnector, prefix + TreeLastPadding
	}
	return prefix + TreeBranchConnector, prefix + TreeBranchPadding
}

func nodeAnnotations(node *types.TreeNode, summaries map[string]types.CodeSummary, options types.ReportOptions) []string {
	var annotations []string
	if !node.IsDirectory() && !options.Simple {
		if summary, found := summaries[node.Path]; found {
			if options.TokenCount {
				annotations = append(annotations, fmt.Sprintf(tokenAnnotation, summary.Tokens))
			}
			if options.CodeAnalysis {
				if len(summary.Functions) > 0 {
					annotations = append(annotations, fmt.Sprintf(functionsAnnotation, formatNames(summary.Functions)))
				}
				if len(summary.Classes) > 0 {
					annotations = append(annotations, fmt.Sprintf(classesAnnotation, formatNames(summary.Classes)))
				}
			}
		}
	}
	if node.SkippedTooLarge {
		annotations = append(annotations, oversizedAnnotation)
	}
	if node.Unreadable {
		annotations = append(annotations, unreadableAnnotation)
	}
	if node.Binary {
		annotations = append(annotations, binaryAnnotation)
	}
	if node.SymlinkTarget != "" {
		annotations = append(annotations, fmt.Sprintf(symlinkAnnotation, EscapeName(node.SymlinkTarget)))
	}
	if node.DepthLimited {
		annotations = append(annotations, depthAnnotation)
	}
	return annotations
}

// formatNames lists at most five names, each truncated to twenty characters.
func formatNames(names []string) string {
	limit := len(names)
	if limit > maxListedNames {
		limit = maxListedNames
	}
	formatted := make([]string, 0, limit)
	for _, name := range names[:limit] {
		if utf8.RuneCountInString(name) > maxNameLengthRunes {
			name = string([]rune(name)[:maxNameLengthRunes]) + truncationMarker
		}
		formatted = append(formatted, name)
	}
	joined := strings.Join(formatted, namesSeparator)
	if len(names) > maxListedNames {
		joined += moreNamesMarker
	}
	return joined
}
