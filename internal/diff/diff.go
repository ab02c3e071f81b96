// Package diff recovers the listed paths of two rendered snapshots and reports
// which were added or removed.
package diff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/types"
)

const (
	// InputOld names the earlier snapshot in parse errors.
	InputOld = "old"
	// InputNew names the later snapshot in parse errors.
	InputNew = "new"

	yamlExtension    = ".yaml"
	ymlExtension     = ".yml"
	headerRulePrefix = "="
)

// ParseError reports a snapshot that has no recognizable tree.
type ParseError struct {
	Input  string
	Reason string
}

func (parseError *ParseError) Error() string {
	if parseError.Input == "" {
		return "invalid snapshot: " + parseError.Reason
	}
	return fmt.Sprintf("invalid %s snapshot: %s", parseError.Input, parseError.Reason)
}

// Diff compares the tree sections of two rendered reports.
func Diff(oldText, newText string) (types.DiffResult, error) {
	oldPaths, oldErr := parseTreeInput(InputOld, oldText)
	if oldErr != nil {
		return types.DiffResult{}, oldErr
	}
	newPaths, newErr := parseTreeInput(InputNew, newText)
	if newErr != nil {
		return types.DiffResult{}, newErr
	}
	return ComparePaths(oldPaths, newPaths), nil
}

// DiffFiles reads two snapshot files, reports or manifests, and compares them.
func DiffFiles(oldPath, newPath string) (types.DiffResult, error) {
	oldPaths, oldErr := readInput(InputOld, oldPath)
	if oldErr != nil {
		return types.DiffResult{}, oldErr
	}
	newPaths, newErr := readInput(InputNew, newPath)
	if newErr != nil {
		return types.DiffResult{}, newErr
	}
	return ComparePaths(oldPaths, newPaths), nil
}

func readInput(input, path string) ([]string, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("reading %s snapshot %s: %w", input, path, readErr)
	}
	paths, parseErr := ParsePaths(path, data)
	return paths, labelInput(input, parseErr)
}

func parseTreeInput(input, text string) ([]string, error) {
	paths, err := ParseTree(text)
	return paths, labelInput(input, err)
}

func labelInput(input string, err error) error {
	var parseError *ParseError
	if errors.As(err, &parseError) {
		parseError.Input = input
	}
	return err
}

// ParsePaths dispatches on the file name: YAML manifests are decoded, anything
// else is parsed as a rendered report.
func ParsePaths(name string, data []byte) ([]string, error) {
	extension := strings.ToLower(filepath.Ext(name))
	if extension != yamlExtension && extension != ymlExtension {
		return ParseTree(string(data))
	}
	manifest, err := output.ParseManifest(data)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed manifest: %v", err)}
	}
	if manifest.Root == "" {
		return nil, &ParseError{Reason: "manifest has no root"}
	}
	paths := make([]string, 0, len(manifest.Entries))
	for _, entry := range manifest.Entries {
		if entry.Path == "" {
			return nil, &ParseError{Reason: "manifest entry without path"}
		}
		paths = append(paths, entry.Path)
	}
	return paths, nil
}

// ParseTree rebuilds every listed path from the tree section of a report.
// Directory paths keep their trailing "/".
func ParseTree(text string) ([]string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	headerIndex := -1
	for index, line := range lines {
		if strings.TrimSpace(line) == output.TreeSectionHeader {
			headerIndex = index
			break
		}
	}
	if headerIndex < 0 {
		return nil, &ParseError{Reason: "no " + output.TreeSectionHeader + " section"}
	}

	cursor := headerIndex + 1
	if cursor < len(lines) && strings.HasPrefix(lines[cursor], headerRulePrefix) {
		cursor++
	}
	for cursor < len(lines) && strings.TrimSpace(lines[cursor]) == "" {
		cursor++
	}
	if cursor >= len(lines) || !strings.HasSuffix(lines[cursor], output.DirectoryMarker) {
		return nil, &ParseError{Reason: "tree has no root line"}
	}
	cursor++

	var paths []string
	var ancestors []string
	for lineNumber := cursor; lineNumber < len(lines); lineNumber++ {
		line := lines[lineNumber]
		if strings.TrimSpace(line) == "" {
			break
		}
		depth, name, ok := parseTreeLine(line)
		if !ok || depth > len(ancestors) {
			return nil, &ParseError{Reason: fmt.Sprintf("malformed tree line %d: %q", lineNumber+1, line)}
		}
		ancestors = ancestors[:depth]
		isDirectory := strings.HasSuffix(name, output.DirectoryMarker)
		bareName, unescapeErr := output.UnescapeName(strings.TrimSuffix(name, output.DirectoryMarker))
		if unescapeErr != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("line %d: %v", lineNumber+1, unescapeErr)}
		}
		if bareName == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("empty entry name on line %d", lineNumber+1)}
		}
		relativePath := strings.Join(append(append([]string{}, ancestors...), bareName), "/")
		if isDirectory {
			ancestors = append(ancestors, bareName)
			relativePath += output.DirectoryMarker
		}
		paths = append(paths, relativePath)
	}
	return paths, nil
}

// parseTreeLine splits a tree line into its depth and its entry name, without annotations.
func parseTreeLine(line string) (int, string, bool) {
	remaining := line
	depth := 0
	for {
		if strings.HasPrefix(remaining, output.TreeBranchPadding) {
			remaining = strings.TrimPrefix(remaining, output.TreeBranchPadding)
		} else if strings.HasPrefix(remaining, output.TreeLastPadding) {
			remaining = strings.TrimPrefix(remaining, output.TreeLastPadding)
		} else {
			break
		}
		depth++
	}
	switch {
	case strings.HasPrefix(remaining, output.TreeBranchConnector):
		remaining = strings.TrimPrefix(remaining, output.TreeBranchConnector)
	case strings.HasPrefix(remaining, output.TreeLastConnector):
		remaining = strings.TrimPrefix(remaining, output.TreeLastConnector)
	default:
		return 0, "", false
	}
	if separatorIndex := strings.Index(remaining, output.AnnotationSeparator); separatorIndex >= 0 {
		remaining = remaining[:separatorIndex]
	}
	return depth, remaining, remaining != ""
}

// ComparePaths returns the sorted set differences of two path lists.
func ComparePaths(oldPaths, newPaths []string) types.DiffResult {
	oldSet := toSet(oldPaths)
	newSet := toSet(newPaths)
	result := types.DiffResult{Added: []string{}, Removed: []string{}}
	for path := range newSet {
		if _, found := oldSet[path]; !found {
			result.Added = append(result.Added, path)
		}
	}
	for path := range oldSet {
		if _, found := newSet[path]; !found {
			result.Removed = append(result.Removed, path)
		}
	}
	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	return result
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		set[path] = struct{}{}
	}
	return set
}
