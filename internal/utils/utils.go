// Package utils contains general helper functions used across the treesnap tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Project-wide file and directory names.
const (
	// OutputDirectoryName is the hidden directory, under the scan root, that receives reports.
	OutputDirectoryName = ".treesnap"
	// ReportFileSuffix terminates every generated report name.
	ReportFileSuffix = ".snapshot.txt"
	// ManifestFileSuffix terminates every generated manifest name.
	ManifestFileSuffix = ".snapshot.manifest.yaml"
	// LocalConfigFileName is the per-project configuration file read from the scan root.
	LocalConfigFileName = ".treesnap.yaml"
	// ConfigFileName is the configuration file name inside the global configuration directory.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".treesnap"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// NormalizeRelativePath converts a relative path to forward-slash form without
// leading "./" or trailing separators.
func NormalizeRelativePath(relativePath string) string {
	normalized := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.TrimSuffix(normalized, pathSegmentSeparator)
	if normalized == "" {
		return "."
	}
	return normalized
}

// SplitPathSegments splits a normalized relative path into its components.
func SplitPathSegments(relativePath string) []string {
	normalized := NormalizeRelativePath(relativePath)
	if normalized == "." {
		return nil
	}
	return strings.Split(normalized, pathSegmentSeparator)
}

// IsWithinRoot reports whether candidate is root itself or lies beneath it.
func IsWithinRoot(candidate, root string) bool {
	relativePath, err := filepath.Rel(filepath.Clean(root), filepath.Clean(candidate))
	if err != nil {
		return false
	}
	return relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)))
}
