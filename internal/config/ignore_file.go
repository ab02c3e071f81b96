// Package config loads treesnap configuration files and custom ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const commentPrefix = "#"

// LoadIgnoreFile reads one pattern per line from ignoreFilePath. Blank lines and
// lines starting with "#" are skipped. The file must exist.
//
// #nosec G304
func LoadIgnoreFile(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		return nil, fmt.Errorf("open ignore file %s: %w", ignoreFilePath, openFileError)
	}
	defer fileHandle.Close()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", ignoreFilePath, scanError)
	}
	return patterns, nil
}
