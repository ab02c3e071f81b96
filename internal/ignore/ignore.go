// Package ignore decides which paths of a scanned tree are excluded from a snapshot.
package ignore

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/treesnap/internal/utils"
)

// Origin records where an ignore rule came from.
type Origin string

const (
	// OriginBuiltin marks rules from the default table.
	OriginBuiltin Origin = "builtin"
	// OriginUser marks rules supplied through flags, configuration or an ignore file.
	OriginUser Origin = "user"
)

const directorySuffix = "/"

// Rule is a single ignore pattern.
type Rule struct {
	Pattern       string
	Origin        Origin
	DirectoryOnly bool
	glob          string
}

// outputPatterns cover treesnap's own reports. They survive ClearDefaults.
var outputPatterns = []string{
	utils.OutputDirectoryName + directorySuffix,
	"*" + utils.ReportFileSuffix,
	"*" + utils.ManifestFileSuffix,
}

var defaultPatterns = append([]string{
	// version control
	".git/", ".svn/", ".hg/", ".gitignore", ".gitattributes", ".dockerignore",
	// dependencies and build output
	"node_modules/", ".next/", "out/", "build/", "dist/", "coverage/",
	"__pycache__/", "venv/", ".venv/", "env/", "ENV/", ".tox/",
	".pytest_cache/", ".mypy_cache/", ".ruff_cache/", "htmlcov/",
	"*.egg-info/", ".eggs/", ".cache/", ".parcel-cache/", ".vercel/", ".turbo/",
	".Python",
	// lock files
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "poetry.lock", "Pipfile.lock",
	// logs and artifacts
	"*.log", "npm-debug.log*", "yarn-debug.log*", "yarn-error.log*", ".pnpm-debug.log*",
	"pip-log.txt", ".coverage", ".coverage.*",
	"*.py[cod]", "*$py.class", "*.tsbuildinfo", "*.egg",
	"*.min.js", "*.min.css", "*.map",
	// OS and editor files
	".DS_Store", "Thumbs.db", "desktop.ini", ".idea/", ".vscode/",
	"*.swp", "*.swo", "*~", "*.sublime-*",
	// environment files
	".env", ".env.*",
}, outputPatterns...)

// DefaultPatterns returns a copy of the builtin ignore table.
func DefaultPatterns() []string {
	patterns := make([]string, len(defaultPatterns))
	copy(patterns, defaultPatterns)
	return patterns
}

// Matcher holds the active rule set. It is not safe for mutation during a walk.
type Matcher struct {
	rules []Rule
	seen  map[string]struct{}
}

// NewMatcher builds a matcher whose initial rules carry the builtin origin.
func NewMatcher(defaults []string) (*Matcher, error) {
	matcher := &Matcher{seen: make(map[string]struct{})}
	if err := matcher.add(OriginBuiltin, defaults); err != nil {
		return nil, err
	}
	return matcher, nil
}

// Add appends user rules. Blank patterns are skipped and duplicates collapse.
func (matcher *Matcher) Add(patterns ...string) error {
	return matcher.add(OriginUser, patterns)
}

func (matcher *Matcher) add(origin Origin, patterns []string) error {
	for _, rawPattern := range patterns {
		pattern := strings.TrimSpace(rawPattern)
		if pattern == "" {
			continue
		}
		if _, exists := matcher.seen[pattern]; exists {
			continue
		}
		rule, err := newRule(pattern, origin)
		if err != nil {
			return err
		}
		matcher.seen[pattern] = struct{}{}
		matcher.rules = append(matcher.rules, rule)
	}
	return nil
}

func newRule(pattern string, origin Origin) (Rule, error) {
	normalized := strings.ReplaceAll(pattern, "\\", directorySuffix)
	directoryOnly := strings.HasSuffix(normalized, directorySuffix)
	glob := strings.TrimPrefix(strings.TrimSuffix(normalized, directorySuffix), "./")
	if glob == "" || !doublestar.ValidatePattern(glob) {
		return Rule{}, fmt.Errorf("invalid ignore pattern %q", pattern)
	}
	return Rule{Pattern: pattern, Origin: origin, DirectoryOnly: directoryOnly, glob: glob}, nil
}

// ClearDefaults removes every builtin rule except those covering treesnap's
// own output, keeping user rules.
func (matcher *Matcher) ClearDefaults() {
	kept := matcher.rules[:0]
	for _, rule := range matcher.rules {
		if rule.Origin == OriginBuiltin && !slices.Contains(outputPatterns, rule.Pattern) {
			delete(matcher.seen, rule.Pattern)
			continue
		}
		kept = append(kept, rule)
	}
	matcher.rules = kept
}

// Rules lists the active rules in insertion order.
func (matcher *Matcher) Rules() []Rule {
	rules := make([]Rule, len(matcher.rules))
	copy(rules, matcher.rules)
	return rules
}

// IsIgnored reports whether any active rule excludes the path.
// relativePath is slash-separated and relative to the scan root.
func (matcher *Matcher) IsIgnored(relativePath string, isDirectory bool) bool {
	segments := utils.SplitPathSegments(relativePath)
	if len(segments) == 0 {
		return false
	}
	fullPath := strings.Join(segments, directorySuffix)
	baseName := segments[len(segments)-1]
	for _, rule := range matcher.rules {
		if rule.matches(segments, fullPath, baseName, isDirectory) {
			return true
		}
	}
	return false
}

func (rule Rule) matches(segments []string, fullPath, baseName string, isDirectory bool) bool {
	if !rule.DirectoryOnly {
		return globMatch(rule.glob, fullPath) || globMatch(rule.glob, baseName)
	}
	directoryCount := len(segments) - 1
	if isDirectory {
		directoryCount = len(segments)
	}
	for index := 0; index < directoryCount; index++ {
		if globMatch(rule.glob, segments[index]) {
			return true
		}
		if globMatch(rule.glob, strings.Join(segments[:index+1], directorySuffix)) {
			return true
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}
