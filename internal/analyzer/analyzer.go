// Package analyzer extracts function and class names from source text using
// per-language line heuristics.
package analyzer

import (
	"sort"
	"strings"

	"github.com/temirov/treesnap/internal/types"
)

// Kind selects the construct a profile extracts.
type Kind int

const (
	// KindFunction selects functions and methods.
	KindFunction Kind = iota
	// KindClass selects classes and class-like type declarations.
	KindClass
)

const privateNamePrefix = "_"

// LanguageProfile extracts construct names of one kind from source text.
type LanguageProfile interface {
	Extract(kind Kind, text string) []string
}

// Registry maps lower-cased file extensions to language profiles.
type Registry struct {
	extensionToProfile map[string]LanguageProfile
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{extensionToProfile: map[string]LanguageProfile{}}
}

// Register associates the profile with every extension listed.
func (registry *Registry) Register(profile LanguageProfile, extensions ...string) {
	for _, extension := range extensions {
		registry.extensionToProfile[normalizeExtension(extension)] = profile
	}
}

// Lookup returns the profile registered for extension.
func (registry *Registry) Lookup(extension string) (LanguageProfile, bool) {
	if registry == nil {
		return nil, false
	}
	profile, found := registry.extensionToProfile[normalizeExtension(extension)]
	return profile, found
}

// Extensions lists the registered extensions in sorted order.
func (registry *Registry) Extensions() []string {
	extensions := make([]string, 0, len(registry.extensionToProfile))
	for extension := range registry.extensionToProfile {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

func normalizeExtension(extension string) string {
	normalized := strings.ToLower(strings.TrimSpace(extension))
	if normalized != "" && !strings.HasPrefix(normalized, ".") {
		normalized = "." + normalized
	}
	return normalized
}

// Analyzer produces code summaries from a registry.
type Analyzer struct {
	registry *Registry
}

// New creates an Analyzer backed by registry.
func New(registry *Registry) *Analyzer {
	return &Analyzer{registry: registry}
}

// Analyze returns the functions and classes found in text. Unknown extensions
// yield an empty summary. Token counts are left to the caller.
func (analyzer *Analyzer) Analyze(extension, text string) types.CodeSummary {
	profile, found := analyzer.registry.Lookup(extension)
	if !found || text == "" {
		return types.CodeSummary{}
	}
	return types.CodeSummary{
		Functions: uniqueNames(profile.Extract(KindFunction, text), true),
		Classes:   uniqueNames(profile.Extract(KindClass, text), false),
	}
}

func uniqueNames(names []string, skipPrivate bool) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || (skipPrivate && strings.HasPrefix(name, privateNamePrefix)) {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
