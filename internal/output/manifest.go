package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

// Manifest is the YAML sidecar listing every path of a snapshot.
type Manifest struct {
	Root      string          `yaml:"root"`
	Generated string          `yaml:"generated"`
	Entries   []ManifestEntry `yaml:"entries"`
}

// ManifestEntry describes one listed path. Directory paths end with "/".
type ManifestEntry struct {
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Size   int64  `yaml:"size,omitempty"`
	Tokens int    `yaml:"tokens,omitempty"`
}

// BuildManifest collects the manifest entries of report in tree order.
func BuildManifest(report *types.Report) Manifest {
	manifest := Manifest{Root: report.RootPath, Generated: utils.FormatTimestamp(report.GeneratedAt)}
	report.Tree.Walk(func(node *types.TreeNode) {
		if node.Path == types.RootNodePath {
			return
		}
		entry := ManifestEntry{Path: node.Path, Kind: node.Kind}
		if node.IsDirectory() {
			entry.Path += DirectoryMarker
		} else {
			entry.Size = node.SizeBytes
			if summary, found := report.Summaries[node.Path]; found && report.Options.TokenCount {
				entry.Tokens = summary.Tokens
			}
		}
		manifest.Entries = append(manifest.Entries, entry)
	})
	return manifest
}

// RenderManifest encodes the manifest of report as YAML.
func RenderManifest(report *types.Report) ([]byte, error) {
	if report == nil || report.Tree == nil {
		return nil, fmt.Errorf("render manifest: report has no tree")
	}
	data, err := yaml.Marshal(BuildManifest(report))
	if err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return data, nil
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}
