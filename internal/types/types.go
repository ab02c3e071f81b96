// Package types defines every cross‑package data structure used by the treesnap CLI.
package types

import "time"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	// RootNodePath is the relative path assigned to the scan root.
	RootNodePath = "."
	// RootNodeDepth is the depth of the scan root; its direct children are at depth 0.
	RootNodeDepth = -1
)

// TreeNode is one entry of a scanned directory tree.
type TreeNode struct {
	Path            string
	Name            string
	Kind            string
	Depth           int
	SizeBytes       int64
	Children        []*TreeNode
	SkippedTooLarge bool
	Unreadable      bool
	Binary          bool
	DepthLimited    bool
	SymlinkTarget   string
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Kind == NodeTypeDirectory
}

// Walk visits the node and its descendants depth-first in child order.
func (node *TreeNode) Walk(visit func(*TreeNode)) {
	if node == nil {
		return
	}
	visit(node)
	for _, child := range node.Children {
		child.Walk(visit)
	}
}

// CodeSummary holds the analysis results for a single file.
type CodeSummary struct {
	Functions []string
	Classes   []string
	Tokens    int
}

// Statistics aggregates counters collected during a snapshot run.
type Statistics struct {
	FilesFound        int
	FilesCollected    int
	FilesIgnored      int
	FilesTooLarge     int
	Unreadable        int
	SpecialFiles      int
	BinaryFiles       int
	DepthLimitedDirs  int
	TotalSizeBytes    int64
	TotalTokens       int
	DirectoriesListed int
}

// ReportOptions records the option set that produced a report.
type ReportOptions struct {
	MaxDepth       int
	MaxSizeBytes   int64
	IncludeContent bool
	Simple         bool
	CodeAnalysis   bool
	TokenCount     bool
	Stats          bool
	Tokenizer      string
	IgnoreCleared  bool
}

// Report is the in-memory form of one rendered snapshot.
type Report struct {
	RootPath    string
	GeneratedAt time.Time
	Options     ReportOptions
	Tree        *TreeNode
	Summaries   map[string]CodeSummary
	Contents    map[string]string
	Statistics  Statistics
}

// DiffResult holds the structural difference between two snapshots.
type DiffResult struct {
	Added   []string
	Removed []string
}

// AddedCount returns the number of added paths.
func (result DiffResult) AddedCount() int { return len(result.Added) }

// RemovedCount returns the number of removed paths.
func (result DiffResult) RemovedCount() int { return len(result.Removed) }

// IsEmpty reports whether neither side changed.
func (result DiffResult) IsEmpty() bool {
	return len(result.Added) == 0 && len(result.Removed) == 0
}
