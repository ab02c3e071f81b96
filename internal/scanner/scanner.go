// Package scanner walks a directory tree into a filtered, bounded types.TreeNode.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

// Matcher decides whether a relative path is excluded from the walk.
type Matcher interface {
	IsIgnored(relativePath string, isDirectory bool) bool
}

// Options bound a single walk.
type Options struct {
	Matcher Matcher
	// MaxDepth limits descent. Negative means unbounded; 0 lists only the root's children.
	MaxDepth int
	// MaxSizeBytes flags larger files as skipped. Non-positive means unbounded.
	MaxSizeBytes  int64
	ListOversized bool
	// Logger receives access warnings. Nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns an unbounded walk that lists oversized files.
func DefaultOptions() Options {
	return Options{MaxDepth: -1, ListOversized: true}
}

// ErrRootNotDirectory is returned when the scan root is not a directory.
var ErrRootNotDirectory = errors.New("scan root is not a directory")

const (
	directoryReadFailedMessage = "unable to read directory"
	statFailedMessage          = "unable to stat file"
	resolveFailedMessage       = "unable to resolve directory"
	specialFileSkippedMessage  = "skipping special file"
)

type walker struct {
	options    Options
	rootPath   string
	visited    map[string]struct{}
	statistics types.Statistics
	// deferred holds symlinked directories; they are walked after every real
	// directory so a real path always claims its target first.
	deferred []pendingDirectory
}

type pendingDirectory struct {
	node *types.TreeNode
	item candidate
}

type candidate struct {
	name          string
	absolutePath  string
	relativePath  string
	isDirectory   bool
	symlinkTarget string
	info          fs.FileInfo
	infoErr       error
}

// Scan walks root and returns the tree of listed entries together with walk statistics.
// Access errors below the root are warned and counted; an unreadable root is fatal.
func Scan(root string, options Options) (*types.TreeNode, types.Statistics, error) {
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	absoluteRoot, absErr := filepath.Abs(root)
	if absErr != nil {
		return nil, types.Statistics{}, fmt.Errorf("resolving root %s: %w", root, absErr)
	}
	rootInfo, statErr := os.Stat(absoluteRoot)
	if statErr != nil {
		return nil, types.Statistics{}, fmt.Errorf("reading root %s: %w", absoluteRoot, statErr)
	}
	if !rootInfo.IsDir() {
		return nil, types.Statistics{}, fmt.Errorf("%s: %w", absoluteRoot, ErrRootNotDirectory)
	}

	rootEntries, readErr := os.ReadDir(absoluteRoot)
	if readErr != nil {
		return nil, types.Statistics{}, fmt.Errorf("reading root %s: %w", absoluteRoot, readErr)
	}

	scan := &walker{options: options, rootPath: absoluteRoot, visited: make(map[string]struct{})}
	if resolvedRoot, err := filepath.EvalSymlinks(absoluteRoot); err == nil {
		scan.visited[resolvedRoot] = struct{}{}
	}

	rootNode := &types.TreeNode{
		Path:  types.RootNodePath,
		Name:  filepath.Base(absoluteRoot),
		Kind:  types.NodeTypeDirectory,
		Depth: types.RootNodeDepth,
	}
	scan.populate(rootNode, absoluteRoot, rootEntries)
	for len(scan.deferred) > 0 {
		pending := scan.deferred[0]
		scan.deferred = scan.deferred[1:]
		scan.descend(pending.node, pending.item)
	}
	return rootNode, scan.statistics, nil
}

func (scan *walker) walkDirectory(node *types.TreeNode, absolutePath string) {
	entries, readErr := os.ReadDir(absolutePath)
	if readErr != nil {
		scan.options.Logger.Warn(directoryReadFailedMessage, zap.String("path", absolutePath), zap.Error(readErr))
		node.Unreadable = true
		scan.statistics.Unreadable++
		return
	}
	scan.populate(node, absolutePath, entries)
}

func (scan *walker) populate(node *types.TreeNode, absolutePath string, entries []os.DirEntry) {
	childDepth := node.Depth + 1
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(absolutePath, entry.Name())
		relativePath := entry.Name()
		if node.Path != types.RootNodePath {
			relativePath = node.Path + "/" + entry.Name()
		}
		item, ok := scan.classify(entry, childPath, relativePath)
		if !ok {
			continue
		}
		candidates = append(candidates, item)
	}
	sort.SliceStable(candidates, func(left, right int) bool {
		if candidates[left].isDirectory != candidates[right].isDirectory {
			return candidates[left].isDirectory
		}
		return candidates[left].name < candidates[right].name
	})

	for _, item := range candidates {
		if scan.options.Matcher != nil && scan.options.Matcher.IsIgnored(item.relativePath, item.isDirectory) {
			scan.statistics.FilesIgnored++
			continue
		}
		child := &types.TreeNode{
			Path:          item.relativePath,
			Name:          item.name,
			Depth:         childDepth,
			SymlinkTarget: item.symlinkTarget,
		}
		if item.isDirectory {
			child.Kind = types.NodeTypeDirectory
			scan.statistics.DirectoriesListed++
			if item.symlinkTarget != "" {
				scan.deferred = append(scan.deferred, pendingDirectory{node: child, item: item})
			} else {
				scan.descend(child, item)
			}
			node.Children = append(node.Children, child)
			continue
		}

		child.Kind = types.NodeTypeFile
		scan.statistics.FilesFound++
		if item.infoErr != nil {
			scan.options.Logger.Warn(statFailedMessage, zap.String("path", item.absolutePath), zap.Error(item.infoErr))
			child.Unreadable = true
			scan.statistics.Unreadable++
			node.Children = append(node.Children, child)
			continue
		}
		child.SizeBytes = item.info.Size()
		if scan.options.MaxSizeBytes > 0 && child.SizeBytes > scan.options.MaxSizeBytes {
			child.SkippedTooLarge = true
			scan.statistics.FilesTooLarge++
			if !scan.options.ListOversized {
				continue
			}
		}
		node.Children = append(node.Children, child)
	}
}

// classify resolves an entry's kind, following symlinks once to learn the target's kind.
func (scan *walker) classify(entry os.DirEntry, absolutePath, relativePath string) (candidate, bool) {
	item := candidate{name: entry.Name(), absolutePath: absolutePath, relativePath: relativePath}
	if entry.Type()&fs.ModeSymlink != 0 {
		target, linkErr := os.Readlink(absolutePath)
		if linkErr != nil {
			target = "?"
		}
		item.symlinkTarget = target
		item.info, item.infoErr = os.Stat(absolutePath)
		item.isDirectory = item.infoErr == nil && item.info.IsDir()
		return item, true
	}
	if entry.IsDir() {
		item.isDirectory = true
		return item, true
	}
	if !entry.Type().IsRegular() {
		scan.options.Logger.Warn(specialFileSkippedMessage, zap.String("path", absolutePath), zap.Stringer("mode", entry.Type()))
		scan.statistics.SpecialFiles++
		return item, false
	}
	item.info, item.infoErr = entry.Info()
	return item, true
}

// descend walks into a listed directory unless the depth limit, a cycle or an
// ignored symlink target prevents it.
func (scan *walker) descend(node *types.TreeNode, item candidate) {
	if scan.options.MaxDepth >= 0 && node.Depth >= scan.options.MaxDepth {
		node.DepthLimited = true
		scan.statistics.DepthLimitedDirs++
		return
	}
	resolvedPath, resolveErr := filepath.EvalSymlinks(item.absolutePath)
	if resolveErr != nil {
		scan.options.Logger.Warn(resolveFailedMessage, zap.String("path", item.absolutePath), zap.Error(resolveErr))
		node.Unreadable = true
		scan.statistics.Unreadable++
		return
	}
	if item.symlinkTarget != "" && scan.symlinkTargetIgnored(resolvedPath) {
		return
	}
	if _, seen := scan.visited[resolvedPath]; seen {
		return
	}
	scan.visited[resolvedPath] = struct{}{}
	scan.walkDirectory(node, item.absolutePath)
}

func (scan *walker) symlinkTargetIgnored(resolvedPath string) bool {
	if scan.options.Matcher == nil {
		return false
	}
	resolvedRoot, err := filepath.EvalSymlinks(scan.rootPath)
	if err != nil || !utils.IsWithinRoot(resolvedPath, resolvedRoot) {
		return false
	}
	relativePath := utils.RelativePathOrSelf(resolvedPath, resolvedRoot)
	if relativePath == types.RootNodePath {
		return false
	}
	return scan.options.Matcher.IsIgnored(relativePath, true)
}
