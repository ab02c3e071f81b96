// Package snapshot turns a directory into a rendered report on disk.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/analyzer"
	"github.com/temirov/treesnap/internal/scanner"
	"github.com/temirov/treesnap/internal/tokenizer"
	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

const fileReadFailedMessage = "unable to read file"

// Options configure one snapshot run.
type Options struct {
	Root           string
	MaxDepth       int
	MaxSizeBytes   int64
	IncludeContent bool
	Simple         bool
	CodeAnalysis   bool
	TokenCount     bool
	Stats          bool
	IgnoreCleared  bool
	OutputName     string
	Manifest       bool
	Now            func() time.Time
}

// ReportOptions returns the option set recorded in the report header.
func (options Options) ReportOptions(tokenizerName string) types.ReportOptions {
	return types.ReportOptions{
		MaxDepth:       options.MaxDepth,
		MaxSizeBytes:   options.MaxSizeBytes,
		IncludeContent: options.IncludeContent,
		Simple:         options.Simple,
		CodeAnalysis:   options.CodeAnalysis,
		TokenCount:     options.TokenCount,
		Stats:          options.Stats,
		Tokenizer:      tokenizerName,
		IgnoreCleared:  options.IgnoreCleared,
	}
}

func (options Options) now() time.Time {
	if options.Now == nil {
		return time.Now()
	}
	return options.Now()
}

// Build walks the root and annotates every listed file. Files are read one at a
// time; unreadable and binary files are flagged and counted, never fatal.
func Build(options Options, matcher scanner.Matcher, codeAnalyzer *analyzer.Analyzer, counter tokenizer.Counter, logger *zap.Logger) (*types.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absoluteRoot, absErr := filepath.Abs(options.Root)
	if absErr != nil {
		return nil, fmt.Errorf("resolving root %s: %w", options.Root, absErr)
	}
	scanOptions := scanner.DefaultOptions()
	scanOptions.Matcher = matcher
	scanOptions.MaxDepth = options.MaxDepth
	scanOptions.MaxSizeBytes = options.MaxSizeBytes
	scanOptions.Logger = logger

	tree, statistics, scanErr := scanner.Scan(absoluteRoot, scanOptions)
	if scanErr != nil {
		return nil, scanErr
	}

	tokenizerName := tokenizer.EstimateModel
	if counter != nil {
		tokenizerName = counter.Name()
	}
	report := &types.Report{
		RootPath:    absoluteRoot,
		GeneratedAt: options.now(),
		Options:     options.ReportOptions(tokenizerName),
		Tree:        tree,
		Summaries:   map[string]types.CodeSummary{},
		Contents:    map[string]string{},
	}

	annotateSummaries := !options.Simple && (options.CodeAnalysis || (options.TokenCount && counter != nil))
	var annotateErr error
	tree.Walk(func(node *types.TreeNode) {
		if annotateErr != nil || node.IsDirectory() || node.SkippedTooLarge || node.Unreadable {
			return
		}
		data, readErr := os.ReadFile(filepath.Join(absoluteRoot, filepath.FromSlash(node.Path)))
		if readErr != nil {
			logger.Warn(fileReadFailedMessage, zap.String("path", node.Path), zap.Error(readErr))
			node.Unreadable = true
			statistics.Unreadable++
			return
		}
		if utils.IsBinary(data) {
			node.Binary = true
			statistics.BinaryFiles++
			return
		}
		statistics.FilesCollected++
		statistics.TotalSizeBytes += int64(len(data))
		text := string(data)

		if annotateSummaries {
			summary := types.CodeSummary{}
			if options.CodeAnalysis && codeAnalyzer != nil {
				summary = codeAnalyzer.Analyze(filepath.Ext(node.Name), text)
			}
			if options.TokenCount && counter != nil {
				countResult, countErr := tokenizer.CountBytes(counter, data)
				if countErr != nil {
					annotateErr = fmt.Errorf("counting tokens for %s: %w", node.Path, countErr)
					return
				}
				summary.Tokens = countResult.Tokens
				statistics.TotalTokens += countResult.Tokens
			}
			report.Summaries[node.Path] = summary
		}
		if options.IncludeContent {
			report.Contents[node.Path] = text
		}
	})
	if annotateErr != nil {
		return nil, annotateErr
	}
	report.Statistics = statistics
	logger.Info("scan complete",
		zap.String("root", absoluteRoot),
		zap.Int("files", statistics.FilesFound),
		zap.Int("ignored", statistics.FilesIgnored),
	)
	return report, nil
}

// DefaultReportName returns the timestamped report name for moment.
func DefaultReportName(moment time.Time) string {
	return utils.FormatFileTimestamp(moment) + utils.ReportFileSuffix
}

// ManifestName derives the sidecar manifest name from a report name.
func ManifestName(reportName string) string {
	base := strings.TrimSuffix(reportName, utils.ReportFileSuffix)
	if base == reportName {
		base = strings.TrimSuffix(reportName, filepath.Ext(reportName))
	}
	return base + utils.ManifestFileSuffix
}
