package cli

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treesnap/internal/analyzer"
	"github.com/temirov/treesnap/internal/config"
	"github.com/temirov/treesnap/internal/ignore"
	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/snapshot"
	"github.com/temirov/treesnap/internal/tokenizer"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	includeContentFlagName = "include-file-content"
	simpleFlagName         = "simple"
	maxDepthFlagName       = "max-depth"
	maxSizeFlagName        = "max-size"
	addIgnoreFlagName      = "add-ignore"
	ignoreFileFlagName     = "ignore-file"
	clearIgnoreFlagName    = "clear-ignore"
	showIgnoreFlagName     = "show-ignore"
	noCodeAnalysisFlagName = "no-code-analysis"
	noTokenCountFlagName   = "no-token-count"
	noStatsFlagName        = "no-stats"
	outputFileFlagName     = "output-file"
	outputFileShorthand    = "o"
	diffFlagName           = "diff"
	tokenizerFlagName      = "tokenizer"
	manifestFlagName       = "manifest"
	clipboardFlagName      = "clipboard"
	configFlagName         = "config"

	includeContentFlagDescription = "append the contents of every collected file to the report"
	simpleFlagDescription         = "list the tree only, without code analysis or token annotations"
	maxDepthFlagDescription       = "deepest level to descend below the root; 0 lists only the root's children (unbounded when omitted)"
	maxSizeFlagDescription        = "largest file size in megabytes that is read"
	addIgnoreFlagDescription      = "additional ignore pattern; repeatable and comma-separated"
	ignoreFileFlagDescription     = "file with one ignore pattern per line"
	clearIgnoreFlagDescription    = "drop the builtin ignore patterns"
	showIgnoreFlagDescription     = "print the active ignore patterns and exit"
	noCodeAnalysisFlagDescription = "skip function and class detection"
	noTokenCountFlagDescription   = "skip token estimates"
	noStatsFlagDescription        = "omit the statistics section"
	outputFileFlagDescription     = "report file name inside the .treesnap directory"
	diffFlagDescription           = "compare two snapshot reports given as OLD NEW instead of scanning"
	tokenizerFlagDescription      = "token counting model: estimate or a tiktoken model or encoding name"
	manifestFlagDescription       = "write a YAML manifest next to the report"
	clipboardFlagDescription      = "copy the rendered report to the clipboard"
	configFlagDescription         = "configuration file used instead of <path>/.treesnap.yaml"

	defaultMaxDepth  = -1
	defaultMaxSizeMB = 1.0

	diffWithShowIgnoreMessage = "--diff cannot be combined with --show-ignore"
	diffArgumentCountMessage  = "--diff requires exactly two report files, got %d"
	tooManyPathsMessage       = "expected at most one path, got %d"
	negativeDepthMessage      = "max depth must not be negative, got %d"
	nonPositiveSizeMessage    = "max size must be a positive number of megabytes, got %v"
	invalidIgnoreMessage      = "%v"
	invalidOutputNameMessage  = "%v"
	ignoreRuleLineFormat      = "%s\t(%s)\n"
	noIgnoreRulesMessage      = "No ignore patterns are active."
	snapshotWrittenMessage    = "snapshot written"
	clipboardFailedMessage    = "unable to copy report to clipboard"
	tokenizerFallbackMessage  = "tokenizer unavailable, using estimate"
)

type snapshotFlags struct {
	includeContent bool
	simple         bool
	maxDepth       int
	maxSizeMB      float64
	addIgnore      []string
	ignoreFile     string
	clearIgnore    bool
	showIgnore     bool
	noCodeAnalysis bool
	noTokenCount   bool
	noStats        bool
	outputFile     string
	diff           bool
	tokenizerModel string
	manifest       bool
	clipboard      bool
	configPath     string
}

// snapshotSettings is the effective configuration after defaults, files and flags.
type snapshotSettings struct {
	maxDepth        int
	maxSizeMB       float64
	includeContent  bool
	simple          bool
	codeAnalysis    bool
	tokenCount      bool
	stats           bool
	manifest        bool
	copyToClipboard bool
	tokenizerModel  string
	clearIgnore     bool
	ignorePatterns  []string
	ignoreFile      string
}

func addSnapshotFlags(command *cobra.Command, flags *snapshotFlags) {
	flagSet := command.Flags()
	registerBooleanFlag(flagSet, &flags.includeContent, includeContentFlagName, false, includeContentFlagDescription)
	registerBooleanFlag(flagSet, &flags.simple, simpleFlagName, false, simpleFlagDescription)
	flagSet.IntVar(&flags.maxDepth, maxDepthFlagName, defaultMaxDepth, maxDepthFlagDescription)
	flagSet.Float64Var(&flags.maxSizeMB, maxSizeFlagName, defaultMaxSizeMB, maxSizeFlagDescription)
	flagSet.StringSliceVar(&flags.addIgnore, addIgnoreFlagName, nil, addIgnoreFlagDescription)
	flagSet.StringVar(&flags.ignoreFile, ignoreFileFlagName, "", ignoreFileFlagDescription)
	registerBooleanFlag(flagSet, &flags.clearIgnore, clearIgnoreFlagName, false, clearIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.showIgnore, showIgnoreFlagName, false, showIgnoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.noCodeAnalysis, noCodeAnalysisFlagName, false, noCodeAnalysisFlagDescription)
	registerBooleanFlag(flagSet, &flags.noTokenCount, noTokenCountFlagName, false, noTokenCountFlagDescription)
	registerBooleanFlag(flagSet, &flags.noStats, noStatsFlagName, false, noStatsFlagDescription)
	flagSet.StringVarP(&flags.outputFile, outputFileFlagName, outputFileShorthand, "", outputFileFlagDescription)
	registerBooleanFlag(flagSet, &flags.diff, diffFlagName, false, diffFlagDescription)
	flagSet.StringVar(&flags.tokenizerModel, tokenizerFlagName, tokenizer.EstimateModel, tokenizerFlagDescription)
	registerBooleanFlag(flagSet, &flags.manifest, manifestFlagName, true, manifestFlagDescription)
	registerBooleanFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
}

func defaultSnapshotSettings() snapshotSettings {
	return snapshotSettings{
		maxDepth:       defaultMaxDepth,
		maxSizeMB:      defaultMaxSizeMB,
		codeAnalysis:   true,
		tokenCount:     true,
		stats:          true,
		manifest:       true,
		tokenizerModel: tokenizer.EstimateModel,
	}
}

// resolveSnapshotSettings layers configuration files over the defaults and
// explicitly set flags over both, then validates the result.
func resolveSnapshotSettings(command *cobra.Command, flags *snapshotFlags, fileConfiguration config.ApplicationConfiguration) (snapshotSettings, error) {
	settings := defaultSnapshotSettings()

	if fileConfiguration.MaxDepth != nil {
		if *fileConfiguration.MaxDepth < 0 {
			return snapshotSettings{}, invalidOption(negativeDepthMessage, *fileConfiguration.MaxDepth)
		}
		settings.maxDepth = *fileConfiguration.MaxDepth
	}
	if fileConfiguration.MaxSizeMB != nil {
		settings.maxSizeMB = *fileConfiguration.MaxSizeMB
	}
	settings.includeContent = config.BoolOr(fileConfiguration.IncludeContent, settings.includeContent)
	settings.simple = config.BoolOr(fileConfiguration.Simple, settings.simple)
	settings.codeAnalysis = config.BoolOr(fileConfiguration.CodeAnalysis, settings.codeAnalysis)
	settings.tokenCount = config.BoolOr(fileConfiguration.TokenCount, settings.tokenCount)
	settings.stats = config.BoolOr(fileConfiguration.Stats, settings.stats)
	settings.manifest = config.BoolOr(fileConfiguration.Manifest, settings.manifest)
	settings.copyToClipboard = config.BoolOr(fileConfiguration.Clipboard, settings.copyToClipboard)
	settings.clearIgnore = config.BoolOr(fileConfiguration.Ignore.ClearDefaults, settings.clearIgnore)
	if fileConfiguration.Tokenizer != "" {
		settings.tokenizerModel = fileConfiguration.Tokenizer
	}
	settings.ignorePatterns = append(settings.ignorePatterns, fileConfiguration.Ignore.Add...)
	settings.ignoreFile = fileConfiguration.Ignore.File

	changed := command.Flags().Changed
	if changed(maxDepthFlagName) {
		if flags.maxDepth < 0 {
			return snapshotSettings{}, invalidOption(negativeDepthMessage, flags.maxDepth)
		}
		settings.maxDepth = flags.maxDepth
	}
	if changed(maxSizeFlagName) {
		settings.maxSizeMB = flags.maxSizeMB
	}
	if changed(includeContentFlagName) {
		settings.includeContent = flags.includeContent
	}
	if changed(simpleFlagName) {
		settings.simple = flags.simple
	}
	if changed(noCodeAnalysisFlagName) {
		settings.codeAnalysis = !flags.noCodeAnalysis
	}
	if changed(noTokenCountFlagName) {
		settings.tokenCount = !flags.noTokenCount
	}
	if changed(noStatsFlagName) {
		settings.stats = !flags.noStats
	}
	if changed(manifestFlagName) {
		settings.manifest = flags.manifest
	}
	if changed(clipboardFlagName) {
		settings.copyToClipboard = flags.clipboard
	}
	if changed(clearIgnoreFlagName) {
		settings.clearIgnore = flags.clearIgnore
	}
	if changed(tokenizerFlagName) {
		settings.tokenizerModel = flags.tokenizerModel
	}
	if changed(ignoreFileFlagName) {
		absoluteIgnoreFile, err := filepath.Abs(flags.ignoreFile)
		if err != nil {
			return snapshotSettings{}, fmt.Errorf("resolving ignore file %s: %w", flags.ignoreFile, err)
		}
		settings.ignoreFile = absoluteIgnoreFile
	}
	settings.ignorePatterns = utils.DeduplicatePatterns(append(settings.ignorePatterns, flags.addIgnore...))

	if settings.maxSizeMB <= 0 || math.IsNaN(settings.maxSizeMB) || math.IsInf(settings.maxSizeMB, 0) {
		return snapshotSettings{}, invalidOption(nonPositiveSizeMessage, settings.maxSizeMB)
	}
	return settings, nil
}

// buildMatcher assembles builtin, ignore file and ad-hoc patterns in that order.
func buildMatcher(settings snapshotSettings) (*ignore.Matcher, error) {
	matcher, err := ignore.NewMatcher(ignore.DefaultPatterns())
	if err != nil {
		return nil, err
	}
	if settings.clearIgnore {
		matcher.ClearDefaults()
	}
	if settings.ignoreFile != "" {
		filePatterns, loadErr := config.LoadIgnoreFile(settings.ignoreFile)
		if loadErr != nil {
			return nil, invalidOption(invalidIgnoreMessage, loadErr)
		}
		if addErr := matcher.Add(filePatterns...); addErr != nil {
			return nil, invalidOption(invalidIgnoreMessage, addErr)
		}
	}
	if addErr := matcher.Add(settings.ignorePatterns...); addErr != nil {
		return nil, invalidOption(invalidIgnoreMessage, addErr)
	}
	return matcher, nil
}

func (settings snapshotSettings) snapshotOptions(root, outputName string) snapshot.Options {
	return snapshot.Options{
		Root:           root,
		MaxDepth:       settings.maxDepth,
		MaxSizeBytes:   utils.MegabytesToBytes(settings.maxSizeMB),
		IncludeContent: settings.includeContent,
		Simple:         settings.simple,
		CodeAnalysis:   settings.codeAnalysis,
		TokenCount:     settings.tokenCount,
		Stats:          settings.stats,
		IgnoreCleared:  settings.clearIgnore,
		OutputName:     outputName,
		Manifest:       settings.manifest,
	}
}

// runSnapshot validates every option before the walk so a bad invocation writes nothing.
func runSnapshot(command *cobra.Command, root string, flags *snapshotFlags, deps dependencies) error {
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root %s: %w", root, err)
	}
	explicitConfigPath := flags.configPath
	if explicitConfigPath != "" {
		if explicitConfigPath, err = filepath.Abs(explicitConfigPath); err != nil {
			return fmt.Errorf("resolving configuration path %s: %w", flags.configPath, err)
		}
	}
	fileConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: absoluteRoot,
		ExplicitFilePath: explicitConfigPath,
	})
	if err != nil {
		return err
	}
	settings, err := resolveSnapshotSettings(command, flags, fileConfiguration)
	if err != nil {
		return err
	}
	matcher, err := buildMatcher(settings)
	if err != nil {
		return err
	}
	if flags.showIgnore {
		return printIgnoreRules(deps, matcher)
	}
	if flags.outputFile != "" {
		if _, resolveErr := snapshot.ResolveOutputPath(absoluteRoot, flags.outputFile); resolveErr != nil {
			return invalidOption(invalidOutputNameMessage, resolveErr)
		}
	}

	var counter tokenizer.Counter
	if settings.tokenCount && !settings.simple {
		counter, err = tokenizer.NewCounter(settings.tokenizerModel)
		if err != nil {
			deps.logger.Warn(tokenizerFallbackMessage, zap.String("model", settings.tokenizerModel), zap.Error(err))
			counter, _ = tokenizer.NewCounter(tokenizer.EstimateModel)
		}
	}

	options := settings.snapshotOptions(absoluteRoot, flags.outputFile)
	report, err := snapshot.Build(options, matcher, analyzer.New(analyzer.DefaultRegistry()), counter, deps.logger)
	if err != nil {
		return err
	}
	result, err := snapshot.Write(report, options)
	if err != nil {
		return err
	}
	deps.logger.Info(snapshotWrittenMessage,
		zap.String("report", result.ReportPath),
		zap.String("manifest", result.ManifestPath),
	)
	fmt.Fprintln(deps.stdout, result.ReportPath)
	if settings.stats {
		output.WriteStatistics(deps.stdout, report.Statistics, counter != nil)
	}
	if settings.copyToClipboard && deps.clipboard != nil {
		if copyErr := deps.clipboard.Copy(string(result.Bytes)); copyErr != nil {
			deps.logger.Warn(clipboardFailedMessage, zap.Error(copyErr))
		}
	}
	return nil
}

func printIgnoreRules(deps dependencies, matcher *ignore.Matcher) error {
	rules := matcher.Rules()
	if len(rules) == 0 {
		_, err := fmt.Fprintln(deps.stdout, noIgnoreRulesMessage)
		return err
	}
	for _, rule := range rules {
		if _, err := fmt.Fprintf(deps.stdout, ignoreRuleLineFormat, rule.Pattern, rule.Origin); err != nil {
			return err
		}
	}
	return nil
}
