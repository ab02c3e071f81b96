package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/treesnap/internal/config"
	"github.com/temirov/treesnap/internal/diff"
	"github.com/temirov/treesnap/internal/utils"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

// isolateHome points the global configuration lookup at an empty directory.
func isolateHome(testingHandle *testing.T) {
	testingHandle.Helper()
	testingHandle.Setenv("HOME", testingHandle.TempDir())
}

func setupProject(testingHandle *testing.T, layout map[string]string) string {
	testingHandle.Helper()
	root := testingHandle.TempDir()
	for relativePath, content := range layout {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			testingHandle.Fatalf("mkdir %s: %v", relativePath, err)
		}
		if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
			testingHandle.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return root
}

func executeCommand(testingHandle *testing.T, copier *recordingCopier, arguments ...string) (string, error) {
	testingHandle.Helper()
	var standardOutput bytes.Buffer
	deps := dependencies{stdout: &standardOutput}
	if copier != nil {
		deps.clipboard = copier
	}
	command := createRootCommand(deps)
	command.SetErr(io.Discard)
	command.SetArgs(normalizeBooleanFlagArguments(command, arguments))
	err := command.Execute()
	return standardOutput.String(), err
}

func readFile(testingHandle *testing.T, path string) string {
	testingHandle.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		testingHandle.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestSnapshotCommandWritesReportAndManifest(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"main.go":         "package main\n\nfunc main() {}\n",
		"pkg/server.py":   "class Server:\n    def start(self):\n        pass\n",
		"node_modules/x":  "ignored",
		"debug.log":       "ignored",
		"docs/readme.txt": "hello",
	})

	standardOutput, err := executeCommand(testingHandle, nil, root, "--include-file-content")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	reportPath := strings.TrimSpace(strings.SplitN(standardOutput, "\n", 2)[0])
	if filepath.Dir(reportPath) != filepath.Join(root, utils.OutputDirectoryName) {
		testingHandle.Fatalf("report written outside the output directory: %s", reportPath)
	}
	if !strings.HasSuffix(reportPath, utils.ReportFileSuffix) {
		testingHandle.Fatalf("unexpected report name %s", reportPath)
	}
	if !strings.Contains(standardOutput, "Collection Statistics:") {
		testingHandle.Fatalf("expected statistics on stdout, got %q", standardOutput)
	}

	report := readFile(testingHandle, reportPath)
	for _, expected := range []string{
		"Snapshot Report",
		"File Structure:",
		"├── docs/",
		"functions: main",
		"classes: Server",
		"File Contents:",
		"Collection Statistics:",
	} {
		if !strings.Contains(report, expected) {
			testingHandle.Fatalf("report is missing %q:\n%s", expected, report)
		}
	}
	for _, unexpected := range []string{"node_modules", "debug.log"} {
		if strings.Contains(report, unexpected) {
			testingHandle.Fatalf("report lists ignored entry %q", unexpected)
		}
	}

	manifestPath := strings.TrimSuffix(reportPath, utils.ReportFileSuffix) + utils.ManifestFileSuffix
	manifest := readFile(testingHandle, manifestPath)
	if !strings.Contains(manifest, "path: pkg/server.py") {
		testingHandle.Fatalf("manifest is missing pkg/server.py:\n%s", manifest)
	}
}

func TestSnapshotCommandFlagsOverrideConfiguration(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"app.js": "function start() {}\n",
	})
	configuration := "include_content: true\nmanifest: false\nstats: false\n"
	if err := os.WriteFile(filepath.Join(root, utils.LocalConfigFileName), []byte(configuration), 0o644); err != nil {
		testingHandle.Fatalf("write configuration: %v", err)
	}

	standardOutput, err := executeCommand(testingHandle, nil, root, "--include-file-content", "no", "-o", "named.snapshot.txt")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	reportPath := filepath.Join(root, utils.OutputDirectoryName, "named.snapshot.txt")
	if strings.TrimSpace(standardOutput) != reportPath {
		testingHandle.Fatalf("expected only the report path on stdout, got %q", standardOutput)
	}
	report := readFile(testingHandle, reportPath)
	if strings.Contains(report, "File Contents:") {
		testingHandle.Fatalf("flag should disable contents enabled by configuration")
	}
	if strings.Contains(report, "Collection Statistics:") {
		testingHandle.Fatalf("configuration should disable statistics")
	}
	if _, statErr := os.Stat(filepath.Join(root, utils.OutputDirectoryName, "named"+utils.ManifestFileSuffix)); !os.IsNotExist(statErr) {
		testingHandle.Fatalf("configuration should disable the manifest, stat returned %v", statErr)
	}
}

func TestSnapshotCommandSimpleModeOmitsAnnotations(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"service.py": "def handle():\n    return 1\n",
	})

	_, err := executeCommand(testingHandle, nil, root, "--simple", "-o", "simple.snapshot.txt")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	report := readFile(testingHandle, filepath.Join(root, utils.OutputDirectoryName, "simple.snapshot.txt"))
	if strings.Contains(report, "functions:") || strings.Contains(report, " // ") {
		testingHandle.Fatalf("simple mode should not annotate files:\n%s", report)
	}
	if !strings.Contains(report, "└── service.py") {
		testingHandle.Fatalf("simple mode should still list files:\n%s", report)
	}
}

func TestSnapshotCommandRejectsInvalidOptions(testingHandle *testing.T) {
	isolateHome(testingHandle)
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "negative_depth", arguments: []string{"--max-depth", "-1"}},
		{name: "zero_size", arguments: []string{"--max-size", "0"}},
		{name: "negative_size", arguments: []string{"--max-size=-2"}},
		{name: "invalid_glob", arguments: []string{"--add-ignore", "src/[a-"}},
		{name: "escaping_output_name", arguments: []string{"-o", "../escape.txt"}},
		{name: "diff_with_one_file", arguments: []string{"--diff", "only.txt"}},
		{name: "diff_with_show_ignore", arguments: []string{"--diff", "--show-ignore", "a.txt", "b.txt"}},
		{name: "two_paths", arguments: []string{"first", "second"}},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			root := setupProject(subTest, map[string]string{"main.go": "package main\n"})
			arguments := testCase.arguments
			if testCase.name != "two_paths" && !strings.HasPrefix(testCase.name, "diff_") {
				arguments = append([]string{root}, arguments...)
			}
			_, err := executeCommand(subTest, nil, arguments...)
			if !errors.Is(err, config.ErrInvalidOption) {
				subTest.Fatalf("expected ErrInvalidOption, got %v", err)
			}
			if _, statErr := os.Stat(filepath.Join(root, utils.OutputDirectoryName)); !os.IsNotExist(statErr) {
				subTest.Fatalf("nothing should be written on invalid options")
			}
		})
	}
}

func TestSnapshotCommandRejectsUnreadableRoot(testingHandle *testing.T) {
	isolateHome(testingHandle)
	missingRoot := filepath.Join(testingHandle.TempDir(), "missing")
	if _, err := executeCommand(testingHandle, nil, missingRoot); err == nil {
		testingHandle.Fatalf("expected an error for a missing root")
	}
}

func TestShowIgnoreListsActiveRules(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"patterns.ignore": "# fixtures\nfixtures/\n\n",
	})

	standardOutput, err := executeCommand(testingHandle, nil, root,
		"--show-ignore",
		"--clear-ignore",
		"--ignore-file", filepath.Join(root, "patterns.ignore"),
		"--add-ignore", "*.tmp,docs/",
		"--add-ignore", "*.tmp",
	)
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	expected := ".treesnap/\t(builtin)\n*.snapshot.txt\t(builtin)\n*.snapshot.manifest.yaml\t(builtin)\n" +
		"fixtures/\t(user)\n*.tmp\t(user)\ndocs/\t(user)\n"
	if standardOutput != expected {
		testingHandle.Fatalf("expected %q, got %q", expected, standardOutput)
	}
	if _, statErr := os.Stat(filepath.Join(root, utils.OutputDirectoryName)); !os.IsNotExist(statErr) {
		testingHandle.Fatalf("--show-ignore must not write a report")
	}
}

func TestShowIgnoreIncludesBuiltinRules(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, nil)

	standardOutput, err := executeCommand(testingHandle, nil, root, "--show-ignore")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(standardOutput, ".git/\t(builtin)\n") {
		testingHandle.Fatalf("expected builtin rules first, got %q", standardOutput)
	}
}

func TestClearIgnoreStillSkipsEarlierReports(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"main.go": "package main\n",
		".treesnap/20240101-000000.snapshot.txt":           "OLD REPORT BODY\n",
		".treesnap/20240101-000000.snapshot.manifest.yaml": "root: old\n",
	})

	standardOutput, err := executeCommand(testingHandle, nil, root, "--clear-ignore", "--include-file-content", "--no-stats")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	report := readFile(testingHandle, strings.TrimSpace(standardOutput))
	if !strings.Contains(report, "main.go") {
		testingHandle.Fatalf("expected main.go in the report:\n%s", report)
	}
	for _, unexpected := range []string{"OLD REPORT BODY", "20240101-000000", utils.OutputDirectoryName + "/"} {
		if strings.Contains(report, unexpected) {
			testingHandle.Fatalf("report embeds an earlier snapshot (%q):\n%s", unexpected, report)
		}
	}
}

func TestHelpListsAnalyzedExtensions(testingHandle *testing.T) {
	isolateHome(testingHandle)
	standardOutput, err := executeCommand(testingHandle, nil, "--help")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(standardOutput, "Code analysis recognizes: ") || !strings.Contains(standardOutput, ".py") {
		testingHandle.Fatalf("help does not list analyzed extensions:\n%s", standardOutput)
	}
}

func TestDiffReportsStructuralChanges(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"main.go":     "package main\n",
		"old/util.go": "package old\n",
	})
	if _, err := executeCommand(testingHandle, nil, root, "-o", "before.snapshot.txt"); err != nil {
		testingHandle.Fatalf("first snapshot: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(root, "old")); err != nil {
		testingHandle.Fatalf("remove: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "added.go"), []byte("package main\n"), 0o644); err != nil {
		testingHandle.Fatalf("write: %v", err)
	}
	if _, err := executeCommand(testingHandle, nil, root, "-o", "after.snapshot.txt"); err != nil {
		testingHandle.Fatalf("second snapshot: %v", err)
	}

	outputDirectory := filepath.Join(root, utils.OutputDirectoryName)
	before := filepath.Join(outputDirectory, "before.snapshot.txt")
	after := filepath.Join(outputDirectory, "after.snapshot.txt")
	expected := "+ added.go\n- old/\n- old/util.go\n1 added, 2 removed\n"

	flagOutput, err := executeCommand(testingHandle, nil, "--diff", before, after)
	if err != nil {
		testingHandle.Fatalf("--diff: %v", err)
	}
	if flagOutput != expected {
		testingHandle.Fatalf("expected %q, got %q", expected, flagOutput)
	}

	subcommandOutput, err := executeCommand(testingHandle, nil, "diff", before, after)
	if err != nil {
		testingHandle.Fatalf("diff subcommand: %v", err)
	}
	if subcommandOutput != expected {
		testingHandle.Fatalf("expected %q, got %q", expected, subcommandOutput)
	}

	selfOutput, err := executeCommand(testingHandle, nil, "diff", after, after)
	if err != nil {
		testingHandle.Fatalf("self diff: %v", err)
	}
	if selfOutput != "No structural changes.\n" {
		testingHandle.Fatalf("unexpected self diff output %q", selfOutput)
	}
}

func TestDiffRejectsMalformedReport(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{
		"old.txt": "not a report\n",
		"new.txt": "not a report either\n",
	})
	_, err := executeCommand(testingHandle, nil, "diff", filepath.Join(root, "old.txt"), filepath.Join(root, "new.txt"))
	var parseError *diff.ParseError
	if !errors.As(err, &parseError) || parseError.Input != diff.InputOld {
		testingHandle.Fatalf("expected a parse error naming the old input, got %v", err)
	}
}

func TestClipboardReceivesReport(testingHandle *testing.T) {
	isolateHome(testingHandle)
	root := setupProject(testingHandle, map[string]string{"main.go": "package main\n"})
	copier := &recordingCopier{}

	if _, err := executeCommand(testingHandle, copier, root, "--clipboard", "--no-stats"); err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	if len(copier.copied) != 1 || !strings.HasPrefix(copier.copied[0], "Snapshot Report") {
		testingHandle.Fatalf("expected the rendered report on the clipboard, got %v", copier.copied)
	}
}

func TestInitCommandWritesLocalConfiguration(testingHandle *testing.T) {
	isolateHome(testingHandle)
	workingDirectory := testingHandle.TempDir()
	previousDirectory, err := os.Getwd()
	if err != nil {
		testingHandle.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(workingDirectory); err != nil {
		testingHandle.Fatalf("chdir: %v", err)
	}
	testingHandle.Cleanup(func() { _ = os.Chdir(previousDirectory) })

	standardOutput, err := executeCommand(testingHandle, nil, "init")
	if err != nil {
		testingHandle.Fatalf("unexpected error: %v", err)
	}
	destination := filepath.Join(workingDirectory, utils.LocalConfigFileName)
	if !strings.Contains(standardOutput, destination) {
		testingHandle.Fatalf("expected destination in output, got %q", standardOutput)
	}
	if _, err := executeCommand(testingHandle, nil, "init"); err == nil {
		testingHandle.Fatalf("expected an error when the configuration already exists")
	}
	if _, err := executeCommand(testingHandle, nil, "init", "--force"); err != nil {
		testingHandle.Fatalf("--force should overwrite: %v", err)
	}
}
