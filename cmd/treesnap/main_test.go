package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// #nosec G204
func buildBinary(testingHandle *testing.T) string {
	testingHandle.Helper()
	binaryName := "treesnap_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testingHandle.TempDir(), binaryName)
	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testingHandle.Fatalf("failed to build binary: %v\n%s", buildErr, string(outputData))
	}
	return binaryPath
}

// #nosec G204
func runBinary(testingHandle *testing.T, binaryPath, workingDirectory string, arguments ...string) (string, string, error) {
	testingHandle.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+testingHandle.TempDir())
	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError
	runErr := command.Run()
	return standardOutput.String(), standardError.String(), runErr
}

func TestTreesnapEndToEnd(testingHandle *testing.T) {
	if testing.Short() {
		testingHandle.Skip("builds the binary")
	}
	binaryPath := buildBinary(testingHandle)
	projectDirectory := testingHandle.TempDir()
	if err := os.WriteFile(filepath.Join(projectDirectory, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		testingHandle.Fatalf("write fixture: %v", err)
	}

	standardOutput, standardError, err := runBinary(testingHandle, binaryPath, projectDirectory, "--no-stats", "-o", "first.snapshot.txt")
	if err != nil {
		testingHandle.Fatalf("snapshot failed: %v\n%s", err, standardError)
	}
	reportPath := strings.TrimSpace(standardOutput)
	if filepath.Base(reportPath) != "first.snapshot.txt" {
		testingHandle.Fatalf("unexpected report path %q", reportPath)
	}
	if !strings.Contains(standardError, "snapshot written") {
		testingHandle.Fatalf("expected a log line on stderr, got %q", standardError)
	}

	diffOutput, _, err := runBinary(testingHandle, binaryPath, projectDirectory, "--diff", reportPath, reportPath)
	if err != nil {
		testingHandle.Fatalf("diff failed: %v", err)
	}
	if strings.TrimSpace(diffOutput) != "No structural changes." {
		testingHandle.Fatalf("unexpected diff output %q", diffOutput)
	}

	if _, _, err := runBinary(testingHandle, binaryPath, projectDirectory, "--max-depth", "-3"); err == nil {
		testingHandle.Fatalf("expected a non-zero exit for a negative depth")
	}
	if _, err := os.Stat(filepath.Join(projectDirectory, ".treesnap", "first.snapshot.txt")); err != nil {
		testingHandle.Fatalf("report missing after failed run: %v", err)
	}
}
