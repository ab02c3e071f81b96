package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

// ErrInvalidOutputName marks an output name that leaves the output directory.
var ErrInvalidOutputName = errors.New("output name must stay inside the output directory")

const (
	outputDirectoryPermissions = 0o755
	reportFilePermissions      = 0o644
	temporaryFilePattern       = ".treesnap-*.tmp"
)

// Result lists the files produced by Write.
type Result struct {
	ReportPath   string
	ManifestPath string
	Bytes        []byte
}

// ResolveOutputPath maps name to a path inside <root>/.treesnap.
func ResolveOutputPath(root, name string) (string, error) {
	outputDirectory := filepath.Join(root, utils.OutputDirectoryName)
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidOutputName)
	}
	candidate := filepath.Join(outputDirectory, name)
	if candidate == outputDirectory || !utils.IsWithinRoot(candidate, outputDirectory) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidOutputName)
	}
	return candidate, nil
}

// Write renders report in memory and moves it into place under <root>/.treesnap.
// Either every requested file is written or none is.
func Write(report *types.Report, options Options) (Result, error) {
	reportName := options.OutputName
	if reportName == "" {
		reportName = DefaultReportName(report.GeneratedAt)
	}
	reportPath, resolveErr := ResolveOutputPath(report.RootPath, reportName)
	if resolveErr != nil {
		return Result{}, resolveErr
	}

	var rendered bytes.Buffer
	if err := output.RenderReport(&rendered, report); err != nil {
		return Result{}, fmt.Errorf("rendering report: %w", err)
	}

	pending := []pendingFile{{path: reportPath, data: rendered.Bytes()}}
	result := Result{ReportPath: reportPath, Bytes: rendered.Bytes()}
	if options.Manifest {
		manifestData, manifestErr := output.RenderManifest(report)
		if manifestErr != nil {
			return Result{}, manifestErr
		}
		manifestPath := filepath.Join(filepath.Dir(reportPath), ManifestName(filepath.Base(reportPath)))
		pending = append(pending, pendingFile{path: manifestPath, data: manifestData})
		result.ManifestPath = manifestPath
	}

	if err := commitAll(pending); err != nil {
		return Result{}, err
	}
	return result, nil
}

type pendingFile struct {
	path          string
	data          []byte
	temporaryPath string
}

// commitAll stages every file as a temporary sibling, then renames them into place.
func commitAll(files []pendingFile) error {
	cleanup := func() {
		for _, file := range files {
			if file.temporaryPath != "" {
				_ = os.Remove(file.temporaryPath)
			}
		}
	}
	for index := range files {
		temporaryPath, stageErr := stage(files[index].path, files[index].data)
		if stageErr != nil {
			cleanup()
			return stageErr
		}
		files[index].temporaryPath = temporaryPath
	}
	for index, file := range files {
		if err := os.Rename(file.temporaryPath, file.path); err != nil {
			cleanup()
			for _, committed := range files[:index] {
				_ = os.Remove(committed.path)
			}
			return fmt.Errorf("moving %s into place: %w", file.path, err)
		}
		files[index].temporaryPath = ""
	}
	return nil
}

func stage(path string, data []byte) (string, error) {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, outputDirectoryPermissions); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", directory, err)
	}
	temporaryFile, createErr := os.CreateTemp(directory, temporaryFilePattern)
	if createErr != nil {
		return "", fmt.Errorf("creating temporary file in %s: %w", directory, createErr)
	}
	temporaryPath := temporaryFile.Name()
	if _, writeErr := temporaryFile.Write(data); writeErr != nil {
		_ = temporaryFile.Close()
		_ = os.Remove(temporaryPath)
		return "", fmt.Errorf("writing %s: %w", temporaryPath, writeErr)
	}
	if closeErr := temporaryFile.Close(); closeErr != nil {
		_ = os.Remove(temporaryPath)
		return "", fmt.Errorf("closing %s: %w", temporaryPath, closeErr)
	}
	if chmodErr := os.Chmod(temporaryPath, reportFilePermissions); chmodErr != nil {
		_ = os.Remove(temporaryPath)
		return "", fmt.Errorf("setting permissions on %s: %w", temporaryPath, chmodErr)
	}
	return temporaryPath, nil
}
