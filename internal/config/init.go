package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/treesnap/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	defaultConfigurationTemplate = `# treesnap configuration
# max_depth: 3
max_size_mb: 1.0
include_content: false
simple: false
code_analysis: true
token_count: true
stats: true
manifest: true
clipboard: false
tokenizer: estimate
ignore:
  add: []
  clear_defaults: false
  # file: .treesnapignore
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// ErrConfigurationExists is returned when the destination exists and Force is unset.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitializeConfiguration writes the default configuration to the requested target
// and returns the path it wrote.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, err := configurationDestination(options)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destinationPath), configurationDirectoryPermissions); err != nil {
		return "", fmt.Errorf("create configuration directory %s: %w", filepath.Dir(destinationPath), err)
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !options.Force {
		openFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(destinationPath, openFlags, configurationFilePermissions)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s: %w", destinationPath, ErrConfigurationExists)
		}
		return "", fmt.Errorf("open configuration %s: %w", destinationPath, err)
	}
	if _, err := file.WriteString(defaultConfigurationTemplate); err != nil {
		file.Close()
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close configuration %s: %w", destinationPath, err)
	}
	return destinationPath, nil
}

func configurationDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q: %w", options.Target, ErrInvalidOption)
	}
}
