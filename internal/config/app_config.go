package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/treesnap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds snapshot defaults read from configuration files.
// Nil pointers mean "not set" so later sources only override what they specify.
type ApplicationConfiguration struct {
	MaxDepth       *int                `mapstructure:"max_depth"`
	MaxSizeMB      *float64            `mapstructure:"max_size_mb"`
	IncludeContent *bool               `mapstructure:"include_content"`
	Simple         *bool               `mapstructure:"simple"`
	CodeAnalysis   *bool               `mapstructure:"code_analysis"`
	TokenCount     *bool               `mapstructure:"token_count"`
	Stats          *bool               `mapstructure:"stats"`
	Manifest       *bool               `mapstructure:"manifest"`
	Clipboard      *bool               `mapstructure:"clipboard"`
	Tokenizer      string              `mapstructure:"tokenizer"`
	Ignore         IgnoreConfiguration `mapstructure:"ignore"`
}

// IgnoreConfiguration configures ignore rules.
type IgnoreConfiguration struct {
	Add           []string `mapstructure:"add"`
	ClearDefaults *bool    `mapstructure:"clear_defaults"`
	File          string   `mapstructure:"file"`
}

// LoadApplicationConfiguration loads the global file, then the local or explicit file.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Ignore.Add = utils.DeduplicatePatterns(merged.Ignore.Add)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	if config.Ignore.File != "" && !filepath.IsAbs(config.Ignore.File) {
		config.Ignore.File = filepath.Join(filepath.Dir(path), config.Ignore.File)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Ignore patterns accumulate across sources.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.MaxSizeMB != nil {
		result.MaxSizeMB = cloneFloat(override.MaxSizeMB)
	}
	if override.IncludeContent != nil {
		result.IncludeContent = cloneBool(override.IncludeContent)
	}
	if override.Simple != nil {
		result.Simple = cloneBool(override.Simple)
	}
	if override.CodeAnalysis != nil {
		result.CodeAnalysis = cloneBool(override.CodeAnalysis)
	}
	if override.TokenCount != nil {
		result.TokenCount = cloneBool(override.TokenCount)
	}
	if override.Stats != nil {
		result.Stats = cloneBool(override.Stats)
	}
	if override.Manifest != nil {
		result.Manifest = cloneBool(override.Manifest)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Tokenizer != "" {
		result.Tokenizer = override.Tokenizer
	}
	result.Ignore = result.Ignore.merge(override.Ignore)
	return result
}

func (config IgnoreConfiguration) merge(override IgnoreConfiguration) IgnoreConfiguration {
	result := config
	if len(override.Add) > 0 {
		combined := append(append([]string{}, config.Add...), override.Add...)
		result.Add = utils.DeduplicatePatterns(combined)
	}
	if override.ClearDefaults != nil {
		result.ClearDefaults = cloneBool(override.ClearDefaults)
	}
	if override.File != "" {
		result.File = override.File
	}
	return result
}

// BoolOr returns the pointed value or fallback when unset.
func BoolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
