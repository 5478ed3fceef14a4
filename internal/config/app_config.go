// Package config loads readmetree defaults from global and local YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/readmetree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Update       UpdateConfiguration       `mapstructure:"update"`
	Tree         TreeConfiguration         `mapstructure:"tree"`
	Organization OrganizationConfiguration `mapstructure:"organization"`
}

// UpdateConfiguration defines defaults for the update command.
type UpdateConfiguration struct {
	Root   string            `mapstructure:"root"`
	Format string            `mapstructure:"format"`
	DryRun *bool             `mapstructure:"dry_run"`
	Index  *bool             `mapstructure:"index"`
	Paths  PathConfiguration `mapstructure:"paths"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	Format string            `mapstructure:"format"`
	Copy   *bool             `mapstructure:"copy"`
	Paths  PathConfiguration `mapstructure:"paths"`
}

// PathConfiguration configures traversal of rendered directories.
type PathConfiguration struct {
	MaxDepth     *int     `mapstructure:"max_depth"`
	Exclude      []string `mapstructure:"exclude"`
	UseGitignore *bool    `mapstructure:"use_gitignore"`
}

// OrganizationConfiguration configures the aggregate README.
type OrganizationConfiguration struct {
	Directory string `mapstructure:"directory"`
	Title     string `mapstructure:"title"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones field by field.
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
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Update.Paths.Exclude = splitConfiguredList(merged.Update.Paths.Exclude)
	merged.Tree.Paths.Exclude = splitConfiguredList(merged.Tree.Paths.Exclude)

	return merged, nil
}

// splitConfiguredList keeps nil for an absent list so callers can fall back to defaults.
func splitConfiguredList(values []string) []string {
	if values == nil {
		return nil
	}
	return utils.SplitList(values)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
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
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Update = result.Update.merge(override.Update)
	result.Tree = result.Tree.merge(override.Tree)
	result.Organization = result.Organization.merge(override.Organization)
	return result
}

func (config UpdateConfiguration) merge(override UpdateConfiguration) UpdateConfiguration {
	result := config
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.DryRun != nil {
		result.DryRun = cloneBool(override.DryRun)
	}
	if override.Index != nil {
		result.Index = cloneBool(override.Index)
	}
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

func (config OrganizationConfiguration) merge(override OrganizationConfiguration) OrganizationConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	return result
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
