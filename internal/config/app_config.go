// Package config loads, merges, and validates the application configuration
// that drives an aggregation run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/bundle/internal/services/buildcmd"
	"github.com/temirov/bundle/internal/services/treecmd"
	"github.com/temirov/bundle/internal/tokenizer"
	"github.com/temirov/bundle/internal/types"
	"github.com/temirov/bundle/internal/utils"
)

// DefaultOutputFileName is the artifact path used when none is configured.
const DefaultOutputFileName = "bundle.txt"

const configurationMismatchFormat = "directories and titles must pair up: %d directories, %d titles"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file schema. Directories
// and titles stay parallel lists here; they are zipped into sections only
// after validation proves their lengths match.
type ApplicationConfiguration struct {
	Directories []string           `mapstructure:"directories"`
	Titles      []string           `mapstructure:"titles"`
	Files       []string           `mapstructure:"files"`
	Whitelist   []string           `mapstructure:"whitelist"`
	Blacklist   []string           `mapstructure:"blacklist"`
	Exclude     []string           `mapstructure:"exclude"`
	Recursive   *bool              `mapstructure:"recursive"`
	Output      string             `mapstructure:"output"`
	Tree        TreeConfiguration  `mapstructure:"tree"`
	Build       BuildConfiguration `mapstructure:"build"`
	Tokens      TokenConfiguration `mapstructure:"tokens"`
	Clipboard   *bool              `mapstructure:"clipboard"`
}

// TreeConfiguration selects the external tree rendering tool.
type TreeConfiguration struct {
	Command string `mapstructure:"command"`
}

// BuildConfiguration selects the external build tool and its arguments.
type BuildConfiguration struct {
	Command   string   `mapstructure:"command"`
	Arguments []string `mapstructure:"arguments"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file and
// the local (or explicitly named) file, merging local over global.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, absoluteError := filepath.Abs(explicitPath)
			if absoluteError != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, absoluteError)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined
// configuration. Directories and titles move as a pair: when the override
// sets either, both are taken from the override so a local file redefines
// its whole section list instead of splicing into the global one.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if len(override.Directories) > 0 || len(override.Titles) > 0 {
		result.Directories = append([]string(nil), override.Directories...)
		result.Titles = append([]string(nil), override.Titles...)
	}
	if len(override.Files) > 0 {
		result.Files = append([]string(nil), override.Files...)
	}
	if len(override.Whitelist) > 0 {
		result.Whitelist = append([]string(nil), override.Whitelist...)
	}
	if len(override.Blacklist) > 0 {
		result.Blacklist = append([]string(nil), override.Blacklist...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string(nil), override.Exclude...)
	}
	if override.Recursive != nil {
		result.Recursive = cloneBool(override.Recursive)
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Tree.Command != "" {
		result.Tree.Command = override.Tree.Command
	}
	if override.Build.Command != "" {
		result.Build.Command = override.Build.Command
	}
	if len(override.Build.Arguments) > 0 {
		result.Build.Arguments = append([]string(nil), override.Build.Arguments...)
	}
	if override.Tokens.Enabled != nil {
		result.Tokens.Enabled = cloneBool(override.Tokens.Enabled)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

// Validate enforces the pairing invariant between directories and titles.
// A violation is fatal and must abort the run before any output exists.
func (configuration ApplicationConfiguration) Validate() error {
	if len(configuration.Directories) != len(configuration.Titles) {
		return fmt.Errorf(configurationMismatchFormat, len(configuration.Directories), len(configuration.Titles))
	}
	return nil
}

// BuildRunConfiguration validates the file-level configuration and freezes
// it into the immutable run configuration, zipping directories with titles
// and applying defaults for everything left unset. RunBuild and the other
// flag-driven fields stay false here; the CLI applies flags afterwards.
func (configuration ApplicationConfiguration) BuildRunConfiguration() (types.Configuration, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return types.Configuration{}, validationError
	}

	sections := make([]types.DirectorySection, 0, len(configuration.Directories))
	for sectionIndex := range configuration.Directories {
		sections = append(sections, types.DirectorySection{
			DirectoryPath: configuration.Directories[sectionIndex],
			Title:         configuration.Titles[sectionIndex],
		})
	}

	runConfiguration := types.Configuration{
		Sections:               sections,
		ExplicitFilePaths:      append([]string(nil), configuration.Files...),
		WhitelistExtensions:    utils.DeduplicateStrings(configuration.Whitelist),
		BlacklistExtensions:    utils.DeduplicateStrings(configuration.Blacklist),
		ExcludedDirectoryNames: utils.DeduplicateStrings(configuration.Exclude),
		Recursive:              true,
		OutputFilePath:         configuration.Output,
		TreeCommandName:        configuration.Tree.Command,
		BuildCommandName:       configuration.Build.Command,
		BuildCommandArguments:  append([]string(nil), configuration.Build.Arguments...),
		TokenizerModelName:     configuration.Tokens.Model,
	}
	if configuration.Recursive != nil {
		runConfiguration.Recursive = *configuration.Recursive
	}
	if runConfiguration.OutputFilePath == "" {
		runConfiguration.OutputFilePath = DefaultOutputFileName
	}
	if runConfiguration.TreeCommandName == "" {
		runConfiguration.TreeCommandName = treecmd.DefaultCommandName
	}
	if runConfiguration.BuildCommandName == "" {
		runConfiguration.BuildCommandName = buildcmd.DefaultCommandName
	}
	if runConfiguration.TokenizerModelName == "" {
		runConfiguration.TokenizerModelName = tokenizer.DefaultModel
	}
	if configuration.Tokens.Enabled != nil {
		runConfiguration.CountTokens = *configuration.Tokens.Enabled
	}
	if configuration.Clipboard != nil {
		runConfiguration.CopyToClipboard = *configuration.Clipboard
	}
	return runConfiguration, nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
