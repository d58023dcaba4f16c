package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/bundle/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name              string
		globalContent     string
		localContent      string
		explicitPath      string
		expectDirectories []string
		expectTitles      []string
		expectWhitelist   []string
		expectOutput      string
		expectRecursive   *bool
	}{
		{
			name:              "local_overrides_global",
			globalContent:     "directories:\n  - lib\ntitles:\n  - Library\nwhitelist:\n  - go\noutput: global.txt\nrecursive: false\n",
			localContent:      "directories:\n  - src\ntitles:\n  - Source Files\noutput: local.txt\n",
			expectDirectories: []string{"src"},
			expectTitles:      []string{"Source Files"},
			expectWhitelist:   []string{"go"},
			expectOutput:      "local.txt",
			expectRecursive:   boolPointer(false),
		},
		{
			name:              "global_only",
			globalContent:     "directories:\n  - src\n  - docs\ntitles:\n  - Source\n  - Documentation\nwhitelist:\n  - rs\n  - toml\n",
			localContent:      "",
			expectDirectories: []string{"src", "docs"},
			expectTitles:      []string{"Source", "Documentation"},
			expectWhitelist:   []string{"rs", "toml"},
			expectOutput:      "",
			expectRecursive:   nil,
		},
		{
			name:              "explicit_path_ignores_local",
			globalContent:     "",
			localContent:      "directories:\n  - ignored\ntitles:\n  - Ignored\n",
			explicitPath:      "custom.yaml",
			expectDirectories: []string{"explicit"},
			expectTitles:      []string{"Explicit"},
			expectWhitelist:   nil,
			expectOutput:      "",
			expectRecursive:   nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			configDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDirectory, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDirectory, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDirectory, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDirectory, testCase.explicitPath)
				if err := os.WriteFile(target, []byte("directories:\n  - explicit\ntitles:\n  - Explicit\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)

			loadedConfiguration, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if len(loadedConfiguration.Directories) != len(testCase.expectDirectories) {
				t.Fatalf("expected directories %v, got %v", testCase.expectDirectories, loadedConfiguration.Directories)
			}
			for index := range testCase.expectDirectories {
				if loadedConfiguration.Directories[index] != testCase.expectDirectories[index] {
					t.Fatalf("expected directories %v, got %v", testCase.expectDirectories, loadedConfiguration.Directories)
				}
			}
			if len(loadedConfiguration.Titles) != len(testCase.expectTitles) {
				t.Fatalf("expected titles %v, got %v", testCase.expectTitles, loadedConfiguration.Titles)
			}
			for index := range testCase.expectTitles {
				if loadedConfiguration.Titles[index] != testCase.expectTitles[index] {
					t.Fatalf("expected titles %v, got %v", testCase.expectTitles, loadedConfiguration.Titles)
				}
			}
			if len(loadedConfiguration.Whitelist) != len(testCase.expectWhitelist) {
				t.Fatalf("expected whitelist %v, got %v", testCase.expectWhitelist, loadedConfiguration.Whitelist)
			}
			if loadedConfiguration.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loadedConfiguration.Output)
			}
			if testCase.expectRecursive == nil {
				if loadedConfiguration.Recursive != nil {
					t.Fatalf("expected no recursive override")
				}
			} else {
				if loadedConfiguration.Recursive == nil || *loadedConfiguration.Recursive != *testCase.expectRecursive {
					t.Fatalf("unexpected recursive value")
				}
			}
		})
	}
}

func TestMergeMovesDirectoriesAndTitlesTogether(t *testing.T) {
	base := ApplicationConfiguration{
		Directories: []string{"src", "docs"},
		Titles:      []string{"Source", "Documentation"},
	}
	override := ApplicationConfiguration{
		Directories: []string{"lib"},
	}
	merged := base.Merge(override)
	if len(merged.Directories) != 1 || merged.Directories[0] != "lib" {
		t.Fatalf("expected override directories, got %v", merged.Directories)
	}
	if len(merged.Titles) != 0 {
		t.Fatalf("expected titles to follow the override, got %v", merged.Titles)
	}
}

func TestValidateRejectsMismatchedSections(t *testing.T) {
	configuration := ApplicationConfiguration{
		Directories: []string{"src", "docs"},
		Titles:      []string{"Source"},
	}
	if err := configuration.Validate(); err == nil {
		t.Fatalf("expected validation error for mismatched lengths")
	}
}

func TestBuildRunConfigurationZipsSectionsAndAppliesDefaults(t *testing.T) {
	recursiveDisabled := boolPointer(false)
	configuration := ApplicationConfiguration{
		Directories: []string{"src", "docs"},
		Titles:      []string{"Source", "Documentation"},
		Whitelist:   []string{"rs", "rs", "toml"},
		Recursive:   recursiveDisabled,
	}
	runConfiguration, err := configuration.BuildRunConfiguration()
	if err != nil {
		t.Fatalf("BuildRunConfiguration error: %v", err)
	}
	if len(runConfiguration.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(runConfiguration.Sections))
	}
	if runConfiguration.Sections[0].DirectoryPath != "src" || runConfiguration.Sections[0].Title != "Source" {
		t.Fatalf("unexpected first section: %+v", runConfiguration.Sections[0])
	}
	if runConfiguration.Sections[1].DirectoryPath != "docs" || runConfiguration.Sections[1].Title != "Documentation" {
		t.Fatalf("unexpected second section: %+v", runConfiguration.Sections[1])
	}
	if len(runConfiguration.WhitelistExtensions) != 2 {
		t.Fatalf("expected deduplicated whitelist, got %v", runConfiguration.WhitelistExtensions)
	}
	if runConfiguration.Recursive {
		t.Fatalf("expected recursive to be disabled")
	}
	if runConfiguration.OutputFilePath != DefaultOutputFileName {
		t.Fatalf("expected default output path, got %q", runConfiguration.OutputFilePath)
	}
	if runConfiguration.TreeCommandName != "tree" {
		t.Fatalf("expected default tree command, got %q", runConfiguration.TreeCommandName)
	}
	if runConfiguration.BuildCommandName != "make" {
		t.Fatalf("expected default build command, got %q", runConfiguration.BuildCommandName)
	}
	if runConfiguration.TokenizerModelName == "" {
		t.Fatalf("expected default tokenizer model")
	}
	if runConfiguration.RunBuild {
		t.Fatalf("expected build to stay disabled without the flag")
	}
}

func TestBuildRunConfigurationRejectsMismatch(t *testing.T) {
	configuration := ApplicationConfiguration{
		Directories: []string{"src"},
		Titles:      []string{"Source", "Extra"},
	}
	if _, err := configuration.BuildRunConfiguration(); err == nil {
		t.Fatalf("expected error for mismatched directories and titles")
	}
}
