package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/readmetree/internal/utils"
)

type configTestCase struct {
	name             string
	globalContent    string
	localContent     string
	explicitPath     string
	explicitContent  string
	expectFormat     string
	expectDryRun     *bool
	expectMaxDepth   *int
	expectExclude    []string
	expectTitle      string
	expectTreeCopy   *bool
	expectGitignore  *bool
	expectOrgDirName string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:           "local_overrides_global",
			globalContent:  "update:\n  format: json\n  dry_run: true\n  paths:\n    max_depth: 2\n    exclude: [node_modules]\norganization:\n  title: Global Org\n",
			localContent:   "update:\n  format: raw\n  paths:\n    exclude: [\"dist, build\", dist]\ntree:\n  copy: true\n",
			expectFormat:   "raw",
			expectDryRun:   boolPointer(true),
			expectMaxDepth: intPointer(2),
			expectExclude:  []string{"dist", "build"},
			expectTitle:    "Global Org",
			expectTreeCopy: boolPointer(true),
		},
		{
			name:             "explicit_path_replaces_local",
			localContent:     "update:\n  format: json\n",
			explicitPath:     "custom.yaml",
			explicitContent:  "update:\n  paths:\n    use_gitignore: true\norganization:\n  directory: docs\n",
			expectFormat:     "",
			expectGitignore:  boolPointer(true),
			expectOrgDirName: "docs",
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Update.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Update.Format)
			}
			assertBool(t, "dry_run", testCase.expectDryRun, loadedConfig.Update.DryRun)
			assertBool(t, "tree copy", testCase.expectTreeCopy, loadedConfig.Tree.Copy)
			assertBool(t, "use_gitignore", testCase.expectGitignore, loadedConfig.Update.Paths.UseGitignore)
			if testCase.expectMaxDepth == nil {
				if loadedConfig.Update.Paths.MaxDepth != nil {
					t.Fatalf("expected no max depth override")
				}
			} else if loadedConfig.Update.Paths.MaxDepth == nil || *loadedConfig.Update.Paths.MaxDepth != *testCase.expectMaxDepth {
				t.Fatalf("unexpected max depth value")
			}
			if strings.Join(loadedConfig.Update.Paths.Exclude, ",") != strings.Join(testCase.expectExclude, ",") {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loadedConfig.Update.Paths.Exclude)
			}
			if loadedConfig.Organization.Title != testCase.expectTitle {
				t.Fatalf("expected title %q, got %q", testCase.expectTitle, loadedConfig.Organization.Title)
			}
			if loadedConfig.Organization.Directory != testCase.expectOrgDirName {
				t.Fatalf("expected organization directory %q, got %q", testCase.expectOrgDirName, loadedConfig.Organization.Directory)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error when configuration path is a directory")
	}
}

func assertBool(t *testing.T, label string, expected *bool, actual *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override", label)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", label)
	}
}
