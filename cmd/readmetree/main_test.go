package main_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	binaryName := "readmetree_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	currentDirectory, directoryError := os.Getwd()
	if directoryError != nil {
		testSetup.Fatalf("Failed to get current working directory: %v", directoryError)
	}
	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	buildCommand.Dir = currentDirectory
	outputData, buildError := buildCommand.CombinedOutput()
	if buildError != nil {
		testSetup.Fatalf("Failed to build binary in %s: %v\nBuild Output:\n%s", currentDirectory, buildError, outputData)
	}
	return binaryPath
}

// runCommand returns stdout, stderr and the exit code of one invocation.
// #nosec G204
func runCommand(testSetup *testing.T, binaryPath string, workingDirectory string, arguments ...string) (string, string, int) {
	testSetup.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+testSetup.TempDir())

	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError

	runError := command.Run()
	if runError == nil {
		return standardOutput.String(), standardError.String(), 0
	}
	var exitError *exec.ExitError
	if !errors.As(runError, &exitError) {
		testSetup.Fatalf("Failed to run %s %s: %v", filepath.Base(binaryPath), strings.Join(arguments, " "), runError)
	}
	return standardOutput.String(), standardError.String(), exitError.ExitCode()
}

func setupWorkspace(testSetup *testing.T, layout map[string]string) string {
	testSetup.Helper()
	root := testSetup.TempDir()
	for relativePath, content := range layout {
		fullPath := filepath.Join(root, relativePath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			testSetup.Fatalf("mkdir %s: %v", relativePath, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			testSetup.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return root
}

func TestBinaryUpdateLifecycle(testInstance *testing.T) {
	if testing.Short() {
		testInstance.Skip("builds the binary")
	}
	binaryPath := buildBinary(testInstance)
	root := setupWorkspace(testInstance, map[string]string{
		"api/cmd/main.go":      "package main\n",
		"web/README.md":        "# Web\n\nFrontend.\n",
		"api/.git/HEAD":        "ref: refs/heads/main\n",
		"docs/notes/readme.md": "notes\n",
	})

	_, _, checkExitCode := runCommand(testInstance, binaryPath, root, "update", "--root", ".", "--check")
	if checkExitCode == 0 {
		testInstance.Fatalf("expected --check to fail before the first update")
	}

	updateOutput, updateErrors, updateExitCode := runCommand(testInstance, binaryPath, root, "update", "--root", ".")
	if updateExitCode != 0 {
		testInstance.Fatalf("update exited with %d:\n%s", updateExitCode, updateErrors)
	}
	if !strings.Contains(updateOutput, "[DONE] Files changed: 4") {
		testInstance.Fatalf("unexpected update output:\n%s", updateOutput)
	}

	apiReadme, readError := os.ReadFile(filepath.Join(root, "api", "README.md"))
	if readError != nil {
		testInstance.Fatalf("stub README missing: %v", readError)
	}
	if strings.Contains(string(apiReadme), "HEAD") {
		testInstance.Fatalf("version control directory leaked into the tree:\n%s", apiReadme)
	}

	_, recheckErrors, recheckExitCode := runCommand(testInstance, binaryPath, root, "update", "--root", ".", "--check")
	if recheckExitCode != 0 {
		testInstance.Fatalf("expected --check to pass after update, exit %d:\n%s", recheckExitCode, recheckErrors)
	}
}

func TestBinaryMissingRootExitsNonZero(testInstance *testing.T) {
	if testing.Short() {
		testInstance.Skip("builds the binary")
	}
	binaryPath := buildBinary(testInstance)
	workingDirectory := testInstance.TempDir()

	_, standardError, exitCode := runCommand(testInstance, binaryPath, workingDirectory, "update", "--root", "absent")
	if exitCode == 0 {
		testInstance.Fatalf("expected non-zero exit for a missing root")
	}
	if !strings.Contains(standardError, "root does not exist") {
		testInstance.Fatalf("expected missing root message, got:\n%s", standardError)
	}
}
