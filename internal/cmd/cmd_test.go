//go:build integration

package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bradjones1/maestro-ng/internal/config"
	"github.com/bradjones1/maestro-ng/internal/testutil"
	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment moves into a fresh directory and points
// XDG_CONFIG_HOME at it, so tests never touch a real ~/.config/maestro.
func setupTestEnvironment(t *testing.T) (cleanup func()) {
	t.Helper()

	dir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	originalXDG, hadXDG := os.LookupEnv("XDG_CONFIG_HOME")

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change to test directory: %v", err)
	}

	return func() {
		os.Chdir(originalDir)
		if hadXDG {
			os.Setenv("XDG_CONFIG_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}
}

// captureOutput captures stdout during function execution. Run commands
// render to stdout through their sink rather than through cobra, and the
// pipe doubles as a non-terminal stream, so they take the plain-log path.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// writePlan writes a plan file into a temp directory and returns its path.
func writePlan(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write plan file: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}

	if rootCmd.Use != "maestro" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "maestro")
	}

	// Check for expected subcommands (compare by Name(), not Use which includes args)
	expectedCmds := []string{"run", "config", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}

	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(output, "maestro dev") {
		t.Errorf("version output = %q, want it to contain %q", output, "maestro dev")
	}
}

func TestConfigShowCommand(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "config", "show")
	})
	if execErr != nil {
		t.Fatalf("config show failed: %v", execErr)
	}

	for _, want := range []string{"output:", "colors: auto", "play:", "concurrency: 0", "logging:", "level: info"} {
		if !strings.Contains(output, want) {
			t.Errorf("config show output missing %q\nOutput: %s", want, output)
		}
	}
}

func TestConfigPathCommand(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "config", "path")
	})
	if execErr != nil {
		t.Fatalf("config path failed: %v", execErr)
	}

	if !strings.Contains(output, "config.yaml") {
		t.Errorf("config path output missing config.yaml\nOutput: %s", output)
	}
	if !strings.Contains(output, "MAESTRO_") {
		t.Errorf("config path output missing env var hint\nOutput: %s", output)
	}
}

func TestConfigInitCommand(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "config", "init")
	})
	if execErr != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", execErr, output)
	}
	if !strings.Contains(output, "Created config file") {
		t.Errorf("config init output = %q, want it to mention the created file", output)
	}

	if _, err := os.Stat(config.ConfigFile()); err != nil {
		t.Errorf("config file was not created: %v", err)
	}

	// A second init must refuse to overwrite
	if _, err := executeCommand(rootCmd, "config", "init"); err == nil {
		t.Error("config init should fail when the file already exists")
	}
}

func TestConfigSetCommand(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "config", "set", "output.colors", "never")
	})
	if execErr != nil {
		t.Fatalf("config set failed: %v\nOutput: %s", execErr, output)
	}
	if !strings.Contains(output, "Set output.colors = never") {
		t.Errorf("config set output = %q, want confirmation line", output)
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.Contains(string(data), "never") {
		t.Errorf("written config does not contain the new value:\n%s", data)
	}
}

func TestConfigSetCommand_RejectsInvalid(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	if _, err := executeCommand(rootCmd, "config", "set", "output.colors", "sometimes"); err == nil {
		t.Error("config set should reject an invalid color mode")
	}
	if _, err := executeCommand(rootCmd, "config", "set", "logging.level", "verbose"); err == nil {
		t.Error("config set should reject an invalid log level")
	}
	if _, err := executeCommand(rootCmd, "config", "set", "logging.enabled", "yes"); err == nil {
		t.Error("config set should reject a non-boolean value")
	}
	if _, err := executeCommand(rootCmd, "config", "set", "bogus.key", "1"); err == nil {
		t.Error("config set should reject an unknown key")
	}
}

func TestRunCommand_PlainOutput(t *testing.T) {
	testutil.SkipIfNoShell(t)
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	planPath := writePlan(t, "start.yaml", `name: start
tasks:
  - name: db
    service: postgres
    run: echo ready
  - name: web
    service: frontend
    depends_on: [db]
    run: "true"
`)

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "run", planPath)
	})
	if execErr != nil {
		t.Fatalf("run command failed: %v\nOutput: %s", execErr, output)
	}

	// On a pipe the rows come out as a plain sequential log
	if strings.Contains(output, "\033") {
		t.Errorf("plain output contains escape sequences:\n%q", output)
	}

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("first line = %q, want the column header", lines[0])
	}

	ready := strings.Index(output, "ready")
	done := strings.Index(output, "done")
	if ready == -1 || done == -1 {
		t.Fatalf("output missing task results:\n%s", output)
	}
	if ready > done {
		t.Errorf("db finished after its dependent:\n%s", output)
	}
}

func TestRunCommand_TaskFailure(t *testing.T) {
	testutil.SkipIfNoShell(t)
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	planPath := writePlan(t, "start.yaml", `name: start
tasks:
  - name: db
    run: "false"
  - name: web
    depends_on: [db]
    run: "true"
`)

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "run", planPath)
	})
	if execErr == nil {
		t.Fatal("run command should fail when a task fails")
	}

	if !strings.Contains(output, "failed!") {
		t.Errorf("output missing failed status:\n%s", output)
	}
	if !strings.Contains(output, "aborted!") {
		t.Errorf("dependent task should abort after the failure:\n%s", output)
	}
}

func TestRunCommand_OnlySelectsDependencies(t *testing.T) {
	testutil.SkipIfNoShell(t)
	cleanup := setupTestEnvironment(t)
	defer cleanup()
	defer func() { runOnly = nil }()

	planPath := writePlan(t, "start.yaml", `name: start
tasks:
  - name: db
    run: "true"
  - name: cache
    run: "true"
  - name: web
    depends_on: [db]
    run: "true"
`)

	var execErr error
	output := captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "run", planPath, "--only", "web")
	})
	if execErr != nil {
		t.Fatalf("run command failed: %v\nOutput: %s", execErr, output)
	}

	if strings.Contains(output, "cache") {
		t.Errorf("unselected task ran:\n%s", output)
	}
	if !strings.Contains(output, "web") || !strings.Contains(output, "db") {
		t.Errorf("selected task or its dependency missing:\n%s", output)
	}
}

func TestRunCommand_InvalidPlan(t *testing.T) {
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	if _, err := executeCommand(rootCmd, "run", "no-such-plan.yaml"); err == nil {
		t.Error("run should fail for a missing plan file")
	}

	planPath := writePlan(t, "bad.yaml", `name: bad
tasks:
  - name: web
    depends_on: [ghost]
    run: "true"
`)
	if _, err := executeCommand(rootCmd, "run", planPath); err == nil {
		t.Error("run should fail for an unknown dependency")
	}
}

func TestRunCommand_LogFile(t *testing.T) {
	testutil.SkipIfNoShell(t)
	cleanup := setupTestEnvironment(t)
	defer cleanup()

	planPath := writePlan(t, "start.yaml", `name: start
tasks:
  - name: db
    run: "true"
`)

	var execErr error
	captureOutput(func() {
		_, execErr = executeCommand(rootCmd, "run", planPath, "--log-file", "play.log")
	})
	if execErr != nil {
		t.Fatalf("run command failed: %v", execErr)
	}

	data, err := os.ReadFile("play.log")
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "play started") {
		t.Errorf("log file missing lifecycle events:\n%s", data)
	}
}
