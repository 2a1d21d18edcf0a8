// Package main provides tests for the gridforge CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gridforge-labs/gridforge/internal/cli"
	"github.com/gridforge-labs/gridforge/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "gridforge") {
		t.Errorf("version output should contain 'gridforge', got: %s", output)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "init", dir)
	if err != nil {
		t.Fatalf("init command error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "gridforge.yaml")); err != nil {
		t.Errorf("init should create gridforge.yaml: %v", err)
	}

	// Running again without --force fails
	if _, err := runCLI(t, "init", dir); err == nil {
		t.Error("init over existing config should fail without --force")
	}
}

func TestInitExample(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "init", dir, "--example")
	if err != nil {
		t.Fatalf("init --example error = %v", err)
	}

	for _, name := range []string{"items.csv", "enemies.csv", "levels.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("init --example should create %s: %v", name, err)
		}
	}
}

func TestViewCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nSword,10\nShield,25\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "view", path)
	if err != nil {
		t.Fatalf("view command error = %v", err)
	}
	if !strings.Contains(output, "Sword") || !strings.Contains(output, "Shield") {
		t.Errorf("view output should contain data rows, got: %s", output)
	}
	if !strings.Contains(output, "(2 rows)") {
		t.Errorf("view output should contain row count, got: %s", output)
	}
}

func TestViewCommandFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nSword,10\nShield,25\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "view", path, "--filter", "Value>20")
	if err != nil {
		t.Fatalf("view --filter error = %v", err)
	}
	if strings.Contains(output, "Sword") {
		t.Errorf("filtered view should hide Sword, got: %s", output)
	}
	if !strings.Contains(output, "Shield") {
		t.Errorf("filtered view should keep Shield, got: %s", output)
	}
}

func TestExportCommandConverts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "items.csv")
	dst := filepath.Join(dir, "items.json")
	csv := "Name,Value\nSword,10\n"
	if err := os.WriteFile(src, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "export", src, dst); err != nil {
		t.Fatalf("export command error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("export should write %s: %v", dst, err)
	}
	if !strings.Contains(string(data), "Sword") {
		t.Errorf("exported JSON should contain data, got: %s", data)
	}
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nIron Sword,10\nIron Shield,25\nWand,5\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "search", path, "Iron")
	if err != nil {
		t.Fatalf("search command error = %v", err)
	}
	if !strings.Contains(output, "(2 matches)") {
		t.Errorf("search should find 2 matches, got: %s", output)
	}
}

func TestSearchReplaceWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nIron Sword,10\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "search", path, "Iron", "--replace", "Steel", "--write"); err != nil {
		t.Fatalf("search --replace error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Steel Sword") {
		t.Errorf("replace should rewrite the file, got: %s", data)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nSword,10\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "validate", path)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "OK") {
		t.Errorf("clean file should validate OK, got: %s", output)
	}
}

func TestImportAndSessionList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name,Value\nSword,10\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}
	session := filepath.Join(dir, "session.db")

	output, err := runCLI(t, "import", path, "--session", session, "--name", "loot")
	if err != nil {
		t.Fatalf("import command error = %v", err)
	}
	if !strings.Contains(output, "loot") {
		t.Errorf("import output should mention document name, got: %s", output)
	}

	output, err = runCLI(t, "session", "list", "--session", session)
	if err != nil {
		t.Fatalf("session list error = %v", err)
	}
	if !strings.Contains(output, "loot") {
		t.Errorf("session list should show the imported document, got: %s", output)
	}
}

func TestImportDelimiterFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	csv := "Name;Value\nSword;50\n"
	if err := os.WriteFile(path, []byte(csv), 0600); err != nil {
		t.Fatal(err)
	}
	session := filepath.Join(dir, "session.db")

	output, err := runCLI(t, "import", path, "--delimiter", ";", "--session", session)
	if err != nil {
		t.Fatalf("import command error = %v", err)
	}
	if !strings.Contains(output, "2 columns, 1 rows") {
		t.Errorf("semicolon file should split into two columns, got: %s", output)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "no-such-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}
