package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	base := t.TempDir()
	configPath = filepath.Join(base, "unify.toml")
	dbPath = filepath.Join(base, "unify.db")
	content := `
[database]
path = "` + dbPath + `"

[oracle]
engine = "heuristic"
call_interval_ms = 0

[logging]
format = "json"
level = "error"
dir = ""
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, dbPath
}

func TestConfigInitCreatesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v (%s)", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if out, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite: %v (%s)", err, out)
	}
}

func TestImportRunAndReport(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	csvPath := filepath.Join(t.TempDir(), "companies.csv")
	csvData := "label\nTata Motors Ltd\nTATA MOTORS LIMITED\nReliance Industries\nReliance Industries Petrochemicals\nUnrelated Co\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, err := executeCommand(t, "--config", configPath, "import", csvPath)
	if err != nil {
		t.Fatalf("import: %v (%s)", err, out)
	}
	if !strings.Contains(out, "Imported 5 records") {
		t.Fatalf("unexpected import output: %s", out)
	}

	out, err = executeCommand(t, "--config", configPath, "run")
	if err != nil {
		t.Fatalf("run: %v (%s)", err, out)
	}
	if !strings.Contains(out, "groups") {
		t.Fatalf("run summary missing: %s", out)
	}

	out, err = executeCommand(t, "--config", configPath, "report")
	if err != nil {
		t.Fatalf("report: %v (%s)", err, out)
	}
	if !strings.Contains(out, "Tata Motors") {
		t.Fatalf("report missing group: %s", out)
	}

	reportPath := filepath.Join(t.TempDir(), "report.txt")
	out, err = executeCommand(t, "--config", configPath, "report", "--output", reportPath)
	if err != nil {
		t.Fatalf("report --output: %v (%s)", err, out)
	}
	saved, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read saved report: %v", err)
	}
	if !strings.Contains(string(saved), "Tata Motors") {
		t.Fatalf("saved report missing group: %s", saved)
	}

	out, err = executeCommand(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status: %v (%s)", err, out)
	}
	for _, want := range []string{"primary", "duplicate", "unclassified"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q: %s", want, out)
		}
	}
}

func TestImportFromStdin(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader("Acme Corp\nGlobex Ltd\n"))
	cmd.SetArgs([]string{"--config", configPath, "import", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import from stdin: %v (%s)", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Imported 2 records") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestReportBeforeAnyRun(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	out, err := executeCommand(t, "--config", configPath, "report")
	if err != nil {
		t.Fatalf("report: %v (%s)", err, out)
	}
	if !strings.Contains(out, "No duplicate groups") {
		t.Fatalf("expected empty-state message: %s", out)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "unify.toml")
	bad := `
[matching]
auto_duplicate_threshold = 0.5
probable_threshold = 0.9
`
	if err := os.WriteFile(configPath, []byte(bad), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := executeCommand(t, "--config", configPath, "run"); err == nil {
		t.Fatal("inverted thresholds should fail validation")
	}
}

func TestDBFlagOverridesConfig(t *testing.T) {
	configPath, _ := writeTestConfig(t)
	altDB := filepath.Join(t.TempDir(), "alt.db")

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader("Solo Co\n"))
	cmd.SetArgs([]string{"--config", configPath, "--db", altDB, "import", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import: %v (%s)", err, buf.String())
	}
	if _, err := os.Stat(altDB); err != nil {
		t.Fatalf("override database not created: %v", err)
	}
}
