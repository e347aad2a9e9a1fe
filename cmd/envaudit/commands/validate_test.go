package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func fixtureTree(t *testing.T) (specPath, envDir string) {
	t.Helper()
	root := t.TempDir()

	specPath = filepath.Join(root, "ENV-VARIABLES.md")
	doc := strings.Join([]string{
		"## Core services (`.env.core`)",
		"| Variable | Format | Description |",
		"|---|---|---|",
		"| `API_GATEWAY_PORT` | PLAIN | gateway listen port |",
		"",
		"## Secrets (`.env.secrets`)",
		"| Variable | Format | Description |",
		"|---|---|---|",
		"| `JWT_SECRET` | BASE64 | session signing key |",
		"| `MONGODB_PASSWORD` | BASE64 | database password |",
	}, "\n")
	if err := os.WriteFile(specPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	envDir = filepath.Join(root, "env")
	if err := os.Mkdir(envDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFixture(t, envDir, ".env.core", "API_GATEWAY_PORT=8080\n")
	writeFixture(t, envDir, ".env.secrets", "JWT_SECRET=c2VjcmV0\n")
	return specPath, envDir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand("test", "none", "now")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	specPath, envDir := fixtureTree(t)
	reportDir := t.TempDir()

	out, err := runCLI(t,
		"validate",
		"--spec", specPath,
		"--env-dir", envDir,
		"--report-dir", reportDir,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	entries, err := os.ReadDir(reportDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one report file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "env-validation-report-") || !strings.HasSuffix(name, ".md") {
		t.Errorf("unexpected report name %s", name)
	}

	data, err := os.ReadFile(filepath.Join(reportDir, name))
	if err != nil {
		t.Fatal(err)
	}
	// MONGODB_PASSWORD is documented but never generated.
	if !strings.Contains(string(data), "MONGODB_PASSWORD") {
		t.Error("report missing the MISSING finding")
	}
}

func TestValidateCommandStrict(t *testing.T) {
	specPath, envDir := fixtureTree(t)

	// MONGODB_PASSWORD is missing, so strict mode must fail.
	_, err := runCLI(t,
		"validate",
		"--spec", specPath,
		"--env-dir", envDir,
		"--report-dir", t.TempDir(),
		"--strict",
	)
	if err == nil {
		t.Fatal("expected strict mode to report failure")
	}
	if !strings.Contains(err.Error(), "strict mode") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCommandJSON(t *testing.T) {
	specPath, envDir := fixtureTree(t)

	out, err := runCLI(t,
		"validate",
		"--spec", specPath,
		"--env-dir", envDir,
		"--report-dir", t.TempDir(),
		"--json",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = out // JSON goes to process stdout; reaching here without error is the contract
}

func TestValidateCommandMissingInputs(t *testing.T) {
	_, envDir := fixtureTree(t)

	// Missing spec document is fatal.
	if _, err := runCLI(t,
		"validate",
		"--spec", "absent.md",
		"--env-dir", envDir,
		"--report-dir", t.TempDir(),
	); err == nil {
		t.Fatal("expected failure for a missing spec document")
	}

	// Missing config directory is fatal.
	specPath, _ := fixtureTree(t)
	if _, err := runCLI(t,
		"validate",
		"--spec", specPath,
		"--env-dir", filepath.Join(t.TempDir(), "absent"),
		"--report-dir", t.TempDir(),
	); err == nil {
		t.Fatal("expected failure for a missing config directory")
	}
}
