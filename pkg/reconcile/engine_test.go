package reconcile

import (
	"reflect"
	"testing"

	"github.com/envaudit/envaudit/pkg/scan"
	"github.com/envaudit/envaudit/pkg/spec"
)

func fixtureSpecs() []spec.VariableSpec {
	return []spec.VariableSpec{
		{Name: "API_GATEWAY_PORT", Format: spec.FormatPlain, OwningFile: ".env.core", Action: spec.ActionSeed},
		{Name: "MONGODB_PASSWORD", Format: spec.FormatBase64, OwningFile: ".env.secrets", Action: spec.ActionSeed},
		{Name: "REDIS_URL", Format: spec.FormatURL, OwningFile: ".env.foundation", Action: spec.ActionSeed},
		{Name: "FOO", Format: spec.FormatPlain, OwningFile: ".env.core", Action: spec.ActionManual},
	}
}

func fixtureObserved() []scan.Assignment {
	return []scan.Assignment{
		{File: ".env.core", Name: "API_GATEWAY_PORT", Value: "8080"},
		{File: ".env.core", Name: "REDIS_URL", Value: "redis://core:6379"},
		{File: ".env.core", Name: "FOO", Value: "  "},
	}
}

func TestReconcileScenarios(t *testing.T) {
	ix := NewIndex(fixtureSpecs(), fixtureObserved())
	findings := Reconcile(ix)

	if len(findings) != 4 {
		t.Fatalf("expected exactly one finding per spec, got %d", len(findings))
	}

	byName := make(map[string]Finding)
	for _, f := range findings {
		byName[f.Spec.Name] = f
	}

	// Scenario A: non-blank value in the owning file.
	if got := byName["API_GATEWAY_PORT"].Status; got != StatusFound {
		t.Errorf("API_GATEWAY_PORT: expected FOUND, got %s", got)
	}

	// Scenario B: absent everywhere.
	if got := byName["MONGODB_PASSWORD"].Status; got != StatusMissing {
		t.Errorf("MONGODB_PASSWORD: expected MISSING, got %s", got)
	}

	// Scenario C: absent from the owning file, present elsewhere.
	f := byName["REDIS_URL"]
	if f.Status != StatusWrongFile {
		t.Errorf("REDIS_URL: expected WRONG_FILE, got %s", f.Status)
	}
	if !reflect.DeepEqual(f.FoundIn, []string{".env.core"}) {
		t.Errorf("REDIS_URL: expected detail [.env.core], got %v", f.FoundIn)
	}

	// Scenario E: whitespace-only value in the owning file.
	if got := byName["FOO"].Status; got != StatusEmpty {
		t.Errorf("FOO: expected EMPTY, got %s", got)
	}
}

func TestReconcileOneStatusPerSpec(t *testing.T) {
	ix := NewIndex(fixtureSpecs(), fixtureObserved())
	findings := Reconcile(ix)

	for _, f := range findings {
		switch f.Status {
		case StatusFound, StatusMissing, StatusEmpty, StatusWrongFile:
		default:
			t.Errorf("%s: unexpected status %q", f.Spec.Name, f.Status)
		}
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	specs := fixtureSpecs()
	observed := fixtureObserved()
	specsCopy := append([]spec.VariableSpec(nil), specs...)
	observedCopy := append([]scan.Assignment(nil), observed...)

	ix := NewIndex(specs, observed)
	_ = Reconcile(ix)
	_ = CheckConsistency(observed)

	if !reflect.DeepEqual(specs, specsCopy) {
		t.Error("specs mutated")
	}
	if !reflect.DeepEqual(observed, observedCopy) {
		t.Error("observed assignments mutated")
	}
}

func TestApplyConflicts(t *testing.T) {
	specs := []spec.VariableSpec{
		{Name: "ENCRYPTION_KEY", Format: spec.FormatHex, OwningFile: ".env.foundation", Action: spec.ActionSeed},
		{Name: "SHARED_URL", Format: spec.FormatURL, OwningFile: ".env.foundation", Action: spec.ActionSeed},
	}
	observed := []scan.Assignment{
		{File: ".env.foundation", Name: "ENCRYPTION_KEY", Value: "aaaa"},
		{File: ".env.core", Name: "ENCRYPTION_KEY", Value: "bbbb"},
		// SHARED_URL lives only outside its owning file, with drift.
		{File: ".env.core", Name: "SHARED_URL", Value: "http://a"},
		{File: ".env.node", Name: "SHARED_URL", Value: "http://b"},
	}

	findings := Reconcile(NewIndex(specs, observed))
	conflicts := CheckConsistency(observed)
	findings = ApplyConflicts(findings, conflicts)

	byName := make(map[string]Finding)
	for _, f := range findings {
		byName[f.Spec.Name] = f
	}

	// FOUND plus divergent values is promoted to INCONSISTENT.
	f := byName["ENCRYPTION_KEY"]
	if f.Status != StatusInconsistent {
		t.Errorf("ENCRYPTION_KEY: expected INCONSISTENT, got %s", f.Status)
	}
	if len(f.Conflicting) != 2 {
		t.Errorf("ENCRYPTION_KEY: expected both (file, value) pairs, got %v", f.Conflicting)
	}

	// WRONG_FILE and the conflict are independent signals: the status
	// stays WRONG_FILE while the conflict detail is still attached.
	f = byName["SHARED_URL"]
	if f.Status != StatusWrongFile {
		t.Errorf("SHARED_URL: expected WRONG_FILE, got %s", f.Status)
	}
	if len(f.Conflicting) != 2 {
		t.Errorf("SHARED_URL: expected conflict detail, got %v", f.Conflicting)
	}
}

func TestIndexLookups(t *testing.T) {
	ix := NewIndex(fixtureSpecs(), fixtureObserved())

	if v, ok := ix.Value(".env.core", "API_GATEWAY_PORT"); !ok || v != "8080" {
		t.Errorf("Value: expected (8080, true), got (%q, %v)", v, ok)
	}
	if _, ok := ix.Value(".env.secrets", "API_GATEWAY_PORT"); ok {
		t.Error("Value: expected no assignment in .env.secrets")
	}
	if got := ix.FilesContaining("REDIS_URL"); !reflect.DeepEqual(got, []string{".env.core"}) {
		t.Errorf("FilesContaining: got %v", got)
	}
	if got := ix.FilesContaining("ABSENT"); len(got) != 0 {
		t.Errorf("FilesContaining: expected none, got %v", got)
	}
}
