package reconcile

import (
	"reflect"
	"testing"

	"github.com/envaudit/envaudit/pkg/scan"
)

func TestCheckConsistencyScenarioD(t *testing.T) {
	observed := []scan.Assignment{
		{File: ".env.foundation", Name: "ENCRYPTION_KEY", Value: "deadbeef"},
		{File: ".env.core", Name: "ENCRYPTION_KEY", Value: "cafebabe"},
	}

	conflicts := CheckConsistency(observed)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}

	want := Conflict{
		Name: "ENCRYPTION_KEY",
		Values: []FileValue{
			{File: ".env.core", Value: "cafebabe"},
			{File: ".env.foundation", Value: "deadbeef"},
		},
	}
	if !reflect.DeepEqual(conflicts[0], want) {
		t.Errorf("expected %+v, got %+v", want, conflicts[0])
	}
}

func TestCheckConsistencySymmetry(t *testing.T) {
	forward := []scan.Assignment{
		{File: "a", Name: "X", Value: "1"},
		{File: "b", Name: "X", Value: "2"},
	}
	reversed := []scan.Assignment{
		{File: "b", Name: "X", Value: "2"},
		{File: "a", Name: "X", Value: "1"},
	}

	if !reflect.DeepEqual(CheckConsistency(forward), CheckConsistency(reversed)) {
		t.Error("conflict detail depends on scan order")
	}
}

func TestCheckConsistencyAllPairsListed(t *testing.T) {
	// Two files agree, one diverges: every pair is listed, not just the
	// first divergence found.
	observed := []scan.Assignment{
		{File: "a", Name: "X", Value: "same"},
		{File: "b", Name: "X", Value: "same"},
		{File: "c", Name: "X", Value: "different"},
	}

	conflicts := CheckConsistency(observed)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if len(conflicts[0].Values) != 3 {
		t.Errorf("expected all 3 (file, value) pairs, got %v", conflicts[0].Values)
	}
}

func TestCheckConsistencyAgreementIsClean(t *testing.T) {
	observed := []scan.Assignment{
		{File: "a", Name: "X", Value: "same"},
		{File: "b", Name: "X", Value: "same"},
		{File: "a", Name: "ONLY_ONCE", Value: "1"},
	}

	if conflicts := CheckConsistency(observed); len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %+v", conflicts)
	}
}

func TestCheckConsistencyIgnoresSpec(t *testing.T) {
	// Drift on undocumented names is still reported.
	observed := []scan.Assignment{
		{File: "a", Name: "UNDOCUMENTED", Value: "1"},
		{File: "b", Name: "UNDOCUMENTED", Value: "2"},
	}

	conflicts := CheckConsistency(observed)
	if len(conflicts) != 1 || conflicts[0].Name != "UNDOCUMENTED" {
		t.Errorf("expected a conflict for UNDOCUMENTED, got %+v", conflicts)
	}
}
