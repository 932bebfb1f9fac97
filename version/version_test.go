package version

import "testing"

func TestGetMinorVersion(t *testing.T) {
	if got := GetMinorVersion("0.1.2"); got != "0.1" {
		t.Errorf("Expected 0.1, got %s", got)
	}
	if got := GetMinorVersion("1.0"); got != "1.0" {
		t.Errorf("Expected 1.0, got %s", got)
	}
}

func TestVersionComparison(t *testing.T) {
	if !IsVersionGreaterThan("0.2.0", "0.1.9") {
		t.Errorf("0.2.0 should be greater than 0.1.9")
	}
	if IsVersionGreaterThan("0.1.0", "0.1.0") {
		t.Errorf("0.1.0 should not be greater than itself")
	}
	if !IsVersionGreaterOrEqualThan("0.1.0", "0.1.0") {
		t.Errorf("0.1.0 should be greater or equal than itself")
	}
}
