package domain

import (
	"math"
	"testing"
)

func TestParseQueryStatus(t *testing.T) {
	for _, valid := range []string{"new", "in_progress", "resolved"} {
		status, ok := ParseQueryStatus(valid)
		if !ok {
			t.Errorf("%q should parse", valid)
		}
		if string(status) != valid {
			t.Errorf("parsed %q as %q", valid, status)
		}
	}
	for _, invalid := range []string{"", "NEW", "open", "in progress", "Resolved"} {
		if _, ok := ParseQueryStatus(invalid); ok {
			t.Errorf("%q should not parse", invalid)
		}
	}
}

func TestExposesPayment(t *testing.T) {
	if QueryStatusNew.ExposesPayment() {
		t.Error("new must not expose payment fields")
	}
	if !QueryStatusInProgress.ExposesPayment() {
		t.Error("in_progress must expose payment fields")
	}
	if !QueryStatusResolved.ExposesPayment() {
		t.Error("resolved must expose payment fields")
	}
}

func TestFiniteAmount(t *testing.T) {
	for _, v := range []float64{0, 49.99, -1, 1e12} {
		if !FiniteAmount(v) {
			t.Errorf("%v should be finite", v)
		}
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if FiniteAmount(v) {
			t.Errorf("%v should not be finite", v)
		}
	}
}
