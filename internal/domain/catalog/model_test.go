package catalog

import "testing"

func TestPhaseIndexAndValid(t *testing.T) {
	for i, phase := range PhaseOrder {
		if phase.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", phase, phase.Index(), i)
		}
		if !phase.Valid() {
			t.Errorf("%s should be valid", phase)
		}
	}

	unknown := Phase("mystery")
	if unknown.Valid() {
		t.Error("unknown phase should not be valid")
	}
	if unknown.Index() != len(PhaseOrder) {
		t.Errorf("unknown Index() = %d, want %d (sorts last)", unknown.Index(), len(PhaseOrder))
	}
}

func TestThrough(t *testing.T) {
	cases := []struct {
		phase Phase
		want  []Phase
	}{
		{PhaseInitial, []Phase{PhaseInitial}},
		{PhaseGood, []Phase{PhaseInitial, PhaseEssential, PhaseGood}},
		{PhaseExcellent, []Phase{PhaseInitial, PhaseEssential, PhaseGood, PhaseExcellent}},
		{Phase("mystery"), []Phase{PhaseInitial, PhaseEssential, PhaseGood, PhaseExcellent}},
	}
	for _, tc := range cases {
		got := Through(tc.phase)
		if len(got) != len(tc.want) {
			t.Fatalf("Through(%s) = %v, want %v", tc.phase, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("Through(%s) = %v, want %v", tc.phase, got, tc.want)
			}
		}
	}
}

func TestIsMandatory(t *testing.T) {
	mandatory := Question{Severity: SeverityMandatory}
	optional := Question{Severity: SeverityOptional}
	if !mandatory.IsMandatory() || optional.IsMandatory() {
		t.Error("severity mapping broken")
	}
}
