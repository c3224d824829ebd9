package proficiency

import (
	"testing"
)

func TestBand(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Level
	}{
		{0, Beginner},
		{25.0, Beginner},
		{25.1, Intermediate},
		{50.0, Intermediate},
		{50.1, Expert},
		{100, Expert},
	}
	for _, tt := range tests {
		if got := Band(tt.accuracy); got != tt.want {
			t.Errorf("Band(%.1f) = %v, want %v", tt.accuracy, got, tt.want)
		}
	}
}

func TestRoundAccuracy(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{100.0 / 3, 33.3},
		{200.0 / 3, 66.7},
		{50, 50},
		{25.04, 25.0},
	}
	for _, tt := range tests {
		if got := RoundAccuracy(tt.in); got != tt.want {
			t.Errorf("RoundAccuracy(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReconcile_Commutative(t *testing.T) {
	levels := append([]Level{Absent}, All()...)
	for _, a := range levels {
		for _, b := range levels {
			if Reconcile(a, b) != Reconcile(b, a) {
				t.Errorf("Reconcile(%v, %v) != Reconcile(%v, %v)", a, b, b, a)
			}
		}
		if got := Reconcile(a, a); got != a {
			t.Errorf("Reconcile(%v, %v) = %v, want %v", a, a, got, a)
		}
	}
}

func TestReconcile_TakesWeaker(t *testing.T) {
	tests := []struct {
		a, b, want Level
	}{
		{Beginner, Expert, Beginner},
		{Intermediate, Expert, Intermediate},
		{Intermediate, Beginner, Beginner},
		{Absent, Expert, Expert},
		{Intermediate, Absent, Intermediate},
	}
	for _, tt := range tests {
		if got := Reconcile(tt.a, tt.b); got != tt.want {
			t.Errorf("Reconcile(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"beginner", Beginner, false},
		{"Intermediate", Intermediate, false},
		{" expert\n", Expert, false},
		{"ADVANCED", Expert, false},
		{"", Absent, false},
		{"fluent", Absent, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	if Expert.QuizLabel() != "advanced" {
		t.Errorf("Expert.QuizLabel() = %q, want advanced", Expert.QuizLabel())
	}
	if Expert.String() != "expert" {
		t.Errorf("Expert.String() = %q, want expert", Expert.String())
	}
	for _, l := range All() {
		back, err := Parse(l.QuizLabel())
		if err != nil || back != l {
			t.Errorf("QuizLabel round trip for %v gave %v, %v", l, back, err)
		}
	}
	if Absent.Rank() != -1 || Beginner.Rank() != 0 || Expert.Rank() != 2 {
		t.Error("unexpected ranks")
	}
}
