package graph

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Relativity", "Relativity"},
		{"General relativity", "General_relativity"},
		{"Quantum Leap!", "Quantum_Leap_"},
		{"E=mc²", "E_mc_"},
		{"Théorie", "Th_orie"},
		{"", ""},
		{"123abcXYZ", "123abcXYZ"},
		{"a::b", "a__b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestChildID(t *testing.T) {
	if got := ChildID("Physics", "Relativity"); got != "Physics::Relativity" {
		t.Errorf("ChildID = %q, want %q", got, "Physics::Relativity")
	}

	t.Run("deterministic", func(t *testing.T) {
		a := ChildID("Optics", "Quantum Leap!")
		b := ChildID("Optics", "Quantum Leap!")
		if a != b {
			t.Errorf("ChildID not deterministic: %q != %q", a, b)
		}
	})

	t.Run("documented collision", func(t *testing.T) {
		a := ChildID("Optics", "Quantum Leap!")
		b := ChildID("Optics", "Quantum Leap?")
		if a != b {
			t.Errorf("labels sanitizing to the same string should collide: %q vs %q", a, b)
		}
	})

	t.Run("parent scoped", func(t *testing.T) {
		if ChildID("Optics", "Lens") == ChildID("Astronomy", "Lens") {
			t.Error("same label under different parents should not collide")
		}
	})
}
