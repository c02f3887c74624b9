// SPDX-License-Identifier: Unlicense OR MIT

package key

import (
	"errors"
	"testing"
)

func TestParseCombination(t *testing.T) {
	tests := []struct {
		in   string
		want Combination
	}{
		{"A", Combination{Name: "A"}},
		{"meta+shift+k", Combination{ModSuper | ModShift, "K"}},
		{"Ctrl+Alt+F1", Combination{ModCtrl | ModAlt, NameF1}},
		{"Ctrl+Alt+Backspace", Combination{ModCtrl | ModAlt, NameDeleteBackward}},
		{"Super+Esc", Combination{ModSuper, NameEscape}},
		{"Alt+Tab", Combination{ModAlt, NameTab}},
		{"Ctrl++", Combination{ModCtrl, "+"}},
		{"Meta", Combination{Name: NameSuper}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCombination(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
	for _, bad := range []string{"", "Ctrl+", "Foo+A", "+A"} {
		if _, err := ParseCombination(bad); !errors.Is(err, ErrInvalidCombination) {
			t.Errorf("ParseCombination(%q) = %v, want ErrInvalidCombination", bad, err)
		}
	}
}

func TestCombinationString(t *testing.T) {
	c := Combination{ModShift | ModCtrl | ModSuper | ModAlt, "K"}
	if got, want := c.String(), "Meta+Ctrl+Alt+Shift+K"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := (Combination{Name: NameF5}).String(); got != "F5" {
		t.Errorf("got %q", got)
	}
}

func TestCodes(t *testing.T) {
	if NameOf(30) != "A" || NameOf(CodeEscape) != NameEscape || NameOf(0) != "" {
		t.Error("unexpected key names")
	}
	for code, want := range map[uint32]Modifiers{
		CodeLeftCtrl:  ModCtrl,
		CodeRightAlt:  ModAlt,
		CodeLeftMeta:  ModSuper,
		CodeLeftShift: ModShift,
		30:            0,
	} {
		if got := ModifierOf(code); got != want {
			t.Errorf("ModifierOf(%d) = %v, want %v", code, got, want)
		}
	}
	if FunctionNumber(NameF12) != 12 || FunctionNumber("A") != 0 {
		t.Error("unexpected function key numbers")
	}
}
