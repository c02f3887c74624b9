// SPDX-License-Identifier: Unlicense OR MIT

package key

import (
	"errors"
	"fmt"
	"strings"
)

// Combination is a key with the modifiers held while it is pressed,
// written as "Meta+Shift+K".
type Combination struct {
	Modifiers Modifiers
	Name      Name
}

// ErrInvalidCombination is returned by ParseCombination.
var ErrInvalidCombination = errors.New("key: invalid combination")

var modifierNames = map[string]Modifiers{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"meta":    ModSuper,
	"super":   ModSuper,
	"logo":    ModSuper,
}

var nameAliases = map[string]Name{
	"esc":       NameEscape,
	"enter":     NameReturn,
	"backspace": NameDeleteBackward,
	"del":       NameDeleteForward,
	"pageup":    NamePageUp,
	"pagedown":  NamePageDown,
	"sysreq":    NamePrint,
}

// ParseCombination parses a combination such as "Ctrl+Alt+F1". The
// last element names the key, all others must be modifiers. A lone
// modifier is a valid key name.
func ParseCombination(s string) (Combination, error) {
	parts := strings.Split(s, "+")
	var c Combination
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			// "Ctrl++" binds the plus key.
			if i == len(parts)-1 && i > 0 && strings.HasSuffix(s, "++") {
				c.Name = "+"
				return c, nil
			}
			if i == len(parts)-2 && strings.HasSuffix(s, "++") {
				continue
			}
			return Combination{}, fmt.Errorf("%w: %q", ErrInvalidCombination, s)
		}
		if i == len(parts)-1 {
			c.Name = canonicalName(p)
			break
		}
		m, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return Combination{}, fmt.Errorf("%w: %q is not a modifier", ErrInvalidCombination, p)
		}
		c.Modifiers |= m
	}
	return c, nil
}

func canonicalName(p string) Name {
	lower := strings.ToLower(p)
	if n, ok := nameAliases[lower]; ok {
		return n
	}
	for _, n := range codeNames {
		if strings.ToLower(string(n)) == lower {
			return n
		}
	}
	if len(p) == 1 {
		return Name(strings.ToUpper(p))
	}
	return Name(p)
}

func (c Combination) String() string {
	if c.Modifiers == 0 {
		return string(c.Name)
	}
	return c.Modifiers.String() + "+" + string(c.Name)
}
