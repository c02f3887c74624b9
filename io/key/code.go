// SPDX-License-Identifier: Unlicense OR MIT

package key

// Linux input event codes of the keys with a Name.
const (
	CodeEscape     uint32 = 1
	CodeBackspace  uint32 = 14
	CodeTab        uint32 = 15
	CodeEnter      uint32 = 28
	CodeLeftCtrl   uint32 = 29
	CodeLeftShift  uint32 = 42
	CodeRightShift uint32 = 54
	CodeLeftAlt    uint32 = 56
	CodeSpace      uint32 = 57
	CodeKPEnter    uint32 = 96
	CodeRightCtrl  uint32 = 97
	CodeSysRq      uint32 = 99
	CodeRightAlt   uint32 = 100
	CodeHome       uint32 = 102
	CodeUp         uint32 = 103
	CodePageUp     uint32 = 104
	CodeLeft       uint32 = 105
	CodeRight      uint32 = 106
	CodeEnd        uint32 = 107
	CodeDown       uint32 = 108
	CodePageDown   uint32 = 109
	CodeInsert     uint32 = 110
	CodeDelete     uint32 = 111
	CodePower      uint32 = 116
	CodePause      uint32 = 119
	CodeLeftMeta   uint32 = 125
	CodeRightMeta  uint32 = 126
)

var codeNames = map[uint32]Name{
	CodeEscape:     NameEscape,
	CodeBackspace:  NameDeleteBackward,
	CodeTab:        NameTab,
	CodeEnter:      NameReturn,
	CodeLeftCtrl:   NameCtrl,
	CodeRightCtrl:  NameCtrl,
	CodeLeftShift:  NameShift,
	CodeRightShift: NameShift,
	CodeLeftAlt:    NameAlt,
	CodeRightAlt:   NameAlt,
	CodeLeftMeta:   NameSuper,
	CodeRightMeta:  NameSuper,
	CodeSpace:      NameSpace,
	CodeKPEnter:    NameEnter,
	CodeSysRq:      NamePrint,
	CodeHome:       NameHome,
	CodeUp:         NameUpArrow,
	CodePageUp:     NamePageUp,
	CodeLeft:       NameLeftArrow,
	CodeRight:      NameRightArrow,
	CodeEnd:        NameEnd,
	CodeDown:       NameDownArrow,
	CodePageDown:   NamePageDown,
	CodeInsert:     NameInsert,
	CodeDelete:     NameDeleteForward,
	CodePower:      NamePower,
	CodePause:      NamePause,
	// Digits.
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	12: "-", 13: "=", 26: "[", 27: "]", 39: ";", 40: "'", 41: "`", 43: "\\",
	51: ",", 52: ".", 53: "/",
	// Letters.
	16: "Q", 17: "W", 18: "E", 19: "R", 20: "T", 21: "Y", 22: "U", 23: "I", 24: "O", 25: "P",
	30: "A", 31: "S", 32: "D", 33: "F", 34: "G", 35: "H", 36: "J", 37: "K", 38: "L",
	44: "Z", 45: "X", 46: "C", 47: "V", 48: "B", 49: "N", 50: "M",
	// Function keys.
	59: NameF1, 60: NameF2, 61: NameF3, 62: NameF4, 63: NameF5,
	64: NameF6, 65: NameF7, 66: NameF8, 67: NameF9, 68: NameF10,
	87: NameF11, 88: NameF12,
}

// NameOf returns the Name of a linux key code, or the empty Name.
func NameOf(code uint32) Name {
	return codeNames[code]
}

// ModifierOf returns the modifier a key code toggles, or zero.
func ModifierOf(code uint32) Modifiers {
	switch code {
	case CodeLeftCtrl, CodeRightCtrl:
		return ModCtrl
	case CodeLeftShift, CodeRightShift:
		return ModShift
	case CodeLeftAlt, CodeRightAlt:
		return ModAlt
	case CodeLeftMeta, CodeRightMeta:
		return ModSuper
	}
	return 0
}

// FunctionNumber returns n for the key Fn, or zero.
func FunctionNumber(n Name) int {
	for i, f := range [...]Name{NameF1, NameF2, NameF3, NameF4, NameF5, NameF6, NameF7, NameF8, NameF9, NameF10, NameF11, NameF12} {
		if f == n {
			return i + 1
		}
	}
	return 0
}
