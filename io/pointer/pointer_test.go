// SPDX-License-Identifier: Unlicense OR MIT

package pointer

import (
	"testing"
)

func TestButtonsString(t *testing.T) {
	for _, tc := range []struct {
		b   Buttons
		res string
	}{
		{ButtonPrimary, "ButtonPrimary"},
		{ButtonPrimary | ButtonTertiary, "ButtonPrimary|ButtonTertiary"},
		{ButtonBack | ButtonForward, "ButtonBack|ButtonForward"},
		{0, ""},
	} {
		t.Run(tc.res, func(t *testing.T) {
			if want, got := tc.res, tc.b.String(); want != got {
				t.Errorf("got %q; want %q", got, want)
			}
		})
	}
}

func TestButtonCodes(t *testing.T) {
	for _, code := range []uint32{BtnLeft, BtnRight, BtnMiddle, BtnSide, BtnExtra, BtnForward, BtnBack, BtnTask} {
		b := ButtonFromCode(code)
		if b == 0 {
			t.Errorf("code %#x has no button", code)
			continue
		}
		if got := b.Code(); got != code {
			t.Errorf("%v.Code() = %#x, want %#x", b, got, code)
		}
	}
	if ButtonFromCode(0x100) != 0 {
		t.Error("BTN_0 is not a mouse button")
	}
	if (ButtonPrimary | ButtonSecondary).Code() != 0 {
		t.Error("a set of buttons has no code")
	}
}

func TestAxisDirection(t *testing.T) {
	for _, tc := range []struct {
		e    AxisEvent
		want Direction
	}{
		{AxisEvent{Orientation: Vertical, Delta: -15}, DirectionUp},
		{AxisEvent{Orientation: Vertical, Delta: 15}, DirectionDown},
		{AxisEvent{Orientation: Horizontal, Delta: -1}, DirectionLeft},
		{AxisEvent{Orientation: Horizontal, Delta: 1}, DirectionRight},
	} {
		if got := tc.e.Direction(); got != tc.want {
			t.Errorf("%+v: got %v, want %v", tc.e, got, tc.want)
		}
	}
}
