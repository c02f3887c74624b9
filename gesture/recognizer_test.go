// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"errors"
	"image"
	"testing"

	"inputroute.org/f32"
)

// recorder counts the hooks called on a descriptor.
type recorder struct {
	started, triggered, cancelled int
	progress                      []float32
	deltas                        []f32.Point
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		Started:   func() { r.started++ },
		Progress:  func(v float32) { r.progress = append(r.progress, v) },
		Triggered: func() { r.triggered++ },
		Cancelled: func() { r.cancelled++ },
	}
}

func newSwipe(dir SwipeDirection) (*Swipe, *recorder) {
	rec := new(recorder)
	s := &Swipe{Hooks: rec.hooks(), Direction: dir}
	s.DeltaProgress = func(d f32.Point) { rec.deltas = append(rec.deltas, d) }
	return s, rec
}

func newPinch(dir PinchDirection) (*Pinch, *recorder) {
	rec := new(recorder)
	return &Pinch{Hooks: rec.hooks(), Direction: dir}, rec
}

func mustRegister(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestSwipeFingerBounds(t *testing.T) {
	for _, tc := range []struct {
		name     string
		min, max int
		fingers  int
		started  bool
	}{
		{"at minimum", 3, 0, 3, true},
		{"below minimum", 3, 0, 2, false},
		{"above minimum", 1, 0, 2, true},
		{"at maximum", 0, 4, 4, true},
		{"above maximum", 0, 1, 2, false},
		{"below maximum", 0, 2, 1, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var r Recognizer
			s, rec := newSwipe(SwipeDown)
			if tc.min > 0 {
				s.SetMinimumFingerCount(tc.min)
			}
			if tc.max > 0 {
				s.SetMaximumFingerCount(tc.max)
			}
			mustRegister(t, r.RegisterSwipe(s))
			n := r.StartSwipe(tc.fingers)
			if got := rec.started == 1; got != tc.started {
				t.Errorf("started = %v, want %v", got, tc.started)
			}
			if (n == 1) != tc.started {
				t.Errorf("StartSwipe returned %d", n)
			}
		})
	}
}

func TestPinchFingerBounds(t *testing.T) {
	var r Recognizer
	p, rec := newPinch(PinchExpanding)
	p.SetMinimumFingerCount(2)
	p.SetMaximumFingerCount(3)
	mustRegister(t, r.RegisterPinch(p))
	for _, n := range []int{1, 4} {
		r.StartPinch(n)
		if rec.started != 0 {
			t.Fatalf("started with %d fingers", n)
		}
	}
	r.StartPinch(2)
	if rec.started != 1 {
		t.Errorf("started = %d, want 1", rec.started)
	}
	if min, ok := p.MinimumFingerCount(); !ok || min != 2 {
		t.Errorf("MinimumFingerCount = %d, %v", min, ok)
	}
}

func TestSwipeStartGeometry(t *testing.T) {
	for _, tc := range []struct {
		geometry image.Rectangle
		pos      f32.Point
		started  bool
	}{
		{image.Rect(0, 0, 10, 20), f32.Pt(0, 0), true},
		{image.Rect(0, 0, 10, 20), f32.Pt(10, 0), true},
		{image.Rect(0, 0, 10, 20), f32.Pt(0, 20), true},
		{image.Rect(0, 0, 10, 20), f32.Pt(10, 20), true},
		{image.Rect(10, 20, 40, 60), f32.Pt(9, 25), false},
		{image.Rect(10, 20, 40, 60), f32.Pt(25, 19), false},
		{image.Rect(10, 20, 40, 60), f32.Pt(41, 25), false},
		{image.Rect(10, 20, 40, 60), f32.Pt(25, 61), false},
		{image.Rect(10, 20, 40, 60), f32.Pt(25, 25), true},
	} {
		var r Recognizer
		s, rec := newSwipe(SwipeDown)
		s.SetStartGeometry(tc.geometry)
		mustRegister(t, r.RegisterSwipe(s))
		r.StartSwipeAt(tc.pos)
		if got := rec.started == 1; got != tc.started {
			t.Errorf("%v at %v: started = %v, want %v", tc.geometry, tc.pos, got, tc.started)
		}
	}
}

func TestSwipeWithoutMinimumDeltaTriggers(t *testing.T) {
	for _, tc := range []struct {
		dir   SwipeDirection
		delta f32.Point
	}{
		{SwipeUp, f32.Pt(2, -3)},
		{SwipeLeft, f32.Pt(-3, 1)},
		{SwipeRight, f32.Pt(20, -19)},
		{SwipeDown, f32.Pt(0, 50)},
	} {
		t.Run(tc.dir.String(), func(t *testing.T) {
			var r Recognizer
			s, rec := newSwipe(tc.dir)
			mustRegister(t, r.RegisterSwipe(s))
			r.StartSwipe(1)
			r.UpdateSwipe(tc.delta)
			if rec.cancelled != 0 || rec.triggered != 0 {
				t.Fatalf("update ended the gesture: %+v", rec)
			}
			r.EndSwipe()
			if rec.cancelled != 0 || rec.triggered != 1 {
				t.Errorf("got %d triggers and %d cancels", rec.triggered, rec.cancelled)
			}
		})
	}
	// Ending right after the start triggers too.
	var r Recognizer
	s, rec := newSwipe(SwipeLeft)
	mustRegister(t, r.RegisterSwipe(s))
	r.StartSwipe(3)
	r.EndSwipe()
	if rec.triggered != 1 {
		t.Errorf("triggered = %d, want 1", rec.triggered)
	}
}

func TestSwipeMinimumDelta(t *testing.T) {
	for _, tc := range []struct {
		delta    f32.Point
		progress float32
		reached  bool
	}{
		{f32.Pt(0, 40), 1, true},
		{f32.Pt(0, 30), 1, true},
		{f32.Pt(0, 29), 29.0 / 30, false},
	} {
		var r Recognizer
		s, rec := newSwipe(SwipeDown)
		s.SetMinimumDelta(f32.Pt(0, 30))
		mustRegister(t, r.RegisterSwipe(s))
		r.StartSwipe(1)
		if rec.started != 1 || len(rec.progress) != 0 {
			t.Fatalf("start: %+v", rec)
		}
		r.UpdateSwipe(tc.delta)
		if len(rec.progress) != 1 || rec.progress[0] != tc.progress {
			t.Errorf("%v: progress = %v, want %v", tc.delta, rec.progress, tc.progress)
		}
		if len(rec.deltas) != 1 || rec.deltas[0] != tc.delta {
			t.Errorf("%v: delta progress = %v", tc.delta, rec.deltas)
		}
		r.EndSwipe()
		if got := rec.triggered == 1; got != tc.reached {
			t.Errorf("%v: triggered = %v, want %v", tc.delta, got, tc.reached)
		}
		if got := rec.cancelled == 1; got == tc.reached {
			t.Errorf("%v: cancelled = %v", tc.delta, got)
		}
	}
}

func TestPinchMinimumScaleDelta(t *testing.T) {
	for _, tc := range []struct {
		scale    float32
		progress float32
		reached  bool
	}{
		{0.75, 1, true},
		{0.9, 0.5, false},
		{0.5, 1, true},
	} {
		var r Recognizer
		p, rec := newPinch(PinchContracting)
		mustRegister(t, r.RegisterPinch(p))
		r.StartPinch(4)
		r.UpdatePinch(tc.scale, 0, f32.Point{})
		if len(rec.progress) != 1 || abs(rec.progress[0]-tc.progress) > 1e-5 {
			t.Errorf("scale %v: progress = %v, want %v", tc.scale, rec.progress, tc.progress)
		}
		r.EndPinch()
		if got := rec.triggered == 1; got != tc.reached {
			t.Errorf("scale %v: triggered = %v, want %v", tc.scale, got, tc.reached)
		}
	}
}

func TestPinchEndWithoutUpdate(t *testing.T) {
	var r Recognizer
	p, rec := newPinch(PinchExpanding)
	mustRegister(t, r.RegisterPinch(p))
	r.StartPinch(2)
	r.EndPinch()
	if rec.triggered != 0 || rec.cancelled != 1 {
		t.Errorf("pinch without scale change: %+v", rec)
	}
}

func TestRegisterTwice(t *testing.T) {
	var r, r2 Recognizer
	s, _ := newSwipe(SwipeUp)
	mustRegister(t, r.RegisterSwipe(s))
	if err := r.RegisterSwipe(s); !errors.Is(err, ErrRegistered) {
		t.Errorf("second RegisterSwipe = %v, want ErrRegistered", err)
	}
	if err := r2.RegisterSwipe(s); !errors.Is(err, ErrRegistered) {
		t.Errorf("RegisterSwipe on another recognizer = %v, want ErrRegistered", err)
	}
	p, _ := newPinch(PinchExpanding)
	mustRegister(t, r.RegisterPinch(p))
	if err := r.RegisterPinch(p); !errors.Is(err, ErrRegistered) {
		t.Errorf("second RegisterPinch = %v, want ErrRegistered", err)
	}
	r.StartSwipe(1)
	if len(r.activeSwipes) != 1 {
		t.Errorf("descriptor active %d times", len(r.activeSwipes))
	}
}

func TestUnregisterCancels(t *testing.T) {
	var r Recognizer
	s, rec := newSwipe(SwipeUp)
	mustRegister(t, r.RegisterSwipe(s))
	r.StartSwipe(1)
	r.UnregisterSwipe(s)
	if rec.cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", rec.cancelled)
	}
	r.UpdateSwipe(f32.Pt(0, -20))
	r.EndSwipe()
	r.UnregisterSwipe(s)
	if rec.cancelled != 1 || rec.triggered != 0 || len(rec.progress) != 0 || rec.started != 1 {
		t.Errorf("signals after unregister: %+v", rec)
	}

	p, prec := newPinch(PinchExpanding)
	mustRegister(t, r.RegisterPinch(p))
	r.StartPinch(2)
	r.UnregisterPinch(p)
	r.UnregisterPinch(p)
	if prec.cancelled != 1 {
		t.Errorf("pinch cancelled = %d, want 1", prec.cancelled)
	}
}

func TestDestroyCancelsOnce(t *testing.T) {
	var r Recognizer
	s, rec := newSwipe(SwipeRight)
	mustRegister(t, r.RegisterSwipe(s))
	r.StartSwipe(2)
	s.Destroy()
	if rec.cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", rec.cancelled)
	}
	s.Destroy()
	r.UpdateSwipe(f32.Pt(30, 0))
	r.EndSwipe()
	r.CancelSwipe()
	if rec.cancelled != 1 || rec.triggered != 0 || len(rec.progress) != 0 {
		t.Errorf("signals after destroy: %+v", rec)
	}
	if err := r.RegisterSwipe(s); !errors.Is(err, ErrDestroyed) {
		t.Errorf("RegisterSwipe of destroyed = %v", err)
	}

	// Destroying an inactive descriptor is silent.
	p, prec := newPinch(PinchExpanding)
	mustRegister(t, r.RegisterPinch(p))
	p.Destroy()
	if prec.cancelled != 0 || len(r.pinches) != 0 {
		t.Errorf("inactive destroy: %+v, %d registered", prec, len(r.pinches))
	}
}

func TestDestroyFromHook(t *testing.T) {
	var r Recognizer
	a, arec := newSwipe(SwipeDown)
	b, brec := newSwipe(SwipeDown)
	a.Progress = func(float32) { b.Destroy() }
	mustRegister(t, r.RegisterSwipe(a))
	mustRegister(t, r.RegisterSwipe(b))
	r.StartSwipe(3)
	r.UpdateSwipe(f32.Pt(0, 10))
	if brec.cancelled != 1 || len(brec.progress) != 0 {
		t.Errorf("destroyed descriptor: %+v", brec)
	}
	r.EndSwipe()
	if arec.triggered != 1 || brec.triggered != 0 {
		t.Errorf("a triggered %d, b triggered %d", arec.triggered, brec.triggered)
	}
}

func TestCancel(t *testing.T) {
	var r Recognizer
	s, rec := newSwipe(SwipeUp)
	mustRegister(t, r.RegisterSwipe(s))
	r.StartSwipe(1)
	r.UpdateSwipe(f32.Pt(0, -100))
	r.CancelSwipe()
	if rec.cancelled != 1 || rec.triggered != 0 {
		t.Errorf("cancel: %+v", rec)
	}
	if r.Active() || r.Fingers() != 0 {
		t.Error("cancel must reset the sequence")
	}
}

func TestNoProgressBeforeDirection(t *testing.T) {
	var r Recognizer
	up, uprec := newSwipe(SwipeUp)
	down, downrec := newSwipe(SwipeDown)
	right, rightrec := newSwipe(SwipeRight)
	expand, exprec := newPinch(PinchExpanding)
	contract, conrec := newPinch(PinchContracting)
	for _, s := range []*Swipe{up, down, right} {
		mustRegister(t, r.RegisterSwipe(s))
	}
	mustRegister(t, r.RegisterPinch(expand))
	mustRegister(t, r.RegisterPinch(contract))

	count := func(want ...int) {
		t.Helper()
		got := []int{len(uprec.progress), len(downrec.progress), len(rightrec.progress)}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("progress counts = %v, want %v", got, want)
			}
		}
	}
	r.StartSwipe(4)
	count(0, 0, 0)
	r.UpdateSwipe(f32.Pt(0, -1.5))
	count(1, 0, 0)
	// The axis isn't locked yet, so the sign change picks up down.
	r.UpdateSwipe(f32.Pt(0, 3))
	count(1, 1, 0)
	r.CancelSwipe()
	r.StartSwipe(4)
	r.UpdateSwipe(f32.Pt(1, 0))
	count(1, 1, 1)
	r.CancelSwipe()

	r.StartPinch(4)
	if len(exprec.progress) != 0 || len(conrec.progress) != 0 {
		t.Fatal("pinch progress before update")
	}
	r.UpdatePinch(0.5, 0, f32.Point{})
	if len(exprec.progress) != 0 || len(conrec.progress) != 1 {
		t.Fatalf("contracting: %d/%d", len(exprec.progress), len(conrec.progress))
	}
	r.UpdatePinch(1.5, 0, f32.Point{})
	if len(exprec.progress) != 1 || len(conrec.progress) != 1 {
		t.Fatalf("expanding: %d/%d", len(exprec.progress), len(conrec.progress))
	}
}

func TestFourDirections(t *testing.T) {
	var r Recognizer
	recs := map[SwipeDirection]*recorder{}
	for _, dir := range []SwipeDirection{SwipeUp, SwipeDown, SwipeLeft, SwipeRight} {
		s, rec := newSwipe(dir)
		recs[dir] = rec
		mustRegister(t, r.RegisterSwipe(s))
	}
	if n := r.StartSwipe(4); n != 4 {
		t.Fatalf("started %d, want 4", n)
	}
	r.UpdateSwipe(f32.Pt(1, 20))
	for dir, rec := range recs {
		wantCancel := 1
		if dir == SwipeDown {
			wantCancel = 0
		}
		if rec.cancelled != wantCancel {
			t.Errorf("%v cancelled %d times, want %d", dir, rec.cancelled, wantCancel)
		}
	}
	// The vertical axis is locked; going back past the start flips
	// the direction to up. The emptied active set restarts the
	// vertical swipes, and down is eliminated again.
	r.UpdateSwipe(f32.Pt(-2, -30))
	if d := recs[SwipeDown]; d.cancelled != 2 || d.started != 2 || len(d.progress) != 1 {
		t.Errorf("down: %+v", d)
	}
	if recs[SwipeLeft].started != 1 || recs[SwipeRight].started != 1 {
		t.Error("horizontal swipes restarted on a vertical axis")
	}
	if recs[SwipeUp].started != 2 || len(recs[SwipeUp].progress) != 1 {
		t.Errorf("up: %+v", recs[SwipeUp])
	}
	r.EndSwipe()
	if recs[SwipeUp].triggered != 1 || recs[SwipeDown].triggered != 0 {
		t.Error("only up must trigger")
	}
}

func TestReversalWithinStartSide(t *testing.T) {
	var r Recognizer
	recs := map[SwipeDirection]*recorder{}
	for _, dir := range []SwipeDirection{SwipeUp, SwipeDown, SwipeLeft, SwipeRight} {
		s, rec := newSwipe(dir)
		recs[dir] = rec
		mustRegister(t, r.RegisterSwipe(s))
	}
	r.StartSwipe(4)
	r.UpdateSwipe(f32.Pt(1, 20))
	// The movement accumulates to (-1, 10): still below the start, so
	// the direction stays down.
	r.UpdateSwipe(f32.Pt(-2, -10))
	r.EndSwipe()
	down := recs[SwipeDown]
	if down.started != 1 || down.cancelled != 0 || down.triggered != 1 {
		t.Errorf("down: %+v", down)
	}
	if len(down.progress) != 2 {
		t.Errorf("down progress %v, want two updates", down.progress)
	}
	for _, dir := range []SwipeDirection{SwipeUp, SwipeLeft, SwipeRight} {
		if rec := recs[dir]; rec.triggered != 0 || rec.cancelled != 1 {
			t.Errorf("%v: %+v", dir, rec)
		}
	}
}

func TestDestroyWhileSettling(t *testing.T) {
	tests := []struct {
		name   string
		settle func(r *Recognizer)
	}{
		{"end", (*Recognizer).EndSwipe},
		{"cancel", (*Recognizer).CancelSwipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Recognizer
			a, recA := newSwipe(SwipeDown)
			b, recB := newSwipe(SwipeDown)
			a.Triggered = func() { recA.triggered++; b.Destroy() }
			a.Cancelled = func() { recA.cancelled++; b.Destroy() }
			mustRegister(t, r.RegisterSwipe(a))
			mustRegister(t, r.RegisterSwipe(b))
			if n := r.StartSwipe(3); n != 2 {
				t.Fatalf("started %d, want 2", n)
			}
			r.UpdateSwipe(f32.Pt(0, 10))
			tt.settle(&r)
			if recA.triggered+recA.cancelled != 1 {
				t.Errorf("first swipe: %+v", recA)
			}
			if recB.cancelled != 1 || recB.triggered != 0 {
				t.Errorf("destroyed swipe: %+v, want exactly one cancel", recB)
			}
		})
	}
}

func TestDestroyPinchWhileSettling(t *testing.T) {
	var r Recognizer
	a, recA := newPinch(PinchExpanding)
	b, recB := newPinch(PinchExpanding)
	a.Cancelled = func() { recA.cancelled++; b.Destroy() }
	mustRegister(t, r.RegisterPinch(a))
	mustRegister(t, r.RegisterPinch(b))
	r.StartPinch(2)
	r.UpdatePinch(1.05, 0, f32.Point{})
	r.EndPinch()
	if recA.cancelled != 1 || recB.cancelled != 1 || recB.triggered != 0 {
		t.Errorf("got %+v and %+v, want one cancel each", recA, recB)
	}
}

func TestDiagonalIsAmbiguous(t *testing.T) {
	var r Recognizer
	var recs []*recorder
	for _, dir := range []SwipeDirection{SwipeUp, SwipeDown, SwipeLeft, SwipeRight} {
		s, rec := newSwipe(dir)
		recs = append(recs, rec)
		mustRegister(t, r.RegisterSwipe(s))
	}
	r.StartSwipe(3)
	r.UpdateSwipe(f32.Pt(10, -10))
	r.UpdateSwipe(f32.Pt(0, -10))
	r.EndSwipe()
	for i, rec := range recs {
		if rec.cancelled != 1 || rec.triggered != 0 || len(rec.progress) != 0 {
			t.Errorf("descriptor %d: %+v", i, rec)
		}
	}
	// The next sequence is unaffected.
	r.StartSwipe(3)
	r.UpdateSwipe(f32.Pt(0, -10))
	r.EndSwipe()
	if recs[0].triggered != 1 {
		t.Error("up must trigger after the ambiguous sequence")
	}
}

func TestBorderSwipeSurvivesDirectionChange(t *testing.T) {
	var r Recognizer
	s, rec := newSwipe(SwipeUp)
	s.SetStartGeometry(image.Rect(0, 1000, 1920, 1080))
	s.SetMinimumDelta(f32.Pt(0, 100))
	mustRegister(t, r.RegisterSwipe(s))
	if r.StartSwipeAt(f32.Pt(500, 1070)) != 1 {
		t.Fatal("border swipe did not start")
	}
	r.UpdateSwipe(f32.Pt(0, 40))
	if rec.cancelled != 0 || len(rec.progress) != 1 {
		t.Fatalf("border swipe was eliminated: %+v", rec)
	}
	r.UpdateSwipe(f32.Pt(0, -200))
	r.EndSwipe()
	if rec.triggered != 1 {
		t.Errorf("border swipe: %+v", rec)
	}
}

func TestFamiliesExclusive(t *testing.T) {
	var r Recognizer
	s, srec := newSwipe(SwipeUp)
	p, prec := newPinch(PinchExpanding)
	mustRegister(t, r.RegisterSwipe(s))
	mustRegister(t, r.RegisterPinch(p))
	r.StartSwipe(3)
	if n := r.StartPinch(3); n != 0 || prec.started != 0 {
		t.Errorf("pinch started during swipe: %d", n)
	}
	if n := r.StartSwipe(3); n != 0 || srec.started != 1 {
		t.Errorf("swipe double started: %d", n)
	}
}

func TestTuning(t *testing.T) {
	r := Recognizer{LockThreshold: 50}
	left, lrec := newSwipe(SwipeLeft)
	down, drec := newSwipe(SwipeDown)
	mustRegister(t, r.RegisterSwipe(left))
	mustRegister(t, r.RegisterSwipe(down))
	r.StartSwipe(3)
	r.UpdateSwipe(f32.Pt(-20, 5))
	// Below the threshold the axis may still change.
	r.UpdateSwipe(f32.Pt(0, 30))
	if lrec.cancelled != 2 || drec.cancelled != 1 || len(drec.progress) != 1 {
		t.Errorf("left %+v, down %+v", lrec, drec)
	}
}
