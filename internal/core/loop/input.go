package loop

// InputSnapshot is the immutable per-frame device state injected into Update
// and exposed read-only through the Context. The loop never mutates it; the
// windowing adapter that polled the devices owns the capture.
type InputSnapshot struct {
	pressed map[string]bool
	axes    map[string]float64
}

// NewInputSnapshot captures the given state. The maps are copied so later
// mutation by the poller cannot leak into a frame already running.
func NewInputSnapshot(pressed map[string]bool, axes map[string]float64) InputSnapshot {
	s := InputSnapshot{}
	if len(pressed) > 0 {
		s.pressed = make(map[string]bool, len(pressed))
		for k, v := range pressed {
			s.pressed[k] = v
		}
	}
	if len(axes) > 0 {
		s.axes = make(map[string]float64, len(axes))
		for k, v := range axes {
			s.axes[k] = v
		}
	}
	return s
}

// Pressed reports whether the named control was down at poll time.
func (s InputSnapshot) Pressed(name string) bool {
	return s.pressed[name]
}

// Axis returns the named axis value at poll time, 0 if absent.
func (s InputSnapshot) Axis(name string) float64 {
	return s.axes[name]
}
