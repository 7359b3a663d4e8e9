package pipeline

// Input events are delivered to the driver over a queue and applied
// synchronously once per frame iteration. Callbacks never mutate
// pipeline state directly.

// Event is a single discrete input event.
type Event interface {
	isEvent()
}

// KeyEvent is a single-character keyboard command.
type KeyEvent struct {
	Key rune
}

// MouseMoveEvent updates the cursor position, in stacked-display
// coordinates.
type MouseMoveEvent struct {
	X, Y int
}

// MouseClickEvent records a left click, in stacked-display
// coordinates.
type MouseClickEvent struct {
	X, Y int
}

func (KeyEvent) isEvent()        {}
func (MouseMoveEvent) isEvent()  {}
func (MouseClickEvent) isEvent() {}

// Key bindings, matching the payload's operator card.
const (
	KeyQuit          = 'q'
	KeyPeakHold      = 'h'
	KeyMeasure       = 'm'
	KeyRecordPixels  = 'p'
	KeyCalibrate     = 'c'
	KeyClearPoints   = 'x'
	KeySave          = 's'
	KeyOrderUp       = 'o'
	KeyOrderDown     = 'l'
	KeyMinDistUp     = 'i'
	KeyMinDistDown   = 'k'
	KeyThresholdUp   = 'u'
	KeyThresholdDown = 'j'
)
