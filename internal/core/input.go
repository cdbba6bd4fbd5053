package core

// Action is a semantic input, decoupled from physical keys.
type Action uint8

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionRotate          // W, Up arrow
	ActionSoftDrop        // S, Down arrow
	ActionHardDrop        // Space
	ActionPause           // P
	ActionRestart         // R
	ActionConfirm         // Enter
	ActionBack            // Esc
	ActionQuit            // Q, Ctrl+C

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:     "None",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionRotate:   "Rotate",
	ActionSoftDrop: "SoftDrop",
	ActionHardDrop: "HardDrop",
	ActionPause:    "Pause",
	ActionRestart:  "Restart",
	ActionConfirm:  "Confirm",
	ActionBack:     "Back",
	ActionQuit:     "Quit",
}

// String returns the action name.
func (a Action) String() string {
	if a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	bits uint32
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone || a >= actionCount {
		return
	}
	f.bits |= 1 << a
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.bits&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.bits = 0
}

// Actions returns the triggered actions in declaration order.
func (f InputFrame) Actions() []Action {
	var out []Action
	for a := ActionNone + 1; a < actionCount; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}
