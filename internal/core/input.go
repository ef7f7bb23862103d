package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A - held movement
	ActionRight          // Right arrow, D - held movement
	ActionJump           // Space, Up, W - edge-triggered jump (also starts a session)
	ActionConfirm        // Enter - start from the title screen
	ActionRestart        // R - restart after the session ended
	ActionPause          // P, Escape - pause/unpause
	ActionQuit           // Q, Ctrl+C - end the session and exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionConfirm:
		return "Confirm"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for one simulation tick.
// Movement actions are set on every tick they are held; all other
// actions are set only on the tick they were pressed.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Direction folds the held movement actions into -1, 0 or +1.
// Holding both directions cancels out.
func (f InputFrame) Direction() int {
	dir := 0
	if f.Has(ActionLeft) {
		dir--
	}
	if f.Has(ActionRight) {
		dir++
	}
	return dir
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
