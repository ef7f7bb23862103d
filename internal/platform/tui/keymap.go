package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/coindash/internal/core"
)

// DefaultHoldTicks is how long a movement key counts as held after its last
// press or auto-repeat. It must outlast the terminal's initial repeat delay.
const DefaultHoldTicks = 30

// KeyMapper translates Bubble Tea key messages to game actions.
//
// Terminals report presses and auto-repeats but never releases, so movement
// keys are latched for a hold window that each repeat renews. Every other
// action is edge-triggered and lasts a single tick.
type KeyMapper struct {
	holdTicks int
	left      int // Ticks of held left movement remaining
	right     int
}

// NewKeyMapper creates a key mapper. holdTicks <= 0 selects DefaultHoldTicks.
func NewKeyMapper(holdTicks int) *KeyMapper {
	if holdTicks <= 0 {
		holdTicks = DefaultHoldTicks
	}
	return &KeyMapper{holdTicks: holdTicks}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case " ", "w", "up", "k":
		return core.ActionJump, false
	case "enter":
		return core.ActionConfirm, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame records a key message. Movement keys renew the hold window
// and cancel the opposite direction; other actions are set on frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	switch action {
	case core.ActionNone:
	case core.ActionLeft:
		km.left, km.right = km.holdTicks, 0
	case core.ActionRight:
		km.right, km.left = km.holdTicks, 0
	default:
		frame.Set(action)
	}
	return isQuit
}

// ApplyHeld adds the latched movement to frame and ages the latch by one tick.
func (km *KeyMapper) ApplyHeld(frame *core.InputFrame) {
	if km.left > 0 {
		frame.Set(core.ActionLeft)
		km.left--
	}
	if km.right > 0 {
		frame.Set(core.ActionRight)
		km.right--
	}
}

// Release drops any latched movement.
func (km *KeyMapper) Release() {
	km.left, km.right = 0, 0
}
