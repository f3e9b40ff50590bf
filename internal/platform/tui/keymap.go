package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q", "Q":
		return core.ActionQuit, true
	case "w", "W", "up":
		return core.ActionUp, false
	case "s", "S", "down":
		return core.ActionDown, false
	case "a", "A", "left":
		return core.ActionLeft, false
	case "d", "D", "right":
		return core.ActionRight, false
	case " ", "space":
		return core.ActionStart, false
	case "esc":
		return core.ActionReset, false
	case "tab":
		return core.ActionToggleMode, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame records the action of a key message in frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}
