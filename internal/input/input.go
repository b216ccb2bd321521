package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical engine action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionSprint
	ActionPause
	ActionToggleWireframe
	ActionToggleProfiling
	ActionMouseLeft
	ActionMouseRight
	ActionMouseMiddle
	ActionModControl
	ActionModShift
	ActionModAlt
	ActionCount // Sentinel value for array sizing
)

// Manager maps physical keys and mouse buttons to logical actions and tracks
// per-frame pressed/released edges plus the cursor delta.
type Manager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	cursorX, cursorY float64
	deltaX, deltaY   float64
	haveCursor       bool
}

// NewManager creates a Manager with default bindings: WASD plus QE for
// vertical movement, shift to sprint, escape to pause.
func NewManager() *Manager {
	m := &Manager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeyE, ActionMoveUp)
	m.BindKey(glfw.KeyQ, ActionMoveDown)
	m.BindKey(glfw.KeyLeftShift, ActionSprint)
	m.BindKey(glfw.KeyEscape, ActionPause)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyV, ActionToggleProfiling)

	m.BindMouseButton(glfw.MouseButtonLeft, ActionMouseLeft)
	m.BindMouseButton(glfw.MouseButtonRight, ActionMouseRight)
	m.BindMouseButton(glfw.MouseButtonMiddle, ActionMouseMiddle)

	m.BindKey(glfw.KeyLeftControl, ActionModControl)
	m.BindKey(glfw.KeyRightControl, ActionModControl)
	m.BindKey(glfw.KeyLeftShift, ActionModShift)
	m.BindKey(glfw.KeyRightShift, ActionModShift)
	m.BindKey(glfw.KeyLeftAlt, ActionModAlt)
	m.BindKey(glfw.KeyRightAlt, ActionModAlt)

	return m
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (m *Manager) BindKey(key glfw.Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (m *Manager) BindMouseButton(button glfw.MouseButton, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	m.mouseButtonToActions[button] = append(m.mouseButtonToActions[button], action)
}

// UnbindMouseButton removes all action bindings for a mouse button
func (m *Manager) UnbindMouseButton(button glfw.MouseButton) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.mouseButtonToActions, button)
}

// HandleKeyEvent processes a key event and updates internal state
// This can be called from a custom key callback
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.RLock()
	actions, exists := m.keyToActions[key]
	m.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	m.mu.Lock()
	m.applyEdges(actions, isPressed)
	m.mu.Unlock()
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
func (m *Manager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	m.mu.RLock()
	actions, exists := m.mouseButtonToActions[button]
	m.mu.RUnlock()

	if !exists {
		return
	}

	m.mu.Lock()
	m.applyEdges(actions, action == glfw.Press)
	m.mu.Unlock()
}

// applyEdges records press/release edges as events arrive. Callers hold mu.
func (m *Manager) applyEdges(actions []Action, isPressed bool) {
	for _, act := range actions {
		if act < 0 || act >= ActionCount {
			continue
		}
		if isPressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		if !isPressed && m.currentState[act] {
			m.justReleased[act] = true
		}
		m.currentState[act] = isPressed
	}
}

// HandleCursorPos accumulates the mouse delta since the last PostUpdate. The
// first event only seeds the position, so a window-enter jump never reads as
// a huge delta.
func (m *Manager) HandleCursorPos(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.haveCursor {
		m.deltaX += x - m.cursorX
		m.deltaY += y - m.cursorY
	}
	m.cursorX, m.cursorY = x, y
	m.haveCursor = true
}

// InstallCallbacks wires the manager into the window's input callbacks.
// Call once during initialization.
func (m *Manager) InstallCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		m.HandleCursorPos(x, y)
	})
}

// PostUpdate must be called at the end of each frame to reset edge flags and
// the accumulated cursor delta.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range ActionCount {
		m.justPressed[i] = false
		m.justReleased[i] = false
	}
	m.deltaX, m.deltaY = 0, 0
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.justReleased[action]
}

// MouseDelta returns the cursor movement accumulated since the last
// PostUpdate.
func (m *Manager) MouseDelta() (dx, dy float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deltaX, m.deltaY
}
