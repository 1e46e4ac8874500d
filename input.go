package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ActionDefinition defines an action with its default keybindings and description
type ActionDefinition struct {
	Name        string
	Keys        []string
	Description string
}

// actionDefinitions contains all action definitions with default keybindings
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"Escape", "KeyQ"}, "Quit application"},
	{"help", []string{"Shift+Slash"}, "Show/hide help"},
	{"info", []string{"KeyI"}, "Show/hide info display"},
	{"next", []string{"Space", "KeyN"}, "Next frame"},
	{"previous", []string{"Backspace", "KeyP"}, "Previous frame"},
	{"jump_first", []string{"Home", "Shift+Comma"}, "Jump to first page"},
	{"jump_last", []string{"End", "Shift+Period"}, "Jump to last page"},
	{"page_input", []string{"KeyG"}, "Go to page (enter page number)"},
	{"toggle_page_mode", []string{"KeyB"}, "Toggle double page mode"},
	{"toggle_reading_direction", []string{"Shift+KeyB"}, "Toggle reading direction (LTR ↔ RTL)"},
	{"toggle_divide_page", []string{"KeyD"}, "Toggle wide page splitting (single mode)"},
	{"toggle_wide_page", []string{"KeyW"}, "Toggle standalone wide pages (double mode)"},
	{"toggle_single_first", []string{"KeyF"}, "Toggle standalone first page (double mode)"},
	{"toggle_single_last", []string{"Shift+KeyF"}, "Toggle standalone last page (double mode)"},
	{"cycle_stretch", []string{"KeyU"}, "Cycle stretch mode"},
	{"cycle_auto_rotate", []string{"KeyR"}, "Cycle auto-rotation"},
	{"cycle_wide_page_stretch", []string{"Shift+KeyW"}, "Cycle paired page size equalization"},
	{"cycle_sort", []string{"Shift+KeyS"}, "Cycle sort method (Natural/Simple/Entry)"},
	{"fullscreen", []string{"Enter"}, "Toggle fullscreen"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// KeybindingManager handles dynamic keybinding processing
type KeybindingManager struct {
	keybindings map[string][]string
	keyMapping  map[string]ebiten.Key
}

// NewKeybindingManager creates a new KeybindingManager
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	return &KeybindingManager{
		keybindings: keybindings,
		keyMapping:  getKeyMapping(),
	}
}

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		// Letters
		"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
		"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
		"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
		"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
		"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
		"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
		"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

		// Numbers
		"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
		"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
		"Key8": ebiten.Key8, "Key9": ebiten.Key9,

		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		// Numpad
		"Numpad0":     ebiten.KeyNumpad0,
		"Numpad1":     ebiten.KeyNumpad1,
		"Numpad2":     ebiten.KeyNumpad2,
		"Numpad3":     ebiten.KeyNumpad3,
		"Numpad4":     ebiten.KeyNumpad4,
		"Numpad5":     ebiten.KeyNumpad5,
		"Numpad6":     ebiten.KeyNumpad6,
		"Numpad7":     ebiten.KeyNumpad7,
		"Numpad8":     ebiten.KeyNumpad8,
		"Numpad9":     ebiten.KeyNumpad9,
		"NumpadEnter": ebiten.KeyNumpadEnter,
	}
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func (km *KeybindingManager) parseKeyString(keyStr string) (*KeyCombination, bool) {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 {
		return nil, false
	}

	combination := &KeyCombination{}

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	key, exists := km.keyMapping[keyName]
	if !exists {
		return nil, false
	}
	combination.Key = key

	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToLower(parts[i]) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		}
	}

	return combination, true
}

// isKeyPressed checks if a key combination is currently being pressed.
// Modifiers must match exactly so "KeyB" does not fire on Shift+B.
func (km *KeybindingManager) isKeyPressed(combination *KeyCombination) bool {
	if !inpututil.IsKeyJustPressed(combination.Key) {
		return false
	}

	if combination.Shift != ebiten.IsKeyPressed(ebiten.KeyShift) {
		return false
	}
	if combination.Ctrl != ebiten.IsKeyPressed(ebiten.KeyControl) {
		return false
	}
	if combination.Alt != ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return false
	}

	return true
}

// CheckAction checks if any keybinding for the given action is pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	keyStrings, exists := km.keybindings[action]
	if !exists {
		return false
	}

	for _, keyStr := range keyStrings {
		combination, valid := km.parseKeyString(keyStr)
		if valid && km.isKeyPressed(combination) {
			return true
		}
	}

	return false
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// InputHandler maps pressed keys to actions on the view
type InputHandler struct {
	actions InputActions
	state   InputState
	manager *KeybindingManager
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(actions InputActions, state InputState, manager *KeybindingManager) *InputHandler {
	return &InputHandler{
		actions: actions,
		state:   state,
		manager: manager,
	}
}

// HandleInput processes all input for the current frame.
// Returns true if any input was processed, false otherwise.
func (h *InputHandler) HandleInput() bool {
	if h.actions.PageCount() == 0 {
		return false
	}

	// Page input mode consumes all keys until confirmed or cancelled
	if h.state.IsInPageInputMode() {
		return h.handlePageInputMode()
	}

	processed := false
	for _, def := range actionDefinitions {
		if h.manager.CheckAction(def.Name) {
			if h.executeAction(def.Name) {
				processed = true
			}
		}
	}
	return processed
}

func (h *InputHandler) handlePageInputMode() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.actions.ExitPageInputMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		h.actions.ProcessPageInput()
		h.actions.ExitPageInputMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		buffer := h.state.GetPageInputBuffer()
		if len(buffer) > 0 {
			h.actions.UpdatePageInputBuffer(buffer[:len(buffer)-1])
		}
		return true
	}

	// Digit input from both the number row and the numpad
	var digit string
	if digit = h.checkDigitKeys(ebiten.Key0, ebiten.Key9, '0'); digit == "" {
		digit = h.checkDigitKeys(ebiten.KeyNumpad0, ebiten.KeyNumpad9, '0')
	}
	if digit != "" {
		h.actions.UpdatePageInputBuffer(h.state.GetPageInputBuffer() + digit)
		return true
	}

	return false
}

func (h *InputHandler) checkDigitKeys(startKey, endKey ebiten.Key, baseChar rune) string {
	for key := startKey; key <= endKey; key++ {
		if inpututil.IsKeyJustPressed(key) {
			return string(baseChar + rune(key-startKey))
		}
	}
	return ""
}

// executeAction dispatches a named action to the view
func (h *InputHandler) executeAction(action string) bool {
	switch action {
	case "exit":
		h.actions.Exit()
	case "help":
		h.actions.ToggleHelp()
	case "info":
		h.actions.ToggleInfo()
	case "next":
		h.actions.NavigateNext()
	case "previous":
		h.actions.NavigatePrevious()
	case "jump_first":
		h.actions.JumpToPage(1)
	case "jump_last":
		total := h.actions.PageCount()
		if total > 0 {
			h.actions.JumpToPage(total)
		}
	case "page_input":
		h.actions.EnterPageInputMode()
	case "toggle_page_mode":
		h.actions.TogglePageMode()
	case "toggle_reading_direction":
		h.actions.ToggleReadingDirection()
	case "toggle_divide_page":
		h.actions.ToggleDividePage()
	case "toggle_wide_page":
		h.actions.ToggleWidePage()
	case "toggle_single_first":
		h.actions.ToggleSingleFirst()
	case "toggle_single_last":
		h.actions.ToggleSingleLast()
	case "cycle_stretch":
		h.actions.CycleStretchMode()
	case "cycle_auto_rotate":
		h.actions.CycleAutoRotate()
	case "cycle_wide_page_stretch":
		h.actions.CycleWidePageStretch()
	case "cycle_sort":
		h.actions.CycleSortMethod()
	case "fullscreen":
		h.actions.ToggleFullscreen()
	default:
		return false
	}

	return true
}
