package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., file1, file2, file10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain original order (no sort)
)

// Layout enum parsing. Config files store the layout settings as strings;
// unknown values fall back to the default and produce a warning.

func parsePageMode(s string) (PageMode, bool) {
	switch strings.ToLower(s) {
	case "single":
		return PageModeSingle, true
	case "double":
		return PageModeDouble, true
	default:
		return PageModeSingle, false
	}
}

func parseReadOrder(s string) (ReadOrder, bool) {
	switch strings.ToLower(s) {
	case "ltr":
		return ReadOrderLTR, true
	case "rtl":
		return ReadOrderRTL, true
	default:
		return ReadOrderLTR, false
	}
}

func parseStretchMode(s string) (StretchMode, bool) {
	switch strings.ToLower(s) {
	case "none":
		return StretchNone, true
	case "uniform":
		return StretchUniform, true
	case "uniformtofill":
		return StretchUniformToFill, true
	case "uniformtovertical":
		return StretchUniformToVertical, true
	case "uniformtohorizontal":
		return StretchUniformToHorizontal, true
	case "fill":
		return StretchFill, true
	default:
		return StretchUniform, false
	}
}

func parseAutoRotate(s string) (AutoRotateType, bool) {
	switch strings.ToLower(s) {
	case "none":
		return AutoRotateNone, true
	case "left":
		return AutoRotateLeft, true
	case "right":
		return AutoRotateRight, true
	case "auto":
		return AutoRotateAuto, true
	default:
		return AutoRotateNone, false
	}
}

func parseWidePageStretch(s string) (WidePageStretch, bool) {
	switch strings.ToLower(s) {
	case "none":
		return WidePageStretchNone, true
	case "uniformheight":
		return WidePageStretchUniformHeight, true
	case "uniformwidth":
		return WidePageStretchUniformWidth, true
	default:
		return WidePageStretchUniformHeight, false
	}
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	// Check for valid key formats and detect conflicts
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 {
		return fmt.Errorf("empty key string")
	}

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	// Check modifiers
	for i := 0; i < len(parts)-1; i++ {
		modifier := strings.ToLower(parts[i])
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// getValidKeyNames returns a set of valid key names
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool, len(getKeyMapping()))
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	// Page layout
	PageMode        string  `json:"page_mode"`         // "single" or "double"
	ReadOrder       string  `json:"read_order"`        // "ltr" or "rtl"
	DividePage      bool    `json:"divide_page"`       // split wide pages in single mode
	DividePageRate  float64 `json:"divide_page_rate"`  // aspect ratio threshold for splitting
	WidePage        bool    `json:"wide_page"`         // landscape pages stand alone in double mode
	SingleFirst     bool    `json:"single_first"`      // first page stands alone in double mode
	SingleLast      bool    `json:"single_last"`       // last page stands alone in double mode
	StretchMode     string  `json:"stretch_mode"`      // how content fills the window
	AutoRotate      string  `json:"auto_rotate"`       // "none", "left", "right", "auto"
	WidePageStretch string  `json:"wide_page_stretch"` // paired page size equalization

	HelpFontSize   float64             `json:"help_font_size"`
	SortMethod     int                 `json:"sort_method"`
	Fullscreen     bool                `json:"fullscreen"`
	CacheSize      int                 `json:"cache_size"`
	PreloadEnabled bool                `json:"preload_enabled"`
	PreloadCount   int                 `json:"preload_count"`
	Keybindings    map[string][]string `json:"keybindings"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		PageMode:        "single",
		ReadOrder:       "ltr",
		DividePage:      false,
		DividePageRate:  1.0,
		WidePage:        true,
		SingleFirst:     true,
		SingleLast:      false,
		StretchMode:     "uniform",
		AutoRotate:      "none",
		WidePageStretch: "uniformHeight",
		HelpFontSize:    24.0,
		SortMethod:      SortNatural,
		Fullscreen:      false,
		CacheSize:       16,
		PreloadEnabled:  true,
		PreloadCount:    4,
		Keybindings:     GetDefaultKeybindings(),
	}
}

// FrameContext converts the stored config into a layout context for the
// given canvas. Unparseable enum strings take their defaults.
func (c Config) FrameContext(canvas Size) PageFrameContext {
	ctx := DefaultFrameContext()
	ctx.PageMode, _ = parsePageMode(c.PageMode)
	ctx.ReadOrder, _ = parseReadOrder(c.ReadOrder)
	ctx.IsSupportedDividePage = c.DividePage
	ctx.IsSupportedWidePage = c.WidePage
	ctx.IsSupportedSingleFirst = c.SingleFirst
	ctx.IsSupportedSingleLast = c.SingleLast
	ctx.DividePageRate = c.DividePageRate
	ctx.StretchMode, _ = parseStretchMode(c.StretchMode)
	ctx.AutoRotate, _ = parseAutoRotate(c.AutoRotate)
	ctx.WidePageStretch, _ = parseWidePageStretch(c.WidePageStretch)
	ctx.CanvasSize = canvas
	return ctx
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "yomu.json"
	}
	return filepath.Join(homeDir, ".yomu.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		// Invalid config file - log warning and use defaults
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		// Keep default config values
		return result
	}

	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("Warning: %s", msg)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, msg)
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate layout enum strings
	if _, ok := parsePageMode(config.PageMode); !ok {
		warn("Unknown page_mode %q, using \"single\"", config.PageMode)
		config.PageMode = "single"
	}
	if _, ok := parseReadOrder(config.ReadOrder); !ok {
		warn("Unknown read_order %q, using \"ltr\"", config.ReadOrder)
		config.ReadOrder = "ltr"
	}
	if _, ok := parseStretchMode(config.StretchMode); !ok {
		warn("Unknown stretch_mode %q, using \"uniform\"", config.StretchMode)
		config.StretchMode = "uniform"
	}
	if _, ok := parseAutoRotate(config.AutoRotate); !ok {
		warn("Unknown auto_rotate %q, using \"none\"", config.AutoRotate)
		config.AutoRotate = "none"
	}
	if _, ok := parseWidePageStretch(config.WidePageStretch); !ok {
		warn("Unknown wide_page_stretch %q, using \"uniformHeight\"", config.WidePageStretch)
		config.WidePageStretch = "uniformHeight"
	}

	// Validate the divide threshold: a non-positive ratio would split
	// every page including portraits
	if config.DividePageRate <= 0 {
		warn("divide_page_rate %.2f is not positive, using 1.0", config.DividePageRate)
		config.DividePageRate = 1.0
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 24.0
	}

	// Validate sort method
	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	// Validate cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = 16
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	// Validate preload count (minimum 1, maximum 16)
	if config.PreloadCount < 1 {
		config.PreloadCount = 4
	} else if config.PreloadCount > 16 {
		config.PreloadCount = 16
	}

	// Validate keybindings - ensure defaults exist for missing actions
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		// Fill in missing keybindings with defaults
		defaults := GetDefaultKeybindings()
		for action, defaultKeys := range defaults {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}

		if err := validateKeybindings(config.Keybindings); err != nil {
			warn("Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
		}
	}

	result.Config = config
	return result
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	strategy := GetSortStrategy(sortMethod)
	return strategy.Name()
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
