package main

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"PNG file", "test.png", true},
		{"JPG file", "test.jpg", true},
		{"JPEG file", "test.jpeg", true},
		{"WebP file", "test.webp", true},
		{"BMP file", "test.bmp", true},
		{"GIF file", "test.gif", true},
		{"PNG uppercase", "test.PNG", true},
		{"JPG uppercase", "test.JPG", true},
		{"Zip archive", "test.zip", false},
		{"Text file", "test.txt", false},
		{"No extension", "test", false},
		{"Empty string", "", false},
		{"Multiple dots", "test.backup.jpg", true},
		{"Path with directory", "/path/to/test.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isSupportedExt(tt.path)
			if result != tt.expected {
				t.Errorf("isSupportedExt(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestIsArchiveExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Zip archive", "book.zip", true},
		{"Rar archive", "book.rar", true},
		{"7z archive", "book.7z", true},
		{"Zip uppercase", "book.ZIP", true},
		{"PNG file", "page.png", false},
		{"No extension", "book", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isArchiveExt(tt.path)
			if result != tt.expected {
				t.Errorf("isArchiveExt(%s) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name           string
		configJSON     string
		expectedStatus string
		check          func(t *testing.T, c Config)
	}{
		{
			name: "Valid config",
			configJSON: `{
				"window_width": 1000,
				"window_height": 800,
				"page_mode": "double",
				"read_order": "rtl",
				"divide_page": true,
				"divide_page_rate": 1.2
			}`,
			expectedStatus: "OK",
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != 1000 || c.WindowHeight != 800 {
					t.Errorf("Expected 1000x800, got %dx%d", c.WindowWidth, c.WindowHeight)
				}
				if c.PageMode != "double" || c.ReadOrder != "rtl" {
					t.Errorf("Expected double/rtl, got %s/%s", c.PageMode, c.ReadOrder)
				}
				if !c.DividePage || c.DividePageRate != 1.2 {
					t.Errorf("Expected divide_page true with rate 1.2, got %t %.2f", c.DividePage, c.DividePageRate)
				}
			},
		},
		{
			name:           "Window too small",
			configJSON:     `{"window_width": 200, "window_height": 100}`,
			expectedStatus: "OK",
			check: func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
					t.Errorf("Expected defaults %dx%d, got %dx%d",
						defaultWidth, defaultHeight, c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			name:           "Unknown page mode",
			configJSON:     `{"page_mode": "triple"}`,
			expectedStatus: "Warning",
			check: func(t *testing.T, c Config) {
				if c.PageMode != "single" {
					t.Errorf("Expected fallback 'single', got '%s'", c.PageMode)
				}
			},
		},
		{
			name:           "Unknown stretch mode",
			configJSON:     `{"stretch_mode": "fit"}`,
			expectedStatus: "Warning",
			check: func(t *testing.T, c Config) {
				if c.StretchMode != "uniform" {
					t.Errorf("Expected fallback 'uniform', got '%s'", c.StretchMode)
				}
			},
		},
		{
			name:           "Non-positive divide rate",
			configJSON:     `{"divide_page_rate": -0.5}`,
			expectedStatus: "Warning",
			check: func(t *testing.T, c Config) {
				if c.DividePageRate != 1.0 {
					t.Errorf("Expected fallback rate 1.0, got %.2f", c.DividePageRate)
				}
			},
		},
		{
			name:           "Cache size clamped",
			configJSON:     `{"cache_size": 500, "preload_count": 0}`,
			expectedStatus: "OK",
			check: func(t *testing.T, c Config) {
				if c.CacheSize != 64 {
					t.Errorf("Expected cache size clamped to 64, got %d", c.CacheSize)
				}
				if c.PreloadCount != 4 {
					t.Errorf("Expected preload count fallback 4, got %d", c.PreloadCount)
				}
			},
		},
		{
			name:           "Keybinding conflict falls back to defaults",
			configJSON:     `{"keybindings": {"exit": ["KeyQ"], "help": ["KeyQ"]}}`,
			expectedStatus: "Warning",
			check: func(t *testing.T, c Config) {
				if !reflect.DeepEqual(c.Keybindings, GetDefaultKeybindings()) {
					t.Error("Expected conflicting keybindings replaced by defaults")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, ".yomu.json")

			if err := os.WriteFile(configPath, []byte(tt.configJSON), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			result := loadConfigFromPath(configPath)

			if result.Status != tt.expectedStatus {
				t.Errorf("Expected status %q, got %q (warnings: %v)",
					tt.expectedStatus, result.Status, result.Warnings)
			}
			tt.check(t, result.Config)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.json")

	result := loadConfigFromPath(configPath)

	if result.Status != "Default" {
		t.Errorf("Expected status 'Default', got %q", result.Status)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".yomu.json")

	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	result := loadConfigFromPath(configPath)

	if !result.HasError || result.Status != "Error" {
		t.Errorf("Expected error status for invalid JSON, got %q", result.Status)
	}
	if result.Config.WindowWidth != defaultWidth {
		t.Error("Expected defaults after invalid JSON")
	}
}

func TestConfigFrameContext(t *testing.T) {
	config := defaultConfig()
	config.PageMode = "double"
	config.ReadOrder = "rtl"
	config.DividePage = true
	config.DividePageRate = 1.3
	config.WidePage = false
	config.SingleFirst = false
	config.SingleLast = true
	config.StretchMode = "uniformToFill"
	config.AutoRotate = "auto"
	config.WidePageStretch = "uniformWidth"

	canvas := NewSize(1280, 720)
	ctx := config.FrameContext(canvas)

	if ctx.PageMode != PageModeDouble {
		t.Errorf("Expected double page mode, got %v", ctx.PageMode)
	}
	if ctx.ReadOrder != ReadOrderRTL {
		t.Errorf("Expected RTL read order, got %v", ctx.ReadOrder)
	}
	if !ctx.IsSupportedDividePage || ctx.DividePageRate != 1.3 {
		t.Errorf("Expected divide enabled at 1.3, got %t %.2f",
			ctx.IsSupportedDividePage, ctx.DividePageRate)
	}
	if ctx.IsSupportedWidePage || ctx.IsSupportedSingleFirst || !ctx.IsSupportedSingleLast {
		t.Error("Layout flags not carried over from config")
	}
	if ctx.StretchMode != StretchUniformToFill {
		t.Errorf("Expected uniformToFill stretch, got %v", ctx.StretchMode)
	}
	if ctx.AutoRotate != AutoRotateAuto {
		t.Errorf("Expected auto rotate 'auto', got %v", ctx.AutoRotate)
	}
	if ctx.WidePageStretch != WidePageStretchUniformWidth {
		t.Errorf("Expected uniformWidth pair sizing, got %v", ctx.WidePageStretch)
	}
	if ctx.CanvasSize != canvas {
		t.Errorf("Expected canvas %v, got %v", canvas, ctx.CanvasSize)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".yomu.json")

	config := defaultConfig()
	config.WindowWidth = 1024
	config.PageMode = "double"
	saveConfigToPath(config, configPath)

	result := loadConfigFromPath(configPath)
	if result.Status != "OK" {
		t.Errorf("Expected status 'OK' after round trip, got %q", result.Status)
	}
	if !reflect.DeepEqual(result.Config, config) {
		t.Errorf("Round trip mismatch.\nSaved: %+v\nLoaded: %+v", config, result.Config)
	}
}

func TestSaveConfigRejectsTinyWindow(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".yomu.json")

	config := defaultConfig()
	config.WindowWidth = 100
	saveConfigToPath(config, configPath)

	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Expected config with invalid window size not to be written")
	}
}

// pngBytes encodes a blank PNG of the given dimensions.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// zipBytes builds an in-memory zip archive from entry name to content.
func zipBytes(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return buf.Bytes()
}

func TestCollectPages(t *testing.T) {
	fs := afero.NewMemMapFs()

	writeFile := func(path string, data []byte) {
		if err := afero.WriteFile(fs, path, data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	writeFile("/books/10.png", pngBytes(t, 2, 3))
	writeFile("/books/2.png", pngBytes(t, 2, 3))
	writeFile("/books/notes.txt", []byte("not an image"))
	writeFile("/books/vol.zip", zipBytes(t, map[string][]byte{
		"b.png":    pngBytes(t, 2, 3),
		"a.png":    pngBytes(t, 2, 3),
		"skip.txt": []byte("not an image"),
	}))

	t.Run("Directory", func(t *testing.T) {
		pages, err := CollectPages(fs, []string{"/books"}, SortNatural)
		if err != nil {
			t.Fatalf("CollectPages failed: %v", err)
		}

		expected := []string{
			"/books/2.png",
			"/books/10.png",
			"/books/vol.zip:a.png",
			"/books/vol.zip:b.png",
		}
		var got []string
		for _, p := range pages {
			got = append(got, sortKey(p))
		}
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("Expected pages %v, got %v", expected, got)
		}

		for i, p := range pages {
			if p.Index != i {
				t.Errorf("Expected page %d to have index %d, got %d", i, i, p.Index)
			}
		}
	})

	t.Run("SingleFile", func(t *testing.T) {
		pages, err := CollectPages(fs, []string{"/books/2.png"}, SortNatural)
		if err != nil {
			t.Fatalf("CollectPages failed: %v", err)
		}
		if len(pages) != 1 || pages[0].Path != "/books/2.png" {
			t.Errorf("Expected single page for /books/2.png, got %v", pages)
		}
	})

	t.Run("Archive", func(t *testing.T) {
		pages, err := CollectPages(fs, []string{"/books/vol.zip"}, SortNatural)
		if err != nil {
			t.Fatalf("CollectPages failed: %v", err)
		}
		if len(pages) != 2 {
			t.Fatalf("Expected 2 pages from archive, got %d", len(pages))
		}
		if pages[0].InnerPath != "a.png" || pages[1].InnerPath != "b.png" {
			t.Errorf("Expected sorted entries a.png, b.png, got %s, %s",
				pages[0].InnerPath, pages[1].InnerPath)
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := CollectPages(fs, []string{"/nope"}, SortNatural)
		if err == nil {
			t.Error("Expected error for missing path")
		}
	})
}

func TestScanPageSizes(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/pages/plain.png", pngBytes(t, 3, 5), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if err := afero.WriteFile(fs, "/pages/broken.png", []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if err := afero.WriteFile(fs, "/pages/vol.zip", zipBytes(t, map[string][]byte{
		"wide.png": pngBytes(t, 7, 2),
	}), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	pages := []Page{
		PlaceholderPage(0, "/pages/plain.png", "", "plain.png"),
		PlaceholderPage(1, "/pages/broken.png", "", "broken.png"),
		PlaceholderPage(2, "/pages/vol.zip", "wide.png", "wide.png"),
	}

	scanned := ScanPageSizes(fs, pages)

	if scanned[0].Width != 3 || scanned[0].Height != 5 {
		t.Errorf("Expected plain.png 3x5, got %dx%d", scanned[0].Width, scanned[0].Height)
	}
	if scanned[1].Width != 0 || scanned[1].AspectRatio != 1.0 {
		t.Errorf("Expected broken.png to keep placeholder ratio, got %dx%d ratio %.2f",
			scanned[1].Width, scanned[1].Height, scanned[1].AspectRatio)
	}
	if scanned[2].Width != 7 || scanned[2].Height != 2 {
		t.Errorf("Expected wide.png 7x2, got %dx%d", scanned[2].Width, scanned[2].Height)
	}
	if !scanned[2].IsLandscape() {
		t.Error("Expected wide.png to be landscape after scanning")
	}

	// Input slice is not modified
	if pages[0].Width != 0 {
		t.Error("ScanPageSizes modified its input slice")
	}
}

func TestCycleSetting(t *testing.T) {
	tests := []struct {
		name     string
		cycle    []string
		current  string
		expected string
	}{
		{"Advance", []string{"a", "b", "c"}, "a", "b"},
		{"Wrap around", []string{"a", "b", "c"}, "c", "a"},
		{"Unknown value resets", []string{"a", "b", "c"}, "zzz", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cycleSetting(tt.cycle, tt.current)
			if result != tt.expected {
				t.Errorf("cycleSetting(%v, %s) = %s, want %s", tt.cycle, tt.current, result, tt.expected)
			}
		})
	}
}

func TestGetSortMethodName(t *testing.T) {
	tests := []struct {
		method   int
		expected string
	}{
		{SortNatural, "Natural"},
		{SortSimple, "Simple"},
		{SortEntryOrder, "Entry Order"},
		{999, "Natural"},
	}

	for _, tt := range tests {
		if name := getSortMethodName(tt.method); name != tt.expected {
			t.Errorf("getSortMethodName(%d) = %s, want %s", tt.method, name, tt.expected)
		}
	}
}
