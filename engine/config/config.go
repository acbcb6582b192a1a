package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the settings file read at startup.
const DefaultPath = "game.ini"

// Config holds the startup settings stored in game.ini.
type Config struct {
	VSync bool
	ResX  int
	ResY  int
}

// Default returns 1280x720 with vsync on.
func Default() Config {
	return Config{VSync: true, ResX: 1280, ResY: 720}
}

// Parse reads key=value lines over base. Lines without '=', or with '=' first or last, are
// logged and skipped. Values that do not parse keep the prior setting. Unknown keys are ignored.
//
// Parameters:
//   - r: the source
//   - base: the settings to start from
//
// Returns:
//   - Config: the merged settings
//   - error: only if reading r fails
func Parse(r io.Reader, base Config) (Config, error) {
	cfg := base
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i <= 0 || i == len(line)-1 {
			slog.Warn("invalid entry in ini file", "component", "config", "line", n, "text", line)
			continue
		}
		key, value := line[:i], line[i+1:]
		switch key {
		case "vsync":
			switch value {
			case "on":
				cfg.VSync = true
			case "off":
				cfg.VSync = false
			default:
				slog.Warn("invalid vsync value", "component", "config", "line", n, "value", value)
			}
		case "res_x":
			cfg.ResX = parseDimension(n, key, value, cfg.ResX)
		case "res_y":
			cfg.ResY = parseDimension(n, key, value, cfg.ResY)
		}
	}
	if err := sc.Err(); err != nil {
		return base, fmt.Errorf("config: failed to read settings: %w", err)
	}
	return cfg, nil
}

func parseDimension(line int, key, value string, prior int) int {
	v, err := strconv.ParseUint(value, 10, 31)
	if err != nil || v == 0 {
		slog.Warn("invalid resolution value", "component", "config", "line", line, "key", key, "value", value)
		return prior
	}
	return int(v)
}

// Read parses the file at path over the defaults. A missing file yields the defaults.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Config: the settings
//   - error: if the file exists but cannot be read
func Read(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, Default())
}

// Load reads path like Read and then rewrites it, so the file always lists every key.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - Config: the settings
//   - error: if reading or rewriting fails
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Save(path); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WriteTo writes the settings as key=value lines.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	vsync := "off"
	if c.VSync {
		vsync = "on"
	}
	n, err := fmt.Fprintf(w, "vsync=%s\nres_x=%d\nres_y=%d\n", vsync, c.ResX, c.ResY)
	if err != nil {
		return int64(n), fmt.Errorf("config: failed to write settings: %w", err)
	}
	return int64(n), nil
}

// Save writes the settings to path, replacing its contents.
func (c Config) Save(path string) error {
	var b strings.Builder
	_, _ = c.WriteTo(&b)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("config: failed to save %s: %w", path, err)
	}
	return nil
}
