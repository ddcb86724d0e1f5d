// Package config loads oledanim run settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flavioheleno/oledanim"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// File mirrors the command line flags. Fields omitted from the JSON file
// stay nil and leave the corresponding option untouched.
type File struct {
	Inputs []string `json:"inputs,omitempty"`
	Output *string  `json:"output,omitempty"`

	Width    *int     `json:"width,omitempty"`
	Height   *int     `json:"height,omitempty"`
	Gamma    *float64 `json:"gamma,omitempty"`
	Invert   *bool    `json:"invert,omitempty"`
	Resample *string  `json:"resample,omitempty"` // "catmull-rom", "bilinear" or "nearest"

	FrameDelayMs *int `json:"frame_delay_ms,omitempty"`
	FrameLimit   *int `json:"frame_limit,omitempty"`
	OffsetX      *int `json:"offset_x,omitempty"`
}

// Load reads a File from path.
// The path must have a .json extension and the file must be under 1MB.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fi.Size(), maxFileSize)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg := &File{}
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that can be checked without the rest of the
// options. Range checks shared with the command line happen in
// oledanim.Options.Validate.
func (c *File) Validate() error {
	if c.Resample != nil {
		if _, err := oledanim.ParseResampler(*c.Resample); err != nil {
			return err
		}
	}
	if c.Output != nil && *c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	for i, in := range c.Inputs {
		if in == "" {
			return fmt.Errorf("inputs[%d] must not be empty", i)
		}
	}
	return nil
}

// Apply copies every value present in c onto o, except the ones whose flag
// name is in set. set holds the flags given explicitly on the command line,
// which take precedence over the file.
func (c *File) Apply(o *oledanim.Options, set map[string]bool) error {
	if len(c.Inputs) > 0 && !set["inputs"] {
		o.Inputs = append([]string(nil), c.Inputs...)
	}
	if c.Output != nil && !set["o"] {
		o.Output = *c.Output
	}
	if c.Width != nil && !set["width"] {
		o.Raster.Width = *c.Width
	}
	if c.Height != nil && !set["height"] {
		o.Raster.Height = *c.Height
	}
	if c.Gamma != nil && !set["gamma"] {
		o.Raster.Gamma = *c.Gamma
	}
	if c.Invert != nil && !set["invert"] {
		o.Raster.Invert = *c.Invert
	}
	if c.Resample != nil && !set["resample"] {
		r, err := oledanim.ParseResampler(*c.Resample)
		if err != nil {
			return err
		}
		o.Raster.Resample = r
	}
	if c.FrameDelayMs != nil && !set["delay"] {
		o.FrameDelay = *c.FrameDelayMs
	}
	if c.FrameLimit != nil && !set["frames"] {
		o.FrameLimit = *c.FrameLimit
	}
	if c.OffsetX != nil && !set["offset-x"] {
		o.OffsetX = *c.OffsetX
	}
	return nil
}
