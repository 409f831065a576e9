package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEstimate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.QualityFactor < 0 {
		return errors.New("render.quality_factor must not be negative")
	}
	if c.Render.BitrateKbps < 0 {
		return errors.New("render.bitrate_kbps must not be negative")
	}
	if c.Render.Passes < 1 || c.Render.Passes > 2 {
		return fmt.Errorf("render.passes must be 1 or 2, got %d", c.Render.Passes)
	}
	return nil
}

func (c *Config) validateEstimate() error {
	if c.Estimate.SampleSeconds < 1 {
		return errors.New("estimate.sample_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
