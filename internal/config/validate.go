package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOpenRouter(); err != nil {
		return err
	}
	if err := c.validateElevenLabs(); err != nil {
		return err
	}
	if err := c.validateRunway(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOpenRouter() error {
	if c.OpenRouter.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/viralengine/config.toml"
		}
		return fmt.Errorf("openrouter.api_key is required. Edit %s (create with 'viralengine config init')", defaultPath)
	}
	if c.OpenRouter.Model == "" {
		return errors.New("openrouter.model must be set")
	}
	if c.OpenRouter.TimeoutSeconds < 0 {
		return errors.New("openrouter.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateElevenLabs() error {
	if c.ElevenLabs.APIKey == "" {
		return errors.New("elevenlabs.api_key is required")
	}
	if c.ElevenLabs.TimeoutSeconds < 0 {
		return errors.New("elevenlabs.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateRunway() error {
	if c.Runway.APIKey == "" {
		return errors.New("runway.api_key is required")
	}
	if c.Runway.PollIntervalSeconds <= 0 {
		return errors.New("runway.poll_interval_seconds must be positive")
	}
	if c.Runway.TimeoutSeconds <= 0 {
		return errors.New("runway.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.MaxScenes <= 0 {
		return errors.New("pipeline.max_scenes must be positive")
	}
	return nil
}
