package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. It is the single startup
// gate: a failure here is fatal before monitoring begins.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" || c.TMDB.APIKey == PlaceholderAPIKey {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/carousel/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'carousel config init')", defaultPath)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.SourceDir == c.Paths.LibraryDir {
		return errors.New("paths.source_dir and paths.library_dir must differ")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.MoviesDir == "" {
		return errors.New("library.movies_dir must be set")
	}
	if c.Library.TVDir == "" {
		return errors.New("library.tv_dir must be set")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if len(c.Watcher.VideoExtensions) == 0 {
		return errors.New("watcher.video_extensions must include at least one extension")
	}
	if c.Watcher.SettleInterval <= 0 {
		return errors.New("watcher.settle_interval must be positive (seconds)")
	}
	if c.Watcher.SettleTimeout <= 0 {
		return errors.New("watcher.settle_timeout must be positive (seconds)")
	}
	if c.Watcher.SettleTimeout <= c.Watcher.SettleInterval {
		return errors.New("watcher.settle_timeout must be greater than watcher.settle_interval")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive (seconds)")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}
