package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCore(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCore() error {
	if c.IntervalSeconds <= 0 {
		return errors.New("interval_seconds must be positive")
	}
	if c.ScreenshotFolder == "" {
		return errors.New("screenshot_folder must be set")
	}
	if c.UploadBatchSize < 1 {
		return errors.New("upload_batch_size must be >= 1")
	}
	if c.Journal.Path == "" {
		return errors.New("journal.path must be set")
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.Format {
	case "png", "jpeg":
	default:
		return fmt.Errorf("capture.format must be png or jpeg, got %q", c.Capture.Format)
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		return errors.New("capture.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateUpload() error {
	switch c.Upload.Provider {
	case ProviderMega, ProviderS3:
	default:
		return fmt.Errorf("upload.provider must be %q or %q, got %q", ProviderMega, ProviderS3, c.Upload.Provider)
	}
	return nil
}
