package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMega()
	c.normalizeCapture()
	c.normalizeUpload()
	c.normalizeS3()
	c.normalizeLogging()
	c.normalizeJournal()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.ScreenshotFolder) == "" {
		c.ScreenshotFolder = defaultScreenshotFolder
	}
	if c.ScreenshotFolder, err = expandPath(c.ScreenshotFolder); err != nil {
		return fmt.Errorf("screenshot_folder: %w", err)
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile != "" {
		if c.LogFile, err = expandPath(c.LogFile); err != nil {
			return fmt.Errorf("log_file: %w", err)
		}
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMega() {
	c.MegaEmail = strings.TrimSpace(c.MegaEmail)
	if c.MegaEmail == "" {
		if value, ok := os.LookupEnv("MEGA_EMAIL"); ok {
			c.MegaEmail = strings.TrimSpace(value)
		}
	}
	c.MegaPassword = strings.TrimSpace(c.MegaPassword)
	if c.MegaPassword == "" {
		if value, ok := os.LookupEnv("MEGA_PASSWORD"); ok {
			c.MegaPassword = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.FilePrefix = strings.TrimSpace(c.Capture.FilePrefix)
	if c.Capture.FilePrefix == "" {
		c.Capture.FilePrefix = defaultFilePrefix
	}
	c.Capture.Format = strings.ToLower(strings.TrimSpace(c.Capture.Format))
	if c.Capture.Format == "" {
		c.Capture.Format = defaultCaptureFormat
	}
	if c.Capture.JPEGQuality == 0 {
		c.Capture.JPEGQuality = defaultJPEGQuality
	}
	if c.Capture.Display < 0 {
		c.Capture.Display = 0
	}
}

func (c *Config) normalizeUpload() {
	c.Upload.Provider = strings.ToLower(strings.TrimSpace(c.Upload.Provider))
	if c.Upload.Provider == "" {
		c.Upload.Provider = ProviderMega
	}
	c.Upload.RemoteRoot = strings.TrimSpace(c.Upload.RemoteRoot)
}

func (c *Config) normalizeS3() {
	c.S3.Bucket = strings.TrimSpace(c.S3.Bucket)
	c.S3.Region = strings.TrimSpace(c.S3.Region)
	c.S3.Endpoint = strings.TrimSpace(c.S3.Endpoint)
	c.S3.AccessKeyID = strings.TrimSpace(c.S3.AccessKeyID)
	if c.S3.AccessKeyID == "" {
		if value, ok := os.LookupEnv("AWS_ACCESS_KEY_ID"); ok {
			c.S3.AccessKeyID = strings.TrimSpace(value)
		}
	}
	c.S3.SecretAccessKey = strings.TrimSpace(c.S3.SecretAccessKey)
	if c.S3.SecretAccessKey == "" {
		if value, ok := os.LookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
			c.S3.SecretAccessKey = strings.TrimSpace(value)
		}
	}
	if c.S3.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok {
			c.S3.Region = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
}

func (c *Config) normalizeJournal() {
	if c.Journal.SettledRetentionDays <= 0 {
		c.Journal.SettledRetentionDays = defaultSettledDays
	}
}
