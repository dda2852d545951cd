package config

// Provider names accepted by upload.provider.
const (
	ProviderMega = "mega"
	ProviderS3   = "s3"
)

const (
	defaultIntervalSeconds  = 10
	defaultScreenshotFolder = "~/Pictures/CapturasSeguridad"
	defaultUploadBatchSize  = 10
	defaultMaxFolderSizeMB  = 500
	defaultLogFile          = "~/.local/share/screenguard/screenguard.log"
	defaultFilePrefix       = "screenshot"
	defaultCaptureFormat    = "png"
	defaultJPEGQuality      = 85
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultLogMaxSizeMB     = 1
	defaultLogMaxBackups    = 3
	defaultJournalPath      = "~/.local/share/screenguard/journal.db"
	defaultSettledDays      = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		IntervalSeconds:  defaultIntervalSeconds,
		ScreenshotFolder: defaultScreenshotFolder,
		UploadBatchSize:  defaultUploadBatchSize,
		MaxFolderSizeMB:  defaultMaxFolderSizeMB,
		LogFile:          defaultLogFile,
		Capture: Capture{
			FilePrefix:  defaultFilePrefix,
			Format:      defaultCaptureFormat,
			JPEGQuality: defaultJPEGQuality,
		},
		Upload: Upload{
			Provider: ProviderMega,
		},
		Logging: Logging{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		Journal: Journal{
			Path:                 defaultJournalPath,
			SettledRetentionDays: defaultSettledDays,
		},
	}
}
