package config

const (
	defaultDataDir              = "~/.local/share/colophon"
	defaultLogDir               = "~/.local/share/colophon/logs"
	defaultSubmissionsDir       = "~/.local/share/colophon/submissions"
	defaultAPIBind              = "127.0.0.1:7846"
	defaultJournalCode          = "JRNL"
	defaultJournalName          = "Colophon Journal"
	defaultMailFromAddress      = "journal@localhost"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			LogDir:         defaultLogDir,
			SubmissionsDir: defaultSubmissionsDir,
			APIBind:        defaultAPIBind,
		},
		Journal: Journal{
			Code: defaultJournalCode,
			Name: defaultJournalName,
		},
		Notifications: Notifications{
			FromAddress:    defaultMailFromAddress,
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
