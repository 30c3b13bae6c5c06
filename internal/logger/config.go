package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            `yaml:"default_level" json:"default_level" mapstructure:"default_level"` // default log level for all modules
	Timezone     string            `yaml:"timezone" json:"timezone" mapstructure:"timezone"`                // "Local", "UTC", or IANA name like "Europe/Helsinki"
	Console      *ConsoleOutput    `yaml:"console" json:"console" mapstructure:"console"`                   // console output configuration
	FileOutput   *FileOutput       `yaml:"file_output" json:"file_output" mapstructure:"file_output"`       // file output configuration
	ModuleLevels map[string]string `yaml:"module_levels" json:"module_levels" mapstructure:"module_levels"` // per-module log levels
}

// ConsoleOutput represents console logging configuration.
// Console output is text without timestamps and always goes to stderr.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" json:"level" mapstructure:"level"`
}

// FileOutput represents file logging configuration.
// File output uses JSON with RFC3339 timestamps and is rotated by lumberjack.
type FileOutput struct {
	Enabled         bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path            string `yaml:"path" json:"path" mapstructure:"path"`
	MaxSize         int    `yaml:"max_size" json:"max_size" mapstructure:"max_size"`                            // megabytes before rotation
	MaxAge          int    `yaml:"max_age" json:"max_age" mapstructure:"max_age"`                               // days to keep rotated logs (0 = no limit)
	MaxRotatedFiles int    `yaml:"max_rotated_files" json:"max_rotated_files" mapstructure:"max_rotated_files"` // 0 = no limit
	Compress        bool   `yaml:"compress" json:"compress" mapstructure:"compress"`
	Level           string `yaml:"level" json:"level" mapstructure:"level"`
}

// Default values for logging configuration.
// These match the defaults in conf/defaults.go.
const (
	DefaultLogLevel        = "info"
	DefaultLogPath         = "logs/weatherapp.log"
	DefaultMaxSize         = 10 // MB before rotation
	DefaultMaxAge          = 30 // days to keep rotated files
	DefaultMaxRotatedFiles = 3
	DefaultConsoleLevel    = "warn"
)

// applyConfigDefaults fills nil sections. File output stays disabled unless
// configured, a CLI should not litter the working directory with log files.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg == nil {
		return
	}

	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = DefaultLogLevel
	}

	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{
			Enabled: true,
			Level:   DefaultConsoleLevel,
		}
	}

	if cfg.FileOutput == nil {
		cfg.FileOutput = &FileOutput{Enabled: false}
	}
	if cfg.FileOutput.Path == "" {
		cfg.FileOutput.Path = DefaultLogPath
	}
	if cfg.FileOutput.MaxSize == 0 {
		cfg.FileOutput.MaxSize = DefaultMaxSize
	}
	if cfg.FileOutput.Level == "" {
		cfg.FileOutput.Level = cfg.DefaultLevel
	}
}
