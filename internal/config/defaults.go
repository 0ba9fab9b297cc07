package config

const (
	defaultDataDir           = "~/.local/share/taglog"
	defaultLogDir            = "~/.local/share/taglog/logs"
	defaultRegistryFileName  = "tags.json"
	defaultLockFileName      = "taglog.lock"
	defaultSerialPort        = "/dev/ttyUSB0"
	defaultBaudRate          = 9600
	defaultReadTimeoutMillis = 1000
	defaultMarker            = "DATA"
	defaultTimeFormat        = "15:04"
	defaultColorMode         = "auto"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	maxReadTimeoutMillis = 60000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Serial: Serial{
			Port:              defaultSerialPort,
			BaudRate:          defaultBaudRate,
			ReadTimeoutMillis: defaultReadTimeoutMillis,
			Marker:            defaultMarker,
			WatchHotplug:      true,
		},
		Display: Display{
			TimeFormat: defaultTimeFormat,
			Color:      defaultColorMode,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
