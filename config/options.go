package config

const (
	defaultLogFile           = "logs.log"
	defaultLogLevel          = "debug"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/biblioteca"
	defaultDSN               = defaultData + "/biblioteca.db"
	defaultBackend           = "sqlite"
	defaultWorkerPoolSize    = 4
	defaultMaxDownloadSize   = 20
	defaultSummaryModel      = "gpt-4o-mini"
	defaultSummaryBaseURL    = ""
	defaultSummaryAPIKey     = ""
	defaultJWTSecret         = ""
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// Backend selects the storage driver: "sqlite" or "memory"
	Backend string `mapstructure:"backend"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// WorkerPoolSize is the number of background download workers
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
	// MaxDownloadSize is the maximum size of a downloaded book, in MiB
	MaxDownloadSize int64 `mapstructure:"max_download_size"`
	// JWTSecret signs access tokens; generated at startup when empty
	JWTSecret string `mapstructure:"jwt_secret"`
	// For the summary collaborator
	SummaryAPIKey  string `mapstructure:"summary_api_key"`
	SummaryBaseURL string `mapstructure:"summary_base_url"`
	SummaryModel   string `mapstructure:"summary_model"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		Backend:           defaultBackend,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		WorkerPoolSize:    defaultWorkerPoolSize,
		MaxDownloadSize:   defaultMaxDownloadSize,
		JWTSecret:         defaultJWTSecret,
		SummaryAPIKey:     defaultSummaryAPIKey,
		SummaryBaseURL:    defaultSummaryBaseURL,
		SummaryModel:      defaultSummaryModel,
	}
	return Opts
}
