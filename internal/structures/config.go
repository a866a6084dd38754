package structures

import "time"

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required|uint|min:1"`
}

type DiscordConfig struct {
	Token string `yaml:"token" validate:"required"`
}

type StoresConfig struct {
	ImagesOnlyPath       string `yaml:"imagesOnlyPath" validate:"required"`
	ArchivalChannelsPath string `yaml:"archivalChannelsPath" validate:"required"`
	PurgeChannelsPath    string `yaml:"purgeChannelsPath" validate:"required"`
	LogChannelsPath      string `yaml:"logChannelsPath" validate:"required"`
	PostsPath            string `yaml:"postsPath" validate:"required"`
	BackupDir            string `yaml:"backupDir"`
	BackupKeep           int    `yaml:"backupKeep"`
}

type BouncerConfig struct {
	GracePeriod     time.Duration `yaml:"gracePeriod" validate:"required|min:1"`
	CommandPrefixes []string      `yaml:"commandPrefixes"`
}

type PurgeConfig struct {
	Window      time.Duration `yaml:"window" validate:"required|min:1|max:1209600000000000"`
	PageSize    int           `yaml:"pageSize" validate:"required|min:1|max:100"`
	AuditReason string        `yaml:"auditReason"`
}

type AvatarConfig struct {
	DefaultPath string        `yaml:"defaultPath" validate:"required"`
	Cooldown    time.Duration `yaml:"cooldown" validate:"required|min:1"`
}

type StatusConfig struct {
	MaxLength   int    `yaml:"maxLength" validate:"required|min:1"`
	Delimiter   string `yaml:"delimiter" validate:"required"`
	DefaultText string `yaml:"defaultText"`
}

// JobsConfig holds cron specs (5 fields, UTC) of the daily jobs. An empty
// spec disables the job.
type JobsConfig struct {
	AvatarReset  string        `yaml:"avatarReset"`
	StatusReset  string        `yaml:"statusReset"`
	ChannelPurge string        `yaml:"channelPurge"`
	PostSweep    string        `yaml:"postSweep"`
	StateBackup  string        `yaml:"stateBackup"`
	Timeout      time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type LogMirrorConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Level         string        `yaml:"level" validate:"in:trace,debug,info,warn,error,fatal,panic"`
	FlushInterval time.Duration `yaml:"flushInterval"`
	BufferSize    int           `yaml:"bufferSize"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Development bool            `yaml:"development"`
	Discord     DiscordConfig   `yaml:"discord"`
	Stores      StoresConfig    `yaml:"stores"`
	Bouncer     BouncerConfig   `yaml:"bouncer"`
	Purge       PurgeConfig     `yaml:"purge"`
	Avatar      AvatarConfig    `yaml:"avatar"`
	Status      StatusConfig    `yaml:"status"`
	Jobs        JobsConfig      `yaml:"jobs"`
	WebServer   Server          `yaml:"webServer"`
	Admin       AdminConfig     `yaml:"admin"`
	Logger      LoggerConfig    `yaml:"logger"`
	LogMirror   LogMirrorConfig `yaml:"logMirror"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
