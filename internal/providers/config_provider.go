package providers

import (
	"errors"
	"fmt"
	"mafiabot/internal/structures"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const AppName = "Mafiabot"

// ErrDefaultConfigWritten is returned when no config existed and a default
// one has been generated for the operator to fill in.
var ErrDefaultConfigWritten = errors.New("default config written")

func setDefaults(v *viper.Viper) {
	v.SetDefault("development", false)
	v.SetDefault("discord.token", "YOUR-TOKEN-HERE")

	v.SetDefault("stores.imagesOnlyPath", "imagesOnly.json")
	v.SetDefault("stores.archivalChannelsPath", "archivalChannels.json")
	v.SetDefault("stores.purgeChannelsPath", "purgeChannels.json")
	v.SetDefault("stores.logChannelsPath", "logChannels.json")
	v.SetDefault("stores.postsPath", "posts.json")
	v.SetDefault("stores.backupDir", "backups")
	v.SetDefault("stores.backupKeep", 7)

	v.SetDefault("bouncer.gracePeriod", "3s")
	v.SetDefault("bouncer.commandPrefixes", []string{"!"})

	v.SetDefault("purge.window", "336h")
	v.SetDefault("purge.pageSize", 100)
	v.SetDefault("purge.auditReason", "Routine purge. To disable this, remove the channel's ID from the purge channels file.")

	v.SetDefault("avatar.defaultPath", "Avatar.png")
	v.SetDefault("avatar.cooldown", "10m")

	v.SetDefault("status.maxLength", 128)
	v.SetDefault("status.delimiter", " | ")
	v.SetDefault("status.defaultText", "Powered by Go!")

	v.SetDefault("jobs.avatarReset", "0 0 * * *")
	v.SetDefault("jobs.statusReset", "0 0 * * *")
	v.SetDefault("jobs.channelPurge", "0 0 * * *")
	v.SetDefault("jobs.postSweep", "0 0 * * *")
	v.SetDefault("jobs.stateBackup", "30 0 * * *")
	v.SetDefault("jobs.timeout", "10m")

	v.SetDefault("webServer.enabled", false)
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("admin.token", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", ".")

	v.SetDefault("logMirror.enabled", true)
	v.SetDefault("logMirror.level", "info")
	v.SetDefault("logMirror.flushInterval", "5s")
	v.SetDefault("logMirror.bufferSize", 256)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("metrics.enabled", false)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("discord.token", "MAFIABOT_TOKEN")
	v.BindEnv("development", "MAFIABOT_DEVELOPMENT")
	v.BindEnv("logger.level", "MAFIABOT_LOG_LEVEL")
	v.BindEnv("admin.token", "MAFIABOT_ADMIN_TOKEN")
	v.BindEnv("webServer.port", "MAFIABOT_ADMIN_PORT")

	if _, err := os.Stat(flags.ConfigPath); errors.Is(err, os.ErrNotExist) {
		if err := v.SafeWriteConfigAs(flags.ConfigPath); err != nil {
			return nil, fmt.Errorf("unable to write default config: %w", err)
		}
		return nil, fmt.Errorf("%w to %s: fill in discord.token and restart", ErrDefaultConfigWritten, flags.ConfigPath)
	}

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
