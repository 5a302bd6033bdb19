// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v2"

	"github.com/ergochat/minircd/irc/logger"
	"github.com/ergochat/minircd/irc/utils"
)

// here's how this works: exported (capitalized) members of the config structs
// are defined in the YAML file and deserialized directly from there. They may
// be postprocessed and overwritten by LoadConfig. Members tagged `yaml:"-"`
// are derived from the others in Prepare.

// ListenerConfig is the configuration for a single listening address.
type ListenerConfig struct {
	WebSocket      bool     `yaml:"websocket"`
	AllowedOrigins []string `yaml:"allowed-origins"`
}

// Limits holds the maximum lengths accepted from clients.
type Limits struct {
	NickLen     int    `yaml:"nicklen"`
	ChannelLen  int    `yaml:"channellen"`
	ReadQString string `yaml:"readq"`
	ReadQBytes  int    `yaml:"-"`
}

// FakelagConfig controls the artificial delay applied to clients that
// send lines too quickly.
type FakelagConfig struct {
	Enabled           bool
	Window            time.Duration
	BurstLimit        int `yaml:"burst-limit"`
	MessagesPerWindow int `yaml:"messages-per-window"`
}

// Config defines the overall configuration.
type Config struct {
	Server struct {
		Name           string
		Listeners      map[string]ListenerConfig
		MaxSendQString string `yaml:"max-sendq"`
		MaxSendQBytes  int    `yaml:"-"`
		LockFile       string `yaml:"lock-file"`
	}

	Limits Limits

	Fakelag FakelagConfig

	Logging []logger.LoggingConfig

	Filename string `yaml:"-"`
}

// LoadRawConfig reads and deserializes a config file without validating it.
func LoadRawConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = new(Config)
	}
	config.Filename = filename
	return config, nil
}

// LoadConfig loads the given YAML configuration file and validates it.
func LoadConfig(filename string) (config *Config, err error) {
	config, err = LoadRawConfig(filename)
	if err != nil {
		return nil, err
	}
	if err = config.Prepare(); err != nil {
		return nil, err
	}
	return config, nil
}

// OverridePort replaces every configured listener with a single plaintext
// TCP listener on the given port.
func (config *Config) OverridePort(port string) error {
	if !utils.IsPort(port) {
		return ErrInvalidPort
	}
	config.Server.Listeners = map[string]ListenerConfig{
		":" + port: {},
	}
	return nil
}

// Prepare applies defaults, validates the config and fills in derived fields.
func (config *Config) Prepare() (err error) {
	if config.Server.Name == "" {
		config.Server.Name = defaultServerName
	}
	if !utils.IsHostname(config.Server.Name) {
		return ErrServerNameNotHostname
	}
	if len(config.Server.Listeners) == 0 {
		return ErrNoListenersDefined
	}

	if config.Server.MaxSendQString == "" {
		config.Server.MaxSendQString = defaultMaxSendQ
	}
	maxSendQBytes, err := bytefmt.ToBytes(config.Server.MaxSendQString)
	if err != nil || maxSendQBytes == 0 {
		return ErrInvalidMaxSendQ
	}
	config.Server.MaxSendQBytes = int(maxSendQBytes)

	if config.Limits.ReadQString == "" {
		config.Limits.ReadQString = defaultReadQ
	}
	readQBytes, err := bytefmt.ToBytes(config.Limits.ReadQString)
	if err != nil || readQBytes < 512 {
		return ErrInvalidReadQ
	}
	config.Limits.ReadQBytes = int(readQBytes)

	// 0 leaves names unbounded, apart from readq
	if config.Limits.NickLen < 0 || config.Limits.ChannelLen < 0 {
		return ErrLimitsAreInsane
	}

	if config.Fakelag.Enabled {
		if config.Fakelag.Window <= 0 || config.Fakelag.MessagesPerWindow < 1 || config.Fakelag.BurstLimit < 1 {
			return ErrInvalidFakelag
		}
	}

	if len(config.Logging) == 0 {
		config.Logging = []logger.LoggingConfig{{
			Method:      "stderr",
			TypeString:  "* -userinput -useroutput",
			LevelString: "info",
		}}
	}
	var newLogConfigs []logger.LoggingConfig
	for _, logConfig := range config.Logging {
		// methods
		methods := make(map[string]bool)
		for _, method := range strings.Fields(logConfig.Method) {
			methods[strings.ToLower(method)] = true
		}
		if methods["file"] && logConfig.Filename == "" {
			return ErrLoggerFilenameMissing
		}
		logConfig.MethodFile = methods["file"]
		logConfig.MethodStdout = methods["stdout"]
		logConfig.MethodStderr = methods["stderr"]

		// levels
		level, exists := logger.LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			return fmt.Errorf("Could not translate log level [%s]", logConfig.LevelString)
		}
		logConfig.Level = level

		// types
		logConfig.Types, logConfig.ExcludedTypes, err = logger.ParseTypes(logConfig.TypeString)
		if err != nil {
			return err
		}

		newLogConfigs = append(newLogConfigs, logConfig)
	}
	config.Logging = newLogConfigs

	return nil
}
