// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the level to log messages at.
type Level int

const (
	// LogDebug represents debug messages.
	LogDebug Level = iota
	// LogInfo represents informational messages.
	LogInfo
	// LogWarning represents warnings.
	LogWarning
	// LogError represents errors.
	LogError
)

var (
	// LogLevelNames takes a config name and gives the real log level.
	LogLevelNames = map[string]Level{
		"debug":    LogDebug,
		"info":     LogInfo,
		"warn":     LogWarning,
		"warning":  LogWarning,
		"warnings": LogWarning,
		"error":    LogError,
		"errors":   LogError,
	}
	// LogLevelDisplayNames gives the display name to use for our log levels.
	LogLevelDisplayNames = map[Level]string{
		LogDebug:   "debug",
		LogInfo:    "info",
		LogWarning: "warn",
		LogError:   "error",
	}
)

// longest log type in use ("useroutput"), for column alignment
const typeColumnWidth = 10

// LoggingConfig represents the configuration of a single logger.
// The exported string fields come from YAML; the rest are derived by
// the config loader.
type LoggingConfig struct {
	Method        string
	MethodStdout  bool     `yaml:"-"`
	MethodStderr  bool     `yaml:"-"`
	MethodFile    bool     `yaml:"-"`
	Filename      string
	TypeString    string   `yaml:"type"`
	Types         []string `yaml:"-"`
	ExcludedTypes []string `yaml:"-"`
	LevelString   string   `yaml:"level"`
	Level         Level    `yaml:"-"`
}

// Manager is the main interface used to log debug/info/error messages.
type Manager struct {
	configMutex  sync.RWMutex
	loggers      []*singleLogger
	writeMutex   sync.Mutex // shared by every output, so lines never interleave
	loggingRawIO atomic.Uint32
}

// NewManager returns a new log manager.
func NewManager(config []LoggingConfig) (*Manager, error) {
	var manager Manager
	if err := manager.ApplyConfig(config); err != nil {
		return nil, err
	}
	return &manager, nil
}

// NewDiscardManager returns a manager that drops everything; handy for tests.
func NewDiscardManager() *Manager {
	return &Manager{}
}

// NewWriterManager returns a manager that writes every type at or above
// the given level to w.
func NewWriterManager(w io.Writer, level Level) *Manager {
	manager := &Manager{}
	manager.loggers = []*singleLogger{{
		level:     level,
		types:     map[string]bool{"*": true},
		excluded:  map[string]bool{},
		writers:   []io.Writer{w},
		writeLock: &manager.writeMutex,
	}}
	if level == LogDebug {
		manager.loggingRawIO.Store(1)
	}
	return manager
}

// ApplyConfig replaces the current loggers with ones built from config.
func (manager *Manager) ApplyConfig(config []LoggingConfig) error {
	manager.configMutex.Lock()
	defer manager.configMutex.Unlock()

	for _, logger := range manager.loggers {
		logger.Close()
	}
	manager.loggers = nil
	manager.loggingRawIO.Store(0)

	var lastErr error
	for _, logConfig := range config {
		logger := &singleLogger{
			level:     logConfig.Level,
			types:     make(map[string]bool),
			excluded:  make(map[string]bool),
			writeLock: &manager.writeMutex,
		}
		for _, name := range logConfig.Types {
			logger.types[name] = true
		}
		for _, name := range logConfig.ExcludedTypes {
			logger.excluded[name] = true
		}
		if logConfig.MethodStdout {
			logger.writers = append(logger.writers, os.Stdout)
		}
		if logConfig.MethodStderr {
			logger.writers = append(logger.writers, os.Stderr)
		}
		if logConfig.MethodFile {
			file, err := os.OpenFile(logConfig.Filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
			if err != nil {
				lastErr = fmt.Errorf("Could not open log file %s [%s]", logConfig.Filename, err.Error())
				continue
			}
			logger.file = file
			logger.fileWriter = bufio.NewWriter(file)
		}
		if logConfig.Level == LogDebug && logger.captures("userinput") {
			manager.loggingRawIO.Store(1)
		}
		manager.loggers = append(manager.loggers, logger)
	}

	return lastErr
}

// Close flushes and closes any log files.
func (manager *Manager) Close() {
	manager.configMutex.Lock()
	defer manager.configMutex.Unlock()
	for _, logger := range manager.loggers {
		logger.Close()
	}
	manager.loggers = nil
}

// IsLoggingRawIO returns true if raw user input and output is being logged.
func (manager *Manager) IsLoggingRawIO() bool {
	return manager.loggingRawIO.Load() == 1
}

// Log logs the given message with the given details.
func (manager *Manager) Log(level Level, logType string, messageParts ...string) {
	manager.configMutex.RLock()
	defer manager.configMutex.RUnlock()

	for _, logger := range manager.loggers {
		logger.Log(level, logType, messageParts...)
	}
}

// Debug logs the given message as a debug message.
func (manager *Manager) Debug(logType string, messageParts ...string) {
	manager.Log(LogDebug, logType, messageParts...)
}

// Info logs the given message as an info message.
func (manager *Manager) Info(logType string, messageParts ...string) {
	manager.Log(LogInfo, logType, messageParts...)
}

// Warning logs the given message as a warning message.
func (manager *Manager) Warning(logType string, messageParts ...string) {
	manager.Log(LogWarning, logType, messageParts...)
}

// Error logs the given message as an error message.
func (manager *Manager) Error(logType string, messageParts ...string) {
	manager.Log(LogError, logType, messageParts...)
}

// ParseTypes splits a config type string such as "* -userinput -useroutput"
// into captured and excluded types.
func ParseTypes(typeString string) (types, excluded []string, err error) {
	for _, typeStr := range strings.Fields(typeString) {
		if typeStr == "-" {
			return nil, nil, errExcludeEmpty
		}
		if typeStr[0] == '-' {
			excluded = append(excluded, typeStr[1:])
		} else {
			types = append(types, typeStr)
		}
	}
	if len(types) == 0 {
		return nil, nil, errNoTypes
	}
	return
}

// singleLogger is one configured output.
type singleLogger struct {
	level      Level
	types      map[string]bool
	excluded   map[string]bool
	writers    []io.Writer
	file       *os.File
	fileWriter *bufio.Writer
	writeLock  *sync.Mutex
}

func (logger *singleLogger) captures(logType string) bool {
	return (logger.types["*"] || logger.types[logType]) && !logger.excluded["*"] && !logger.excluded[logType]
}

func (logger *singleLogger) Close() error {
	if logger.file == nil {
		return nil
	}
	flushErr := logger.fileWriter.Flush()
	closeErr := logger.file.Close()
	logger.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Log logs the given message with the given details.
func (logger *singleLogger) Log(level Level, logType string, messageParts ...string) {
	if len(logger.writers) == 0 && logger.file == nil {
		return
	}
	if level < logger.level || !logger.captures(logType) {
		return
	}

	var rawBuf bytes.Buffer
	fmt.Fprintf(&rawBuf, "%s : %-5s : %-*s : ", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), LogLevelDisplayNames[level], typeColumnWidth, logType)
	rawBuf.WriteString(strings.Join(messageParts, " : "))
	rawBuf.WriteByte('\n')

	logger.writeLock.Lock()
	defer logger.writeLock.Unlock()
	for _, w := range logger.writers {
		w.Write(rawBuf.Bytes())
	}
	if logger.file != nil {
		logger.fileWriter.Write(rawBuf.Bytes())
		logger.fileWriter.Flush()
	}
}
