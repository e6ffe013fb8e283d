package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/pkg/envfile"
	"github.com/doeshing/baishi/internal/pkg/filesystem"
	"github.com/doeshing/baishi/internal/ports"
)

// Profile keys.
const (
	KeyProvider         = "BAISH_PROVIDER"
	KeyAPIKey           = "BAISH_API_KEY"
	KeyModel            = "BAISH_MODEL"
	KeyOllamaHost       = "BAISH_OLLAMA_HOST"
	KeyOpenRouterAPIKey = "BAISH_OPENROUTER_API_KEY"
	KeyFormatOutput     = "BAISH_FORMAT_OUTPUT"
	KeyConfirm          = "BAISH_CONFIRM"
	KeySaveHistory      = "BAISH_SAVE_HISTORY"
	KeyHistoryLimit     = "BAISH_HISTORY_LIMIT"
	KeyHistoryBackend   = "BAISH_HISTORY_BACKEND"
	KeyDefaultShell     = "BAISH_DEFAULT_SHELL"
	KeyTimeout          = "BAISH_TIMEOUT"
	KeyTemperature      = "BAISH_TEMPERATURE"
	KeyMaxTokens        = "BAISH_MAX_TOKENS"
	KeySystemPrompt     = "BAISH_SYSTEM_PROMPT"
)

// ProfileFileName is the profile's name inside the config directory.
const ProfileFileName = "baishi_profile"

// FileLoader reads and writes the KEY=value profile at ~/.baishi/baishi_profile
// (overridable via BAISHI_HOME).
type FileLoader struct {
	overridePath string
	log          ports.Logger
}

// NewFileLoader builds a new loader. An empty path selects the default location.
func NewFileLoader(path string, log ports.Logger) *FileLoader {
	return &FileLoader{overridePath: path, log: log}
}

// Path returns the profile location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	return filepath.Join(filesystem.ConfigDir(), ProfileFileName)
}

// Load implements ports.ConfigProvider. Read failures are logged and the
// defaults are returned. Each line is parsed on its own, so a malformed line
// is skipped with a warning and the rest of the profile still applies.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(l.Path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		l.warn("failed to read profile, using defaults", map[string]interface{}{"path": l.Path(), "error": err.Error()})
	default:
		cfg = l.apply(cfg, l.parse(data))
	}

	if envKey := os.Getenv(KeyAPIKey); envKey != "" {
		cfg.APIKey = envKey
	}
	return cfg.WithDefaults(), nil
}

// parse reads every KEY=value line. A system prompt line godotenv rejects,
// such as one with unescaped inner quotes, keeps its raw text minus one
// surrounding quote on each side.
func (l *FileLoader) parse(data []byte) map[string]string {
	values := make(map[string]string)
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		key, value, ok, err := envfile.ParseLine(line)
		if err == nil {
			if ok {
				values[key] = value
			}
			continue
		}
		if rawKey, rawValue, found := envfile.SplitRaw(line); found && rawKey == KeySystemPrompt {
			values[KeySystemPrompt] = stripOuterQuotes(rawValue)
			continue
		}
		l.warn("skipping unreadable profile line", map[string]interface{}{"path": l.Path(), "line": n + 1, "error": err.Error()})
	}
	return values
}

func stripOuterQuotes(value string) string {
	if value != "" && strings.ContainsRune(`"'`, rune(value[0])) {
		value = value[1:]
	}
	if value != "" && strings.ContainsRune(`"'`, rune(value[len(value)-1])) {
		value = value[:len(value)-1]
	}
	return value
}

func (l *FileLoader) apply(cfg domain.Config, values map[string]string) domain.Config {
	for key, value := range values {
		switch key {
		case KeyProvider:
			cfg.Provider = domain.ProviderID(value)
		case KeyAPIKey:
			cfg.APIKey = value
		case KeyModel:
			cfg.Model = value
		case KeyOllamaHost:
			cfg.OllamaHost = value
		case KeyOpenRouterAPIKey:
			cfg.OpenRouterAPIKey = value
		case KeyFormatOutput:
			cfg.FormatOutput = parseBool(value)
		case KeyConfirm:
			cfg.ConfirmBeforeExecute = parseBool(value)
		case KeySaveHistory:
			cfg.SaveHistory = parseBool(value)
		case KeyHistoryLimit:
			cfg.HistoryLimit = l.parseInt(key, value, cfg.HistoryLimit)
		case KeyHistoryBackend:
			cfg.HistoryBackend = value
		case KeyDefaultShell:
			cfg.DefaultShell = value
		case KeyTimeout:
			cfg.TimeoutMS = l.parseInt(key, value, cfg.TimeoutMS)
		case KeyTemperature:
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				cfg.Temperature = f
			} else {
				l.warn("ignoring invalid value", map[string]interface{}{"key": key, "value": value})
			}
		case KeyMaxTokens:
			cfg.MaxTokens = l.parseInt(key, value, cfg.MaxTokens)
		case KeySystemPrompt:
			cfg.SystemPrompt = value
		}
	}
	return cfg
}

// Save writes cfg to the profile. The caller's value is never modified, so a
// failed save leaves in-memory state intact. Nothing is written when a value
// cannot be stored.
func (l *FileLoader) Save(_ context.Context, cfg domain.Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Marshal renders cfg in profile format. Every value is written so that Load
// reads it back unchanged; a value that cannot be is an error.
func Marshal(cfg domain.Config) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Baish Configuration File\n")
	b.WriteString("# This file is loaded on startup\n\n")

	var errs []error
	line := func(key, value string) {
		encoded, err := envfile.Line(key, value)
		if err != nil {
			errs = append(errs, err)
			return
		}
		b.WriteString(encoded)
		b.WriteByte('\n')
	}

	line(KeyProvider, string(cfg.Provider))
	if cfg.APIKey != "" {
		line(KeyAPIKey, cfg.APIKey)
	}
	if cfg.Model != "" {
		line(KeyModel, cfg.Model)
	}
	if cfg.OllamaHost != "" {
		line(KeyOllamaHost, cfg.OllamaHost)
	}
	if cfg.OpenRouterAPIKey != "" {
		line(KeyOpenRouterAPIKey, cfg.OpenRouterAPIKey)
	}
	line(KeyFormatOutput, strconv.FormatBool(cfg.FormatOutput))
	line(KeyConfirm, strconv.FormatBool(cfg.ConfirmBeforeExecute))
	line(KeySaveHistory, strconv.FormatBool(cfg.SaveHistory))
	line(KeyHistoryLimit, strconv.Itoa(cfg.HistoryLimit))
	if cfg.HistoryBackend != "" && cfg.HistoryBackend != domain.HistoryBackendJSON {
		line(KeyHistoryBackend, cfg.HistoryBackend)
	}
	line(KeyDefaultShell, cfg.DefaultShell)
	line(KeyTimeout, strconv.Itoa(cfg.TimeoutMS))
	line(KeyTemperature, strconv.FormatFloat(cfg.Temperature, 'f', -1, 64))
	line(KeyMaxTokens, strconv.Itoa(cfg.MaxTokens))
	if cfg.SystemPrompt != "" {
		line(KeySystemPrompt, cfg.SystemPrompt)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return []byte(b.String()), nil
}

func parseBool(value string) bool {
	return strings.EqualFold(value, "true")
}

func (l *FileLoader) parseInt(key, value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		l.warn("ignoring invalid value", map[string]interface{}{"key": key, "value": value})
		return fallback
	}
	return n
}

func (l *FileLoader) warn(msg string, fields map[string]interface{}) {
	if l.log != nil {
		l.log.Warn(msg, fields)
	}
}

var _ ports.ConfigStore = (*FileLoader)(nil)
