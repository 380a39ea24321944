package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:8570"
	DefaultDBFileName = ".sumpro.db"

	StorageModeLocal  = "local"
	StorageModeRemote = "remote"

	DefaultMaxResumeBytes     int64 = 5 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024
	DefaultSMTPPort                 = 465
	DefaultStorageFolder            = "sumpro_resumes"

	configDirEnvKey          = "SUMPRO_CONFIG_DIR"
	trustProjectConfigEnvKey = "SUMPRO_TRUST_PROJECT_CONFIG"

	// Secrets are env-only and never read from the TOML file.
	StorageAPIKeyEnvKey    = "SUMPRO_STORAGE_API_KEY"
	StorageAPISecretEnvKey = "SUMPRO_STORAGE_API_SECRET"
	SMTPPasswordEnvKey     = "SUMPRO_SMTP_PASSWORD"
	AdminTokenEnvKey       = "SUMPRO_ADMIN_TOKEN"
	BootstrapEmailEnvKey   = "SUMPRO_ADMIN_BOOTSTRAP_EMAIL"
	BootstrapPassEnvKey    = "SUMPRO_ADMIN_BOOTSTRAP_PASSWORD"

	configFileName = ".sumpro.toml"
)

// StorageConfig selects and parameterizes the resume blob backend.
type StorageConfig struct {
	Mode     string `toml:"mode"`
	LocalDir string `toml:"local_dir"`
	Endpoint string `toml:"endpoint"`
	Folder   string `toml:"folder"`
}

// UploadConfig bounds resume uploads.
type UploadConfig struct {
	MaxResumeBytes     int64 `toml:"max_resume_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// MailConfig parameterizes the contact notifier transport. The SMTP
// password comes from SUMPRO_SMTP_PASSWORD.
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	From     string `toml:"from"`
	To       string `toml:"to"`
}

// Config defines runtime configuration for sumpro.
type Config struct {
	APIURL                   string        `toml:"api_url"`
	DBPath                   string        `toml:"db_path"`
	Storage                  StorageConfig `toml:"storage"`
	Uploads                  UploadConfig  `toml:"uploads"`
	Mail                     MailConfig    `toml:"mail"`
	TrustedProjectConfigPath string        `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL: DefaultAPIURL,
		DBPath: "",
		Storage: StorageConfig{
			Mode:   StorageModeLocal,
			Folder: DefaultStorageFolder,
		},
		Uploads: UploadConfig{
			MaxResumeBytes:     DefaultMaxResumeBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
		Mail: MailConfig{
			Port: DefaultSMTPPort,
		},
	}
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.normalizeDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if apiURL := os.Getenv("SUMPRO_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv("SUMPRO_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if mode := strings.TrimSpace(os.Getenv("SUMPRO_STORAGE_MODE")); mode != "" {
		cfg.Storage.Mode = mode
	}
	if endpoint := strings.TrimSpace(os.Getenv("SUMPRO_STORAGE_ENDPOINT")); endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}
	if dir := strings.TrimSpace(os.Getenv("SUMPRO_UPLOADS_DIR")); dir != "" {
		cfg.Storage.LocalDir = dir
	}
	if raw := strings.TrimSpace(os.Getenv("SUMPRO_MAX_RESUME_BYTES")); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 0 {
			cfg.Uploads.MaxResumeBytes = parsed
		}
	}
	if host := strings.TrimSpace(os.Getenv("SUMPRO_SMTP_HOST")); host != "" {
		cfg.Mail.Host = host
	}
	if raw := strings.TrimSpace(os.Getenv("SUMPRO_SMTP_PORT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Mail.Port = parsed
		}
	}
	if from := strings.TrimSpace(os.Getenv("SUMPRO_MAIL_FROM")); from != "" {
		cfg.Mail.From = from
	}
	if to := strings.TrimSpace(os.Getenv("SUMPRO_MAIL_TO")); to != "" {
		cfg.Mail.To = to
	}
}

func (c *Config) normalizeDefaults() {
	c.Storage.Mode = strings.ToLower(strings.TrimSpace(c.Storage.Mode))
	if c.Storage.Mode == "" {
		c.Storage.Mode = StorageModeLocal
	}
	if c.Storage.Folder == "" {
		c.Storage.Folder = DefaultStorageFolder
	}
	if c.Uploads.MaxResumeBytes < 0 {
		c.Uploads.MaxResumeBytes = DefaultMaxResumeBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if c.Mail.Port <= 0 {
		c.Mail.Port = DefaultSMTPPort
	}
	if c.Mail.Username == "" {
		c.Mail.Username = c.Mail.From
	}
	if c.Mail.To == "" {
		c.Mail.To = c.Mail.From
	}
}

func (c *Config) validate() error {
	switch c.Storage.Mode {
	case StorageModeLocal, StorageModeRemote:
	default:
		return fmt.Errorf("storage.mode must be %q or %q, got %q", StorageModeLocal, StorageModeRemote, c.Storage.Mode)
	}
	if c.Storage.Mode == StorageModeRemote && strings.TrimSpace(c.Storage.Endpoint) == "" {
		return fmt.Errorf("storage.endpoint is required in remote mode")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"storage.mode",
	"storage.local_dir",
	"storage.endpoint",
	"storage.folder",
	"uploads.max_resume_bytes",
	"uploads.multipart_max_memory",
	"mail.host",
	"mail.port",
	"mail.username",
	"mail.from",
	"mail.to",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "storage.mode":
		return c.Storage.Mode, nil
	case "storage.local_dir":
		return c.Storage.LocalDir, nil
	case "storage.endpoint":
		return c.Storage.Endpoint, nil
	case "storage.folder":
		return c.Storage.Folder, nil
	case "uploads.max_resume_bytes":
		return strconv.FormatInt(c.Uploads.MaxResumeBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "mail.host":
		return c.Mail.Host, nil
	case "mail.port":
		return strconv.Itoa(c.Mail.Port), nil
	case "mail.username":
		return c.Mail.Username, nil
	case "mail.from":
		return c.Mail.From, nil
	case "mail.to":
		return c.Mail.To, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// ProjectPath returns the path of the per-project config file in the
// current working directory.
func ProjectPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, configFileName), nil
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_resume_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer", key)
		}
		return parsed, nil
	case "mail.port":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "storage.mode":
		mode := strings.ToLower(value)
		if mode != StorageModeLocal && mode != StorageModeRemote {
			return nil, fmt.Errorf("%s must be %q or %q", key, StorageModeLocal, StorageModeRemote)
		}
		return mode, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
