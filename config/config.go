package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// DefaultConfigFile is read when no config directory is given.
	DefaultConfigFile = "/usr/local/etc/iocage.ini"

	// DefaultEditor is used when neither $EDITOR nor the config names one.
	DefaultEditor = "/usr/bin/vi"

	// DefaultToolName appears in the "Added by" comment of new fstab lines.
	DefaultToolName = "iocage"
)

// Config holds the resolved settings for fstab management.
//
// The value is built once by the CLI bootstrap and passed down explicitly;
// nothing below the cmd package performs its own pool or root lookup.
type Config struct {
	Pool    string
	IOCRoot string

	Editor   string
	ToolName string

	// External programs
	MountCmd  string
	UmountCmd string
	JlsCmd    string

	// UseLock guards read-modify-replace sequences with flock(2).
	UseLock bool

	Debug  bool
	Silent bool

	Database struct {
		Path string // Default: ${IOCRoot}/log/fstab-history.db
	}

	LogsPath string // Default: ${IOCRoot}/log
}

// ConfigError reports a setting that could not be resolved.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig loads configuration from configDir/iocage.ini, or from
// DefaultConfigFile when configDir is empty. A missing file is not an error;
// defaults are applied either way.
func LoadConfig(configDir string) (*Config, error) {
	cfg := &Config{
		UseLock: true,
	}

	configFile := DefaultConfigFile
	if configDir != "" {
		configFile = filepath.Join(configDir, "iocage.ini")
	}

	if _, err := os.Stat(configFile); err == nil {
		iniFile, err := ini.Load(configFile)
		if err != nil {
			return nil, &ConfigError{Key: configFile, Err: err}
		}

		if iniFile.HasSection("Global") {
			cfg.loadFromSection(iniFile.Section("Global"))
		}
		// Keys outside any section land in the default section
		cfg.loadFromSection(iniFile.Section(ini.DefaultSection))
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Pool == "" {
		cfg.Pool = "zroot"
	}
	// An unset iocroot falls back to the iocage default; a relative one is rejected
	if cfg.IOCRoot == "" {
		cfg.IOCRoot = "/iocage"
	}
	if !filepath.IsAbs(cfg.IOCRoot) {
		return &ConfigError{Key: "iocroot", Err: fmt.Errorf("%q is not an absolute path", cfg.IOCRoot)}
	}

	// $EDITOR wins over the config file, matching interactive expectations
	if env := os.Getenv("EDITOR"); env != "" {
		cfg.Editor = env
	}
	if cfg.Editor == "" {
		cfg.Editor = DefaultEditor
	}

	if cfg.ToolName == "" {
		cfg.ToolName = DefaultToolName
	}
	if cfg.MountCmd == "" {
		cfg.MountCmd = "mount"
	}
	if cfg.UmountCmd == "" {
		cfg.UmountCmd = "umount"
	}
	if cfg.JlsCmd == "" {
		cfg.JlsCmd = "jls"
	}
	if cfg.LogsPath == "" {
		cfg.LogsPath = filepath.Join(cfg.IOCRoot, "log")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(cfg.LogsPath, "fstab-history.db")
	}

	return nil
}

// loadFromSection loads config values from an INI section
func (cfg *Config) loadFromSection(sec *ini.Section) {
	if sec == nil {
		return
	}

	if key := sec.Key("pool"); key.String() != "" {
		cfg.Pool = key.String()
	}
	if key := sec.Key("iocroot"); key.String() != "" {
		cfg.IOCRoot = key.String()
	}
	if key := sec.Key("editor"); key.String() != "" {
		cfg.Editor = key.String()
	}
	if key := sec.Key("tool_name"); key.String() != "" {
		cfg.ToolName = key.String()
	}
	if key := sec.Key("mount_cmd"); key.String() != "" {
		cfg.MountCmd = key.String()
	}
	if key := sec.Key("umount_cmd"); key.String() != "" {
		cfg.UmountCmd = key.String()
	}
	if key := sec.Key("jls_cmd"); key.String() != "" {
		cfg.JlsCmd = key.String()
	}
	if key := sec.Key("logs_path"); key.String() != "" {
		cfg.LogsPath = key.String()
	}
	if key := sec.Key("database_path"); key.String() != "" {
		cfg.Database.Path = key.String()
	}

	if sec.HasKey("lock") {
		cfg.UseLock = parseBool(sec.Key("lock").String())
	}
	if sec.HasKey("debug") {
		cfg.Debug = cfg.Debug || parseBool(sec.Key("debug").String())
	}
}

// JailDir returns the directory holding a jail's config, fstab and root.
func (cfg *Config) JailDir(uuid string) string {
	return filepath.Join(cfg.IOCRoot, "jails", uuid)
}

// FstabPath returns the fstab file for a jail.
func (cfg *Config) FstabPath(uuid string) string {
	return filepath.Join(cfg.JailDir(uuid), "fstab")
}

// JailRoot returns the root filesystem of a jail.
func (cfg *Config) JailRoot(uuid string) string {
	return filepath.Join(cfg.JailDir(uuid), "root")
}

// ResolveDestination maps a path as seen inside the jail to the host path
// under the jail root. Paths already under the jail root are left alone.
func (cfg *Config) ResolveDestination(uuid, dest string) string {
	root := cfg.JailRoot(uuid)
	if dest == root || strings.HasPrefix(dest, root+"/") {
		return dest
	}
	return filepath.Join(root, dest)
}

func parseBool(s string) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	switch strings.ToLower(s) {
	case "yes", "on":
		return true
	}
	return false
}
