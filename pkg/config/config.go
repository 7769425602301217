// Package config loads aes256 settings. Defaults are overridden by the YAML
// file, which is overridden by AES256_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"aes256-go/pkg/keyderive"
	"aes256-go/pkg/transform"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigName = "aes256"
	EnvPrefix  = "AES256"
)

type KDFConfig struct {
	Method        string `mapstructure:"method" yaml:"method"`
	Salt          string `mapstructure:"salt" yaml:"salt"`
	Iterations    int    `mapstructure:"iterations" yaml:"iterations"`
	Argon2Time    uint32 `mapstructure:"argon2_time" yaml:"argon2_time"`
	Argon2Memory  uint32 `mapstructure:"argon2_memory" yaml:"argon2_memory"`
	Argon2Threads uint8  `mapstructure:"argon2_threads" yaml:"argon2_threads"`
}

// Params converts the section for keyderive.New.
func (k KDFConfig) Params() keyderive.Params {
	return keyderive.Params{
		Method:        k.Method,
		Salt:          k.Salt,
		Iterations:    k.Iterations,
		Argon2Time:    k.Argon2Time,
		Argon2Memory:  k.Argon2Memory,
		Argon2Threads: k.Argon2Threads,
	}
}

type StoreConfig struct {
	Driver         string `mapstructure:"driver" yaml:"driver"`
	Path           string `mapstructure:"path" yaml:"path"`
	StorePlaintext bool   `mapstructure:"store_plaintext" yaml:"store_plaintext"`
}

type LogConfig struct {
	Sink   string `mapstructure:"sink" yaml:"sink"` // console, sqlite or none
	Level  string `mapstructure:"level" yaml:"level"`
	DBFile string `mapstructure:"db_file" yaml:"db_file"`
}

type Config struct {
	KDF           KDFConfig   `mapstructure:"kdf" yaml:"kdf"`
	Store         StoreConfig `mapstructure:"store" yaml:"store"`
	Log           LogConfig   `mapstructure:"log" yaml:"log"`
	Compression   string      `mapstructure:"compression" yaml:"compression"` // none, gzip or zstd
	Hardened      bool        `mapstructure:"hardened" yaml:"hardened"`
	APIListenAddr string      `mapstructure:"api_listen_address" yaml:"api_listen_address"`
	BatchWorkers  int         `mapstructure:"batch_workers" yaml:"batch_workers"`
	ConfigFile    string      `mapstructure:"-" yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		KDF: KDFConfig{
			Method:        keyderive.MethodSHA256,
			Iterations:    keyderive.DefaultPBKDF2Iterations,
			Argon2Time:    keyderive.DefaultArgon2Time,
			Argon2Memory:  keyderive.DefaultArgon2Memory,
			Argon2Threads: keyderive.DefaultArgon2Threads,
		},
		Store: StoreConfig{
			Driver: "csv",
			Path:   "data/encrypted_data.csv",
		},
		Log: LogConfig{
			Sink:   "console",
			Level:  "info",
			DBFile: "aes256.db",
		},
		Compression:   transform.CodecNone,
		APIListenAddr: "127.0.0.1:7780",
		BatchWorkers:  4,
	}
}

// defaults mirrors DefaultConfig into v so that environment overrides of
// nested keys reach Unmarshal.
func defaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("kdf.method", cfg.KDF.Method)
	v.SetDefault("kdf.salt", cfg.KDF.Salt)
	v.SetDefault("kdf.iterations", cfg.KDF.Iterations)
	v.SetDefault("kdf.argon2_time", cfg.KDF.Argon2Time)
	v.SetDefault("kdf.argon2_memory", cfg.KDF.Argon2Memory)
	v.SetDefault("kdf.argon2_threads", cfg.KDF.Argon2Threads)
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.store_plaintext", cfg.Store.StorePlaintext)
	v.SetDefault("log.sink", cfg.Log.Sink)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.db_file", cfg.Log.DBFile)
	v.SetDefault("compression", cfg.Compression)
	v.SetDefault("hardened", cfg.Hardened)
	v.SetDefault("api_listen_address", cfg.APIListenAddr)
	v.SetDefault("batch_workers", cfg.BatchWorkers)
}

// LoadConfig reads path when given, otherwise searches ".", /etc/aes256/
// and $HOME/.aes256 for aes256.yaml. A missing file is not an error.
// AES256_* environment variables override file values, for example
// AES256_STORE_DRIVER.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	defaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aes256/")
		v.AddConfigPath("$HOME/.aes256")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML to path, refusing to replace an existing file.
func WriteConfig(path string, cfg *Config) error {
	return WriteConfigFs(afero.NewOsFs(), path, cfg)
}

// WriteConfigFs is WriteConfig on fs. A failed write removes the partial
// file so a retry is not refused.
func WriteConfigFs(fs afero.Fs, path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Join(fmt.Errorf("config: write %s: %w", path, err), fs.Remove(path))
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.KDF.Method) {
	case "", keyderive.MethodSHA256:
	case keyderive.MethodPBKDF2, keyderive.MethodArgon2id:
		if c.KDF.Salt == "" {
			errs = append(errs, fmt.Errorf("kdf.salt is required for %s", c.KDF.Method))
		}
	default:
		errs = append(errs, fmt.Errorf("kdf.method %q is not one of sha256, pbkdf2, argon2id", c.KDF.Method))
	}
	switch c.Store.Driver {
	case "csv", "sqlite", "bolt":
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of csv, sqlite, bolt", c.Store.Driver))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is empty"))
	}
	switch c.Log.Sink {
	case "console", "none":
	case "sqlite":
		if c.Log.DBFile == "" {
			errs = append(errs, errors.New("log.db_file is required for the sqlite sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("log.sink %q is not one of console, sqlite, none", c.Log.Sink))
	}
	if !transform.ValidCodec(c.Compression) {
		errs = append(errs, fmt.Errorf("compression %q is not one of none, gzip, zstd", c.Compression))
	}
	if c.BatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("batch_workers must be positive, got %d", c.BatchWorkers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid settings: %w", errors.Join(errs...))
	}
	return nil
}
