package chain

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/extend-xyz/spacegrid/common"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the host simulator. It is read from YAML,
// environment variables override file values.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Logger   LoggerConfig   `yaml:"logger"`
	Programs ProgramsConfig `yaml:"programs"`
	// Time is the initial clock value in seconds.
	Time uint64 `yaml:"time" env:"SPACEGRID_TIME"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	// Type is one of dbconfig.InMemoryDB, dbconfig.LevelDB, dbconfig.BoltDB.
	Type string `yaml:"type" env:"SPACEGRID_STORAGE_TYPE"`
	// Path is the LevelDB directory or the BoltDB file.
	Path string `yaml:"path" env:"SPACEGRID_STORAGE_PATH"`
	// ReadOnly opens persistent storage in read-only mode.
	ReadOnly bool `yaml:"read_only" env:"SPACEGRID_STORAGE_READ_ONLY"`
}

// LoggerConfig configures zap logger.
type LoggerConfig struct {
	Level string `yaml:"level" env:"SPACEGRID_LOG_LEVEL"`
}

// ProgramsConfig contains base58 identities of the programs and assets.
// Empty values are replaced with ProgramID of the field name.
type ProgramsConfig struct {
	Registry     string `yaml:"registry" env:"SPACEGRID_REGISTRY"`
	Canvas       string `yaml:"canvas" env:"SPACEGRID_CANVAS"`
	Rent         string `yaml:"rent" env:"SPACEGRID_RENT"`
	Token        string `yaml:"token" env:"SPACEGRID_TOKEN"`
	Metadata     string `yaml:"metadata" env:"SPACEGRID_METADATA"`
	PaymentAsset string `yaml:"payment_asset" env:"SPACEGRID_PAYMENT_ASSET"`
}

// Identities are decoded ProgramsConfig values.
type Identities struct {
	Registry     common.Address
	Canvas       common.Address
	Rent         common.Address
	Token        common.Address
	Metadata     common.Address
	PaymentAsset common.Address
}

// DefaultConfig returns in-memory configuration with well-known program
// identities.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Type: dbconfig.InMemoryDB},
		Logger:  LoggerConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the YAML file (if path is not empty)
// and applies environment overrides on top of defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// DBConfiguration converts storage configuration into neo-go one.
func (c StorageConfig) DBConfiguration() (dbconfig.DBConfiguration, error) {
	res := dbconfig.DBConfiguration{Type: c.Type}

	switch c.Type {
	case dbconfig.InMemoryDB, "":
		res.Type = dbconfig.InMemoryDB
	case dbconfig.LevelDB:
		res.LevelDBOptions.DataDirectoryPath = c.Path
		res.LevelDBOptions.ReadOnly = c.ReadOnly
	case dbconfig.BoltDB:
		res.BoltDBOptions.FilePath = c.Path
		res.BoltDBOptions.ReadOnly = c.ReadOnly
	default:
		return dbconfig.DBConfiguration{}, fmt.Errorf("unsupported storage type %q", c.Type)
	}

	return res, nil
}

// Identities decodes configured program identities.
func (c ProgramsConfig) Identities() (Identities, error) {
	var (
		res Identities
		err error
	)

	for _, p := range []struct {
		name string
		val  string
		dst  *common.Address
	}{
		{"registry", c.Registry, &res.Registry},
		{"canvas", c.Canvas, &res.Canvas},
		{"rent", c.Rent, &res.Rent},
		{"token", c.Token, &res.Token},
		{"metadata", c.Metadata, &res.Metadata},
		{"payment_asset", c.PaymentAsset, &res.PaymentAsset},
	} {
		if p.val == "" {
			*p.dst = ProgramID(p.name)
			continue
		}
		if *p.dst, err = common.DecodeAddress(p.val); err != nil {
			return Identities{}, fmt.Errorf("%s identity: %w", p.name, err)
		}
	}

	return res, nil
}

// Names returns identities keyed by configuration names.
func (i Identities) Names() map[string]common.Address {
	return map[string]common.Address{
		"registry":      i.Registry,
		"canvas":        i.Canvas,
		"rent":          i.Rent,
		"token":         i.Token,
		"metadata":      i.Metadata,
		"payment_asset": i.PaymentAsset,
	}
}

// NewLogger builds production zap logger of the configured level.
func (c LoggerConfig) NewLogger() (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if c.Level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(c.Level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}
