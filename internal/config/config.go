// Package config reads pipeline settings once at process start from
// the environment (AMI_ prefix) and an optional config file, flags
// overriding both.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/audiomidi/ingest/internal/sink"
	"github.com/audiomidi/ingest/internal/util"
)

// Config is the full ingestion configuration: store endpoints and
// credentials, dataset roots, the per-pass file limit, and the IDMT
// subset toggles.
type Config struct {
	Object sink.S3Config

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string

	MongoURI      string
	MongoDatabase string

	GuitarSetRoot string
	IDMTRoot      string

	Limit       int
	IDMTSubsets []int
}

// SetDefaults registers the default values on viper. Called once from
// the command initialization.
func SetDefaults() {
	viper.SetDefault("s3.endpoint", "localhost:9000")
	viper.SetDefault("s3.access-key", "minioadmin")
	viper.SetDefault("s3.secret-key", "minioadmin")
	viper.SetDefault("s3.bucket", "raw")
	viper.SetDefault("s3.secure", false)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "admin")
	viper.SetDefault("postgres.password", "")
	viper.SetDefault("postgres.database", "audio_midi")

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "audio_midi")

	viper.SetDefault("idmt.subsets", []int{1, 2, 3})

	viper.SetEnvPrefix("AMI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// Load materializes the configuration from viper's merged state.
func Load() (*Config, error) {
	cfg := &Config{
		Object: sink.S3Config{
			Endpoint:  viper.GetString("s3.endpoint"),
			AccessKey: viper.GetString("s3.access-key"),
			SecretKey: viper.GetString("s3.secret-key"),
			Bucket:    viper.GetString("s3.bucket"),
			UseSSL:    viper.GetBool("s3.secure"),
		},
		PostgresHost:     viper.GetString("postgres.host"),
		PostgresPort:     viper.GetInt("postgres.port"),
		PostgresUser:     viper.GetString("postgres.user"),
		PostgresPassword: viper.GetString("postgres.password"),
		PostgresDatabase: viper.GetString("postgres.database"),
		MongoURI:         viper.GetString("mongo.uri"),
		MongoDatabase:    viper.GetString("mongo.database"),
		GuitarSetRoot:    viper.GetString("guitarset.root"),
		IDMTRoot:         viper.GetString("idmt.root"),
		Limit:            viper.GetInt("limit"),
		IDMTSubsets:      viper.GetIntSlice("idmt.subsets"),
	}

	if cfg.Object.Endpoint == "" {
		return nil, fmt.Errorf("%w: object store endpoint is empty", util.ErrConfiguration)
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("%w: mongo uri is empty", util.ErrConfiguration)
	}
	return cfg, nil
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDatabase)
}
