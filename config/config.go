// Package config holds the server configuration. Values come from CLI flags,
// environment variables prefixed with COOLBOOKS, or config.yaml (in that order).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"coolbooks_server/models"
)

const EnvPrefix = "COOLBOOKS"

type HTTPConfig struct {
	Addr string
}

type LogConfig struct {
	Format string
	Level  string
}

type AWSConfig struct {
	Region string
}

type DynamoDBConfig struct {
	Table      string
	OwnerIndex string
	TypeIndex  string
}

// DirectoryConfig selects where display names are resolved from.
type DirectoryConfig struct {
	Backend       string // "cognito" or "dynamodb"
	UserPoolID    string
	ProfilesTable string
}

type ImagesConfig struct {
	Backend string // "s3" or "minio"
	Bucket  string
	Prefix  string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type AuthConfig struct {
	JWTSecret string
	UserClaim string
}

type MatchConfig struct {
	MaxConcurrentLookups int
}

type NATSConfig struct {
	URL     string
	Subject string
}

type SocketConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type Config struct {
	HTTP      HTTPConfig
	Log       LogConfig
	AWS       AWSConfig
	DynamoDB  DynamoDBConfig
	Directory DirectoryConfig
	Images    ImagesConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	Match     MatchConfig
	NATS      NATSConfig
	Socket    SocketConfig
	CORS      CORSConfig
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Format: "json", Level: "info"},
		AWS:  AWSConfig{Region: "eu-west-1"},
		DynamoDB: DynamoDBConfig{
			Table:      models.ListingsTable,
			OwnerIndex: models.OwnerIndex,
			TypeIndex:  models.TypeIndex,
		},
		Directory: DirectoryConfig{
			Backend:       "cognito",
			ProfilesTable: models.UserProfilesTable,
		},
		Images: ImagesConfig{
			Backend: "s3",
			Bucket:  "coolbooks",
			Prefix:  "pictures",
		},
		MinIO:  MinIOConfig{Endpoint: "localhost:9000"},
		Auth:   AuthConfig{UserClaim: "cognito:username"},
		Match:  MatchConfig{MaxConcurrentLookups: 16},
		NATS:   NATSConfig{Subject: "listings.created"},
		Socket: SocketConfig{Enabled: true},
		CORS:   CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// SetDefaults registers every key with v so that environment variables are
// picked up by Unmarshal even when no flag or file sets them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("aws.region", d.AWS.Region)
	v.SetDefault("dynamodb.table", d.DynamoDB.Table)
	v.SetDefault("dynamodb.ownerIndex", d.DynamoDB.OwnerIndex)
	v.SetDefault("dynamodb.typeIndex", d.DynamoDB.TypeIndex)
	v.SetDefault("directory.backend", d.Directory.Backend)
	v.SetDefault("directory.userPoolId", d.Directory.UserPoolID)
	v.SetDefault("directory.profilesTable", d.Directory.ProfilesTable)
	v.SetDefault("images.backend", d.Images.Backend)
	v.SetDefault("images.bucket", d.Images.Bucket)
	v.SetDefault("images.prefix", d.Images.Prefix)
	v.SetDefault("minio.endpoint", d.MinIO.Endpoint)
	v.SetDefault("minio.accessKey", d.MinIO.AccessKey)
	v.SetDefault("minio.secretKey", d.MinIO.SecretKey)
	v.SetDefault("minio.useSSL", d.MinIO.UseSSL)
	v.SetDefault("auth.jwtSecret", d.Auth.JWTSecret)
	v.SetDefault("auth.userClaim", d.Auth.UserClaim)
	v.SetDefault("match.maxConcurrentLookups", d.Match.MaxConcurrentLookups)
	v.SetDefault("nats.url", d.NATS.URL)
	v.SetDefault("nats.subject", d.NATS.Subject)
	v.SetDefault("socket.enabled", d.Socket.Enabled)
	v.SetDefault("cors.allowedOrigins", d.CORS.AllowedOrigins)
}

// Setup points v at the config file locations and the environment.
func Setup(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, path := range []string{"/etc/coolbooks", "$HOME/.coolbooks", "."} {
		v.AddConfigPath(path)
	}

	SetDefaults(v)
}

// Load reads the optional config file and decodes v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Directory.Backend {
	case "cognito":
		if c.Directory.UserPoolID == "" {
			return errors.New("directory.userPoolId is required for the cognito directory")
		}
	case "dynamodb":
		if c.Directory.ProfilesTable == "" {
			return errors.New("directory.profilesTable is required for the dynamodb directory")
		}
	default:
		return fmt.Errorf("unknown directory backend: %q", c.Directory.Backend)
	}

	switch c.Images.Backend {
	case "s3":
	case "minio":
		if c.MinIO.Endpoint == "" {
			return errors.New("minio.endpoint is required for the minio image backend")
		}
	default:
		return fmt.Errorf("unknown images backend: %q", c.Images.Backend)
	}
	if c.Images.Bucket == "" {
		return errors.New("images.bucket is required")
	}

	if c.DynamoDB.Table == "" || c.DynamoDB.OwnerIndex == "" || c.DynamoDB.TypeIndex == "" {
		return errors.New("dynamodb.table, dynamodb.ownerIndex and dynamodb.typeIndex are required")
	}

	if c.Match.MaxConcurrentLookups < 1 {
		return fmt.Errorf("match.maxConcurrentLookups must be positive, got %d", c.Match.MaxConcurrentLookups)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}
	if c.Auth.UserClaim == "" {
		return errors.New("auth.userClaim is required")
	}

	return nil
}
