package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Directory.UserPoolID = "eu-west-1_pool"
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "cognito_without_pool",
			mutate:  func(c *Config) { c.Directory.UserPoolID = "" },
			wantErr: "directory.userPoolId",
		},
		{
			name: "dynamodb_directory",
			mutate: func(c *Config) {
				c.Directory.Backend = "dynamodb"
				c.Directory.UserPoolID = ""
			},
		},
		{
			name:    "unknown_directory",
			mutate:  func(c *Config) { c.Directory.Backend = "ldap" },
			wantErr: "unknown directory backend",
		},
		{
			name:    "unknown_images",
			mutate:  func(c *Config) { c.Images.Backend = "gcs" },
			wantErr: "unknown images backend",
		},
		{
			name: "minio_without_endpoint",
			mutate: func(c *Config) {
				c.Images.Backend = "minio"
				c.MinIO.Endpoint = ""
			},
			wantErr: "minio.endpoint",
		},
		{
			name:    "zero_concurrency",
			mutate:  func(c *Config) { c.Match.MaxConcurrentLookups = 0 },
			wantErr: "maxConcurrentLookups",
		},
		{
			name:    "missing_secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "auth.jwtSecret",
		},
		{
			name:    "missing_index",
			mutate:  func(c *Config) { c.DynamoDB.TypeIndex = "" },
			wantErr: "dynamodb.typeIndex",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, test.wantErr)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COOLBOOKS_AUTH_JWTSECRET", "s3cr3t")
	t.Setenv("COOLBOOKS_DIRECTORY_USERPOOLID", "eu-west-1_pQF3vlfni")
	t.Setenv("COOLBOOKS_MATCH_MAXCONCURRENTLOOKUPS", "4")

	v := viper.New()
	Setup(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	require.Equal(t, "eu-west-1_pQF3vlfni", cfg.Directory.UserPoolID)
	require.Equal(t, 4, cfg.Match.MaxConcurrentLookups)
	require.Equal(t, "coolbooks-marketplace", cfg.DynamoDB.Table)
	require.Equal(t, "type-index", cfg.DynamoDB.TypeIndex)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := []byte(`
auth:
  jwtSecret: from-file
directory:
  backend: dynamodb
images:
  backend: minio
  bucket: books
minio:
  endpoint: minio:9000
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	v := viper.New()
	Setup(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.Equal(t, "dynamodb", cfg.Directory.Backend)
	require.Equal(t, "minio", cfg.Images.Backend)
	require.Equal(t, "books", cfg.Images.Bucket)
	require.Equal(t, "minio:9000", cfg.MinIO.Endpoint)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	Setup(v)

	_, err := Load(v)
	require.Error(t, err)
}
