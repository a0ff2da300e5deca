// Package config provides configuration management for sharefs.
// It handles loading and validating configuration from YAML/JSON files and
// environment variables.
package config

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
	Backend BackendConfig `koanf:"backend"`
	Store   StoreConfig   `koanf:"store"`
	DLM     DLMConfig     `koanf:"dlm"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr    string        `koanf:"listen_addr"`
	CertFile      string        `koanf:"cert_file"`
	KeyFile       string        `koanf:"key_file"`
	ReadTimeout   time.Duration `koanf:"read_timeout"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	FileOpTimeout time.Duration `koanf:"file_op_timeout"`
	StatOpTimeout time.Duration `koanf:"stat_op_timeout"`
	MutationRPS   float64       `koanf:"mutation_rps"` // copy/rename rate limit
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	APIKeys []string `koanf:"api_keys"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// BackendConfig holds backend storage configuration. Exactly one backend is
// selected: S3 when a bucket name is set, otherwise the local filesystem
// when a root path is set.
type BackendConfig struct {
	LocalFSRootPath        string `koanf:"localfs_root_path"`
	S3AccessKey            string `koanf:"s3_access_key"`
	S3SecretKey            string `koanf:"s3_secret_key"`
	S3Region               string `koanf:"s3_region"`
	S3BucketName           string `koanf:"s3_bucket_name"`
	S3Endpoint             string `koanf:"s3_endpoint"`     // custom endpoint (e.g. MinIO)
	S3EndpointTLS          bool   `koanf:"s3_endpoint_tls"` // use TLS with the custom endpoint
	S3CreateBucket         bool   `koanf:"s3_create_bucket"`
	S3ServerSideEncryption string `koanf:"s3_server_side_encryption"` // SSE algorithm (AES256, aws:kms)
	S3ACL                  string `koanf:"s3_acl"`
	S3KMSKeyID             string `koanf:"s3_kms_key_id"`
}

// StoreConfig holds facade behavior configuration
type StoreConfig struct {
	// OverwriteTargets controls copy/rename onto an existing target:
	// true overwrites silently, false fails with an already-exists error
	OverwriteTargets bool `koanf:"overwrite_targets"`
	// EphemeralRoot purges the backend root on shutdown; meant for
	// test and scratch deployments
	EphemeralRoot bool          `koanf:"ephemeral_root"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheSize     int           `koanf:"cache_size"`
}

// DLMConfig holds distributed lock manager configuration. An empty Redis
// address selects the in-process lock manager.
type DLMConfig struct {
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
}
