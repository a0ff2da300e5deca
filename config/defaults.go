package config

import "time"

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			ListenAddr:    ":8080",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			FileOpTimeout: 60 * time.Second,
			StatOpTimeout: 10 * time.Second,
			MutationRPS:   100,
		},
		Auth: AuthConfig{
			APIKeys: []string{"default-api-key"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backend: BackendConfig{
			LocalFSRootPath:        "/var/lib/sharefs",
			S3Region:               "us-east-1",
			S3ServerSideEncryption: "AES256",
			S3ACL:                  "private",
		},
		Store: StoreConfig{
			OverwriteTargets: true,
			EphemeralRoot:    false,
			CacheTTL:         5 * time.Minute,
			CacheSize:        1000,
		},
		DLM: DLMConfig{
			RedisAddr:     "",
			RedisPassword: "",
		},
	}
}
