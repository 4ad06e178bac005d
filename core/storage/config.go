package storage

// Config holds the MinIO connection and the image bucket.
type Config struct {
	// Endpoint is host:port, optionally prefixed with http:// or https://.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL applies when Endpoint carries no scheme.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds the uploaded word images. It is created on start when missing.
	Bucket string `mapstructure:"bucket" default:"vocabulary"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing and waiting for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
