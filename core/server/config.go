package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080" validate:"required,numeric"`
	// ApiKey is the shared secret accepted in the X-API-Key header.
	ApiKey string `mapstructure:"api_key" default:""`
	// ApiKeyHash is a bcrypt hash of the API key; used instead of ApiKey when set.
	ApiKeyHash string `mapstructure:"api_key_hash" default:""`
	// JWTSecret signs and verifies user bearer tokens (HS256).
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// BodyLimitMB is the maximum request body size in megabytes.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"4"`
	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `mapstructure:"cors_origins" default:"*"`
}

// BodyLimit returns the body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// AllowedOrigins returns the trimmed, non-empty CORS origins.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
