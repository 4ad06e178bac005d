// Package config loads the settings of the vocabulary server.
//
// Values come from the environment, after a .env file in the config directory
// has been loaded into it with godotenv. Every field declares its fallback in a
// `default` struct tag. Nested keys map to environment variables with
// underscores, so server.port is SERVER_PORT.
//
// # Configuration Structure
//
//   - Server: port, API key (plain or bcrypt hash), JWT secret, body limit, CORS origins
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: MinIO endpoint, credentials and the image bucket
//   - Log: level and format
//   - Cache: language lookup TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
