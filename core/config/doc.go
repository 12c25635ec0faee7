// Package config provides configuration management for the agents CLI.
//
// It utilizes Viper for loading configuration from environment variables, a project
// .env file and an optional agents.yaml at the project root.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Reconcile: default environment, push policy, pulled key case, page size
//   - Remote: gateway backend, base URL, API key, timeouts, rate limit, retries
//   - Storage: S3/MinIO credentials and bucket for the s3 backend
//   - Watch: polling interval and fsnotify wake-ups
//   - Journal: sync history toggle and its database
//   - Server: HTTP port, API key, listing cache TTL
//   - Log: logging level and format
//
// Every key has a default declared on its struct field (`default:"..."`). Environment
// variables override with dots replaced by underscores, e.g. RECONCILE_PUSH_POLICY or
// JOURNAL_DATABASE_DRIVER. Per-environment credentials (REMOTE_API_KEY_STAGING) are read
// by the gateway package directly.
//
// # Usage
//
//	cfg, err := config.LoadConfig(root)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Reconcile.DefaultEnvironment)
package config
