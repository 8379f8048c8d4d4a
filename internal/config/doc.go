// Package config provides centralized configuration management for the
// lease revenue analyzer. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEASE_* for namespacing:
//
//	LEASE_SERVER_PORT=8080
//	LEASE_LOGGING_LEVEL=info
//	LEASE_PROCESSING_MAX_UPLOAD_BYTES=104857600
//	LEASE_PROCESSING_PROGRESS_EVERY=50
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	uploadPath := paths.GetUploadPath("contracts.xlsx")
//	reportPath := paths.GetReportPath("租赁收入统计.csv")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
