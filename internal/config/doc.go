// Package config provides centralized configuration management for drillcli.
// It handles loading configuration from multiple sources, validation, and
// provides a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DESURVEY_<SECTION>_<FIELD>:
//
//	DESURVEY_SERVER_PORT=8080
//	DESURVEY_LOGGING_LEVEL=debug
//	DESURVEY_MAPPING_DIP_COL=Dip
//	DESURVEY_MAPPING_MAX_INFILL=10
//	DESURVEY_OPTIONS_DIP_SIGN=up
//	DESURVEY_OUTPUT_FORMAT=xlsx
//
// # Configuration File
//
// A YAML file mirrors the struct layout:
//
//	mapping:
//	  hole_id_col: BHID
//	  from_col: FROM
//	  to_col: TO
//	  max_infill: 10
//	options:
//	  dip_sign: down
//	  workers: 4
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For tests, config.Default() returns a complete configuration that needs
// neither environment variables nor files.
package config
