// Package config provides configuration loading for EcoTrack.
//
// Configuration is read from the following sources in order of precedence:
//
//	1. Environment variables (ECOTRACK_* prefix)
//	2. A YAML file: $ECOTRACK_CONFIG_FILE, config.yaml or configs/config.yaml
//	3. Struct tag defaults
//
// Example:
//
//	ECOTRACK_SERVER_PORT=8050
//	ECOTRACK_DATA_INPUT_FILE=data/company_esg_financial_dataset.csv
//	ECOTRACK_DATA_CLEANED_FILE=cleaned_data/cleaned_dataset.csv
//	ECOTRACK_LOGGING_LEVEL=debug
//
// Relative data paths are resolved against Data.BaseDir, or the working
// directory when it is empty (see Config.GetPaths).
package config
