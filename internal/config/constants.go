package config

// Application constants
const (
	AppName    = "EcoTrack"
	AppVersion = "1.0.0"
	AppTitle   = "EcoTrack Dashboard"

	DefaultPort        = 8050
	DefaultLogLevel    = "info"
	DefaultInputFile   = "data/company_esg_financial_dataset.csv"
	DefaultCleanedFile = "cleaned_data/cleaned_dataset.csv"
)
