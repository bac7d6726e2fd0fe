package config

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variable names.
const (
	envDataDir           = "VIEWER_DATA_DIR"
	envJSONFile          = "VIEWER_JSON_FILE"
	envCSVFile           = "VIEWER_CSV_FILE"
	envXLSXFile          = "VIEWER_XLSX_FILE"
	envCSVDelimiter      = "VIEWER_CSV_DELIMITER"
	envLogDir            = "VIEWER_LOG_DIR"
	envLogLevel          = "VIEWER_LOG_LEVEL"
	envExchangeAPIKey    = "EXCHANGE_RATES_API_KEY"
	envExchangeURL       = "EXCHANGE_RATES_URL"
	envReferenceCurrency = "VIEWER_REFERENCE_CURRENCY"
	envProjectID         = "GCP_PROJECT_ID"
	envDataset           = "BQ_DATASET"
	envTable             = "BQ_TABLE"
	envMongoURI          = "MONGO_URI"
	envMongoDatabase     = "MONGO_DATABASE"
)

// Default values.
const (
	DefaultDataDir           = "data"
	DefaultJSONFile          = "operations.json"
	DefaultCSVFile           = "transactions.csv"
	DefaultXLSXFile          = "transactions_excel.xlsx"
	DefaultCSVDelimiter      = ','
	DefaultLogDir            = "logs"
	DefaultLogLevel          = "info"
	DefaultExchangeURL       = "https://api.apilayer.com/exchangerates_data/convert"
	DefaultReferenceCurrency = "RUB"
	DefaultDataset           = "finance"
	DefaultTable             = "viewer_exports"
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabase     = "transactions_viewer"
)

// Config holds the viewer settings resolved from the environment.
type Config struct {
	JSONPath     string
	CSVPath      string
	XLSXPath     string
	CSVDelimiter rune

	LogDir   string
	LogLevel string

	Exchange ExchangeConfig
	BigQuery BigQueryConfig
	Mongo    MongoConfig
}

// ExchangeConfig configures the currency conversion client.
type ExchangeConfig struct {
	APIKey            string
	BaseURL           string
	ReferenceCurrency string
}

// BigQueryConfig configures the BigQuery export sink.
type BigQueryConfig struct {
	ProjectID string
	Dataset   string
	Table     string
}

// MongoConfig configures the MongoDB export sink.
type MongoConfig struct {
	URI      string
	Database string
}

// Load reads a .env file when one is present and resolves the configuration
// from environment variables, falling back to defaults.
func Load(log zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}
	return FromEnv(log)
}

// FromEnv resolves the configuration from the current process environment only.
func FromEnv(log zerolog.Logger) *Config {
	dataDir := getEnv(log, envDataDir, DefaultDataDir)

	return &Config{
		JSONPath:     getEnv(log, envJSONFile, filepath.Join(dataDir, DefaultJSONFile)),
		CSVPath:      getEnv(log, envCSVFile, filepath.Join(dataDir, DefaultCSVFile)),
		XLSXPath:     getEnv(log, envXLSXFile, filepath.Join(dataDir, DefaultXLSXFile)),
		CSVDelimiter: getDelimiter(log),
		LogDir:       getEnv(log, envLogDir, DefaultLogDir),
		LogLevel:     getEnv(log, envLogLevel, DefaultLogLevel),
		Exchange: ExchangeConfig{
			APIKey:            getEnv(log, envExchangeAPIKey, ""),
			BaseURL:           getEnv(log, envExchangeURL, DefaultExchangeURL),
			ReferenceCurrency: getEnv(log, envReferenceCurrency, DefaultReferenceCurrency),
		},
		BigQuery: BigQueryConfig{
			ProjectID: getEnv(log, envProjectID, ""),
			Dataset:   getEnv(log, envDataset, DefaultDataset),
			Table:     getEnv(log, envTable, DefaultTable),
		},
		Mongo: MongoConfig{
			URI:      getEnv(log, envMongoURI, DefaultMongoURI),
			Database: getEnv(log, envMongoDatabase, DefaultMongoDatabase),
		},
	}
}

func getEnv(log zerolog.Logger, key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Debug().Str("key", key).Str("default", defaultVal).Msg("environment variable not set, using default")
	return defaultVal
}

// getDelimiter accepts a single character, or the names "tab" and "semicolon".
func getDelimiter(log zerolog.Logger) rune {
	raw, ok := os.LookupEnv(envCSVDelimiter)
	if !ok || raw == "" {
		return DefaultCSVDelimiter
	}

	switch raw {
	case "tab", `\t`:
		return '\t'
	case "semicolon":
		return ';'
	case "comma":
		return ','
	}

	if utf8.RuneCountInString(raw) != 1 {
		log.Warn().Str("value", raw).Msg("invalid CSV delimiter, using default")
		return DefaultCSVDelimiter
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		log.Warn().Str("value", raw).Msg("invalid CSV delimiter, using default")
		return DefaultCSVDelimiter
	}
	return r
}
