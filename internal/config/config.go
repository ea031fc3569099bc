package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBDriver string // sqlite|postgres
	DBDSN    string
	SiteID   string // event_log site_id

	BlobBasePath string // saved renders

	SanitizerPolicy    string // ugc|strict
	ThousandsSeparator string
	DecimalSeparator   string

	LogLevel  string // debug|info|warn|error
	LogFormat string // text|json

	GradingMaxEdit    int
	GradingPartial    bool
	RenderParallelism int
}

func FromEnv() Config {
	return Config{
		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),
		SiteID:   envOr("SITE_ID", "local"),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		SanitizerPolicy:    strings.ToLower(envOr("SANITIZER_POLICY", "ugc")),
		ThousandsSeparator: envRaw("THOUSANDS_SEPARATOR", ","),
		DecimalSeparator:   envRaw("DECIMAL_SEPARATOR", "."),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),

		GradingMaxEdit:    envInt("GRADING_MAX_EDIT", 1),
		GradingPartial:    envBool("GRADING_PARTIAL", true),
		RenderParallelism: envInt("RENDER_PARALLELISM", 4),
	}
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

// envRaw keeps surrounding whitespace, so a space can be a separator.
func envRaw(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}
