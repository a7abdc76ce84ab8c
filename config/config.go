package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL               string
	DatabaseName      string
	BaseURL           string
	Port              string
	JWTSecret         string
	SendgridAPIKey    string
	OversightEmail    string
	ModeratorSurfaces map[string]string
	MinConfidence     float64
	NoteLimit         int
	PromptTimeout     time.Duration
	Retention         time.Duration
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger, err := setLogger(os.Getenv("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:               os.Getenv("DB_URI"),
		DatabaseName:      os.Getenv("DB_NAME"),
		BaseURL:           os.Getenv("BASE_URL"),
		Port:              os.Getenv("PORT"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		OversightEmail:    os.Getenv("OVERSIGHT_EMAIL"),
		ModeratorSurfaces: parseModeratorSurfaces(os.Getenv("MODERATOR_SURFACES")),
		MinConfidence:     parseFloat(os.Getenv("AUTO_REPORT_MIN_CONFIDENCE"), 0.7),
		NoteLimit:         parseInt(os.Getenv("NOTE_LIMIT"), 1024),
		PromptTimeout:     parseDuration(os.Getenv("PROMPT_TIMEOUT"), 5*time.Minute),
		Retention:         parseDuration(os.Getenv("CLOSED_REPORT_RETENTION"), time.Hour),
	}

}

// setLogger builds the zap logger for the given environment. Unknown
// environments get the example logger so log output stays deterministic
// in tests.
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

// parseModeratorSurfaces decodes the community -> moderator surface routing
// table from its env var. The value is a JSON object, for example:
// {"community-1": "mod-channel-1"}. A missing or malformed value yields an
// empty table, which the handlers report per-request.
func parseModeratorSurfaces(raw string) map[string]string {
	surfaces := map[string]string{}
	if raw == "" {
		return surfaces
	}
	if err := json.Unmarshal([]byte(raw), &surfaces); err != nil {
		zap.S().Errorw("failed to parse MODERATOR_SURFACES, continuing with empty routing table",
			"error", err,
		)
		return map[string]string{}
	}
	return surfaces
}

func parseFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return i
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
	return
}
