package config

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/models"
)

// Config holds the project config values
type Config struct {
	URL            string
	DatabaseName   string
	BaseURL        string
	Port           string
	JWTSecret      string
	GeminiAPIKey   string
	GeminiModel    string
	CloudinaryURL  string
	SendgridAPIKey string
	GuardGateEmail string
	CorpusCacheTTL time.Duration
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_NAME", "foundit")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash-lite")
	viper.SetDefault("CORPUS_CACHE_TTL", "30s")

	return &Config{
		URL:            viper.GetString("DB_URI"),
		DatabaseName:   viper.GetString("DB_NAME"),
		BaseURL:        viper.GetString("BASE_URL"),
		Port:           viper.GetString("PORT"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		GeminiAPIKey:   viper.GetString("GEMINI_API_KEY"),
		GeminiModel:    viper.GetString("GEMINI_MODEL"),
		CloudinaryURL:  viper.GetString("CLOUDINARY_URL"),
		SendgridAPIKey: viper.GetString("SENDGRID_API_KEY"),
		GuardGateEmail: viper.GetString("GUARD_GATE_EMAIL"),
		CorpusCacheTTL: viper.GetDuration("CORPUS_CACHE_TTL"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{
		Message: message,
		Error:   err.Error(),
	}})
	w.Write(b)
}
