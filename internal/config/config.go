package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr   string
	BaseURL      string
	Port         string
	DBPath       string
	UploadsDir   string
	MaxUploadMB  int64
	CORSOrigins  []string
	LogLevel     string
	LogFile      string
	LogFormat    string
	IBGEURL      string
	NominatimURL string
	APIURL       string
}

// Load reads the configuration from the environment. Values from .env.local
// and .env fill in variables that are not already set.
func Load() *Config {
	for _, f := range []string{".env.local", ".env"} {
		// A missing file is the normal case outside development.
		_ = godotenv.Load(f)
	}

	port := getEnv("PORT", "3333")
	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":"+port),
		BaseURL:      getEnv("BASE_URL", "http://localhost"),
		Port:         port,
		DBPath:       getEnv("DB_PATH", "/data/ecoleta.db"),
		UploadsDir:   getEnv("UPLOADS_DIR", "/data/uploads"),
		MaxUploadMB:  getEnvInt("MAX_UPLOAD_MB", 10),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		IBGEURL:      getEnv("IBGE_URL", "https://servicodados.ibge.gov.br"),
		NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		APIURL:       getEnv("ECOLETA_API_URL", "http://localhost:"+port),
	}
}

// PublicURL is the origin clients use to reach the server, used to build
// image URLs.
func (c *Config) PublicURL() string {
	if c.Port == "" || c.Port == "80" || c.Port == "443" {
		return c.BaseURL
	}
	return c.BaseURL + ":" + c.Port
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
