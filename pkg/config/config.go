package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Detector DetectorConfig
	OCR      OCRConfig
	Upload   UploadConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DetectorConfig points at the YOLO inference sidecar that serves the
// region-detection model. The model itself lives outside this process.
type DetectorConfig struct {
	Endpoint      string
	MinConfidence float64
	Timeout       time.Duration
}

type OCRConfig struct {
	Languages string // tesseract language string, e.g. "spa+eng"
	DataPath  string // optional tessdata directory override
}

type UploadConfig struct {
	Dir string
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or project root; plain
	// environment variables are enough when running under Docker/K8s.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	detTimeout, _ := strconv.Atoi(getEnv("DETECTOR_TIMEOUT", "30"))
	minConf, err := strconv.ParseFloat(getEnv("DETECTOR_MIN_CONFIDENCE", "0.25"), 64)
	if err != nil {
		minConf = 0.25
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "gestion_documental"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Detector: DetectorConfig{
			Endpoint:      getEnv("DETECTOR_ENDPOINT", "http://localhost:8600/detect"),
			MinConfidence: minConf,
			Timeout:       time.Duration(detTimeout) * time.Second,
		},
		OCR: OCRConfig{
			Languages: getEnv("OCR_LANGUAGES", "spa+eng"),
			DataPath:  getEnv("OCR_DATA_PATH", ""),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
