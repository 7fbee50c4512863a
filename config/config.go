package config

import (
	"os"
	"strconv"
)

// Config 앱 설정
type Config struct {
	Port           int
	MongoURI       string
	MongoDB        string
	JWTKey         string
	Timezone       string
	DailyBaseLimit int
	Debug          bool
}

// LoadConfig 환경변수에서 설정 로드
func LoadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	baseLimit, _ := strconv.Atoi(getEnv("DAILY_BASE_LIMIT", "50"))
	if baseLimit <= 0 {
		baseLimit = 50
	}

	return &Config{
		Port:           port,
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017/?replicaSet=rs0"),
		MongoDB:        getEnv("MONGO_DB", "estate_crm"),
		JWTKey:         getEnv("JWT_KEY", "your-secret-key"), // 운영환경에서는 반드시 교체
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Seoul"),
		DailyBaseLimit: baseLimit,
		Debug:          getEnv("GIN_MODE", "debug") == "debug",
	}
}

// getEnv 환경변수 조회, 없으면 기본값 반환
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
