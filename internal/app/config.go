package app

import (
	"github.com/catonzio/plum-backend/internal/agent"
	"github.com/catonzio/plum-backend/internal/platform/envutil"
)

type Config struct {
	Port         int
	LogMode      string
	DefaultAgent string
	StateStore   string
	Environment  string
	Version      string
}

func LoadConfig() Config {
	return Config{
		Port:         envutil.Int("PORT", 8081),
		LogMode:      envutil.String("LOG_MODE", "development"),
		DefaultAgent: envutil.String("DEFAULT_AGENT", agent.DefaultAgentID),
		StateStore:   envutil.String("STATE_STORE", "memory"),
		Environment:  envutil.String("ENVIRONMENT", "development"),
		Version:      envutil.String("SERVICE_VERSION", "dev"),
	}
}
