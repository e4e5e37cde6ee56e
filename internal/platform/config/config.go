package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	id "kudos/pkg/domain"
)

// Server captures the gateway's configuration.
type Server struct {
	Addr         string
	AdminJWTKey  string
	OwnerAddress string
	ChainID      uint64
	ContractAddr string
	TokenIDSeed  id.TokenID
	PostgresDSN  string
	Redis        RedisConfig
	KafkaBrokers []string
	KafkaTopic   string
	CommunityURL string
	CommunityTTL time.Duration
}

// RedisConfig captures Redis connection settings. An empty URL disables the
// community cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. The owner address, admin key and community registry URL have no
// usable defaults; main rejects a config missing them.
func FromEnv() Server {
	cfg := Server{
		Addr:         envOr("KUDOS_ADDR", ":8080"),
		AdminJWTKey:  os.Getenv("KUDOS_ADMIN_JWT_KEY"),
		OwnerAddress: os.Getenv("KUDOS_OWNER_ADDRESS"),
		ChainID:      envUint("KUDOS_CHAIN_ID", 1),
		ContractAddr: envOr("KUDOS_CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000000"),
		TokenIDSeed:  id.TokenID(envUint("KUDOS_TOKEN_ID_SEED", 1)),
		PostgresDSN:  os.Getenv("KUDOS_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("KUDOS_REDIS_URL"),
			PoolSize:     int(envUint("KUDOS_REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envUint("KUDOS_REDIS_MIN_IDLE", 2)),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaTopic:   envOr("KUDOS_KAFKA_TOPIC", "kudos.registered"),
		CommunityURL: os.Getenv("KUDOS_COMMUNITY_REGISTRY_URL"),
		CommunityTTL: 5 * time.Minute,
	}
	if brokers := os.Getenv("KUDOS_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
