package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/weiawesome/wes-io-live/collab-service/pkg/config"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/pubsub"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Room      RoomConfig
	Auth      AuthConfig
	PubSub    pubsub.Config `mapstructure:"pubsub"`
	Registry  RegistryConfig
	Log       pkglog.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBufferSize int           `mapstructure:"send_buffer_size"`
}

type RoomConfig struct {
	DefaultMaxParticipants int `mapstructure:"default_max_participants"`
	HistoryReplay          int `mapstructure:"history_replay"`
	LogCapacity            int `mapstructure:"log_capacity"`
}

// AuthConfig enables identity token verification on join_user when
// JWTSecret is set.
type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	Issuer       string
	RequireToken bool `mapstructure:"require_token"`
}

type RegistryConfig struct {
	Enabled           bool
	Address           string
	Password          string
	DB                int
	Prefix            string
	AdvertiseAddress  string        `mapstructure:"advertise_address"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	KeyTTL            time.Duration `mapstructure:"key_ttl"`
}

// DefaultWebSocketConfig returns the websocket timings used when no
// configuration is loaded.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
		SendBufferSize: 256,
	}
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config", "COLLAB")
	if err != nil {
		return nil, err
	}

	ps := pubsub.DefaultConfig()
	ws := DefaultWebSocketConfig()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("websocket.ping_interval", ws.PingInterval.String())
	v.SetDefault("websocket.pong_wait", ws.PongWait.String())
	v.SetDefault("websocket.write_wait", ws.WriteWait.String())
	v.SetDefault("websocket.max_message_size", ws.MaxMessageSize)
	v.SetDefault("websocket.send_buffer_size", ws.SendBufferSize)
	v.SetDefault("room.default_max_participants", 10)
	v.SetDefault("room.history_replay", 50)
	v.SetDefault("room.log_capacity", 500)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.require_token", false)
	v.SetDefault("pubsub.driver", ps.Driver)
	v.SetDefault("pubsub.redis.address", ps.Redis.Address)
	v.SetDefault("pubsub.redis.password", "")
	v.SetDefault("pubsub.redis.db", 0)
	v.SetDefault("pubsub.redis.pool_size", ps.Redis.PoolSize)
	v.SetDefault("pubsub.redis.read_timeout", ps.Redis.ReadTimeout.String())
	v.SetDefault("pubsub.redis.write_timeout", ps.Redis.WriteTimeout.String())
	v.SetDefault("pubsub.kafka.brokers", ps.Kafka.Brokers)
	v.SetDefault("pubsub.kafka.topic", ps.Kafka.Topic)
	v.SetDefault("pubsub.kafka.partitions", ps.Kafka.Partitions)
	v.SetDefault("registry.enabled", false)
	v.SetDefault("registry.address", "localhost:6379")
	v.SetDefault("registry.password", "")
	v.SetDefault("registry.db", 0)
	v.SetDefault("registry.prefix", "collab:registry")
	v.SetDefault("registry.advertise_address", "localhost:5000")
	v.SetDefault("registry.heartbeat_interval", "10s")
	v.SetDefault("registry.key_ttl", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "collab-service")

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.issuer", "JWT_ISSUER")
	v.BindEnv("pubsub.driver", "PUBSUB_DRIVER")
	v.BindEnv("pubsub.redis.address", "REDIS_ADDRESS")
	v.BindEnv("pubsub.redis.password", "REDIS_PASSWORD")
	v.BindEnv("pubsub.kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("pubsub.kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("registry.enabled", "REGISTRY_ENABLED")
	v.BindEnv("registry.address", "REGISTRY_REDIS_ADDRESS")
	v.BindEnv("registry.advertise_address", "ADVERTISE_ADDRESS")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", ws.PingInterval)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", ws.PongWait)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", ws.WriteWait)
	cfg.PubSub.Redis.ReadTimeout = parseDuration(v, "pubsub.redis.read_timeout", ps.Redis.ReadTimeout)
	cfg.PubSub.Redis.WriteTimeout = parseDuration(v, "pubsub.redis.write_timeout", ps.Redis.WriteTimeout)
	cfg.Registry.HeartbeatInterval = parseDuration(v, "registry.heartbeat_interval", 10*time.Second)
	cfg.Registry.KeyTTL = parseDuration(v, "registry.key_ttl", 30*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	str := v.GetString(key)
	d, err := time.ParseDuration(str)
	if err != nil {
		return defaultVal
	}
	return d
}
