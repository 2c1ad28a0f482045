package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/config"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	SSE       SSEConfig
	Chat      ChatConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Simulator SimulatorConfig
	Log       LogConfig
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
	SendBuffer     int           `mapstructure:"send_buffer"`
}

type SSEConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	RetryMillis       int           `mapstructure:"retry_millis"`
	ReplayLimit       int           `mapstructure:"replay_limit"`
}

type ChatConfig struct {
	MaxMessageLength int             `mapstructure:"max_message_length"`
	HistoryLimit     int             `mapstructure:"history_limit"`
	RecentLimit      int             `mapstructure:"recent_limit"`
	TypingTimeout    time.Duration   `mapstructure:"typing_timeout"`
	RateLimit        RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	MaxMessages int           `mapstructure:"max_messages"`
	Window      time.Duration `mapstructure:"window"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string `mapstructure:"db_name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type SimulatorConfig struct {
	Speed             float64       `mapstructure:"speed"`
	ConcurrentMatches int           `mapstructure:"concurrent_matches"`
	Competition       string        `mapstructure:"competition"`
	HalfTimeBreak     time.Duration `mapstructure:"half_time_break"`
	FullTimeDelay     time.Duration `mapstructure:"full_time_delay"`
	PersistTimeout    time.Duration `mapstructure:"persist_timeout"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("websocket.ping_interval", "15s")
	v.SetDefault("websocket.pong_wait", "30s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)
	v.SetDefault("sse.heartbeat_interval", "30s")
	v.SetDefault("sse.retry_millis", 3000)
	v.SetDefault("sse.replay_limit", 100)
	v.SetDefault("chat.max_message_length", 500)
	v.SetDefault("chat.history_limit", 100)
	v.SetDefault("chat.recent_limit", 20)
	v.SetDefault("chat.typing_timeout", "3s")
	v.SetDefault("chat.rate_limit.max_messages", 10)
	v.SetDefault("chat.rate_limit.window", "60s")
	v.SetDefault("chat.rate_limit.timeout", "2s")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", "profootball")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.file_path", "profootball.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("simulator.speed", 1.0)
	v.SetDefault("simulator.concurrent_matches", 4)
	v.SetDefault("simulator.competition", "Premier League")
	v.SetDefault("simulator.half_time_break", "3s")
	v.SetDefault("simulator.full_time_delay", "5s")
	v.SetDefault("simulator.persist_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.db_name", "DB_NAME")
	v.BindEnv("simulator.speed", "SIMULATOR_SPEED")
	v.BindEnv("simulator.concurrent_matches", "CONCURRENT_MATCHES")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 15*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 30*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.SSE.HeartbeatInterval = parseDuration(v, "sse.heartbeat_interval", 30*time.Second)
	cfg.Chat.TypingTimeout = parseDuration(v, "chat.typing_timeout", 3*time.Second)
	cfg.Chat.RateLimit.Window = parseDuration(v, "chat.rate_limit.window", 60*time.Second)
	cfg.Chat.RateLimit.Timeout = parseDuration(v, "chat.rate_limit.timeout", 2*time.Second)
	cfg.Simulator.HalfTimeBreak = parseDuration(v, "simulator.half_time_break", 3*time.Second)
	cfg.Simulator.FullTimeDelay = parseDuration(v, "simulator.full_time_delay", 5*time.Second)
	cfg.Simulator.PersistTimeout = parseDuration(v, "simulator.persist_timeout", 5*time.Second)

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
