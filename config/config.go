package config

import (
    "strings"

    "github.com/spf13/viper"
)

// Config 进程级配置（启动后只读）
type Config struct {
    Server    ServerConfig
    Auth      AuthConfig
    Database  DatabaseConfig
    Redis     RedisConfig
    Sentry    SentryConfig
    Trace     TraceConfig
    RateLimit RateLimitConfig
    Recommend RecommendConfig
    Karma     KarmaConfig
}

type ServerConfig struct {
    Addr string
    Mode string // debug / release
}

type AuthConfig struct {
    // JWTSecret 签发在别处，这里只做校验
    JWTSecret string
}

type DatabaseConfig struct {
    Driver string // postgres / sqlite
    DSN    string
}

type RedisConfig struct {
    Addr     string
    Password string
    DB       int
}

type SentryConfig struct {
    DSN string
}

type TraceConfig struct {
    Endpoint string // OTLP HTTP endpoint，留空则不上报
}

// RateLimitConfig 限流阈值，含义与默认值见 internal/ratelimit
type RateLimitConfig struct {
    PostIntervalSeconds    int
    MaxPostsPer24H         int
    CommentIntervalSeconds int
    // CommentKarmaThreshold 低 karma 评论限流阈值；nil 表示关闭
    CommentKarmaThreshold *int
}

type RecommendConfig struct {
    FeedCacheTTLSeconds int
    // 推荐接口的边缘限流（每客户端令牌桶）
    EdgeRPS   float64
    EdgeBurst int
}

type KarmaConfig struct {
    InflationRefreshHours int
}

// Load 读取 config.yaml 与环境变量（FORUM_ 前缀），环境变量优先
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")
    v.SetEnvPrefix("FORUM")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    v.SetDefault("server.addr", ":8080")
    v.SetDefault("server.mode", "release")
    v.SetDefault("database.driver", "postgres")
    v.SetDefault("database.dsn", "host=127.0.0.1 user=postgres password=postgres dbname=forum port=5432 sslmode=disable")
    v.SetDefault("redis.addr", "127.0.0.1:6379")
    v.SetDefault("redis.db", 0)
    v.SetDefault("ratelimit.post_interval_seconds", 30)
    v.SetDefault("ratelimit.max_posts_per_24h", 5)
    v.SetDefault("ratelimit.comment_interval_seconds", 15)
    v.SetDefault("recommend.feed_cache_ttl_seconds", 300)
    v.SetDefault("recommend.edge_rps", 10)
    v.SetDefault("recommend.edge_burst", 20)
    v.SetDefault("karma.inflation_refresh_hours", 24)

    if err := v.ReadInConfig(); err != nil {
        // 配置文件可以不存在，全部走默认值/环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, err
        }
    }

    cfg := &Config{
        Server: ServerConfig{
            Addr: v.GetString("server.addr"),
            Mode: v.GetString("server.mode"),
        },
        Database: DatabaseConfig{
            Driver: v.GetString("database.driver"),
            DSN:    v.GetString("database.dsn"),
        },
        Redis: RedisConfig{
            Addr:     v.GetString("redis.addr"),
            Password: v.GetString("redis.password"),
            DB:       v.GetInt("redis.db"),
        },
        Auth:   AuthConfig{JWTSecret: v.GetString("auth.jwt_secret")},
        Sentry: SentryConfig{DSN: v.GetString("sentry.dsn")},
        Trace:  TraceConfig{Endpoint: v.GetString("trace.endpoint")},
        RateLimit: RateLimitConfig{
            PostIntervalSeconds:    v.GetInt("ratelimit.post_interval_seconds"),
            MaxPostsPer24H:         v.GetInt("ratelimit.max_posts_per_24h"),
            CommentIntervalSeconds: v.GetInt("ratelimit.comment_interval_seconds"),
        },
        Recommend: RecommendConfig{
            FeedCacheTTLSeconds: v.GetInt("recommend.feed_cache_ttl_seconds"),
            EdgeRPS:             v.GetFloat64("recommend.edge_rps"),
            EdgeBurst:           v.GetInt("recommend.edge_burst"),
        },
        Karma: KarmaConfig{InflationRefreshHours: v.GetInt("karma.inflation_refresh_hours")},
    }
    if v.IsSet("ratelimit.comment_karma_threshold") {
        t := v.GetInt("ratelimit.comment_karma_threshold")
        cfg.RateLimit.CommentKarmaThreshold = &t
    }
    return cfg, nil
}
