package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/meubot/meubot-web/handlers"
	"github.com/meubot/meubot-web/internal/backend"
	"github.com/meubot/meubot-web/internal/botinfo"
	"github.com/meubot/meubot-web/internal/cache"
	"github.com/meubot/meubot-web/internal/config"
	"github.com/meubot/meubot-web/internal/discord"
	"github.com/meubot/meubot-web/internal/oauthstate"
	"github.com/meubot/meubot-web/internal/session"
	"github.com/meubot/meubot-web/pkg/logger"
	"github.com/meubot/meubot-web/pkg/metrics"
	"github.com/meubot/meubot-web/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%v redis=%v env=%s", cfg.Backend.BaseURL != "", cfg.Redis.Host != "", cfg.Server.Environment)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware: the marketing page and the API share an
	// origin in production, this mostly serves local development.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so both the cache and the rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	codec := session.NewCodec(cfg.IsProduction(), cfg.Session.CookieMaxAge)

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, codec, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(codec, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	discordClient := discord.NewClient(cfg.Discord)
	backendClient := backend.NewClient(cfg.Backend)
	botInfoCache := cache.New(redisClient, cfg.Redis.CacheTTL)
	stateIssuer := oauthstate.NewIssuer(cfg.Session.StateSecret)

	authHandler := handlers.NewAuthHandler(cfg, discordClient, codec, stateIssuer)
	authHandler.Register(r.Group("/"))

	statsHandler := handlers.NewStatsHandler(botinfo.NewService(discordClient), backendClient, codec, botInfoCache, cfg.Redis.CacheTTL)
	statsHandler.Register(r.Group("/"))

	handlers.RegisterSite(r, cfg.Discord.ClientID)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness reports dependency state; only missing backend config makes
	// the service not ready since bot-info can always degrade to defaults
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"backend": backendClient.Configured(),
			"redis":   redisClient != nil || cfg.Redis.Host == "",
		}
		status := http.StatusOK
		state := "ready"
		if !deps["backend"] {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting meubot-web on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
