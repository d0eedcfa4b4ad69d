package main

import (
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"xivsim/internal/cache"
	"xivsim/internal/jobs"
	"xivsim/internal/logging"
	"xivsim/internal/server"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	godotenv.Load()

	log, err := logging.New(os.Stderr, os.Getenv("XIVSIM_LOG_LEVEL"), os.Getenv("XIVSIM_LOG_CONSOLE") != "")
	if err != nil {
		panic(err)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warn().Err(err).Msg("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}

	reg, err := jobs.NewRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("registry")
	}

	var c *cache.Cache
	if dir := getenv("XIVSIM_CACHE_DIR", "./cached-json/reports"); dir != "-" {
		if c, err = cache.New(dir); err != nil {
			sentry.CaptureException(err)
			log.Fatal().Err(err).Msg("cache")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	server.New(reg, c, log).Route(g)

	addr := getenv("XIVSIM_ADDR", "127.0.0.1:5555")
	log.Info().Str("addr", addr).Msg("listening")
	srv := &http.Server{Addr: addr, Handler: g, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		log.Fatal().Err(err).Msg("server stopped")
	}
}
