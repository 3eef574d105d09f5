// @title Habit-board API
// @description Shared habit board with per-member grids
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/limbo/habitboard/internal/api"
	"github.com/limbo/habitboard/internal/database"
	"github.com/limbo/habitboard/internal/metrics"
	"github.com/limbo/habitboard/internal/repository"
	"github.com/limbo/habitboard/internal/session"
	"github.com/limbo/habitboard/pkg/cleanup"
	"github.com/limbo/habitboard/pkg/config"
	jwtservice "github.com/limbo/habitboard/pkg/jwt_service"
	"github.com/limbo/habitboard/pkg/prefs"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	session.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	err := database.RunMigrations(dbCfg.ConnString() + "?sslmode=disable")
	if err != nil {
		log.Fatal("migrations error: " + err.Error())
	}

	prefsStore, err := prefs.NewFileStore(cfg.GetStringDefault("PREFS_PATH", "habitboard_prefs.json"))
	if err != nil {
		log.Fatal("opening prefs store error: " + err.Error())
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	manager := session.NewManager(session.Deps{
		Boards:  repository.NewBoardsRepo(&dbCfg),
		Members: repository.NewMembersRepo(&dbCfg),
		Habits:  repository.NewHabitsRepo(&dbCfg),
		Entries: repository.NewEntriesRepo(&dbCfg),
		Prefs:   prefsStore,
		Metrics: collector,
	})

	limiter := api.NewRateLimiter(api.DefaultRateLimiterConfig())
	cleanup.Register(&cleanup.Job{
		Name: "stopping rate limiter",
		F: func() error {
			limiter.Stop()
			return nil
		},
	})

	serv := api.New(&api.Options{
		Sessions:    api.NewManagerProvider(manager),
		JwtService:  jwtservice.New(cfg.GetString("JWT_SECRET")),
		RateLimiter: limiter,
		Gatherer:    registry,
	})
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
