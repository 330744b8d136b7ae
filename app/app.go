package app

import (
	"log"

	"github.com/mwiens91/fooskill/config"
	"github.com/mwiens91/fooskill/cron"
	"github.com/mwiens91/fooskill/glicko"
	"github.com/mwiens91/fooskill/handlers"
	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	PlayerHandler    *handlers.PlayerHandler
	PlayerService    *services.PlayerService
	GameHandler      *handlers.GameHandler
	GameService      *services.GameService
	RatingHandler    *handlers.RatingHandler
	RatingService    *services.RatingService
	StatsService     *services.StatsService
	AdminHandler     *handlers.AdminHandler
	ReprocessService *services.ReprocessService
	Scheduler        *cron.Scheduler
	db               *gorm.DB
}

func NewModule(db *gorm.DB, cfg config.RatingConfig) (*Module, error) {
	algorithm, err := glicko.ForName(cfg.Algorithm, cfg.Glicko)
	if err != nil {
		return nil, err
	}

	statsService := services.NewStatsService(db)
	gameService := services.NewGameService(db, statsService)
	ratingService := services.NewRatingService(db, algorithm, cfg)
	playerService := services.NewPlayerService(db, statsService, ratingService)
	reprocessService := services.NewReprocessService(db, statsService, ratingService)

	playerHandler := handlers.NewPlayerHandler(playerService, statsService, ratingService)
	gameHandler := handlers.NewGameHandler(gameService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	adminHandler := handlers.NewAdminHandler(ratingService, reprocessService)

	scheduler := cron.NewScheduler(ratingService)

	return &Module{
		PlayerHandler:    playerHandler,
		PlayerService:    playerService,
		GameHandler:      gameHandler,
		GameService:      gameService,
		RatingHandler:    ratingHandler,
		RatingService:    ratingService,
		StatsService:     statsService,
		AdminHandler:     adminHandler,
		ReprocessService: reprocessService,
		Scheduler:        scheduler,
		db:               db,
	}, nil
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	players := r.Group("/players")
	{
		players.GET("", m.PlayerHandler.GetPlayers)
		players.POST("", m.PlayerHandler.CreatePlayer)
		players.GET("/:id", m.PlayerHandler.GetPlayer)
		players.GET("/:id/stats-history", m.PlayerHandler.GetStatsHistory)
		players.GET("/:id/rating-history", m.PlayerHandler.GetRatingHistory)
		players.GET("/:id/matchups/:opponentId", m.PlayerHandler.GetMatchupStats)
	}

	games := r.Group("/games")
	{
		games.GET("", m.GameHandler.GetGames)
		games.GET("/recent", m.GameHandler.GetRecentGames)
		games.POST("", m.GameHandler.CreateGame)
	}

	r.GET("/leaderboard", m.RatingHandler.GetLeaderboard)
	r.GET("/rating-periods", m.RatingHandler.GetRatingPeriods)

	admin := r.Group("/admin")
	{
		admin.POST("/process-ratings", m.AdminHandler.ProcessRatings)
		admin.POST("/reprocess-stats", m.AdminHandler.ReprocessStats)
		admin.POST("/reprocess-ratings", m.AdminHandler.ReprocessRatings)
	}
}

// StartScheduler starts the cron scheduler for rating period processing
func (m *Module) StartScheduler() error {
	log.Println("Starting fooskill scheduler...")
	return m.Scheduler.Start()
}

// StopScheduler stops the cron scheduler
func (m *Module) StopScheduler() {
	log.Println("Stopping fooskill scheduler...")
	m.Scheduler.Stop()
}
