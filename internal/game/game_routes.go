package game

import (
	"github.com/VrajPatel-21/papercricket/config"
	"github.com/VrajPatel-21/papercricket/internal/middleware"
	"github.com/VrajPatel-21/papercricket/internal/player"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterGameRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, hub Broadcaster) {
	repo := NewGormGameRepository(db)
	players := player.NewPlayerRepository(db)
	engine := NewEngine(repo)
	controller := NewGameController(repo, players, engine, hub, appConfig)

	matches := router.Group("/matches")
	matches.GET("/:code", controller.GetMatch)

	protected := matches.Group("")
	protected.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		protected.POST("/create", controller.CreateMatch)
		protected.POST("/join", controller.JoinMatch)
	}
}
