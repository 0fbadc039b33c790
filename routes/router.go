package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/VrajPatel-21/papercricket/config"
	"github.com/VrajPatel-21/papercricket/internal/auth"
	"github.com/VrajPatel-21/papercricket/internal/game"
	"github.com/VrajPatel-21/papercricket/internal/ws"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Welcome page
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
			<html>
				<head><title>Paper Cricket</title></head>
				<body style="text-align:center; margin-top: 40px;">
					<h1>Paper Cricket 🏏</h1>
					<p><a href="/swagger/index.html">API docs</a></p>
				</body>
			</html>
		`))
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// One hub shared by the websocket gateway and the lobby controllers, so
	// join notifications reach already-connected clients.
	hub := ws.NewHub()

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	game.RegisterGameRoutes(api, db, appConfig, hub)

	// WebSocket gateway
	ws.RegisterWebSocketRoutes(r, db, appConfig, hub)

	return r
}
