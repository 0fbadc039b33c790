package main

import (
	"log"

	"github.com/VrajPatel-21/papercricket/config"
	_ "github.com/VrajPatel-21/papercricket/docs"
	"github.com/VrajPatel-21/papercricket/internal/game"
	"github.com/VrajPatel-21/papercricket/internal/player"
	"github.com/VrajPatel-21/papercricket/internal/user"
	"github.com/VrajPatel-21/papercricket/routes"
)

// @title Paper Cricket API
// @version 1.0
// @description Real-time two-player paper cricket server 🏏
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&player.Player{},
		&game.Match{}, &game.Inning{}, &game.Ball{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
