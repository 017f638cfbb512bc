package main

import (
	"socialfeed/config"
	"socialfeed/models"
	"socialfeed/routes"
	"socialfeed/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	config.InitDatabase(&models.User{}, &models.Post{}, &models.Like{}, &models.Comment{})

	r := routes.SetupRouter(config.DB())

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
