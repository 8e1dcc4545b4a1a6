package main

import (
	"github.com/vikramkatyani/lmsBox-sub000/internal/app"
	"github.com/vikramkatyani/lmsBox-sub000/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
