package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env chỉ có ở local, thiếu file thì đọc system env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, reading system environment")
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}
