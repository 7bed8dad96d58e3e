package main

import (
	"os"

	"github.com/emrgen/linker/internal/server"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4001"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if err := os.MkdirAll(".tmp", os.ModePerm); err != nil {
			panic(err)
		}
		dsn = ".tmp/linker.db"
	}

	server.NewServer(httpPort, dsn).Start()
}
