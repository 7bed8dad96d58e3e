package main

import (
	"github.com/emrgen/linker/cmd"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cmd.Execute()
}
