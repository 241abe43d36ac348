package main

import (
	"os"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/cli"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logs.LogJSON("FATAL", "Command failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
