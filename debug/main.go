package main

import (
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/server"
	"github.com/sirupsen/logrus"
)

// runs the daemon with debug logging, without the cli
func main() {
	cfg := config.LoadConfig()
	logrus.SetLevel(logrus.DebugLevel)

	if err := server.Start(cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}
