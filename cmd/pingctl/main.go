package main

import (
	"os"

	"github.com/gogotex/pingbot/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	if err := newRootCmd(defaultOpener).Execute(); err != nil {
		os.Exit(1)
	}
}
