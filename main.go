package main

import (
	"os"

	"github.com/C1Z4/ourhour-chatbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
