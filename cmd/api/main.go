package main

import (
	"log"

	"github.com/anjiri1684/digital_tests/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("🔥 %v", err)
	}
}
