package main

import (
	"log"

	"github.com/sneyderangulo/readinglist/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("readinglistd failed to start: %v", err)
	}
}
