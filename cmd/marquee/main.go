package main

import (
	"log"

	"github.com/MrSnakeDoc/marquee/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ marquee failed to start: %v", err)
	}
}
