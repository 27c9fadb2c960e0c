package main

import (
	"log"

	"github.com/mdotstrange/TabHoardersFriend/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ hoardd failed to start: %v", err)
	}
}
