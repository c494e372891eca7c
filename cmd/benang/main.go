// Command benang runs the Benang Studio content server.
package main

import (
	"log"

	"github.com/benangstudio/benang"
)

func main() {
	cfg := benang.LoadConfig()
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = benang.MustEnv("ADMIN_PASSWORD")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = benang.MustEnv("SESSION_SECRET")
	}

	app := benang.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
