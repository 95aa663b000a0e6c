package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formbridge/formbridge/internal/config"
	"github.com/formbridge/formbridge/internal/tools"
	"github.com/formbridge/formbridge/pkg/gforms"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "config file path (defaults to the standard search locations)")
	envFile := flag.String("env", "", ".env file to load before reading the environment")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("formbridge %s\n", version)
		return
	}

	// The protocol owns stdout; everything human-facing goes to stderr.
	log.SetOutput(os.Stderr)
	log.SetPrefix("formbridge: ")
	log.SetFlags(0)

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("load %s: %v", *envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v (run formbridge-setup, or set the FORMBRIDGE_* environment variables)", err)
	}

	client, err := gforms.New(cfg.BaseURL, cfg.ConsumerKey, cfg.ConsumerSecret,
		gforms.WithTimeout(cfg.Timeout()),
		gforms.WithUserAgent("formbridge/"+version),
	)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	srv := tools.NewServer(client, version)

	log.Printf("serving %s over stdio", cfg.BaseURL)
	if err := server.ServeStdio(srv); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
