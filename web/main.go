package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-tinyray/pkg/config"
	"github.com/df07/go-tinyray/pkg/publish"
	"github.com/df07/go-tinyray/web/server"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", config.DefaultEnvFile, "Environment file read at startup")
	port := flag.String("port", "", "Port to serve on (overrides TINYRAY_PORT)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	var uploader *publish.Uploader
	if cfg.S3.Enabled() {
		uploader, err = publish.NewUploader(cfg.S3, nil)
		if err != nil {
			log.Printf("Error configuring S3 publishing: %v", err)
			os.Exit(1)
		}
		log.Printf("Publishing renders to bucket %s", cfg.S3.Bucket)
	}

	// Create and start web server
	webServer := server.NewServer(cfg, uploader)

	log.Printf("tinyray Web Server")
	log.Printf("Visit http://localhost:%s/api/scenes to list scenes", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
