package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/centrosocial/centro-api/pkg/events"
	"github.com/centrosocial/centro-api/pkg/jobs"
	"github.com/centrosocial/centro-api/pkg/server"
	"github.com/centrosocial/centro-api/pkg/storage"
	"github.com/centrosocial/centro-api/pkg/telegram"
)

func main() {
	// Credentials may come from a local .env file; a missing file is fine
	_ = godotenv.Load()

	// Command line flags
	var (
		port           = flag.String("port", "3000", "Server port")
		dataFile       = flag.String("data-file", "centro_data"+storage.FileExtension, "Data file path for persistence")
		dataDir        = flag.String("data-dir", ".", "Data directory for storage")
		backgroundSave = flag.Duration("background-save", 0, "Background save interval (e.g., 5m, 30s). Set to 0 to save after every write.")
		showHelp       = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ncentro-api is a REST API over an embedded document store, with Telegram\nnotifications and a scheduled job runner.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  TELEGRAM_BOT_TOKEN   Bot credential for outbound notifications\n")
		fmt.Fprintf(os.Stderr, "  TELEGRAM_CHAT_ID     Destination chat for outbound notifications\n")
		fmt.Fprintf(os.Stderr, "\nWithout both Telegram variables, notifications are echoed to the log.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Build storage options based on flags
	var storageOptions []storage.StorageOption

	if *dataDir != "." {
		storageOptions = append(storageOptions, storage.WithDataDir(*dataDir))
		log.Printf("INFO: Using data directory: %s", *dataDir)
	}

	if *backgroundSave > 0 {
		storageOptions = append(storageOptions, storage.WithBackgroundSave(*backgroundSave))
		log.Printf("INFO: Background save enabled: every %v", *backgroundSave)
	}

	storageEngine := storage.NewStorageEngine(storageOptions...)

	// Serving without the data layer is meaningless: a snapshot that exists
	// but cannot be loaded halts the process.
	log.Printf("INFO: Loading data from: %s", *dataFile)
	if err := storageEngine.LoadFromFile(*dataFile); err != nil {
		log.Fatalf("Could not load data file %s: %v", *dataFile, err)
	}
	storageEngine.StartBackgroundWorkers()
	defer storageEngine.StopBackgroundWorkers()

	// Notification destination
	sender := telegram.NewSender(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"))
	if !sender.Enabled() {
		log.Printf("WARN: Telegram credentials not set - notifications will be echoed locally")
	}

	// Event bus and job runner
	bus := events.New()
	jobRunner := jobs.NewService(sender, bus)
	if err := jobRunner.Start(); err != nil {
		log.Fatalf("Could not start job runner: %v", err)
	}
	defer jobRunner.Stop()

	srv := server.New(storageEngine, sender, bus, jobRunner)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: srv.Router(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting centro-api server on :%s", *port)
		log.Printf("API endpoints available at http://localhost:%s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Save database before shutdown
	log.Printf("INFO: Saving data to: %s", *dataFile)
	srv.SaveDB(*dataFile)

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
