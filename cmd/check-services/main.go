// check-services verifies that the dependencies the server needs at runtime
// are reachable: MongoDB and the emotion and speech inference services.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChandanDev27/Interview-backend/internal/config"
	"github.com/ChandanDev27/Interview-backend/internal/database"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	ok := true
	ok = check("mongodb", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, disconnect, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		return disconnect(ctx)
	}) && ok

	ok = check("emotion service", func() error {
		return ping(cfg.EmotionServiceURL)
	}) && ok

	ok = check("speech service", func() error {
		return ping(cfg.SpeechServiceURL)
	}) && ok

	if !ok {
		os.Exit(1)
	}
	fmt.Println("all services reachable")
}

func check(name string, fn func() error) bool {
	if err := fn(); err != nil {
		fmt.Printf("FAIL  %s: %v\n", name, err)
		return false
	}
	fmt.Printf("OK    %s\n", name)
	return true
}

func ping(baseURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
