// Command healthcheck probes the bot's /healthz endpoint for container health checks.
// HEALTHCHECK_URL overrides the default http://localhost:8080/healthz.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultURL = "http://localhost:8080/healthz"

func main() {
	os.Exit(run(os.Getenv("HEALTHCHECK_URL")))
}

func run(url string) int {
	if url == "" {
		url = defaultURL
	}
	client := &http.Client{Timeout: 3 * time.Second}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		log.Printf("bad healthcheck url %q: %v", url, err)
		return 1
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("healthcheck request failed: %v", err)
		return 1
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		log.Printf("healthcheck returned %s", resp.Status)
		return 1
	}
	return 0
}
