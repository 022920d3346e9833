// Preflight checks the suite environment before any browser test runs:
// it validates the required environment variables and confirms the site
// under test answers with an HTTP success.
//
// Usage: go run ./cmd/preflight
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/webdrift/sitecheck/internal/config"
	"github.com/webdrift/sitecheck/internal/errs"
	"github.com/webdrift/sitecheck/internal/fixture"
	"github.com/webdrift/sitecheck/internal/obs"
	"github.com/webdrift/sitecheck/internal/probe"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	obs.Init()
	cfg := config.MustLoad()
	fmt.Fprint(os.Stderr, cfg.RedactedSummary())

	siteURL := cfg.SiteURL
	if cfg.Fixture {
		site, err := fixture.NewSite()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start fixture site: %v\n", err)
			os.Exit(1)
		}
		defer site.Close()
		siteURL = site.URL()
	}

	result, err := probe.Check(context.Background(), siteURL, cfg.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "preflight failed (%s): %v\n", errs.CodeOf(err), err)
		os.Exit(1)
	}

	fmt.Printf("preflight ok: %s -> HTTP %d (%d redirects, %s)\n",
		siteURL, result.Status, result.Redirects, result.Elapsed.Round(time.Millisecond))
}
