// Package probe performs a plain-HTTP preflight against the site under test,
// so a dead or misconfigured site fails with a clear error before any browser
// is launched.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/webdrift/sitecheck/internal/errs"
	"github.com/webdrift/sitecheck/internal/obs"
)

const maxRedirects = 8

// Result describes the outcome of a preflight check.
type Result struct {
	FinalURL  string
	Status    int
	Redirects int
	Elapsed   time.Duration
}

// Check issues a GET against siteURL, following up to maxRedirects redirects
// manually so each hop is logged. A non-2xx final status is an error.
func Check(ctx context.Context, siteURL string, timeout time.Duration) (*Result, error) {
	log := obs.From(ctx).With("pkg", "probe")

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	start := time.Now()
	current := siteURL
	var resp *http.Response

	for hop := 0; hop <= maxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidConfig, fmt.Sprintf("invalid site URL %q", current), err)
		}
		resp, err = client.Do(req)
		if err != nil {
			return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("site unreachable at %s", current), err)
		}
		resp.Body.Close()

		loc := resp.Header.Get("Location")
		log.Debug("preflight hop", "url", current, "status", resp.StatusCode, "location", loc)

		if loc == "" || resp.StatusCode < 300 || resp.StatusCode >= 400 {
			result := &Result{
				FinalURL:  current,
				Status:    resp.StatusCode,
				Redirects: hop,
				Elapsed:   time.Since(start),
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return result, errs.New(errs.FromHTTPStatus(resp.StatusCode),
					fmt.Sprintf("site returned HTTP %d at %s", resp.StatusCode, current))
			}
			log.Info("preflight ok", "final_url", current, "status", resp.StatusCode,
				"redirects", hop, "elapsed_ms", result.Elapsed.Milliseconds())
			return result, nil
		}

		next, err := resolveLocation(current, loc)
		if err != nil {
			return nil, errs.Wrap(errs.Navigation, fmt.Sprintf("bad redirect location %q from %s", loc, current), err)
		}
		current = next
	}

	return nil, errs.New(errs.Navigation,
		fmt.Sprintf("redirect chain from %s exceeded %d hops", siteURL, maxRedirects))
}

func resolveLocation(current, loc string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
