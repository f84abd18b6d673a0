// Package update polls a release feed and tells the shell when a newer
// build is available.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"

	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/errors"
	"github.com/arbor-app/arbor/pkg/platform"
)

// Status is the checker's current verdict.
type Status int

const (
	// StatusUpToDate means no newer release is known.
	StatusUpToDate Status = iota
	// StatusAvailable means the feed advertises a newer release.
	StatusAvailable
)

// Release is one entry from the release feed.
type Release struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
	URL     string `json:"url"`
}

// Checker watches the release feed for versions newer than the running build.
// It notifies listeners on status changes and posts a banner through the host
// when a new release first appears. Dispose stops the background polling.
type Checker struct {
	notifier *core.Notifier
	feedURL  string
	current  string
	http     *http.Client
	interval time.Duration

	mu           sync.Mutex
	status       Status
	latest       *Release
	lastNotified string
	bannerID     int64
	started      bool

	stop     chan struct{}
	stopOnce sync.Once
	unlisten func()
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.http = hc }
}

// WithInterval sets the polling interval. Zero disables periodic polling;
// lifecycle resumes and explicit Check calls still run.
func WithInterval(d time.Duration) Option {
	return func(c *Checker) { c.interval = d }
}

// NewChecker creates a checker for the feed at feedURL. currentVersion is the
// running build's version, with or without a leading "v".
func NewChecker(feedURL, currentVersion string, opts ...Option) *Checker {
	c := &Checker{
		notifier: core.NewNotifier(),
		feedURL:  feedURL,
		current:  currentVersion,
		http:     &http.Client{Timeout: 15 * time.Second},
		interval: 6 * time.Hour,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddListener registers a status change callback. Returns an unsubscribe
// function.
func (c *Checker) AddListener(listener func()) func() {
	return c.notifier.AddListener(listener)
}

// Status returns the current verdict.
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Available returns the newest known release, or nil while up to date.
func (c *Checker) Available() *Release {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusAvailable {
		return nil
	}
	return c.latest
}

// Start begins background polling and re-checks whenever the app resumes.
// Safe to call once; later calls are no-ops.
func (c *Checker) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.unlisten = platform.Lifecycle.AddHandler(func(state platform.LifecycleState) {
		if state == platform.LifecycleStateResumed {
			go c.checkAndReport()
		}
	})

	if c.interval > 0 {
		go c.poll()
	}
}

func (c *Checker) poll() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.checkAndReport()
		}
	}
}

func (c *Checker) checkAndReport() {
	if _, err := c.Check(context.Background()); err != nil {
		reportCheckerError("update.Checker.Check", err)
	}
}

func reportCheckerError(op string, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		errors.Report(appErr)
		return
	}
	errors.Report(&errors.AppError{Op: op, Kind: errors.KindUnknown, Err: err})
}

// Check fetches the feed once and updates the status. Returns the newer
// release if one was found, nil when up to date.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	const op = "update.Checker.Check"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.AppError{Op: op, Kind: errors.KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.AppError{
			Op:   op,
			Kind: errors.KindNetwork,
			Err:  fmt.Errorf("feed returned status %d", resp.StatusCode),
		}
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, &errors.AppError{Op: op, Kind: errors.KindDecode, Err: err}
	}

	latest := canonical(release.Version)
	running := canonical(c.current)
	if !semver.IsValid(latest) {
		return nil, &errors.AppError{
			Op:   op,
			Kind: errors.KindParsing,
			Err:  fmt.Errorf("feed version %q is not a valid semver", release.Version),
		}
	}
	if semver.Compare(latest, running) <= 0 {
		return nil, nil
	}

	c.mu.Lock()
	c.status = StatusAvailable
	c.latest = &release
	announce := c.lastNotified != latest
	if announce {
		c.lastNotified = latest
	}
	c.mu.Unlock()

	if announce {
		c.showBanner(&release)
		c.notifier.NotifyListeners()
	}
	return &release, nil
}

func (c *Checker) showBanner(release *Release) {
	id, err := platform.Notifier.Show(
		"Update available",
		fmt.Sprintf("Version %s is ready to install.", strings.TrimPrefix(release.Version, "v")),
	)
	if err != nil {
		errors.Report(&errors.AppError{
			Op:      "update.Checker.showBanner",
			Kind:    errors.KindPlatform,
			Channel: "arbor/notify",
			Err:     err,
		})
		return
	}
	c.mu.Lock()
	c.bannerID = id
	c.mu.Unlock()
}

// Acknowledge dismisses the update banner and resets the status. The next
// Check for the same version stays quiet; a newer version announces again.
func (c *Checker) Acknowledge() {
	c.mu.Lock()
	id := c.bannerID
	c.bannerID = 0
	c.status = StatusUpToDate
	c.latest = nil
	c.mu.Unlock()

	if id != 0 {
		if err := platform.Notifier.Dismiss(id); err != nil {
			errors.Report(&errors.AppError{
				Op:      "update.Checker.Acknowledge",
				Kind:    errors.KindPlatform,
				Channel: "arbor/notify",
				Err:     err,
			})
		}
	}
	c.notifier.NotifyListeners()
}

// Dispose stops polling and detaches from lifecycle events.
func (c *Checker) Dispose() {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.unlisten != nil {
		c.unlisten()
	}
}

// canonical normalizes a version string for semver comparison.
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
