package core

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/cleverdata/indexnow/internal/api"
	"github.com/cleverdata/indexnow/internal/config"
	"github.com/cleverdata/indexnow/internal/db"
	"github.com/cleverdata/indexnow/internal/discover"
	"github.com/cleverdata/indexnow/internal/urlpath"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	ExitOK          = 0
	ExitConfigError = 1
)

// Submitter delivers a payload to the search engine.
type Submitter interface {
	Submit(ctx context.Context, p api.Payload) (api.Result, error)
}

// Recorder stores the outcome of a run.
type Recorder interface {
	Record(r db.Run) error
}

// Runner performs one deploy notification. Fs and Logger are required;
// Submitter is only used outside dry-run mode. When History is nil and the
// configuration names a history database, the database is opened on demand.
type Runner struct {
	Fs        afero.Fs
	Logger    log.Interface
	Submitter Submitter
	History   Recorder

	Now   func() time.Time
	NewID func() string
}

// Run executes the pipeline and returns the process exit code. Only invalid
// configuration produces a non-zero code; a failed submission must not fail
// the deploy that triggered it.
func (r *Runner) Run(ctx context.Context, cfg config.Config) int {
	logger := r.Logger

	if cfg.Skip {
		logger.Info("skipping submission because INDEXNOW_SKIP is set.")
		return ExitOK
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf("%v.", err)
		return ExitConfigError
	}

	keyFile := filepath.Join(cfg.Root, filepath.FromSlash(cfg.KeyFileName))
	if ok, _ := afero.Exists(r.Fs, keyFile); !ok {
		logger.Warnf("key file '%s' is missing locally; make sure it is deployed.", cfg.KeyFileName)
	}

	logger.Debugf("scanning %s", cfg.Root)
	urls, err := CollectURLs(r.Fs, cfg, logger)
	if err != nil {
		logger.Errorf("file discovery failed: %v", err)
		logger.Warn("nothing submitted; deploy will continue.")
		return ExitOK
	}
	if len(urls) == 0 {
		logger.Info("no HTML files found; nothing to submit.")
		return ExitOK
	}

	if len(urls) > cfg.MaxURLs {
		logger.Infof("trimming URL list from %d to %d (API limit).", len(urls), cfg.MaxURLs)
		urls = Truncate(urls, cfg.MaxURLs)
	}

	logger.Infof("preparing to submit %d URL(s):", len(urls))
	for _, u := range urls {
		logger.WithField("type", "item").Info(u)
	}

	if r.submit(ctx, cfg, urls) {
		logger.Info("submission complete.")
	} else {
		logger.Warn("submission failed but deploy will continue.")
	}
	return ExitOK
}

// CollectURLs discovers the pages under cfg.Root and maps them, in sorted
// path order, to absolute URLs. Unreadable directories below the root are
// logged as warnings and skipped.
func CollectURLs(fs afero.Fs, cfg config.Config, logger log.Interface) ([]string, error) {
	files, err := discover.HTMLFiles(fs, cfg.Root, logger.Warnf)
	if err != nil {
		return nil, err
	}
	return urlpath.URLs(cfg.BaseURL, files), nil
}

// Truncate keeps the first max entries of urls.
func Truncate(urls []string, max int) []string {
	if max < 0 || len(urls) <= max {
		return urls
	}
	return urls[:max]
}

func (r *Runner) submit(ctx context.Context, cfg config.Config, urls []string) bool {
	logger := r.Logger
	payload := api.NewPayload(cfg, urls)
	run := db.Run{
		ID:          r.newID(),
		SubmittedAt: r.now(),
		Endpoint:    cfg.Endpoint,
		URLCount:    len(urls),
	}

	if cfg.DryRun {
		body, err := payload.Encode(true)
		if err != nil {
			logger.Errorf("%v", err)
			return false
		}
		logger.Info("dry-run: payload that would be submitted:")
		logger.WithField("type", "raw").Info(string(body))
		run.Status = db.StatusDryRun
		r.record(cfg, run)
		return true
	}

	res, err := r.Submitter.Submit(ctx, payload)
	var herr *api.HTTPError
	switch {
	case errors.As(err, &herr):
		logger.Warnf("%v", herr)
		run.Status = db.StatusRejected
		run.StatusCode = herr.StatusCode
		run.Message = herr.Error()
	case err != nil:
		logger.Warnf("network error: %v", err)
		run.Status = db.StatusFailed
		run.Message = err.Error()
	default:
		logger.Infof("submitted %d URL(s) to %s (HTTP %d).", len(urls), endpointHost(cfg.Endpoint), res.StatusCode)
		if res.Body != "" {
			logger.Infof("response: %s", res.Body)
		}
		run.Status = db.StatusSubmitted
		run.StatusCode = res.StatusCode
		run.Message = res.Body
	}

	r.record(cfg, run)
	return run.Status == db.StatusSubmitted
}

func (r *Runner) record(cfg config.Config, run db.Run) {
	rec := r.History
	if rec == nil {
		if cfg.HistoryDB == "" {
			return
		}
		store, err := db.Open(cfg.HistoryDB)
		if err != nil {
			r.Logger.Warnf("run history unavailable: %v", err)
			return
		}
		defer store.Close()
		rec = store
	}
	if err := rec.Record(run); err != nil {
		r.Logger.Warnf("could not record run history: %v", err)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
