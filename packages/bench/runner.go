package bench

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/logging"
)

// Runner fires requests at a constant rate from a pool of workers. Every
// worker builds its own HTTP client when it starts and closes it when the
// run ends; clients are never shared between goroutines.
type Runner struct {
	config    *Config
	metrics   *Metrics
	newClient func() *http.Client
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithClientFactory overrides how worker clients are built.
func WithClientFactory(factory func() *http.Client) RunnerOption {
	return func(r *Runner) {
		r.newClient = factory
	}
}

// NewRunner creates a runner for config.
func NewRunner(config *Config, opts ...RunnerOption) *Runner {
	r := &Runner{
		config:  config,
		metrics: NewMetrics(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the bench until the configured duration elapses or ctx is
// canceled, then reports what was measured.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	payload, err := r.config.Payload()
	if err != nil {
		return nil, err
	}

	factory := r.newClient
	if factory == nil {
		factory = r.defaultFactory()
	}

	limiter := rate.NewLimiter(rate.Limit(r.config.Rate), 1)

	runCtx, cancel := context.WithTimeout(ctx, r.config.duration)
	defer cancel()

	logging.L().Infof("bench: %s %s at %.0f req/s for %s with %d workers",
		r.config.Method, r.config.URL, r.config.Rate, r.config.Duration, r.config.Concurrency)

	var wg sync.WaitGroup
	r.metrics.Start()

	for i := 0; i < r.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := factory()
			defer client.Close()
			r.worker(runCtx, client, limiter, payload)
		}()
	}

	wg.Wait()
	r.metrics.Stop()

	return r.metrics.Report(), nil
}

func (r *Runner) worker(ctx context.Context, client *http.Client, limiter *rate.Limiter, payload []byte) {
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		resp := r.shoot(client, payload)
		r.metrics.Record(resp.Duration, resp.IsSuccess())
	}
}

func (r *Runner) shoot(client *http.Client, payload []byte) *http.Response {
	switch r.config.Method {
	case "POST":
		return client.Post(r.config.URL, r.config.ContentType, payload)
	case "PUT":
		return client.Put(r.config.URL, r.config.ContentType, payload)
	case "DELETE":
		return client.Delete(r.config.URL)
	default:
		return client.Get(r.config.URL)
	}
}

func (r *Runner) defaultFactory() func() *http.Client {
	cfg := r.config
	return func() *http.Client {
		client := http.NewClient(http.WithTimeout(cfg.timeout))
		if cfg.Auth != "" {
			username, password, _ := strings.Cut(cfg.Auth, ":")
			client.SetAuth(username, password)
		}
		return client
	}
}
