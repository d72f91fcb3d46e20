// Package keepalive pings the service's own public URL on a fixed schedule so
// hosting platforms that idle quiet instances keep it running.
package keepalive

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const pingTimeout = 10 * time.Second

type Pinger struct {
	client   *fasthttp.Client
	url      string
	delay    time.Duration
	interval time.Duration
	logger   *slog.Logger
}

// NewPinger targets baseURL + "/ping". An empty baseURL is allowed; each tick
// then only logs that no URL is configured.
func NewPinger(baseURL string, delay, interval time.Duration, logger *slog.Logger) *Pinger {
	url := ""
	if baseURL != "" {
		url = strings.TrimRight(baseURL, "/") + "/ping"
	}
	return &Pinger{
		client: &fasthttp.Client{
			ReadTimeout:         pingTimeout,
			WriteTimeout:        pingTimeout,
			MaxIdleConnDuration: interval,
		},
		url:      url,
		delay:    delay,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done.
func (p *Pinger) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.delay):
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pinger) tick() {
	if p.url == "" {
		p.logger.Warn("self-ping skipped: no URL configured")
		return
	}

	status, err := p.Ping()
	if err != nil {
		p.logger.Warn("self-ping failed", "url", p.url, "error", err)
		return
	}
	p.logger.Info("self-ping sent", "url", p.url, "status", status)
}

// Ping issues one GET and returns the response status code.
func (p *Pinger) Ping() (int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(http.MethodGet)
	req.SetRequestURI(p.url)

	if err := p.client.DoTimeout(req, resp, pingTimeout); err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}
