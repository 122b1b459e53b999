package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pvzzle/chainlens/internal/retry"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Config struct {
	URL            string
	Timeout        time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration

	// RateLimit is the outbound requests/second budget; <= 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Client issues single JSON-RPC 2.0 calls against one upstream node.
// Every method this service uses is a read, so network failures are retried.
type Client struct {
	rc      *gethrpc.Client
	cfg     Config
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func Dial(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Client, error) {
	rc, err := gethrpc.DialOptions(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", cfg.URL, err)
	}
	return New(rc, cfg, log), nil
}

// New wraps an already connected go-ethereum client.
func New(rc *gethrpc.Client, cfg Config, log logrus.FieldLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 200 * time.Millisecond
	}

	lim := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Client{
		rc:      rc,
		cfg:     cfg,
		limiter: lim,
		log:     log.WithField("component", "rpc"),
	}
}

// Call returns the raw "result" member. A JSON null result is returned as "null".
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var out json.RawMessage

	policy := retry.Policy{
		MaxAttempts: c.cfg.MaxAttempts,
		BaseDelay:   c.cfg.RetryBaseDelay,
		MaxDelay:    5 * c.cfg.RetryBaseDelay,
		Jitter:      c.cfg.RetryBaseDelay / 2,
		Classify: func(err error) retry.Class {
			if IsUpstream(err) {
				return retry.Fatal
			}
			return retry.Retryable
		},
		OnRetry: func(attempt int, wait time.Duration, err error) {
			c.log.WithFields(logrus.Fields{
				"method":  method,
				"attempt": attempt,
				"wait":    wait,
			}).WithError(err).Warn("rpc call failed, retrying")
		},
	}

	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Method: method, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		out = nil
		err := c.rc.CallContext(callCtx, &out, method, params...)
		if errors.Is(err, gethrpc.ErrNoResult) {
			out = json.RawMessage("null")
			return nil
		}
		return classify(method, err)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !IsUpstream(err) && !IsNetwork(err) {
			return nil, &NetworkError{Method: method, Err: ctxErr}
		}
		return nil, err
	}
	if len(out) == 0 {
		out = json.RawMessage("null")
	}
	return out, nil
}

func (c *Client) Close() {
	c.rc.Close()
}
