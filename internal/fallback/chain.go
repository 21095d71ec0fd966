// Package fallback runs repository calls against an ordered list of storage
// backends, moving to the next one when a backend fails.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/metrics"
)

var ErrNoBackends = errors.New("no storage backend configured")

// Backend pairs a repository implementation with the name used in logs.
type Backend[R any] struct {
	Name string
	Repo R
}

// Chain tries backends in order. Errors for which terminal returns true
// (not found, validation) are domain answers, not backend failures, and stop
// the chain immediately.
type Chain[R any] struct {
	domain   string
	backends []Backend[R]
	terminal func(error) bool
	log      logrus.FieldLogger
}

func NewChain[R any](domain string, log logrus.FieldLogger, terminal func(error) bool, backends ...Backend[R]) *Chain[R] {
	if terminal == nil {
		terminal = func(error) bool { return false }
	}
	return &Chain[R]{
		domain:   domain,
		backends: backends,
		terminal: terminal,
		log:      log.WithField("domain", domain),
	}
}

// Names lists the configured backends in the order they are tried.
func (c *Chain[R]) Names() []string {
	out := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		out = append(out, b.Name)
	}
	return out
}

// Do calls fn with each backend until one answers.
func (c *Chain[R]) Do(ctx context.Context, op string, fn func(R) error) error {
	if len(c.backends) == 0 {
		return ErrNoBackends
	}

	var errs []error
	for i, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(b.Repo)
		if err == nil || c.terminal(err) {
			metrics.RecordStorageCall(c.domain, b.Name, "served")
			entry := c.log.WithFields(logrus.Fields{"backend": b.Name, "op": op})
			if i > 0 {
				// anything not served by the primary must be visible in logs
				entry.Warn("served by fallback backend")
			} else {
				entry.Debug("served")
			}
			return err
		}

		metrics.RecordStorageCall(c.domain, b.Name, "failed")
		c.log.WithFields(logrus.Fields{"backend": b.Name, "op": op}).WithError(err).Error("storage backend failed")
		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
	}

	return fmt.Errorf("%s %s: all backends failed: %w", c.domain, op, errors.Join(errs...))
}
