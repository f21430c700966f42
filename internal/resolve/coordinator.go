// Package resolve waits for outstanding entity metadata lookups before a
// chart build continues.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
)

// ErrMetadataResolutionFailed is matched when any joined lookup fails.
var ErrMetadataResolutionFailed = errors.New("metadata resolution failed")

// Failure statuses reported on ResolutionError.
const (
	StatusNotFound = "not_found"
	StatusCanceled = "canceled"
	StatusFailed   = "failed"
)

// StatusCoder is implemented by source errors that carry their own status.
type StatusCoder interface {
	Status() string
}

// ResolutionError carries the first failed lookup of a join.
type ResolutionError struct {
	EntityName string
	Status     string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("metadata resolution failed for entity %q (%s): %v", e.EntityName, e.Status, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMetadataResolutionFailed) hold.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrMetadataResolutionFailed
}

func statusOf(err error) string {
	var sc StatusCoder
	switch {
	case errors.As(err, &sc):
		return sc.Status()
	case errors.Is(err, metadata.ErrMetadataNotFound):
		return StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusFailed
	}
}

// Request is one pending entity metadata lookup.
type Request interface {
	EntityName() string
	Fetch(ctx context.Context) (*metadata.EntityMetadata, error)
}

type funcRequest struct {
	entity string
	fetch  func(ctx context.Context) (*metadata.EntityMetadata, error)
}

func (r funcRequest) EntityName() string { return r.entity }

func (r funcRequest) Fetch(ctx context.Context) (*metadata.EntityMetadata, error) {
	return r.fetch(ctx)
}

// NewRequest adapts a function into a Request.
func NewRequest(entity string, fetch func(ctx context.Context) (*metadata.EntityMetadata, error)) Request {
	return funcRequest{entity: entity, fetch: fetch}
}

// Definition is the data definition whose metadata needs resolving.
type Definition interface {
	PendingEntityMetadataRequests() []Request
	ApplyResolvedMetadata(results []*metadata.EntityMetadata) error
}

// Coordinator joins pending lookups with all-must-succeed semantics.
type Coordinator struct {
	logger *logger.Logger
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Coordinator{logger: log}
}

// Resolve runs every pending request of def concurrently. When all succeed
// the results are handed back to def in request order. The first failure is
// returned immediately as a *ResolutionError; lookups still in flight are
// left to finish on their own and their results are dropped.
func (c *Coordinator) Resolve(ctx context.Context, def Definition) error {
	requests := def.PendingEntityMetadataRequests()
	if len(requests) == 0 {
		return def.ApplyResolvedMetadata(nil)
	}

	start := time.Now()
	c.logger.Debugw("Resolving entity metadata", "pending", len(requests))

	results := make([]*metadata.EntityMetadata, len(requests))
	failed := make(chan *ResolutionError, 1)

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			md, err := req.Fetch(gctx)
			if err == nil && md == nil {
				err = &metadata.NotFoundError{LogicalName: req.EntityName()}
			}
			if err != nil {
				rerr := &ResolutionError{
					EntityName: req.EntityName(),
					Status:     statusOf(err),
					Err:        err,
				}
				select {
				case failed <- rerr:
				default:
				}
				return rerr
			}
			c.logger.WithEntity(req.EntityName()).Debugw("Resolved entity metadata")
			results[i] = md
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case rerr := <-failed:
		return c.fail(rerr)
	case err := <-done:
		if err != nil {
			return c.fail(<-failed)
		}
	case <-ctx.Done():
		return c.fail(&ResolutionError{Status: StatusCanceled, Err: ctx.Err()})
	}

	c.logger.Infow("Entity metadata resolved",
		"count", len(results),
		"duration", time.Since(start),
	)
	return def.ApplyResolvedMetadata(results)
}

func (c *Coordinator) fail(rerr *ResolutionError) error {
	log := c.logger
	if rerr.EntityName != "" {
		log = log.WithEntity(rerr.EntityName)
	}
	log.Errorw("Entity metadata resolution failed",
		"status", rerr.Status,
		"error", rerr.Err,
	)
	return rerr
}
