package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	"uk.co.dudmesh.napbook/internal/friendlist"
	"uk.co.dudmesh.napbook/internal/metrics"
	"uk.co.dudmesh.napbook/internal/model"
)

type EntityStore interface {
	ReadEntityAdmin(ctx context.Context, table string, partition string, row string) (*model.Record, error)
	UpdateEntityAdmin(ctx context.Context, table string, partition string, row string, props model.Properties, ifMatch string) error
}

// Report counts what happened to each friend of one push.
type Report struct {
	Delivered int
	Skipped   int
	Failed    int
}

type service struct {
	store       EntityStore
	table       string
	concurrency int
	logger      *log.Logger
}

func New(store EntityStore, table string, concurrency int, logger *log.Logger) *service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &service{
		store:       store,
		table:       table,
		concurrency: concurrency,
		logger:      logger,
	}
}

// PushStatus appends status to the Updates of every friend. Each friend is
// handled independently: a missing friend is skipped and a failed write is
// logged, neither stops the others nor fails the push.
func (s *service) PushStatus(ctx context.Context, sender model.Friend, status string, friends []model.Friend) error {
	report := s.Deliver(ctx, sender, status, friends)
	s.logger.Infof("push from %s: %d delivered, %d skipped, %d failed",
		sender, report.Delivered, report.Skipped, report.Failed)
	return nil
}

// Deliver returns once every friend has been attempted. A friend listed more
// than once receives the status once.
func (s *service) Deliver(ctx context.Context, sender model.Friend, status string, friends []model.Friend) Report {
	start := time.Now()
	defer func() {
		metrics.FanoutDuration.Observe(time.Since(start).Seconds())
	}()

	unique := make([]model.Friend, 0, len(friends))
	for _, friend := range friends {
		unique, _ = friendlist.Append(unique, friend)
	}
	friends = unique

	outcomes := make([]string, len(friends))
	group := errgroup.Group{}
	group.SetLimit(s.concurrency)
	for i, friend := range friends {
		i, friend := i, friend
		group.Go(func() error {
			outcomes[i] = s.deliver(ctx, sender, status, friend)
			metrics.FanoutDeliveries.WithLabelValues(outcomes[i]).Inc()
			return nil
		})
	}
	// Outcomes are collected per friend; no goroutine returns an error.
	group.Wait()

	report := Report{}
	for _, outcome := range outcomes {
		switch outcome {
		case metrics.OutcomeDelivered:
			report.Delivered++
		case metrics.OutcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	return report
}

func (s *service) deliver(ctx context.Context, sender model.Friend, status string, friend model.Friend) string {
	record, err := s.store.ReadEntityAdmin(ctx, s.table, friend.Country, friend.Name)
	if err != nil {
		if errors.Is(err, model.ErrorNotFound) {
			s.logger.Debugf("push from %s: no such friend %s", sender, friend)
			return metrics.OutcomeSkipped
		}
		s.logger.Warnf("push from %s: reading %s: %v", sender, friend, err)
		return metrics.OutcomeFailed
	}

	props := model.Properties{model.PropertyUpdates: AppendUpdate(record.Get(model.PropertyUpdates), status)}
	if err := s.store.UpdateEntityAdmin(ctx, s.table, friend.Country, friend.Name, props, record.ETag); err != nil {
		s.logger.Warnf("push from %s: writing updates of %s: %v", sender, friend, err)
		return metrics.OutcomeFailed
	}
	return metrics.OutcomeDelivered
}

// AppendUpdate joins a new status onto an Updates history with a newline.
func AppendUpdate(updates string, status string) string {
	if updates == "" {
		return status
	}
	return fmt.Sprintf("%s\n%s", updates, status)
}
