package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/gift-store-backend/internal/metrics"
)

const (
	DefaultDays = 7
	MaxDays     = 90
	topProducts = 5
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Record(ctx context.Context, in EventInput) (Event, error) {
	if err := in.validate(); err != nil {
		return Event{}, err
	}
	e := Event{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Path:      strings.TrimSpace(in.Path),
		ProductID: in.ProductID,
		SessionID: in.SessionID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Record(ctx, e); err != nil {
		return Event{}, err
	}
	metrics.RecordAnalyticsEvent(string(e.Type))
	return e, nil
}

// Summary aggregates the events of the last days calendar days (UTC),
// today included. Out of range values are clamped.
func (s *Service) Summary(ctx context.Context, days int) (Summary, error) {
	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))

	events, err := s.repo.ListSince(ctx, from)
	if err != nil {
		return Summary{}, err
	}
	return summarize(events, from, days), nil
}

func summarize(events []Event, from time.Time, days int) Summary {
	sum := Summary{Days: days, From: from, TopProducts: []ProductStat{}}

	daily := make(map[string]int, days)
	views := map[int]int{}
	sessions := map[string]struct{}{}
	for _, e := range events {
		if e.SessionID != "" {
			sessions[e.SessionID] = struct{}{}
		}
		switch e.Type {
		case PageView:
			sum.PageViews++
			daily[e.CreatedAt.UTC().Format(time.DateOnly)]++
		case ProductView:
			sum.ProductViews++
			if e.ProductID != nil {
				views[*e.ProductID]++
			}
		case AddToCart:
			sum.AddToCart++
		case Checkout:
			sum.Checkouts++
		}
	}
	sum.UniqueSessions = len(sessions)

	if sum.PageViews > 0 {
		sum.ConversionRate = decimal.NewFromInt(int64(sum.Checkouts)).
			Div(decimal.NewFromInt(int64(sum.PageViews))).
			Round(4).
			InexactFloat64()
	}

	for id, n := range views {
		sum.TopProducts = append(sum.TopProducts, ProductStat{ProductID: id, Views: n})
	}
	sort.Slice(sum.TopProducts, func(i, j int) bool {
		if sum.TopProducts[i].Views == sum.TopProducts[j].Views {
			return sum.TopProducts[i].ProductID < sum.TopProducts[j].ProductID
		}
		return sum.TopProducts[i].Views > sum.TopProducts[j].Views
	})
	if len(sum.TopProducts) > topProducts {
		sum.TopProducts = sum.TopProducts[:topProducts]
	}

	sum.Daily = make([]DailyPoint, 0, days)
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format(time.DateOnly)
		sum.Daily = append(sum.Daily, DailyPoint{Date: date, PageViews: daily[date]})
	}
	return sum
}
