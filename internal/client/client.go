// Package client is the storefront's session state container. It mirrors
// the server's aggregate, routes every mutation through the REST API and
// keeps the shopper's cart in local storage.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/cart"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
)

type SyncStatus string

const (
	StatusIdle    SyncStatus = "idle"
	StatusSyncing SyncStatus = "syncing"
	StatusSuccess SyncStatus = "success"
	StatusError   SyncStatus = "error"
)

const (
	DefaultMinSyncInterval   = 5 * time.Second
	DefaultStatusResetDelay  = 3 * time.Second
	DefaultDataSchedule      = "@every 30s"
	DefaultAnalyticsSchedule = "@every 5m"
)

var (
	// ErrUnauthorized is returned when the server rejects the session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSyncSkipped is returned by FetchData when the call was dropped
	// because another fetch is in flight or the last one is too recent.
	ErrSyncSkipped = errors.New("sync skipped")
	ErrNoWhatsapp  = errors.New("whatsapp number not configured")
	ErrEmptyCart   = errors.New("cart is empty")
)

// APIError is a non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Products      []product.Product
	CatalogItems  []catalog.Item
	Settings      settings.Settings
	Cart          []cart.Item
	Authenticated bool
	SyncStatus    SyncStatus
	SyncMessage   string
	Analytics     *analytics.Summary
	LastSync      time.Time
}

type Store struct {
	baseURL           string
	http              *http.Client
	storage           CartStorage
	log               logrus.FieldLogger
	minSyncInterval   time.Duration
	statusResetDelay  time.Duration
	dataSchedule      string
	analyticsSchedule string
	sessionID         string
	now               func() time.Time

	// persistMu orders cart changes with their saves so the stored cart
	// never falls behind the in-memory one.
	persistMu sync.Mutex

	mu            sync.RWMutex
	products      []product.Product
	catalogItems  []catalog.Item
	settings      settings.Settings
	cart          *cart.Cart
	authenticated bool
	status        SyncStatus
	statusMessage string
	statusGen     uint64
	summary       *analytics.Summary
	lastSync      time.Time
	fetching      bool
}

type Option func(*Store)

// WithHTTPClient replaces the default client. It should carry a cookie jar
// for the session cookie to survive between calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.http = c }
}

func WithStorage(st CartStorage) Option {
	return func(s *Store) { s.storage = st }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

func WithMinSyncInterval(d time.Duration) Option {
	return func(s *Store) { s.minSyncInterval = d }
}

func WithStatusResetDelay(d time.Duration) Option {
	return func(s *Store) { s.statusResetDelay = d }
}

// WithSchedules sets the cron specs of the data and analytics jobs.
func WithSchedules(data, analytics string) Option {
	return func(s *Store) {
		s.dataSchedule = data
		s.analyticsSchedule = analytics
	}
}

func New(baseURL string, opts ...Option) *Store {
	jar, _ := cookiejar.New(nil)
	s := &Store{
		baseURL:           strings.TrimRight(baseURL, "/"),
		http:              &http.Client{Jar: jar, Timeout: 15 * time.Second},
		storage:           NewMemoryStorage(),
		log:               logrus.StandardLogger(),
		minSyncInterval:   DefaultMinSyncInterval,
		statusResetDelay:  DefaultStatusResetDelay,
		dataSchedule:      DefaultDataSchedule,
		analyticsSchedule: DefaultAnalyticsSchedule,
		sessionID:         uuid.NewString(),
		now:               time.Now,
		products:          []product.Product{},
		catalogItems:      []catalog.Item{},
		settings:          settings.Default(),
		cart:              cart.New(nil),
		status:            StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Products:      append([]product.Product{}, s.products...),
		CatalogItems:  append([]catalog.Item{}, s.catalogItems...),
		Settings:      s.settings,
		Cart:          s.cart.Items(),
		Authenticated: s.authenticated,
		SyncStatus:    s.status,
		SyncMessage:   s.statusMessage,
		Analytics:     s.summary,
		LastSync:      s.lastSync,
	}
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Product looks a product up in the last synced snapshot.
func (s *Store) Product(id int) (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

// setStatus publishes a sync status. Success and error fall back to idle
// after statusResetDelay unless another status was published meanwhile.
func (s *Store) setStatus(status SyncStatus, message string) {
	s.mu.Lock()
	s.statusGen++
	gen := s.statusGen
	s.status = status
	s.statusMessage = message
	s.mu.Unlock()

	if status != StatusSuccess && status != StatusError {
		return
	}
	time.AfterFunc(s.statusResetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusGen == gen {
			s.status = StatusIdle
			s.statusMessage = ""
		}
	})
}

// fail logs a failed operation and surfaces it through the sync status.
func (s *Store) fail(op string, err error) error {
	s.log.WithField("op", op).WithError(err).Warn("store operation failed")
	s.setStatus(StatusError, op+" failed: "+err.Error())
	return err
}
