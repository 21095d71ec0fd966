package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/auth"
	"github.com/wichananm65/gift-store-backend/internal/cart"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/httpx"
	"github.com/wichananm65/gift-store-backend/internal/logging"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/settings"
	"github.com/wichananm65/gift-store-backend/internal/storefront"
)

func ptr[T any](v T) *T { return &v }

// newTestServer runs the real API on in-memory repositories.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc := auth.NewService("admin", string(hash), "test-secret", time.Hour)
	log := logging.Discard()

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false, log)})
	requireAuth := auth.Middleware(authSvc.Secret())

	auth.NewHandler(authSvc, auth.NewLoginLimiter(10), false, log).RegisterPublicRoutes(app)

	store := storefront.NewHandler(storefront.NewService(
		product.NewService(product.NewInMemoryRepository(nil)),
		catalog.NewService(catalog.NewInMemoryRepository(nil)),
		settings.NewService(settings.NewInMemoryRepository()),
	))
	store.RegisterPublicRoutes(app)
	store.RegisterProtectedRoutes(app, requireAuth)

	events := analytics.NewHandler(analytics.NewService(analytics.NewInMemoryRepository(100)))
	events.RegisterPublicRoutes(app)
	events.RegisterProtectedRoutes(app, requireAuth)

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv
}

func newTestStore(url string, opts ...Option) *Store {
	base := []Option{WithLogger(logging.Discard()), WithMinSyncInterval(0)}
	return New(url, append(base, opts...)...)
}

func TestStore_EndToEnd(t *testing.T) {
	srv := newTestServer(t)
	storage := NewMemoryStorage()
	s := newTestStore(srv.URL, WithStorage(storage))
	ctx := context.Background()

	s.Bootstrap(ctx)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.State().Products)

	_, err := s.AddProduct(ctx, product.Input{Name: "Caneca Mágica", Price: ptr(19.9), Category: "canecas", Description: "..."})
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, s.Login(ctx, "admin", "s3cret"))
	assert.True(t, s.Authenticated())
	ok, err := s.CheckAuth(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := s.AddProduct(ctx, product.Input{Name: "Caneca Mágica", Price: ptr(19.9), Category: "canecas", Description: "..."})
	require.NoError(t, err)
	assert.Equal(t, "caneca-magica", p.Slug)
	assert.True(t, p.IsActive)
	require.Len(t, s.State().Products, 1)

	_, err = s.AddToCart(p, 2, "", "festa")
	require.NoError(t, err)
	assert.Equal(t, "39.80", s.CartSubtotal().StringFixed(2))
	saved, err := storage.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)

	_, err = s.UpdateSettings(ctx, settings.Patch{SocialMedia: &settings.SocialMedia{Instagram: "@presentes"}})
	require.NoError(t, err)
	st, err := s.UpdateSettings(ctx, settings.Patch{WhatsappNumber: ptr("(11) 98765-4321")})
	require.NoError(t, err)
	assert.Equal(t, "@presentes", st.SocialMedia.Instagram)

	link, err := s.CheckoutLink()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511987654321?text="), link)
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%20")

	item, err := s.AddCatalogItem(ctx, catalog.Input{Title: "Dia das Mães", ProductIDs: []int{p.ID}})
	require.NoError(t, err)
	_, err = s.UpdateCatalogItem(ctx, item.ID, catalog.Patch{Description: ptr("presentes")})
	require.NoError(t, err)
	require.Len(t, s.State().CatalogItems, 1)
	require.NoError(t, s.DeleteCatalogItem(ctx, item.ID))
	assert.Empty(t, s.State().CatalogItems)

	require.NoError(t, s.RefreshAnalytics(ctx))
	assert.NotNil(t, s.State().Analytics)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.Empty(t, s.State().Products)
	assert.Empty(t, s.State().Cart)
	saved, err = storage.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)

	require.NoError(t, s.FetchData(ctx))
	assert.Empty(t, s.State().Products)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Authenticated())
	ok, err = s.CheckAuth(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UnauthorizedMutationKeepsState(t *testing.T) {
	srv := newTestServer(t)
	s := newTestStore(srv.URL)
	ctx := context.Background()
	s.authenticated = true
	s.products = []product.Product{{ID: 9, Name: "cached", IsActive: true}}

	_, err := s.UpdateProduct(ctx, 9, product.Patch{Name: ptr("x")})
	require.ErrorIs(t, err, ErrUnauthorized)

	state := s.State()
	assert.False(t, state.Authenticated)
	assert.Equal(t, StatusError, state.SyncStatus)
	require.Len(t, state.Products, 1)
	assert.Equal(t, "cached", state.Products[0].Name)

	assert.ErrorIs(t, s.RefreshAnalytics(ctx), ErrUnauthorized)
}

func TestStore_APIErrorsAreSurfaced(t *testing.T) {
	srv := newTestServer(t)
	s := newTestStore(srv.URL)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "admin", "s3cret"))

	_, err := s.UpdateProduct(ctx, 404, product.Patch{Name: ptr("x")})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, err = s.AddProduct(ctx, product.Input{Name: "x"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "price")
}

func TestStore_LoginWithWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	s := newTestStore(srv.URL)

	err := s.Login(context.Background(), "admin", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, s.Authenticated())
}

func TestFetchData_DropsConcurrentAndThrottledCalls(t *testing.T) {
	var hits atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(entered)
			<-release
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[],"catalogItems":[],"settings":null}`))
	}))
	t.Cleanup(srv.Close)

	s := New(srv.URL, WithLogger(logging.Discard()), WithMinSyncInterval(time.Minute))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.FetchData(ctx) }()
	<-entered

	assert.ErrorIs(t, s.FetchData(ctx), ErrSyncSkipped)
	assert.Equal(t, StatusSyncing, s.State().SyncStatus)
	close(release)
	require.NoError(t, <-done)

	assert.ErrorIs(t, s.FetchData(ctx), ErrSyncSkipped)
	assert.Equal(t, int32(1), hits.Load())

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.NoError(t, s.FetchData(ctx))
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchData_ToleratesMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":"oops","catalogItems":null}`))
	}))
	t.Cleanup(srv.Close)

	s := newTestStore(srv.URL)
	s.products = []product.Product{{ID: 1}}
	s.settings.WhatsappNumber = "11987654321"

	require.NoError(t, s.FetchData(context.Background()))
	state := s.State()
	assert.NotNil(t, state.Products)
	assert.Empty(t, state.Products)
	assert.NotNil(t, state.CatalogItems)
	assert.Equal(t, "11987654321", state.Settings.WhatsappNumber)
}

func TestFetchData_FailureKeepsStaleData(t *testing.T) {
	fail := atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"internal server error"}`))
			return
		}
		w.Write([]byte(`{"products":[{"id":1,"name":"Caneca","isActive":true}],"catalogItems":[]}`))
	}))
	t.Cleanup(srv.Close)

	s := newTestStore(srv.URL, WithStatusResetDelay(20*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, s.FetchData(ctx))
	assert.Equal(t, StatusSuccess, s.State().SyncStatus)

	fail.Store(true)
	err := s.FetchData(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	state := s.State()
	assert.Equal(t, StatusError, state.SyncStatus)
	assert.NotEmpty(t, state.SyncMessage)
	require.Len(t, state.Products, 1)

	require.Eventually(t, func() bool { return s.State().SyncStatus == StatusIdle }, time.Second, 5*time.Millisecond)

	// bootstrap swallows the failure
	s.Bootstrap(ctx)
	assert.Len(t, s.State().Products, 1)
}

func TestStartAutoSync(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"products":[],"catalogItems":[]}`))
	}))
	t.Cleanup(srv.Close)

	s := newTestStore(srv.URL, WithSchedules("@every 1s", "@every 1h"))
	stop, err := s.StartAutoSync(context.Background())
	require.NoError(t, err)
	defer stop()

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	stop()
	stop()
}

func TestStartAutoSync_BadSchedule(t *testing.T) {
	s := newTestStore("http://127.0.0.1:0", WithSchedules("every now and then", "@every 1h"))
	_, err := s.StartAutoSync(context.Background())
	assert.Error(t, err)
}

func TestCheckoutLink(t *testing.T) {
	s := newTestStore("http://127.0.0.1:0")
	_, err := s.CheckoutLink()
	assert.ErrorIs(t, err, ErrNoWhatsapp)

	s.settings.WhatsappNumber = "5511987654321"
	_, err = s.CheckoutLink()
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = s.AddToCart(product.Product{ID: 1, Name: "Caneca Mágica", Price: 19.9}, 1, "Ana & Bia", "")
	require.NoError(t, err)
	link, err := s.CheckoutLink()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511987654321?text="), link)
	assert.Contains(t, link, "Ana%20%26%20Bia")
}

func TestCartOperationsPersist(t *testing.T) {
	storage := NewMemoryStorage()
	s := newTestStore("http://127.0.0.1:0", WithStorage(storage))
	caneca := product.Product{ID: 1, Name: "Caneca", Price: 19.9}

	line, err := s.AddToCart(caneca, 1, "", "festa")
	require.NoError(t, err)
	_, err = s.AddToCart(caneca, 1, "", "festa")
	require.NoError(t, err)
	_, err = s.AddToCart(caneca, 1, "", "natal")
	require.NoError(t, err)

	saved, _ := storage.Load()
	require.Len(t, saved, 2)
	assert.Equal(t, 2, saved[0].Quantity)

	require.NoError(t, s.UpdateCartItem(line.CartItemID, 0))
	saved, _ = storage.Load()
	assert.Len(t, saved, 1)

	assert.Error(t, s.RemoveFromCart(line.CartItemID))
	require.NoError(t, s.ClearCart())
	saved, _ = storage.Load()
	assert.Empty(t, saved)
}

// gatedStorage holds its first Save until release is closed.
type gatedStorage struct {
	*MemoryStorage
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Save(items []cart.Item) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryStorage.Save(items)
}

func TestCartSavesFollowChangeOrder(t *testing.T) {
	storage := &gatedStorage{
		MemoryStorage: NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	s := newTestStore("http://127.0.0.1:0", WithStorage(storage))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.AddToCart(product.Product{ID: 1, Name: "Caneca", Price: 19.9}, 1, "", "")
		assert.NoError(t, err)
	}()
	<-storage.entered

	go func() {
		defer wg.Done()
		_, err := s.AddToCart(product.Product{ID: 2, Name: "Camiseta", Price: 39.9}, 1, "", "")
		assert.NoError(t, err)
	}()
	time.Sleep(50 * time.Millisecond)
	close(storage.release)
	wg.Wait()

	saved, err := storage.Load()
	require.NoError(t, err)
	assert.Len(t, s.State().Cart, 2)
	assert.Len(t, saved, 2)
}
