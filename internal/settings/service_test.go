package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestService_GetCreatesDefaults(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo)

	s, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default().SEO.Title, s.SEO.Title)

	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s, stored)
}

func TestService_UpdateIsShallow(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	_, err := svc.Update(ctx, Patch{SocialMedia: &SocialMedia{Instagram: "@presentes", Facebook: "fb.com/presentes"}})
	require.NoError(t, err)

	s, err := svc.Update(ctx, Patch{WhatsappNumber: ptr("(11) 98765-4321")})
	require.NoError(t, err)
	assert.Equal(t, "(11) 98765-4321", s.WhatsappNumber)
	assert.Equal(t, "@presentes", s.SocialMedia.Instagram)
	assert.Equal(t, "fb.com/presentes", s.SocialMedia.Facebook)
	assert.Equal(t, Default().SEO, s.SEO)
}

func TestService_UpdateBumpsUpdatedAt(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	s, err := svc.Update(context.Background(), Patch{Email: ptr("loja@example.com")})
	require.NoError(t, err)
	assert.Equal(t, at, s.UpdatedAt)
}

func TestService_UpdateValidates(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Update(context.Background(), Patch{WhatsappNumber: ptr("123"), Email: ptr("not-an-email")})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "whatsappNumber")
	assert.Contains(t, verrs, "email")
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "11987654321", Digits("(11) 98765-4321"))
	assert.Equal(t, "", Digits("abc"))
}
