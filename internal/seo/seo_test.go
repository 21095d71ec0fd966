package seo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit_PerfectPage(t *testing.T) {
	score, issues := Audit(AuditInput{
		Path:        "/produtos/caneca-magica",
		Title:       "Caneca Mágica personalizada com seu nome",
		Description: strings.Repeat("Caneca que muda de cor com água quente, personalizada. ", 2),
		Keywords:    []string{"caneca", "presente"},
	})
	assert.Equal(t, 100, score)
	assert.Empty(t, issues)
}

func TestAudit_Penalties(t *testing.T) {
	score, issues := Audit(AuditInput{Path: "/Produtos/Caneca Mágica", Keywords: []string{" ", ""}})
	assert.Equal(t, 100-30-30-10-10, score)
	assert.Len(t, issues, 4)
	assert.Contains(t, issues, "missing title")
	assert.Contains(t, issues, "no keywords")
}

func TestAudit_LengthWarnings(t *testing.T) {
	score, issues := Audit(AuditInput{Path: "/", Title: "Curto", Description: "Curta", Keywords: []string{"x"}})
	assert.Equal(t, 80, score)
	assert.Len(t, issues, 2)
}

func TestService_LatestAndHistory(t *testing.T) {
	svc := NewService(NewInMemoryRepository(0))
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	_, err := svc.Audit(ctx, AuditInput{Path: "/", Title: "a"})
	require.NoError(t, err)
	_, err = svc.Audit(ctx, AuditInput{Path: "/sobre", Title: "b"})
	require.NoError(t, err)
	last, err := svc.Audit(ctx, AuditInput{Path: "/", Title: "c", Keywords: []string{"Caneca", "caneca"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Caneca"}, last.Keywords)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "/", latest[0].Path)
	assert.Equal(t, "c", latest[0].Title)

	history, err := svc.History(ctx, "/", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Title)

	_, err = svc.Audit(ctx, AuditInput{Path: "sem-barra"})
	assert.Error(t, err)
}

func TestInMemoryRepository_DropsOldestPastLimit(t *testing.T) {
	repo := NewInMemoryRepository(2)
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, Snapshot{Path: "/", Title: title, CheckedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	history, err := repo.History(ctx, "/", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Title)
	assert.Equal(t, "b", history[1].Title)
}
