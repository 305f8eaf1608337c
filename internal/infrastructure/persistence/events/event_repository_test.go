package events

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainEvents "github.com/sitepulse/sitepulse-go/internal/domain/events"
	infradb "github.com/sitepulse/sitepulse-go/internal/infrastructure/database"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/persistence/database"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/security"
)

func newTestRepo(t *testing.T) *SQLEventRepository {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := database.NewConnection("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, infradb.NewTableCreator().CreateSchema(db.DB))

	return NewSQLEventRepository(db, logger)
}

func strPtr(s string) *string { return &s }

func TestAppendAndCountsByType(t *testing.T) {
	repo := newTestRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(&domainEvents.Event{
			ID:        security.GenerateULID(),
			EventType: "click",
			Domain:    strPtr("example.com"),
			CreatedAt: time.Now().UTC(),
		}))
	}
	require.NoError(t, repo.Append(&domainEvents.Event{
		ID:        security.GenerateULID(),
		EventType: "cta_book_call",
		CreatedAt: time.Now().UTC(),
	}))

	counts, err := repo.CountsByType()
	require.NoError(t, err)
	assert.Equal(t, 3, counts["click"])
	assert.Equal(t, 1, counts["cta_book_call"])
}

func TestAppendStoresMetaAsJSON(t *testing.T) {
	repo := newTestRepo(t)

	e := &domainEvents.Event{
		ID:          security.GenerateULID(),
		EventType:   "click",
		Fingerprint: strPtr("abc123"),
		Tier:        strPtr("business"),
		Meta: map[string]string{
			"userAgent": "SitePulseBot/1.0",
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Append(e))

	var meta string
	require.NoError(t, repo.db.QueryRow(`SELECT meta FROM events WHERE id = ?`, e.ID).Scan(&meta))
	assert.JSONEq(t, `{"userAgent":"SitePulseBot/1.0"}`, meta)
}

func TestAppendEmptyMetaStoredAsNull(t *testing.T) {
	repo := newTestRepo(t)

	e := &domainEvents.Event{
		ID:        security.GenerateULID(),
		EventType: "click",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Append(e))

	var meta any
	require.NoError(t, repo.db.QueryRow(`SELECT meta FROM events WHERE id = ?`, e.ID).Scan(&meta))
	assert.Nil(t, meta)
}

func TestCountsByTypeEmptyTable(t *testing.T) {
	repo := newTestRepo(t)

	counts, err := repo.CountsByType()
	require.NoError(t, err)
	assert.Empty(t, counts)
}
