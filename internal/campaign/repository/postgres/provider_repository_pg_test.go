package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

func TestPgProviderRepository_Create(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orgID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPgProviderRepository(mockPool, logger)
		cfg := domain.NewProviderConfig(uuid.New(), orgID, domain.ProviderTwilio, "sid", "token", "", "REACHTIDE")

		mockPool.ExpectExec(`INSERT INTO provider_configs`).
			WithArgs(cfg.ID, cfg.OrgID, cfg.Type, cfg.APIKey, cfg.APISecret, cfg.Username, cfg.SenderID,
				cfg.IsActive, cfg.VerificationStatus, cfg.CreatedAt, cfg.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.Create(context.Background(), cfg)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("SecondActiveProvider_ReturnsConflict", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPgProviderRepository(mockPool, logger)
		cfg := domain.NewProviderConfig(uuid.New(), orgID, domain.ProviderTermii, "key", "", "", "REACHTIDE")

		mockPool.ExpectExec(`INSERT INTO provider_configs`).
			WithArgs(cfg.ID, cfg.OrgID, cfg.Type, cfg.APIKey, cfg.APISecret, cfg.Username, cfg.SenderID,
				cfg.IsActive, cfg.VerificationStatus, cfg.CreatedAt, cfg.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "provider_configs_org_active_uniq"})

		err = repo.Create(context.Background(), cfg)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgProviderRepository_GetActive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orgID := uuid.New()

	t.Run("NoActiveProvider_ReturnsNotFound", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPgProviderRepository(mockPool, logger)

		mockPool.ExpectQuery(`SELECT (.+) FROM provider_configs WHERE org_id = \$1 AND is_active = TRUE`).
			WithArgs(orgID).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.GetActive(context.Background(), orgID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgProviderRepository_HasActive(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orgID := uuid.New()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPgProviderRepository(mockPool, logger)

	mockPool.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM provider_configs WHERE org_id = \$1 AND is_active = TRUE\)`).
		WithArgs(orgID).
		WillReturnRows(mockPool.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasActive(context.Background(), orgID)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgProviderRepository_UpdateVerificationStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	providerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPgProviderRepository(mockPool, logger)

		mockPool.ExpectExec(`UPDATE provider_configs SET verification_status = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs(domain.VerificationVerified, pgxmock.AnyArg(), providerID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.UpdateVerificationStatus(context.Background(), providerID, domain.VerificationVerified)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := NewPgProviderRepository(mockPool, logger)

		mockPool.ExpectExec(`UPDATE provider_configs SET verification_status = \$1, updated_at = \$2 WHERE id = \$3`).
			WithArgs(domain.VerificationFailed, pgxmock.AnyArg(), providerID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.UpdateVerificationStatus(context.Background(), providerID, domain.VerificationFailed)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
