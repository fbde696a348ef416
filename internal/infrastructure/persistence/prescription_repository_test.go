package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPrescriptionRepository creates a GormPrescriptionRepository with a mocked SQL connection
func newMockPrescriptionRepository(t *testing.T) (*GormPrescriptionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPrescriptionRepository(gormDB), mock, mockDB
}

func TestGormPrescriptionRepository_ClaimDetail(t *testing.T) {
	t.Run("claims an uncollected detail", func(t *testing.T) {
		repo, mock, mockDB := newMockPrescriptionRepository(t)
		defer mockDB.Close()

		detailID := uuid.New()

		mock.ExpectExec(`UPDATE "prescription_details" SET .* WHERE id = \$\d+ AND collected = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.ClaimDetail(context.Background(), detailID)

		assert.NoError(t, err)
		assert.True(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses the claim when the detail is already collected", func(t *testing.T) {
		repo, mock, mockDB := newMockPrescriptionRepository(t)
		defer mockDB.Close()

		detailID := uuid.New()

		mock.ExpectExec(`UPDATE "prescription_details" SET .* WHERE id = \$\d+ AND collected = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.ClaimDetail(context.Background(), detailID)

		assert.NoError(t, err)
		assert.False(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
