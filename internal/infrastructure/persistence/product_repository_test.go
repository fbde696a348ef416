package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestNewGormProductRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "category", "unit", "quantity", "import_price", "sale_price"}).
			AddRow(productID, "MED-001", "Paracetamol 500mg", "OTC_DRUG", "BOX", int64(42), decimal.NewFromInt(10), decimal.NewFromInt(15))

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "MED-001", product.Code)
		assert.Equal(t, int64(42), product.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByCode(t *testing.T) {
	t.Run("finds product by code", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "category", "unit", "quantity"}).
			AddRow(productID, "MED-007", "Vitamin C", "SUPPLEMENT", "BOTTLE", int64(5))

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("MED-007", 1).
			WillReturnRows(rows)

		product, err := repo.FindByCode(context.Background(), "MED-007")

		assert.NoError(t, err)
		assert.Equal(t, "MED-007", product.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Reserve(t *testing.T) {
	t.Run("decrements stock when enough is available", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Reserve(context.Background(), productID, 4)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports available quantity on shortfall", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		// Conditional update matches no row, then the re-read reveals
		// the actual stock level.
		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows := sqlmock.NewRows([]string{"id", "code", "name", "category", "unit", "quantity"}).
			AddRow(productID, "MED-001", "Paracetamol 500mg", "OTC_DRUG", "BOX", int64(3))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		err := repo.Reserve(context.Background(), productID, 5)

		var insufficientErr *catalog.InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, productID, insufficientErr.ProductID)
		assert.Equal(t, int64(5), insufficientErr.Requested)
		assert.Equal(t, int64(3), insufficientErr.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product surfaces as not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND quantity >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		err := repo.Reserve(context.Background(), productID, 5)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity without touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.Reserve(context.Background(), uuid.New(), 0)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Restock(t *testing.T) {
	t.Run("increments stock with a relative update", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET .*quantity.* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Restock(context.Background(), productID, 25)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product surfaces as not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET .*quantity.* WHERE id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Restock(context.Background(), uuid.New(), 10)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity without touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.Restock(context.Background(), uuid.New(), -3)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_GetStock(t *testing.T) {
	t.Run("returns quantity", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT "quantity" FROM "products" WHERE id = \$1 LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(int64(17)))

		quantity, err := repo.GetStock(context.Background(), productID)

		assert.NoError(t, err)
		assert.Equal(t, int64(17), quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for a missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT "quantity" FROM "products" WHERE id = \$1 LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))

		quantity, err := repo.GetStock(context.Background(), productID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.Zero(t, quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), productID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
