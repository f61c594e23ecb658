package adjustment_test

import (
	"context"
	"testing"

	"leaveflow/internal/adjustment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	assert.NoError(t, err)
	return db, mock
}

func TestAdjustmentRepository_WithTx(t *testing.T) {
	t.Run("success writes run on the supplied transaction", func(t *testing.T) {
		db, poolMock := newGormDB(t)
		repo := adjustment.NewRepository(db)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectQuery(`INSERT INTO "leave_adjustment_requests"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		a := &adjustment.LeaveAdjustmentRequest{
			ID:                 uuid.New(),
			LeaveRequestID:     uuid.New(),
			EmployeeID:         uuid.New(),
			IsCancellation:     true,
			OriginalDays:       5,
			Status:             adjustment.StatusSubmitted,
			CreatedBy:          uuid.New(),
			ReportingOfficerID: uuid.New(),
		}
		assert.NoError(t, repo.WithTx(tx).Create(context.Background(), a))
		assert.NoError(t, tx.Rollback())

		// The pool saw nothing, so the insert lives and dies with the tx.
		assert.NoError(t, poolMock.ExpectationsWereMet())
		assert.NoError(t, txMock.ExpectationsWereMet())
	})

	t.Run("success reads without a transaction use the pool", func(t *testing.T) {
		db, poolMock := newGormDB(t)
		repo := adjustment.NewRepository(db)

		requestID := uuid.New()
		poolMock.ExpectQuery(`SELECT count.* FROM "leave_adjustment_requests"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		open, err := repo.HasOpenForRequest(context.Background(), requestID.String())
		assert.NoError(t, err)
		assert.True(t, open)
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}
