package request_test

import (
	"context"
	"testing"

	"leaveflow/internal/request"

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

func TestRequestRepository_WithTx(t *testing.T) {
	t.Run("success writes run on the supplied transaction", func(t *testing.T) {
		db, poolMock := newGormDB(t)
		repo := request.NewRepository(db)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectQuery(`INSERT INTO "leave_takens"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		taken := &request.LeaveTaken{
			ID:             uuid.New(),
			LeaveRequestID: uuid.New(),
			EmployeeID:     uuid.New(),
			LeaveTypeID:    uuid.New(),
			Days:           3,
		}
		assert.NoError(t, repo.WithTx(tx).CreateTaken(context.Background(), taken))
		assert.NoError(t, tx.Rollback())

		// The pool saw nothing, so the insert lives and dies with the tx.
		assert.NoError(t, poolMock.ExpectationsWereMet())
		assert.NoError(t, txMock.ExpectationsWereMet())
	})

	t.Run("success tx updates roll back with the transaction", func(t *testing.T) {
		db, poolMock := newGormDB(t)
		repo := request.NewRepository(db)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectExec(`UPDATE "leave_requests"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		l := &request.LeaveRequest{
			ID:                 uuid.New(),
			EmployeeID:         uuid.New(),
			LeaveTypeID:        uuid.New(),
			Status:             request.StatusCancelled,
			CreatedBy:          uuid.New(),
			ReportingOfficerID: uuid.New(),
		}
		assert.NoError(t, repo.WithTx(tx).Update(context.Background(), l))
		assert.NoError(t, tx.Rollback())

		assert.NoError(t, poolMock.ExpectationsWereMet())
		assert.NoError(t, txMock.ExpectationsWereMet())
	})

	t.Run("success reads without a transaction use the pool", func(t *testing.T) {
		db, poolMock := newGormDB(t)
		repo := request.NewRepository(db)

		id := uuid.New()
		poolMock.ExpectQuery(`SELECT .* FROM "leave_requests"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id.String(), "SUBMITTED"))

		l, err := repo.FindByID(context.Background(), id.String())
		assert.NoError(t, err)
		assert.Equal(t, id, l.ID)
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}
