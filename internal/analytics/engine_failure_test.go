package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/store"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// A dashboard render is all-or-nothing: the first failed query fails the
// whole response instead of leaving sections empty.
func TestEngineDashboard_StoreFailureFailsWholeResponse(t *testing.T) {
	gormDB, mock := newMockDB(t)
	queryErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "equipment"`).WillReturnError(queryErr)

	engine := NewEngine(store.NewGormStore(gormDB))
	dash, err := engine.Dashboard(context.Background(), time.Now())

	assert.Nil(t, dash)
	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngineChartData_StoreFailureFailsWholeResponse(t *testing.T) {
	gormDB, mock := newMockDB(t)
	queryErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT .* FROM "maintenance_log"`).WillReturnError(queryErr)

	engine := NewEngine(store.NewGormStore(gormDB))
	charts, err := engine.ChartData(context.Background(), time.Now())

	assert.Nil(t, charts)
	require.Error(t, err)
	assert.ErrorIs(t, err, queryErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
