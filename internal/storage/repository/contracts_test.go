package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
)

func TestStorage_CancelExpiredContracts(t *testing.T) {
	t.Run("просроченные договоры отменяются", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectQuery(`UPDATE contracts\s+SET is_cancelled = TRUE\s+WHERE NOT is_signed AND NOT is_cancelled AND end_date < \$1\s+RETURNING id`).
			WithArgs(settleNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(7))

		ids, err := storage.CancelExpiredContracts(context.Background(), settleNow)
		assert.NoError(t, err)
		assert.Equal(t, []int{3, 7}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("повторный запуск без просрочек возвращает пустой список", func(t *testing.T) {
		storage, mock := newMockStorage(t)

		mock.ExpectQuery(`UPDATE contracts`).
			WithArgs(settleNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		ids, err := storage.CancelExpiredContracts(context.Background(), settleNow)
		assert.NoError(t, err)
		assert.Empty(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_GetCancelledContractEvent(t *testing.T) {
	storage, mock := newMockStorage(t)

	rows := sqlmock.NewRows([]string{"id", "client_name", "email", "software_name"}).
		AddRow(3, "Jan Kowalski", "jan@example.com", "AccountingPro")
	mock.ExpectQuery(`SELECT c.id`).WithArgs(3).WillReturnRows(rows)

	event, err := storage.GetCancelledContractEvent(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, event.ContractID)
	assert.Equal(t, "Jan Kowalski", event.ClientName)
	assert.Equal(t, "jan@example.com", event.ClientEmail)
	assert.Equal(t, "AccountingPro", event.SoftwareName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetCancelledContractEvent_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT c.id`).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_name", "email", "software_name"}))

	_, err := storage.GetCancelledContractEvent(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
