package borrow

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/authz"
	"libraryapi/internal/book"
)

func newTestService(t *testing.T) (*Service, *MockBookStore, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockBooks := NewMockBookStore(ctrl)
	mockRecords := NewMockRepository(ctrl)
	service := NewService(mockBooks, mockRecords)
	service.now = func() time.Time {
		return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return service, mockBooks, mockRecords
}

func TestService_Borrow(t *testing.T) {
	ctx := context.Background()

	t.Run("available book", func(t *testing.T) {
		service, mockBooks, mockRecords := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusAvailable}, nil)
		mockBooks.EXPECT().SetStatusIf(ctx, int64(5), book.StatusAvailable, book.StatusBorrowed).Return(true, nil)
		mockRecords.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, rec *Record) error {
				rec.ID = 100
				return nil
			})

		rec, err := service.Borrow(ctx, 7, authz.RoleMember, 5, 14)

		require.NoError(t, err)
		assert.Equal(t, int64(100), rec.ID)
		assert.Equal(t, int64(7), rec.UserID)
		assert.Equal(t, int64(5), rec.BookID)
		assert.Equal(t, rec.BorrowedAt.AddDate(0, 0, 14), rec.DueAt)
		assert.Nil(t, rec.ReturnedAt)
		require.NotNil(t, rec.Book)
		assert.Equal(t, book.StatusBorrowed, rec.Book.Status)
	})

	t.Run("already borrowed", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusBorrowed}, nil)
		mockBooks.EXPECT().SetStatusIf(ctx, int64(5), book.StatusAvailable, book.StatusBorrowed).Return(false, nil)

		_, err := service.Borrow(ctx, 7, authz.RoleMember, 5, 14)

		// No record is created when the flip loses.
		assert.ErrorIs(t, err, ErrNotAvailable)
	})

	t.Run("librarian may not borrow", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusAvailable}, nil)

		_, err := service.Borrow(ctx, 2, authz.RoleLibrarian, 5, 14)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown book", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(99)).Return(book.Book{}, book.ErrNotFound)

		_, err := service.Borrow(ctx, 7, authz.RoleMember, 99, 14)

		// Existence check runs before the role check.
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("due window bounds", func(t *testing.T) {
		service, mockBooks, mockRecords := newTestService(t)

		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusAvailable}, nil).Times(4)
		mockBooks.EXPECT().SetStatusIf(ctx, int64(5), book.StatusAvailable, book.StatusBorrowed).Return(true, nil).Times(2)
		mockRecords.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)

		_, err := service.Borrow(ctx, 7, authz.RoleMember, 5, MinDueDays)
		assert.NoError(t, err)

		_, err = service.Borrow(ctx, 7, authz.RoleMember, 5, MaxDueDays)
		assert.NoError(t, err)

		_, err = service.Borrow(ctx, 7, authz.RoleMember, 5, -1)
		assert.ErrorIs(t, err, ErrInvalidDueDays)

		_, err = service.Borrow(ctx, 7, authz.RoleMember, 5, MaxDueDays+1)
		assert.ErrorIs(t, err, ErrInvalidDueDays)
	})
}

func TestService_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("borrowed book", func(t *testing.T) {
		service, mockBooks, mockRecords := newTestService(t)
		returnedAt := service.now()
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusBorrowed}, nil)
		mockRecords.EXPECT().CloseOpen(ctx, int64(5), int64(7), returnedAt).Return(Record{
			ID: 100, UserID: 7, BookID: 5, ReturnedAt: &returnedAt,
		}, nil)
		mockBooks.EXPECT().SetStatusIf(ctx, int64(5), book.StatusBorrowed, book.StatusAvailable).Return(true, nil)

		rec, err := service.Return(ctx, 7, authz.RoleMember, 5)

		require.NoError(t, err)
		require.NotNil(t, rec.ReturnedAt)
		require.NotNil(t, rec.Book)
		assert.Equal(t, book.StatusAvailable, rec.Book.Status)
	})

	t.Run("not currently borrowed", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusAvailable}, nil)

		_, err := service.Return(ctx, 7, authz.RoleMember, 5)

		assert.ErrorIs(t, err, ErrNotBorrowed)
	})

	t.Run("caller is not the borrower", func(t *testing.T) {
		service, mockBooks, mockRecords := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusBorrowed}, nil)
		mockRecords.EXPECT().CloseOpen(ctx, int64(5), int64(8), gomock.Any()).Return(Record{}, ErrNotFound)

		_, err := service.Return(ctx, 8, authz.RoleMember, 5)

		// The book stays Borrowed; no status flip is attempted.
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("librarian may not return", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(5)).Return(book.Book{ID: 5, Status: book.StatusBorrowed}, nil)

		_, err := service.Return(ctx, 2, authz.RoleLibrarian, 5)

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown book", func(t *testing.T) {
		service, mockBooks, _ := newTestService(t)
		mockBooks.EXPECT().GetByID(ctx, int64(99)).Return(book.Book{}, book.ErrNotFound)

		_, err := service.Return(ctx, 7, authz.RoleMember, 99)

		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}
