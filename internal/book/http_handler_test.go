package book

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/httpx"
	"libraryapi/internal/testutil"
)

func authed(r *http.Request, userID int64, role string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID, role, "token"))
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("defaults", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, q Query) ([]Book, int, error) {
				assert.Equal(t, 10, q.Limit)
				assert.Equal(t, 0, q.Offset)
				return []Book{{ID: 1, Title: "The Dispossessed"}}, 1, nil
			})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.RecordHTTPResponse(w)
		data, ok := body.Body["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), data["count"])
		assert.Nil(t, data["next"])
		assert.Nil(t, data["previous"])
	})

	t.Run("pagination links", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, q Query) ([]Book, int, error) {
				assert.Equal(t, 5, q.Limit)
				assert.Equal(t, 5, q.Offset)
				return []Book{{ID: 6}}, 12, nil
			})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?page=2&page_size=5", nil)

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.RecordHTTPResponse(w)
		data := body.Body["data"].(map[string]interface{})
		assert.Equal(t, float64(12), data["count"])
		assert.Contains(t, data["next"], "page=3")
		assert.Contains(t, data["previous"], "page=1")
	})

	t.Run("search passed through", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, q Query) ([]Book, int, error) {
				assert.Equal(t, "le guin", q.Search)
				assert.Equal(t, "asc", q.Sort)
				return nil, 0, nil
			})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?search=le+guin&sort=asc", nil)

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.RecordHTTPResponse(w)
		data := body.Body["data"].(map[string]interface{})
		// Empty result still serializes as an array.
		assert.NotNil(t, data["books"])
	})

	t.Run("page_size above cap", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?page_size=500", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("non-integer page", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?page=two", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("bad sort", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?sort=sideways", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(Book{ID: 1, Title: "Kindred"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/1", nil)
		r.SetPathValue("id", "1")

		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/99", nil)
		r.SetPathValue("id", "99")

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	validBody := map[string]interface{}{
		"title":     "The Dispossessed",
		"isbn":      "9780061054884",
		"author_id": 1,
		"status":    "Available",
	}

	t.Run("librarian creates book", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, b *Book) error {
				assert.Equal(t, "9780061054884", b.ISBN)
				b.ID = 5
				return nil
			})

		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", validBody), 2, "Librarian")

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		body := testutil.RecordHTTPResponse(w)
		assert.Equal(t, "Book created successfully", body.Body["message"])
	})

	t.Run("member is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", validBody), 7, "Member")

		handler.Create(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrISBNTaken)

		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", validBody), 2, "Librarian")

		handler.Create(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrAuthorNotFound)

		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", validBody), 2, "Librarian")

		handler.Create(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid isbn", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", map[string]interface{}{
			"title":     "X",
			"isbn":      "12345",
			"author_id": 1,
			"status":    "Available",
		}), 2, "Librarian")

		handler.Create(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPost, "/v1/books", map[string]interface{}{
			"title":     "X",
			"isbn":      "9780061054884",
			"author_id": 1,
			"status":    "Lost",
		}), 2, "Librarian")

		handler.Create(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("partial update", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(
			func(_ interface{}, id int64, upd Update) (Book, error) {
				require.NotNil(t, upd.Title)
				assert.Equal(t, "Renamed", *upd.Title)
				assert.Nil(t, upd.ISBN)
				return Book{ID: 5, Title: "Renamed"}, nil
			})

		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPut, "/v1/books/5", map[string]interface{}{"title": "Renamed"}), 1, "Admin")
		r.SetPathValue("id", "5")

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(99), gomock.Any()).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPut, "/v1/books/99", map[string]interface{}{"title": "X"}), 1, "Admin")
		r.SetPathValue("id", "99")

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := authed(testutil.NewRequest(http.MethodPut, "/v1/books/5", map[string]interface{}{"title": "X"}), 7, "Member")
		r.SetPathValue("id", "5")

		handler.Update(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("admin deletes", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodDelete, "/v1/books/5", nil), 1, "Admin")
		r.SetPathValue("id", "5")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("librarian is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := authed(httptest.NewRequest(http.MethodDelete, "/v1/books/5", nil), 2, "Librarian")
		r.SetPathValue("id", "5")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
