package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kohi-api/config"
	v1 "kohi-api/internal/delivery/http/v1"
	"kohi-api/internal/domain"
	"kohi-api/internal/usecase"
	"kohi-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactUC struct {
	mock.Mock
}

func (m *MockContactUC) Submit(ctx context.Context, req *domain.ContactSubmission, meta domain.RequestMeta) (*domain.ContactResult, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactResult), args.Error(1)
}

func (m *MockContactUC) ListMessages(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactMessage, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ContactMessage), args.Get(1).(int64), args.Error(2)
}

type MockPostUC struct {
	mock.Mock
}

func (m *MockPostUC) posts(args mock.Arguments) ([]domain.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *MockPostUC) post(args mock.Arguments) (*domain.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostUC) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return m.posts(m.Called(ctx))
}

func (m *MockPostUC) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostUC) CreatePost(ctx context.Context, input *domain.PostInput) (*domain.Post, error) {
	return m.post(m.Called(ctx, input))
}

func (m *MockPostUC) UpdatePost(ctx context.Context, id int64, input *domain.PostInput) (*domain.Post, error) {
	return m.post(m.Called(ctx, id, input))
}

func (m *MockPostUC) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostUC) ListPublished(ctx context.Context) ([]domain.Post, error) {
	return m.posts(m.Called(ctx))
}

func (m *MockPostUC) ListFeatured(ctx context.Context, limit int) ([]domain.Post, error) {
	return m.posts(m.Called(ctx, limit))
}

func (m *MockPostUC) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return m.post(m.Called(ctx, slug))
}

type envelope struct {
	OK        bool              `json:"ok"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data"`
	Issues    map[string]string `json:"issues"`
	RequestID string            `json:"request_id"`
}

type testServer struct {
	router  *gin.Engine
	contact *MockContactUC
	posts   *MockPostUC
}

func newTestServer(adminUser, adminPass string) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{contact: new(MockContactUC), posts: new(MockPostUC)}
	s.router = v1.NewRouter(v1.RouterDeps{
		ContactUC: s.contact,
		PostUC:    s.posts,
		HealthUC:  usecase.NewHealthUsecase(nil, nil, nil),
		Config: &config.Config{
			AdminUser:      adminUser,
			AdminPass:      adminPass,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, auth ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestAdminGate(t *testing.T) {
	t.Run("Missing credentials are challenged", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		w, env := s.do(t, http.MethodGet, "/api/admin/posts", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="kohi-admin"`, w.Header().Get("WWW-Authenticate"))
		assert.False(t, env.OK)
		s.posts.AssertNotCalled(t, "ListPosts", mock.Anything)
	})

	t.Run("Wrong password is challenged", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		w, _ := s.do(t, http.MethodDelete, "/api/admin/posts/1", nil, "admin", "nope")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.posts.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	})

	t.Run("Unknown admin paths are gated", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		w, _ := s.do(t, http.MethodGet, "/admin/anything", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = s.do(t, http.MethodGet, "/admin/anything", nil, "admin", "secret")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unconfigured admin is disabled", func(t *testing.T) {
		s := newTestServer("", "")
		w, env := s.do(t, http.MethodGet, "/api/admin/posts", nil, "admin", "secret")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Admin disabled", env.Message)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))
		s.posts.AssertNotCalled(t, "ListPosts", mock.Anything)
	})

	t.Run("Public routes are not gated", func(t *testing.T) {
		s := newTestServer("", "")
		s.posts.On("ListPublished", mock.Anything).Return([]domain.Post{}, nil).Once()

		w, env := s.do(t, http.MethodGet, "/api/posts", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})
}

func TestAdminPosts(t *testing.T) {
	t.Run("Create returns 201", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		s.posts.On("CreatePost", mock.Anything, mock.MatchedBy(func(in *domain.PostInput) bool {
			return in.Slug == "hello-world" && in.Published
		})).Return(&domain.Post{ID: 1, Slug: "hello-world", Title: "Hello"}, nil).Once()

		w, env := s.do(t, http.MethodPost, "/api/admin/posts",
			map[string]interface{}{"title": "Hello", "slug": "hello-world", "published": true},
			"admin", "secret")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.OK)
		assert.Contains(t, string(env.Data), `"slug":"hello-world"`)
		s.posts.AssertExpectations(t)
	})

	t.Run("Duplicate slug is a conflict", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		s.posts.On("CreatePost", mock.Anything, mock.Anything).
			Return(nil, apperror.Conflict("Slug already exists")).Once()

		w, env := s.do(t, http.MethodPost, "/api/admin/posts",
			map[string]interface{}{"title": "Hello", "slug": "hello-world"}, "admin", "secret")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Slug already exists", env.Message)
	})

	t.Run("Bad id is rejected before the usecase", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		w, _ := s.do(t, http.MethodPatch, "/api/admin/posts/abc",
			map[string]interface{}{"title": "Hello", "slug": "hello-world"}, "admin", "secret")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.posts.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing post is 404", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		s.posts.On("DeletePost", mock.Anything, int64(999)).Return(apperror.NotFound("Post not found")).Once()

		w, _ := s.do(t, http.MethodDelete, "/api/admin/posts/999", nil, "admin", "secret")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Internal errors are not leaked", func(t *testing.T) {
		s := newTestServer("admin", "secret")
		s.posts.On("ListPosts", mock.Anything).
			Return(nil, apperror.Internal(assert.AnError)).Once()

		w, env := s.do(t, http.MethodGet, "/api/admin/posts", nil, "admin", "secret")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		assert.NotEmpty(t, env.RequestID)
	})
}

func TestAdminMessages(t *testing.T) {
	s := newTestServer("admin", "secret")
	s.contact.On("ListMessages", mock.Anything, domain.ContactListFilter{Status: "error", Limit: 10, Offset: 20}).
		Return([]domain.ContactMessage{{ID: 7, Name: "Ava", Status: domain.ContactStatusError}}, int64(21), nil).Once()

	w, env := s.do(t, http.MethodGet, "/api/admin/messages?status=error&limit=10&offset=20", nil, "admin", "secret")
	require.Equal(t, http.StatusOK, w.Code)

	page := decodePage(t, env)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 20, page.Offset)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Items[0].ID)

	w, _ = s.do(t, http.MethodGet, "/api/admin/messages?limit=ten", nil, "admin", "secret")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminMessagesReportsEffectivePaging(t *testing.T) {
	s := newTestServer("admin", "secret")
	s.contact.On("ListMessages", mock.Anything, domain.ContactListFilter{}).
		Return([]domain.ContactMessage{}, int64(0), nil).Once()
	s.contact.On("ListMessages", mock.Anything, domain.ContactListFilter{Limit: 5000, Offset: -1}).
		Return([]domain.ContactMessage{}, int64(0), nil).Once()

	_, env := s.do(t, http.MethodGet, "/api/admin/messages", nil, "admin", "secret")
	page := decodePage(t, env)
	assert.Equal(t, domain.DefaultMessageLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)

	_, env = s.do(t, http.MethodGet, "/api/admin/messages?limit=5000&offset=-1", nil, "admin", "secret")
	page = decodePage(t, env)
	assert.Equal(t, domain.MaxMessageLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	s.contact.AssertExpectations(t)
}

type messagePage struct {
	Items  []domain.ContactMessage `json:"items"`
	Total  int64                   `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

func decodePage(t *testing.T, env envelope) messagePage {
	t.Helper()
	var page messagePage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	return page
}

func TestSubmitContact(t *testing.T) {
	t.Run("Accepted submission", func(t *testing.T) {
		s := newTestServer("", "")
		s.contact.On("Submit", mock.Anything, mock.MatchedBy(func(req *domain.ContactSubmission) bool {
			return req.Name == "Ava" && req.Started == 1700000000000
		}), domain.RequestMeta{IP: "198.51.100.4", UserAgent: "kohi-test"}).
			Return(&domain.ContactResult{Status: domain.ContactStatusSent}, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{
			"name": "Ava", "email": "ava@x.com",
			"message": "Hello there, interested in working together.",
			"hp":      "", "started": 1700000000000,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "kohi-test")
		req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.OK)
		assert.Equal(t, "Thanks — I'll get back to you soon.", env.Message)
		s.contact.AssertExpectations(t)
	})

	t.Run("Validation issues are returned per field", func(t *testing.T) {
		s := newTestServer("", "")
		s.contact.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperror.Validation(map[string]string{"email": "must be a valid email address"})).Once()

		w, env := s.do(t, http.MethodPost, "/api/contact", map[string]string{"name": "Ava", "email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.OK)
		assert.Equal(t, "must be a valid email address", env.Issues["email"])
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		s := newTestServer("", "")
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		s.contact.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublicPosts(t *testing.T) {
	s := newTestServer("", "")
	s.posts.On("ListFeatured", mock.Anything, 2).Return([]domain.Post{{ID: 1, Slug: "a-post"}}, nil).Once()
	s.posts.On("GetPublishedBySlug", mock.Anything, "missing").Return(nil, apperror.NotFound("Post not found")).Once()

	w, env := s.do(t, http.MethodGet, "/api/posts/featured", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"slug":"a-post"`)

	w, _ = s.do(t, http.MethodGet, "/api/posts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer("", "")
	w, env := s.do(t, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"database":"disabled"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
