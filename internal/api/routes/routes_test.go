package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inbound-wms-api-server/config"
	"inbound-wms-api-server/internal/api/handlers"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/models"
	"inbound-wms-api-server/internal/repository"
	"inbound-wms-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	createdAt = time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC)
	patchedAt = time.Date(2026, 3, 31, 14, 30, 0, 0, time.UTC)
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error) {
	f.keys = append(f.keys, objectKey)
	return "https://cdn.example.com/" + objectKey, nil
}

type testServer struct {
	router *gin.Engine
	repo   repository.InboundRequestRepository
	users  *repository.MemoryUserRepository
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, repo repository.InboundRequestRepository, uploader handlers.AttachmentUploader) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, repo, uploader, nil)
}

func newTestServerWithConfig(t *testing.T, repo repository.InboundRequestRepository, uploader handlers.AttachmentUploader, configure func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	if configure != nil {
		configure(&cfg)
	}

	if repo == nil {
		repo = repository.NewMemoryRepository(func() time.Time { return createdAt })
	}
	tokens, err := auth.NewTokenManager("test-secret", "1h")
	require.NoError(t, err)
	users := repository.NewMemoryUserRepository()
	hub := socket.NewHub(zap.NewNop())

	deps := Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
		Service: &handlers.InboundService{
			Repo:     repo,
			Notifier: hub,
			Logger:   zap.NewNop(),
			Now:      func() time.Time { return patchedAt },
		},
		Users:  users,
		Tokens: tokens,
		Hub:    hub,
	}
	if uploader != nil {
		deps.Uploader = uploader
	}
	return &testServer{router: SetupRouter(deps), repo: repo, users: users, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func validPayload() map[string]any {
	return map[string]any{
		"poNumber":     "PO-X1",
		"supplierName": "Acme",
		"items": []map[string]any{
			{"skuCode": "S1", "productName": "Widget", "quantity": 5, "unit": "EA"},
		},
	}
}

func (s *testServer) create(t *testing.T) models.InboundRequest {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/inbound-requests", validPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.InboundRequest
	decode(t, rec, &created)
	return created
}

func (s *testServer) count(t *testing.T) int {
	t.Helper()
	n, err := s.repo.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestCreateInboundRequest(t *testing.T) {
	s := newTestServer(t, nil, nil)

	a := s.create(t)
	b := s.create(t)

	assert.Equal(t, models.StatusPendingApproval, a.ApprovalStatus)
	assert.Equal(t, "2026-03-30", a.RequestDate)
	assert.Equal(t, "2026-04-04", a.ExpectedDate)
	assert.True(t, strings.HasPrefix(a.ID, "PO-"))
	assert.NotEqual(t, a.ID, b.ID)
	require.Len(t, a.Items, 1)
	assert.Equal(t, "S1", a.Items[0].SKUCode)
	assert.NotEmpty(t, a.Items[0].ID)
}

func TestCreateInboundRequest_ValidationLeavesStoreUnchanged(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.create(t)

	mutate := func(f func(map[string]any)) map[string]any {
		p := validPayload()
		f(p)
		return p
	}
	cases := map[string]any{
		"empty items":      mutate(func(p map[string]any) { p["items"] = []any{} }),
		"missing items":    mutate(func(p map[string]any) { delete(p, "items") }),
		"missing poNumber": mutate(func(p map[string]any) { delete(p, "poNumber") }),
		"blank poNumber":   mutate(func(p map[string]any) { p["poNumber"] = "   " }),
		"missing supplier": mutate(func(p map[string]any) { delete(p, "supplierName") }),
		"zero quantity": mutate(func(p map[string]any) {
			p["items"] = []map[string]any{{"skuCode": "S1", "productName": "W", "quantity": 0}}
		}),
		"item without sku": mutate(func(p map[string]any) { p["items"] = []map[string]any{{"productName": "W", "quantity": 1}} }),
		"bad request date": mutate(func(p map[string]any) { p["requestDate"] = "30/03/2026" }),
		"malformed json":   `{"poNumber":`,
		"quantity as float": mutate(func(p map[string]any) {
			p["items"] = []map[string]any{{"skuCode": "S1", "productName": "W", "quantity": 1.5}}
		}),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/inbound-requests", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			env := decode(t, rec, nil)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			assert.Equal(t, 1, s.count(t))
		})
	}
}

func TestGetAllInboundRequests(t *testing.T) {
	s := newTestServer(t, nil, nil)
	first := s.create(t)
	second := s.create(t)
	rec := s.do(t, http.MethodPatch, "/api/inbound-status/"+second.ID, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	var all []models.InboundRequest
	rec = s.do(t, http.MethodGet, "/api/inbound-requests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &all)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	var approved []models.InboundRequest
	rec = s.do(t, http.MethodGet, "/api/inbound-requests?status=Approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &approved)
	require.Len(t, approved, 1)
	assert.Equal(t, second.ID, approved[0].ID)

	rec = s.do(t, http.MethodGet, "/api/inbound-requests?status=Shipped", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type statusBody struct {
	ID             string                 `json:"id"`
	Status         models.ApprovalStatus  `json:"status"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	Reason         string                 `json:"reason"`
	RequestDetails *models.InboundRequest `json:"requestDetails"`
}

func TestInboundStatus_RoundTrip(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.create(t)

	var got statusBody
	rec := s.do(t, http.MethodGet, "/api/inbound-status/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.StatusPendingApproval, got.Status)
	assert.True(t, createdAt.Equal(got.UpdatedAt))
	require.NotNil(t, got.RequestDetails)
	assert.Equal(t, "PO-X1", got.RequestDetails.PONumber)
	assert.Equal(t, "Acme", got.RequestDetails.SupplierName)
	assert.Equal(t, created.Items, got.RequestDetails.Items)

	rec = s.do(t, http.MethodGet, "/api/inbound-status/PO-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateInboundStatus(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.create(t)
	path := "/api/inbound-status/" + created.ID

	t.Run("unknown status token", func(t *testing.T) {
		for _, body := range []any{
			map[string]string{"status": "Shipped"},
			map[string]string{"status": "승인대기"},
			map[string]string{"reason": "no status"},
		} {
			rec := s.do(t, http.MethodPatch, path, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		}
		rec, err := s.repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, rec.ApprovalStatus)
		assert.Len(t, rec.History, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/inbound-status/PO-missing", map[string]string{"status": "Approved"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid status on unknown id is 400", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/inbound-status/PO-missing", map[string]string{"status": "Shipped"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden transition", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path, map[string]string{"status": "Received"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		stored, err := s.repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, stored.ApprovalStatus)
	})

	t.Run("allowed transition with reason", func(t *testing.T) {
		var got statusBody
		rec := s.do(t, http.MethodPatch, path, map[string]string{"status": "Approved", "reason": "checked by QA"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &got)

		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, "checked by QA", got.Reason)
		assert.True(t, patchedAt.Equal(got.UpdatedAt))
		assert.Nil(t, got.RequestDetails)

		var history []models.StatusEvent
		rec = s.do(t, http.MethodGet, path+"/history", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &history)
		require.Len(t, history, 2)
		assert.Equal(t, models.StatusPendingApproval, history[0].Status)
		assert.Equal(t, models.StatusApproved, history[1].Status)
		assert.Equal(t, "checked by QA", history[1].Reason)
	})

	t.Run("same status again conflicts", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path, map[string]string{"status": "Approved"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("received is terminal", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, path, map[string]string{"status": "Received"})
		require.Equal(t, http.StatusOK, rec.Code)
		rec = s.do(t, http.MethodPatch, path, map[string]string{"status": "Rejected"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestDeleteTwice(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.create(t)

	rec := s.do(t, http.MethodDelete, "/api/inbound-status/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/inbound-status/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, s.count(t))
}

func TestMethodNotAllowedAndNotFound(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPut, "/api/inbound-requests", validPayload())
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, decode(t, rec, nil).Success)

	rec = s.do(t, http.MethodPost, "/api/inbound-status/PO-1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/inbound", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

type failingRepo struct {
	repository.InboundRequestRepository
}

func (failingRepo) GetAll(ctx context.Context) ([]models.InboundRequest, error) {
	return nil, errors.New("store corrupted")
}

func TestUnexpectedErrorsAre500(t *testing.T) {
	s := newTestServer(t, failingRepo{}, nil)

	rec := s.do(t, http.MethodGet, "/api/inbound-requests", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "store corrupted", decode(t, rec, nil).Error)

	// GetByID không được cài đặt: interface nhúng nil gây panic và Recovery trả về 500.
	rec = s.do(t, http.MethodGet, "/api/inbound-status/PO-1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Error, "internal server error")
}

func TestLocaleRedirects(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/inbound", nil)
	req.AddCookie(&http.Cookie{Name: "NEXT_LOCALE", Value: "vi"})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/vi/inbound", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ko", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/ko", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/ko/inbound", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/favicon.ico", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/report%3Fadmin=1", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ko/report%3Fadmin=1", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/50%25off", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ko/50%25off", rec.Header().Get("Location"))
}

func postForm(s *testServer, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestUIFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodGet, "/en/inbound", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "No inbound requests.")

	rec = postForm(s, "/en/inbound", url.Values{
		"poNumber":     {"PO-UI-1"},
		"supplierName": {"Acme"},
		"skuCode":      {"S1", ""},
		"productName":  {"Widget", ""},
		"quantity":     {"3", ""},
		"unit":         {"", ""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/en/inbound", rec.Header().Get("Location"))
	require.Equal(t, 1, s.count(t))

	rec = postForm(s, "/en/inbound", url.Values{"poNumber": {"PO-UI-2"}, "supplierName": {"Acme"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error:")
	assert.Equal(t, 1, s.count(t))

	all, err := s.repo.GetAll(context.Background())
	require.NoError(t, err)
	id := all[0].ID

	rec = postForm(s, "/en/inbound/"+id+"/status", url.Values{"status": {"Rejected"}, "reason": {"damaged"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(s, "/en/inbound/"+id+"/status", url.Values{"status": {"Approved"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/ko/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "damaged")
	assert.Contains(t, rec.Body.String(), `lang="ko"`)

	rec = postForm(s, "/en/inbound/"+id+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = postForm(s, "/en/inbound/"+id+"/delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwitchLanguage(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodGet, "/ko/lang/en?next=/activity", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/activity", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "NEXT_LOCALE=en")

	rec = s.do(t, http.MethodGet, "/ko/lang/vi?next=//evil.example.com", nil)
	assert.Equal(t, "/vi/inbound", rec.Header().Get("Location"))
}

func TestLanguageLinksFollowConfiguredLocales(t *testing.T) {
	s := newTestServerWithConfig(t, nil, nil, func(cfg *config.Config) {
		cfg.Locale.Supported = []string{"ko", "en"}
	})

	rec := s.do(t, http.MethodGet, "/en/inbound", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/en/lang/ko?next=%2Finbound"`)
	assert.NotContains(t, rec.Body.String(), "/lang/vi")

	rec = s.do(t, http.MethodGet, "/vi/inbound", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ko/vi/inbound", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/en/lang/vi?next=/activity", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/activity", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "NEXT_LOCALE=en")
}

func TestStaticStylesheet(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodGet, "/en/inbound", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<link rel="stylesheet" href="/static/app.css">`)

	rec = s.do(t, http.MethodGet, "/static/app.css", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".sidebar")

	rec = s.do(t, http.MethodGet, "/static/missing.css", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginAndAttachments(t *testing.T) {
	uploader := &fakeUploader{}
	s := newTestServer(t, nil, uploader)
	created := s.create(t)

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), &models.User{
		Email: "worker@example.com", Name: "Worker", PasswordHash: hash, Role: auth.RoleWorker,
	}))

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "worker@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "Worker@example.com", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &login)
	require.NotEmpty(t, login.Token)
	assert.NotContains(t, rec.Body.String(), hash)

	rec = s.do(t, http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	upload := func(token string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "delivery note.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/inbound-status/"+created.ID+"/attachments", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, upload("").Code)

	rec = upload(login.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var attachment models.Attachment
	decode(t, rec, &attachment)
	assert.Equal(t, "delivery_note.pdf", attachment.FileName)
	require.Len(t, uploader.keys, 1)
	assert.True(t, strings.HasPrefix(uploader.keys[0], "inbound/"+created.ID+"/"))
	assert.True(t, strings.HasSuffix(uploader.keys[0], "-delivery_note.pdf"))

	stored, err := s.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Attachments, 1)
	assert.True(t, patchedAt.Equal(stored.UpdatedAt))
}

func TestAttachmentTooLarge(t *testing.T) {
	uploader := &fakeUploader{}
	s := newTestServer(t, nil, uploader)
	created := s.create(t)
	token, err := s.tokens.Generate("a@example.com", "A", auth.RoleAdmin)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "scan.tiff")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{'x'}, 11<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inbound-status/"+created.ID+"/attachments", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Empty(t, uploader.keys)

	stored, err := s.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Attachments)

	rec = s.do(t, http.MethodPost, "/api/inbound-status/"+created.ID+"/attachments", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachmentsWithoutStorage(t *testing.T) {
	s := newTestServer(t, nil, nil)
	created := s.create(t)
	token, err := s.tokens.Generate("a@example.com", "A", auth.RoleAdmin)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/inbound-status/"+created.ID+"/attachments", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
