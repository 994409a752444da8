package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	_ "github.com/rpupo63/portfolio-backend/docs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeImageStore struct {
	keys []string
	err  error
}

func (s *fakeImageStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://images.example.com/" + key, nil
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	store  *fakeImageStore
	router http.Handler
}

func newTestEnv(t *testing.T, origins ...string) *testEnv {
	t.Helper()
	cfg := config.Load(map[string]string{
		"DB_TYPE":     "sqlite",
		"SQLITE_PATH": filepath.Join(t.TempDir(), "api.db"),
		"JWT_SECRET":  "api-test-secret",
	})
	cfg.AcceptedOrigins = origins

	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repos := database.New(db)
	identity, err := services.NewIdentityService(repos.UserRepo(), cfg.Auth)
	require.NoError(t, err)
	store := &fakeImageStore{}
	media := services.NewMediaService(store, cfg.Media)

	return &testEnv{
		t:      t,
		db:     db,
		store:  store,
		router: newRouter(repos, identity, media, withConfig(cfg), withStartupTime(time.Now())),
	}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signUp registers a user and returns a token for it
func (e *testEnv) signUp(username string) string {
	e.t.Helper()
	email := username + "@example.com"
	rec := e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "email": email, "password": "pw123",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "pw123"})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[TokenResponse](e.t, rec).AccessToken
}

func (e *testEnv) create(path, token string, body any) uint {
	e.t.Helper()
	rec := e.do(http.MethodPost, path, token, body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[CreatedResponse](e.t, rec)
	require.Equal(e.t, "created", created.Status)
	require.NotZero(e.t, created.ID)
	return created.ID
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestEndToEndProjectLifecycle(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "a@x.com", "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[TokenResponse](t, rec).AccessToken
	require.NotEmpty(t, token)

	rec = e.do(http.MethodGet, "/api/check-token", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	aliceID := decodeBody[CheckTokenResponse](t, rec).UserID

	id := e.create("/api/projects", token, map[string]any{
		"title":        "Portfolio",
		"description":  "Personal site",
		"technologies": []string{"Go"},
		"user_id":      999,
	})

	rec = e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	project := decodeBody[models.Project](t, rec)
	assert.Equal(t, aliceID, fmt.Sprint(project.UserID))
	assert.Equal(t, "Portfolio", project.Title)
	assert.Equal(t, "General", project.Category)

	// rows written by older clients store the list comma joined
	require.NoError(t, e.db.Exec("UPDATE projects SET technologies = ? WHERE id = ?", "Go, React", id).Error)

	rec = e.do(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, []any{"Go", "React"}, listed[0]["technologies"])
	assert.Equal(t, []any{}, listed[0]["features"])

	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decodeBody[StatusResponse](t, rec).Status)

	rec = e.do(http.MethodGet, "/api/projects", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = e.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndValidateEveryResource(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	cases := []struct {
		path    string
		valid   map[string]any
		missing string
	}{
		{"/api/programming-skills", map[string]any{"name": "Go", "level": "Expert", "category": "Backend"}, "level"},
		{"/api/work-experiences", map[string]any{"title": "Engineer", "company": "Acme", "location": "Remote", "date": "2020 - now", "description": "Built things", "achievements": []string{"Shipped"}}, "company"},
		{"/api/education", map[string]any{"degree": "BSc", "institution": "MIT", "period": "2014-2018", "location": "Boston", "gpa": "3.9"}, "institution"},
		{"/api/certifications", map[string]any{"name": "CKA", "issuer": "CNCF", "date": "2023", "expiry": nil, "skills": []string{"k8s"}}, "issuer"},
		{"/api/projects", map[string]any{"title": "Site", "description": "Portfolio", "features": []map[string]string{{"name": "Blog", "description": "Markdown"}}, "tech_stack": []map[string]any{{"category": "Backend", "items": []string{"Go"}}}}, "description"},
		{"/api/blogposts", map[string]any{"title": "Hello", "content": "Body", "date": "2024-01-01", "tags": "go,web", "views": 5}, "content"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			invalid := map[string]any{}
			for k, v := range tc.valid {
				if k != tc.missing {
					invalid[k] = v
				}
			}
			rec := e.do(http.MethodPost, tc.path, token, invalid)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			errBody := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tc.missing, errBody.Field)
			assert.NotEmpty(t, errBody.Message)

			rec = e.do(http.MethodGet, tc.path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())

			e.create(tc.path, token, tc.valid)

			rec = e.do(http.MethodGet, tc.path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			var rows []map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
			require.Len(t, rows, 1)
			for k, v := range tc.valid {
				if k == "tags" || v == nil {
					continue
				}
				want, _ := json.Marshal(v)
				got, _ := json.Marshal(rows[0][k])
				assert.JSONEq(t, string(want), string(got), k)
			}
		})
	}
}

func TestBlogPostDefaultsAndTags(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")
	e.create("/api/blogposts", token, map[string]any{"title": "Hello", "content": "Body", "date": "2024", "tags": "go, web", "likes": 3})

	rec := e.do(http.MethodGet, "/api/blogposts", "", nil)
	posts := decodeBody[[]models.BlogPost](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, models.StringList{"go", "web"}, posts[0].Tags)
	assert.Equal(t, "Uncategorized", posts[0].Category)
	assert.Equal(t, "5 min read", posts[0].ReadTime)
	assert.Equal(t, "Unknown Author", posts[0].AuthorName)
	assert.Equal(t, 3, posts[0].Likes)
}

func TestWritesRequireValidToken(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]any{"name": "Go", "level": "Expert", "category": "Backend"}

	for _, token := range []string{"", "garbage"} {
		rec := e.do(http.MethodPost, "/api/programming-skills", token, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodGet, "/api/programming-skills", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOwnershipIsEnforcedOnEveryWrite(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signUp("alice")
	bob := e.signUp("bob")

	paths := map[string]map[string]any{
		"/api/programming-skills": {"name": "Go", "level": "Expert", "category": "Backend"},
		"/api/education":          {"degree": "BSc", "institution": "MIT", "period": "2014", "location": "Boston"},
		"/api/blogposts":          {"title": "Hello", "content": "Body", "date": "2024"},
		"/api/certifications":     {"name": "CKA", "issuer": "CNCF", "date": "2023"},
		"/api/work-experiences":   {"title": "Engineer", "company": "Acme", "location": "Remote", "date": "2020", "description": "Built things"},
		"/api/projects":           {"title": "Site", "description": "Portfolio"},
	}
	for path, body := range paths {
		id := e.create(path, alice, body)
		target := fmt.Sprintf("%s/%d", path, id)

		rec := e.do(http.MethodPut, target, bob, map[string]any{"title": "pwned", "name": "pwned", "degree": "pwned"})
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = e.do(http.MethodDelete, target, bob, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = e.do(http.MethodGet, path, "", nil)
		assert.NotContains(t, rec.Body.String(), "pwned")
		var rows []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		assert.Len(t, rows, 1, path)
	}
}

func TestPartialUpdateIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")
	id := e.create("/api/work-experiences", token, map[string]any{
		"title": "Engineer", "company": "Acme", "location": "Remote", "date": "2020",
		"description": "Built things", "achievements": []string{"One"},
	})
	target := fmt.Sprintf("/api/work-experiences/%d", id)

	read := func() models.WorkExperience {
		rec := e.do(http.MethodGet, "/api/work-experiences", "", nil)
		rows := decodeBody[[]models.WorkExperience](t, rec)
		require.Len(t, rows, 1)
		return rows[0]
	}

	patch := map[string]any{"title": "Staff Engineer", "achievements": []string{"One", "Two"}, "user_id": 42, "id": 77}
	rec := e.do(http.MethodPut, target, token, patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := read()

	assert.Equal(t, "Staff Engineer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Brain", first.Icon)
	assert.Equal(t, []string{"One", "Two"}, []string(first.Achievements))
	assert.Equal(t, id, first.ID)
	assert.NotEqual(t, uint(42), first.UserID)

	rec = e.do(http.MethodPut, target, token, patch)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, read())

	rec = e.do(http.MethodPut, target, token, map[string]any{"company": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, first, read())
}

func TestUpdateAndDeleteMissingRows(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	rec := e.do(http.MethodPut, "/api/education/999", token, map[string]any{"degree": "PhD"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", decodeBody[ErrorResponse](t, rec).Status)

	rec = e.do(http.MethodDelete, "/api/certifications/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodDelete, "/api/certifications/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decodeBody[ErrorResponse](t, rec).Field)

	rec = e.do(http.MethodGet, "/api/projects/0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedBodies(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	rec := e.do(http.MethodPost, "/api/projects", token, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/api/projects", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/api/blogposts", token, `{"title":"t","content":"c","date":"d","views":"many"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFieldsRejectNonStringValues(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	for _, technologies := range []string{`["Go",5]`, `{"a":1,"b":2}`, `42`} {
		rec := e.do(http.MethodPost, "/api/projects", token, `{"title":"Site","description":"Portfolio","technologies":`+technologies+`}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, technologies)
		assert.Equal(t, "json", decodeBody[ErrorResponse](t, rec).Field)
	}

	rec := e.do(http.MethodPost, "/api/blogposts", token, `{"title":"t","content":"c","date":"d","tags":{"a":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/api/projects", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
	rec = e.do(http.MethodGet, "/api/blogposts", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestEducationAcceptsNumericGPA(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")
	e.create("/api/education", token, `{"degree":"BSc","institution":"MIT","period":"2014-2018","location":"Boston","gpa":3.8}`)

	rec := e.do(http.MethodGet, "/api/education", "", nil)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "3.8", rows[0]["gpa"])
}

func TestRegisterAndLoginErrors(t *testing.T) {
	e := newTestEnv(t)
	e.signUp("alice")

	rec := e.do(http.MethodPost, "/api/register", "", map[string]string{"username": "alice2", "email": "ALICE@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodPost, "/api/register", "", map[string]string{"username": "carol", "email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decodeBody[ErrorResponse](t, rec).Field)

	rec = e.do(http.MethodPost, "/api/register", "", map[string]string{"username": "carol", "email": "c@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	wrong := e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	unknown := e.do(http.MethodPost, "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "pw123"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.NotContains(t, wrong.Body.String(), "access_token")
}

func TestCheckTokenAndProtected(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	rec := e.do(http.MethodGet, "/api/check-token", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check := decodeBody[CheckTokenResponse](t, rec)
	assert.True(t, check.Valid)
	assert.NotEmpty(t, check.UserID)
	assert.InDelta(t, time.Now().Add(config.DefaultTokenTTL).Unix(), check.Exp, 5)

	rec = e.do(http.MethodGet, "/api/protected", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	protected := decodeBody[ProtectedResponse](t, rec)
	assert.Equal(t, "Access granted!", protected.Message)
	assert.Equal(t, check.UserID, protected.UserID)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadBase64(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	rec := e.do(http.MethodPost, "/api/upload-base64", token, map[string]string{"image": payload})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decodeBody[UploadResponse](t, rec).URL
	require.Len(t, e.store.keys, 1)
	assert.Equal(t, "https://images.example.com/"+e.store.keys[0], url)
	assert.True(t, strings.HasPrefix(e.store.keys[0], config.DefaultMediaFolder+"/"))

	rec = e.do(http.MethodPost, "/api/upload-base64", token, map[string]string{"image": "data:image/png;base64,***"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "url")

	rec = e.do(http.MethodPost, "/api/upload-base64", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, e.store.keys, 1)

	rec = e.do(http.MethodPost, "/api/upload-base64", "", map[string]string{"image": payload})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadImageMultipart(t *testing.T) {
	e := newTestEnv(t)
	token := e.signUp("alice")

	upload := func(field string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(field, "cover.png")
		require.NoError(t, err)
		_, err = part.Write(pngBytes)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("file")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, e.store.keys, 1)
	assert.True(t, strings.HasSuffix(e.store.keys[0], ".png"))

	rec = upload("attachment")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e.store.err = errors.New("quota exceeded")
	rec = upload("file")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t, "https://portfolio.example.com")

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = preflight("https://portfolio.example.com")
	assert.Equal(t, "https://portfolio.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicsBecomeInternalServerErrors(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", decodeBody[ErrorResponse](t, rec).Status)
}

func TestSwaggerDocs(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodGet, "/docs/index.html", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "swagger")

	rec = e.do(http.MethodGet, "/docs/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	for _, path := range []string{"/api/register", "/api/login", "/api/projects/{id}", "/api/{resource}", "/api/{resource}/{id}", "/api/upload-image"} {
		assert.Contains(t, doc.Paths, path)
	}
}
