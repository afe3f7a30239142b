package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picks-site-backend-go/internal/config"
	"picks-site-backend-go/internal/mocks"
	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/services"
)

const adminPassword = "correct horse battery staple"

type stubNotifier struct {
	mu    sync.Mutex
	err   error
	calls []models.ContactSubmission
}

func (n *stubNotifier) Notify(ctx context.Context, submission models.ContactSubmission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, submission)
	return n.err
}

type testEnv struct {
	srv      *Server
	fakes    *mocks.Fakes
	notifier *stubNotifier
	handler  http.Handler
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	hash, err := services.HashPassword(adminPassword)
	require.NoError(t, err)
	cfg := config.Config{
		AppEnv:               "test",
		AdminPasswordHash:    hash,
		AdminSessionSecret:   "session-secret",
		SessionTTL:           24 * time.Hour,
		WebhookTimeout:       time.Second,
		LoginRatePerMinute:   100,
		ContactRatePerMinute: 100,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	repos, fakes := mocks.NewRepositories()
	notifier := &stubNotifier{}
	srv := NewServer(cfg, repos, notifier, services.NewLeadFeed(), zerolog.Nop())
	return &testEnv{
		srv:      srv,
		fakes:    fakes,
		notifier: notifier,
		handler:  srv.Router(context.Background()),
	}
}

func (e *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := e.do(http.MethodPost, "/admin/login", `{"password":"`+adminPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var raw struct {
		OK    bool            `json:"ok"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return Envelope{OK: raw.OK, Error: raw.Error}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.True(t, decodeEnvelope(t, rec, nil).OK)
}

func TestAdminGateRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/admin/api/me?tab=leads", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Fapi%2Fme%3Ftab%3Dleads", rec.Header().Get("Location"))

	page := env.do(http.MethodGet, "/admin/login?next=/admin/api/contacts", "")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `value="/admin/api/contacts"`)
}

func TestGateCookieAloneIsNotASession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/admin/api/me", "", &http.Cookie{Name: gateCookie, Value: "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := &http.Cookie{Name: sessionCookie, Value: "1700000000000:nonce:deadbeef"}
	rec = env.do(http.MethodGet, "/admin/api/me", "", &http.Cookie{Name: gateCookie, Value: "1"}, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/admin/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password", decodeEnvelope(t, rec, nil).Error)
	assert.Empty(t, rec.Result().Cookies())

	cookies := env.login(t)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly, c.Name)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, 86400, c.MaxAge)
	}

	rec = env.do(http.MethodGet, "/admin/api/me", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var me MeResponse
	decodeEnvelope(t, rec, &me)
	assert.True(t, me.Authenticated)
	assert.NotEmpty(t, me.ExpiresAt)

	rec = env.do(http.MethodPost, "/admin/logout", "", cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}
}

func TestLoginFormRedirectsToNext(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader("password="+strings.ReplaceAll(adminPassword, " ", "+")+"&next=%2Fadmin%2Fapi%2Fcontacts"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/api/contacts", rec.Header().Get("Location"))
}

func TestLoginFailsClosedWithoutHash(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.AdminPasswordHash = "" })
	rec := env.do(http.MethodPost, "/admin/login", `{"password":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, decodeEnvelope(t, rec, nil).OK)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Auth.Now = func() time.Time { return time.Now().Add(-24*time.Hour - time.Minute) }
	cookies := env.login(t)
	env.srv.Auth.Now = nil

	rec := env.do(http.MethodGet, "/admin/api/me", "", cookies...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.LoginRatePerMinute = 2 })
	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/admin/login", `{"password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(http.MethodPost, "/admin/login", `{"password":"nope"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func loginFrom(env *testEnv, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.LoginRatePerMinute = 2 })

	var codes []int
	for i := 0; i < 6; i++ {
		codes = append(codes, loginFrom(env, "203.0.113.7:5000", fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, []int{401, 401, 429, 429, 429, 429}, codes)

	assert.Equal(t, http.StatusUnauthorized, loginFrom(env, "203.0.113.8:5000", ""))
}

func TestLoginRateLimitTrustsConfiguredProxies(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.LoginRatePerMinute = 1
		c.TrustedProxies = []string{"10.1.0.0/16"}
	})

	assert.Equal(t, http.StatusUnauthorized, loginFrom(env, "10.1.2.3:443", "198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, loginFrom(env, "10.1.2.3:443", "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(env, "10.1.9.9:443", "198.51.100.1"))

	// A client prepending its own entry still lands in the bucket of the address the proxy saw.
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(env, "10.1.2.3:443", "1.2.3.4, 198.51.100.2"))
}

func TestTrustedProxiesClientIP(t *testing.T) {
	proxies, invalid := parseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1", "not-an-ip", ""})
	assert.Equal(t, []string{"not-an-ip"}, invalid)

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "untrusted peer ignores header", remoteAddr: "203.0.113.5:1000", forwarded: "1.1.1.1", want: "203.0.113.5"},
		{name: "trusted peer uses last hop", remoteAddr: "10.0.0.1:1000", forwarded: "1.1.1.1, 2.2.2.2", want: "2.2.2.2"},
		{name: "skips trusted hops", remoteAddr: "192.168.1.1:1000", forwarded: "2.2.2.2, 10.4.4.4", want: "2.2.2.2"},
		{name: "garbage hop stops the walk", remoteAddr: "10.0.0.1:1000", forwarded: "2.2.2.2, junk", want: "10.0.0.1"},
		{name: "trusted peer without header", remoteAddr: "10.0.0.1:1000", want: "10.0.0.1"},
		{name: "no port", remoteAddr: "203.0.113.5", want: "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, proxies.clientIP(req))
		})
	}
}

func TestAdminMutationRejectsCrossSiteRequests(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/categories", strings.NewReader(`{"name":"Growth"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.fakes.Categories.Items)
}

func TestAdminCategoryCrud(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(http.MethodPost, "/admin/api/categories", `{"name":"AI & Spa Tools"}`, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created CategoryDTO
	decodeEnvelope(t, rec, &created)
	assert.Equal(t, "ai-spa-tools", created.Slug)

	rec = env.do(http.MethodPost, "/admin/api/categories", `{"name":"ai & spa tools"}`, cookies...)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/admin/api/categories", `{"name":"   "}`, cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/admin/api/categories/abc", "", cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", decodeEnvelope(t, rec, nil).Error)

	rec = env.do(http.MethodGet, "/api/public/categories", "")
	var listed []CategoryDTO
	decodeEnvelope(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "AI & Spa Tools", listed[0].Name)
}

func TestAdminPlaybookLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)
	env.fakes.Tags.Seed(models.Tag{ID: 7, Label: "AI", Slug: "ai"})

	rec := env.do(http.MethodPost, "/admin/api/playbooks", `{"title":"Front Desk Autopilot","summary":"s","content":"body"}`, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created PlaybookDTO
	decodeEnvelope(t, rec, &created)
	assert.Equal(t, "front-desk-autopilot", created.Slug)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Nil(t, created.PublishedAt)

	rec = env.do(http.MethodPut, "/admin/api/playbooks/1/tags", `{"tagIds":[7,7]}`, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/admin/api/playbooks/1/status", `{"status":"published"}`, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var published PlaybookDTO
	decodeEnvelope(t, rec, &published)
	assert.NotNil(t, published.PublishedAt)

	rec = env.do(http.MethodPost, "/admin/api/playbooks/1/status", `{"status":"draft"}`, cookies...)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/admin/api/playbooks/1", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail AdminPlaybookDTO
	decodeEnvelope(t, rec, &detail)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "ai", detail.Tags[0].Slug)

	rec = env.do(http.MethodGet, "/admin/api/playbooks/99", "", cookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminStoreErrorsAreVerbatim(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)
	env.fakes.Playbooks.ListError = errors.New(`relation "playbooks" does not exist`)

	rec := env.do(http.MethodGet, "/admin/api/playbooks", "", cookies...)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `relation "playbooks" does not exist`, decodeEnvelope(t, rec, nil).Error)

	rec = env.do(http.MethodGet, "/api/public/playbooks", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, genericError, decodeEnvelope(t, rec, nil).Error)
}

func seedContent(f *mocks.Fakes) {
	day := func(d int) *time.Time {
		t := time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC)
		return &t
	}
	catID := int64(1)
	f.Categories.Seed(models.Category{ID: catID, Name: "Automation", Slug: "automation"})
	f.Tags.Seed(models.Tag{ID: 1, Label: "AI", Slug: "ai"})
	f.Tags.Seed(models.Tag{ID: 2, Label: "Spa", Slug: "spa"})

	published := func(id int64, slug string, at *time.Time) models.Playbook {
		return models.Playbook{
			ID: id, Slug: slug, Title: slug, CategoryID: &catID,
			Status: models.StatusPublished, Access: models.AccessPublic,
			PublishedAt: at, UpdatedAt: *at,
		}
	}
	source := published(1, "source", day(1))
	source.Content = "# Hello\n\n<script>alert(1)</script>"
	f.Playbooks.Seed(source, 1, 2)
	f.Playbooks.Seed(published(2, "overlap", day(2)), 1)
	f.Playbooks.Seed(published(3, "recent", day(5)))
	draft := published(4, "draft", day(6))
	draft.Status = models.StatusDraft
	f.Playbooks.Seed(draft, 1, 2)

	f.Comments.Seed(models.Comment{ID: 1, PlaybookID: 1, AuthorName: "Ana", Content: "Great", Status: models.CommentApproved, CreatedAt: *day(2)})
	f.Comments.Seed(models.Comment{ID: 2, PlaybookID: 1, AuthorName: "Bo", Content: "Spam", Status: models.CommentPending, CreatedAt: *day(3)})
}

func TestPublicPlaybookDetail(t *testing.T) {
	env := newTestEnv(t)
	seedContent(env.fakes)

	rec := env.do(http.MethodGet, "/api/public/playbooks/source", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail PlaybookDetailDTO
	decodeEnvelope(t, rec, &detail)

	assert.Contains(t, detail.HTML, "<h1>Hello</h1>")
	assert.NotContains(t, detail.HTML, "<script>")
	require.NotNil(t, detail.Category)
	assert.Equal(t, "automation", detail.Category.Slug)
	assert.Len(t, detail.Tags, 2)

	var related []int64
	for _, p := range detail.Related {
		related = append(related, p.ID)
	}
	assert.Equal(t, []int64{2, 3}, related)

	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Great", detail.Comments[0].Content)

	rec = env.do(http.MethodGet, "/api/public/playbooks/draft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicPlaybookDetailSurvivesTagLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	seedContent(env.fakes)
	env.fakes.Playbooks.LinkError = errors.New("tag links unavailable")

	rec := env.do(http.MethodGet, "/api/public/playbooks/source", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"related":[]`)
	assert.Contains(t, rec.Body.String(), `"tags":[]`)

	var detail PlaybookDetailDTO
	decodeEnvelope(t, rec, &detail)
	assert.Equal(t, "source", detail.Slug)
	assert.Empty(t, detail.Related)
	require.Len(t, detail.Comments, 1)
}

func TestPublicPlaybookListFilters(t *testing.T) {
	env := newTestEnv(t)
	seedContent(env.fakes)

	rec := env.do(http.MethodGet, "/api/public/playbooks?tag=ai", "")
	var page PlaybookListResponse
	decodeEnvelope(t, rec, &page)
	var slugs []string
	for _, p := range page.Items {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"overlap", "source"}, slugs)

	rec = env.do(http.MethodGet, "/api/public/playbooks?category=unknown", "")
	decodeEnvelope(t, rec, &page)
	assert.Empty(t, page.Items)
}

func TestCommentSubmission(t *testing.T) {
	env := newTestEnv(t)
	seedContent(env.fakes)

	rec := env.do(http.MethodPost, "/api/public/playbooks/abc/comments", `{"authorName":"A","content":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid playbook id", decodeEnvelope(t, rec, nil).Error)

	rec = env.do(http.MethodPost, "/api/public/playbooks/1/comments", `{"authorName":"  ","content":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.fakes.Comments.Items, 2)

	env.fakes.Comments.InsertError = errors.New(`insert or update on table "playbook_comments" violates foreign key constraint`)
	rec = env.do(http.MethodPost, "/api/public/playbooks/1/comments", `{"authorName":"Cy","content":"Hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec, nil).Error, "violates foreign key constraint")
	env.fakes.Comments.InsertError = nil

	rec = env.do(http.MethodPost, "/api/public/playbooks/1/comments", `{"authorName":"Cy","content":"Hi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created AdminCommentDTO
	decodeEnvelope(t, rec, &created)
	assert.Equal(t, models.CommentPending, created.Status)

	rec = env.do(http.MethodGet, "/api/public/playbooks/1/comments", "")
	var visible []CommentDTO
	decodeEnvelope(t, rec, &visible)
	assert.Len(t, visible, 1)

	cookies := env.login(t)
	rec = env.do(http.MethodPost, "/admin/api/comments/3/approve", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(http.MethodPost, "/admin/api/comments/3/reject", "", cookies...)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/public/playbooks/1/comments", "")
	decodeEnvelope(t, rec, &visible)
	assert.Len(t, visible, 2)
}

func TestPickDetailAndRedirect(t *testing.T) {
	env := newTestEnv(t)
	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	category := "Booking"
	aff := "https://aff.example/booker?ref=picks"
	env.fakes.Products.Seed(models.Product{
		ID: 1, Slug: "booker", Name: "Booker", Category: &category, Tags: []string{"AI"},
		Content: "**Fast**", Status: models.StatusPublished, UpdatedAt: &updated,
	},
		models.ProductLink{Priority: 2, Status: models.LinkInactive, AffiliateURL: &aff},
		models.ProductLink{Priority: 3, Status: models.LinkActive, AffiliateURL: &aff},
	)
	env.fakes.Products.Seed(models.Product{ID: 2, Slug: "other", Name: "Other", Category: &category, Status: models.StatusPublished, UpdatedAt: &updated})
	env.fakes.Products.Seed(models.Product{ID: 3, Slug: "hidden", Name: "Hidden", Status: models.StatusDraft})

	rec := env.do(http.MethodGet, "/api/public/picks/booker", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail ProductDetailDTO
	decodeEnvelope(t, rec, &detail)
	assert.Contains(t, detail.HTML, "<strong>Fast</strong>")
	assert.Len(t, detail.Links, 1)
	require.NotNil(t, detail.DefaultLink)
	assert.Equal(t, 3, detail.DefaultLink.Priority)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "other", detail.Related[0].Slug)

	rec = env.do(http.MethodGet, "/go/booker", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, aff, rec.Header().Get("Location"))

	rec = env.do(http.MethodGet, "/go/hidden", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/public/picks?category=booking", "")
	var cards []ProductCardDTO
	decodeEnvelope(t, rec, &cards)
	assert.Len(t, cards, 2)
}

func TestContactSubmission(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/contact", `{"fullName":"Dana","email":"not-an-email","message":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec, nil).OK)
	assert.Empty(t, env.fakes.Contacts.Items)

	rec = env.do(http.MethodPost, "/api/contact", `{"fullName":" Dana ","email":"dana@spa.example","message":"Need a booking bot","interestedIn":["Chatbots"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, int64(1), resp.ID)

	env.srv.Contacts.Wait()
	stored := env.fakes.Contacts.Items[1]
	assert.Equal(t, "Dana", stored.FullName)
	assert.Equal(t, models.NotifySent, stored.NotifyStatus)
	assert.NotNil(t, stored.NotifiedAt)
	require.Len(t, env.notifier.calls, 1)
}

func TestContactSucceedsWhenWebhookFails(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("webhook responded with status 502")

	rec := env.do(http.MethodPost, "/api/contact", `{"fullName":"Dana","email":"dana@spa.example","message":"Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env.srv.Contacts.Wait()
	assert.Equal(t, models.NotifyFailed, env.fakes.Contacts.Items[1].NotifyStatus)

	env.fakes.Contacts.InsertError = errors.New("connection refused")
	rec = env.do(http.MethodPost, "/api/contact", `{"fullName":"Dana","email":"dana@spa.example","message":"Hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestLeadSocketReceivesContactEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go env.srv.Leads.Run(ctx)

	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	cookies := env.login(t)
	header := http.Header{}
	for _, c := range cookies {
		header.Add("Cookie", c.Name+"="+c.Value)
	}
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/admin/ws/leads"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	require.Eventually(t, func() bool { return env.srv.Leads.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	rec := env.do(http.MethodPost, "/api/contact", `{"fullName":"Dana","email":"dana@spa.example","message":"Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event services.LeadEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, services.LeadCreated, event.Type)
	assert.Equal(t, int64(1), event.ContactID)

	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, services.LeadNotified, event.Type)
	assert.Equal(t, models.NotifySent, event.NotifyStatus)
	env.srv.Contacts.Wait()
}

func TestLeadSocketRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/admin/ws/leads", "", &http.Cookie{Name: gateCookie, Value: "1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
