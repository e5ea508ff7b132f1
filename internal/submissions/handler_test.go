package submissions

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/sopatech/wavedesk/internal/activity"
	"github.com/sopatech/wavedesk/internal/auth"
	"github.com/sopatech/wavedesk/internal/users"
)

// fakeUsers serves GetByID from a fixed set; the auth endpoints are not
// exercised here.
type fakeUsers struct {
	byID map[string]users.User
}

func (f *fakeUsers) Signup(ctx context.Context, email, password, fullName string) (*users.User, error) {
	panic("not used")
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*users.User, error) {
	panic("not used")
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) (*users.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUsers) DeleteAccount(ctx context.Context, userID string) error { return nil }

// fakeSubmissions returns canned results so the tests pin down the handler's
// status codes and envelopes, not the service logic.
type fakeSubmissions struct {
	sub     *Submission
	subs    []Submission
	stats   *Stats
	err     error
	gotNote string
}

func (f *fakeSubmissions) Create(ctx context.Context, actor users.User, in CreateInput) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) Get(ctx context.Context, actor users.User, id string) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) List(ctx context.Context, actor users.User) ([]Submission, error) {
	return f.subs, f.err
}

func (f *fakeSubmissions) Update(ctx context.Context, actor users.User, id string, in UpdateInput) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) Delete(ctx context.Context, actor users.User, id string) error {
	return f.err
}

func (f *fakeSubmissions) Approve(ctx context.Context, actor users.User, id, note string) (*Submission, error) {
	f.gotNote = note
	return f.sub, f.err
}

func (f *fakeSubmissions) Reject(ctx context.Context, actor users.User, id, note string) (*Submission, error) {
	f.gotNote = note
	return f.sub, f.err
}

func (f *fakeSubmissions) Resubmit(ctx context.Context, actor users.User, id string) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) Publish(ctx context.Context, actor users.User, id string) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) Cancel(ctx context.Context, actor users.User, id string) (*Submission, error) {
	return f.sub, f.err
}

func (f *fakeSubmissions) Statistics(ctx context.Context, actor users.User) (*Stats, error) {
	return f.stats, f.err
}

func (f *fakeSubmissions) Search(ctx context.Context, actor users.User, text, status string, size, from int) ([]Submission, error) {
	return f.subs, f.err
}

func (f *fakeSubmissions) Activity(ctx context.Context, actor users.User, id string, limit int) ([]activity.Entry, error) {
	return nil, f.err
}

func (f *fakeSubmissions) MyActivity(ctx context.Context, actor users.User, limit int) ([]activity.Entry, error) {
	return nil, f.err
}

type handlerFixture struct {
	server *httptest.Server
	key    *rsa.PrivateKey
	svc    *fakeSubmissions
}

func newHandlerFixture(t *testing.T, svc *fakeSubmissions) *handlerFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	usersSvc := &fakeUsers{byID: map[string]users.User{
		manager.ID: manager,
		artist.ID:  artist,
		intern.ID:  intern,
	}}
	h := NewHandler(svc, usersSvc)

	authn := auth.Authenticate(&key.PublicKey)
	mux := http.NewServeMux()
	mux.Handle("GET /submissions", authn(http.HandlerFunc(h.List)))
	mux.Handle("GET /submissions/stats", authn(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /submissions/{id}", authn(http.HandlerFunc(h.Get)))
	mux.Handle("POST /submissions/{id}/approve", authn(http.HandlerFunc(h.Approve)))
	mux.Handle("GET /settings", authn(http.HandlerFunc(h.Settings)))
	mux.Handle("GET /debug/permissions", authn(http.HandlerFunc(h.DebugPermissions)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &handlerFixture{server: server, key: key, svc: svc}
}

func (f *handlerFixture) request(t *testing.T, method, path, body, userID string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		claims := jwt.RegisteredClaims{
			Subject:   userID,
			ID:        "sess-test",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(f.key)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestHandler_NoTokenUnauthorized(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{})
	resp := f.request(t, http.MethodGet, "/submissions", "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_DenialMapsTo403WithMessage(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{err: &DeniedError{Reason: ReasonViewOwnOnly}})
	resp := f.request(t, http.MethodGet, "/submissions/sub-1", "", artist.ID)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Artists can only view their own submissions", body["message"])
}

func TestHandler_NotFoundMapsTo404(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{err: ErrSubmissionNotFound})
	resp := f.request(t, http.MethodGet, "/submissions/missing", "", manager.ID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Submission not found", body["message"])
}

func TestHandler_ListEnvelopeCarriesRoleAndScope(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{subs: []Submission{{ID: "s1"}, {ID: "s2"}}})
	resp := f.request(t, http.MethodGet, "/submissions", "", manager.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Label Manager", body["userRole"])
	require.Equal(t, true, body["canViewAll"])
	require.Len(t, body["data"], 2)
}

func TestHandler_ListEnvelopeForArtist(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{subs: []Submission{}})
	resp := f.request(t, http.MethodGet, "/submissions", "", artist.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Artist", body["userRole"])
	require.Equal(t, false, body["canViewAll"])
}

func TestHandler_ApprovePassesNoteThrough(t *testing.T) {
	svc := &fakeSubmissions{sub: &Submission{ID: "s1", Status: StatusApproved}}
	f := newHandlerFixture(t, svc)
	resp := f.request(t, http.MethodPost, "/submissions/s1/approve", `{"note":"solid mix"}`, manager.ID)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "solid mix", svc.gotNote)
}

func TestHandler_SettingsManagerOnly(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{})

	resp := f.request(t, http.MethodGet, "/settings", "", artist.ID)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "Only Label Managers can access system settings", body["message"])

	resp = f.request(t, http.MethodGet, "/settings", "", manager.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 48, data["releaseDateWindowHours"])
}

func TestHandler_DebugPermissionsManagerOnly(t *testing.T) {
	f := newHandlerFixture(t, &fakeSubmissions{})

	resp := f.request(t, http.MethodGet, "/debug/permissions", "", artist.ID)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "Only Label Managers can use debug tools", body["message"])

	resp = f.request(t, http.MethodGet, "/debug/permissions", "", manager.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	gate, ok := data["approveReject"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, gate["allowed"])
}
