package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookies(rec, CookieConfig{Secure: true}, "sess-tok", "ref-tok", 900, 604800)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	sess := byName[SessionCookieName]
	require.NotNil(t, sess)
	require.Equal(t, "sess-tok", sess.Value)
	require.Equal(t, 900, sess.MaxAge)
	require.True(t, sess.HttpOnly)
	require.True(t, sess.Secure)
	require.Equal(t, http.SameSiteStrictMode, sess.SameSite)

	ref := byName[RefreshCookieName]
	require.NotNil(t, ref)
	require.Equal(t, "ref-tok", ref.Value)
	require.Equal(t, 604800, ref.MaxAge)
}

func TestClearSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookies(rec, CookieConfig{})

	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}
	require.Len(t, rec.Result().Cookies(), 2)
}

func TestSessionTokenFromRequest_PrefersCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	require.Equal(t, "from-cookie", SessionTokenFromRequest(r))
}

func TestSessionTokenFromRequest_BearerFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	require.Equal(t, "from-header", SessionTokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, SessionTokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcg==")
	require.Empty(t, SessionTokenFromRequest(r))
}

func TestRefreshTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	require.Equal(t, "from-body", RefreshTokenFromRequest(r, "from-body"))

	r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "from-cookie"})
	require.Equal(t, "from-cookie", RefreshTokenFromRequest(r, "from-body"))
}
