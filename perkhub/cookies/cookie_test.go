package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	perkCtx "github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/db"
)

func testAPIContext() perkCtx.APIContext {
	return perkCtx.NewAPIContext(perkCtx.Config{
		Cookie: perkCtx.CookieConfig{
			HashKey:    "0f0ee5b192c014069b85802b727b04a9c41d51b67cdc2b498e9ff60f31ad7b7b4cb573c9745eaef2bb242016747f264db427b4387f4d71579e158cdeaefc51b0",
			EncryptKey: "f9cc632d41202396cfc432cb89ac9eaa8ff3ad96ecd555a378a807954f6c46ec",
		},
		Host: perkCtx.HostConfig{Name: "localhost"},
	})
}

func TestLoginCookieRoundTrip(t *testing.T) {
	apiCtx := testAPIContext()
	user := &db.User{ID: 42, Username: "maria"}

	cookie, err := GetLoginCookie(apiCtx, user)
	assert.NoError(t, err)
	assert.Equal(t, UserCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	auth, err := GetAuthenticatedUser(apiCtx, r)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), auth.ID)
	assert.Equal(t, "maria", auth.Username)
}

func TestGetAuthenticatedUserWithoutCookie(t *testing.T) {
	apiCtx := testAPIContext()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetAuthenticatedUser(apiCtx, r)
	assert.Error(t, err)
}

func TestLogoutCookieExpiresSession(t *testing.T) {
	apiCtx := testAPIContext()

	cookie := GetLogoutCookie(apiCtx)
	assert.Equal(t, UserCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
}

func TestAnonymousSessionRoundTrip(t *testing.T) {
	apiCtx := testAPIContext()

	cookie, err := GetAnonSessionCookie(apiCtx)
	assert.NoError(t, err)
	assert.Equal(t, AnonSessionCookieName, cookie.Name)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	session, err := GetAnonymousSession(apiCtx, r)
	assert.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
}
