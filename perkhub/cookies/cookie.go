package cookies

import (
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/securecookie"

	perkCtx "github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/db"
)

const (
	// UserCookieName contains the name of the cookie that stores the user
	UserCookieName string = "perk-user"

	// AnonSessionCookieName to track anonymous users
	AnonSessionCookieName string = "perk-session"
	// SessionDuration defines expiration time so we can track users that come back
	SessionDuration time.Duration = time.Hour * 24 * 365

	// AuthenticationExpiry is the period for which,
	// the logged in user must be considered authenticated
	AuthenticationExpiry int64 = 72 // in hours
)

// AuthenticatedUser denotes the data structure of the data inside the encrypted cookie
type AuthenticatedUser struct {
	ID              int64
	Username        string
	AuthenticatedAt int64
}

// GetLoginCookie returns the http cookie that authenticates and identifies the given user
func GetLoginCookie(apiCtx perkCtx.APIContext, user *db.User) (*http.Cookie, error) {
	value, err := MakeLoginCookieValue(apiCtx, user)
	if err != nil {
		return nil, err
	}

	cookie := http.Cookie{
		Name:     UserCookieName,
		Path:     "/",
		HttpOnly: true,
		Value:    value,
		Expires:  time.Now().Add(time.Duration(AuthenticationExpiry) * time.Hour),
		Domain:   apiCtx.Config.Host.Name,
	}

	return &cookie, nil
}

// GetLogoutCookie returns the http cookie that overrides
// the login cookie to practically delete it.
func GetLogoutCookie(apiCtx perkCtx.APIContext) *http.Cookie {
	cookie := http.Cookie{
		Name:     UserCookieName,
		Path:     "/",
		HttpOnly: true,
		Value:    "",
		Expires:  time.Now(),
		Domain:   apiCtx.Config.Host.Name,
		MaxAge:   0,
	}

	return &cookie
}

// GetAuthenticatedUser gets the user from the request's http cookie
func GetAuthenticatedUser(apiCtx perkCtx.APIContext, r *http.Request) (*AuthenticatedUser, error) {
	cookie, err := r.Cookie(UserCookieName)
	if err != nil {
		return nil, err
	}

	s, err := getSecureCookieInstance(apiCtx)
	if err != nil {
		return nil, err
	}

	user := &AuthenticatedUser{}
	err = s.Decode(UserCookieName, cookie.Value, &user)
	if err != nil {
		return nil, err
	}

	if user.ID == 0 {
		return nil, errors.New("invalid auth cookie found")
	}

	if isStale(user) {
		return nil, errors.New("stale cookie found")
	}

	return user, nil
}

// MakeLoginCookieValue takes a user and encodes it into a cookie value.
func MakeLoginCookieValue(apiCtx perkCtx.APIContext, user *db.User) (string, error) {
	s, err := getSecureCookieInstance(apiCtx)
	if err != nil {
		return "", err
	}

	cookieValue := &AuthenticatedUser{
		ID:              user.ID,
		Username:        user.Username,
		AuthenticatedAt: time.Now().Unix(),
	}
	encodedValue, err := s.Encode(UserCookieName, cookieValue)
	if err != nil {
		return "", err
	}

	return encodedValue, nil
}

// isStale returns whether the cookie older than what is accepted
func isStale(user *AuthenticatedUser) bool {
	return time.
		Unix(user.AuthenticatedAt, 0).
		Before(time.Now().Add(time.Duration(-1*AuthenticationExpiry) * time.Hour))
}

func getSecureCookieInstance(apiCtx perkCtx.APIContext) (*securecookie.SecureCookie, error) {
	// Saves and encrypts the context in the cookie
	hashKey, err := hex.DecodeString(apiCtx.Config.Cookie.HashKey)
	if err != nil {
		return nil, err
	}
	blockKey, err := hex.DecodeString(apiCtx.Config.Cookie.EncryptKey)
	if err != nil {
		return nil, err
	}
	return securecookie.New(hashKey, blockKey), nil
}

// AnonymousSession identifies a visitor before they sign up
type AnonymousSession struct {
	SessionID    string
	CreationTime time.Time
}

// GetAnonymousSession gets the session from the request's http cookie
func GetAnonymousSession(apiCtx perkCtx.APIContext, r *http.Request) (*AnonymousSession, error) {
	cookie, err := r.Cookie(AnonSessionCookieName)
	if err != nil {
		return nil, err
	}

	s, err := getSecureCookieInstance(apiCtx)
	if err != nil {
		return nil, err
	}

	session := &AnonymousSession{}
	err = s.Decode(AnonSessionCookieName, cookie.Value, &session)
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.CreationTime.Add(SessionDuration)) {
		return nil, errors.New("stale cookie found")
	}
	return session, nil
}

// MakeAnonymousCookieValue encodes a session id into a cookie value
func MakeAnonymousCookieValue(apiCtx perkCtx.APIContext, sessionID string) (string, error) {
	s, err := getSecureCookieInstance(apiCtx)
	if err != nil {
		return "", err
	}
	cookieValue := &AnonymousSession{
		SessionID:    sessionID,
		CreationTime: time.Now(),
	}
	encodedValue, err := s.Encode(AnonSessionCookieName, cookieValue)
	if err != nil {
		return "", err
	}
	return encodedValue, nil
}

// GetAnonSessionCookie returns the http cookie that identifies an anonymous visitor
func GetAnonSessionCookie(apiCtx perkCtx.APIContext) (*http.Cookie, error) {
	u2, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	value, err := MakeAnonymousCookieValue(apiCtx, u2.String())
	if err != nil {
		return nil, err
	}

	cookie := http.Cookie{
		Name:     AnonSessionCookieName,
		Path:     "/",
		HttpOnly: true,
		Value:    value,
		Expires:  time.Now().Add(SessionDuration),
		Domain:   apiCtx.Config.Host.Name,
	}

	return &cookie, nil
}

// AnonymousSessionHandler is a middleware to track session ids.
func AnonymousSessionHandler(apiCtx perkCtx.APIContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := GetAnonymousSession(apiCtx, r)
			if err != nil {
				cookie, err := GetAnonSessionCookie(apiCtx)
				if err == nil {
					http.SetCookie(w, cookie)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
