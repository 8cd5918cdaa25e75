package perkhub

import (
	"net/http"

	perkCtx "github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/perkhub/cookies"
)

// Logout deletes the session cookie
func Logout(apiCtx perkCtx.APIContext) http.Handler {
	fn := func(w http.ResponseWriter, req *http.Request) {
		cookie := cookies.GetLogoutCookie(apiCtx)
		http.SetCookie(w, cookie)
		w.WriteHeader(http.StatusNoContent)
	}
	return http.HandlerFunc(fn)
}
