package middleware

import (
	"net/http"

	"github.com/MrEthical07/goJose/denylist"
)

// RequireUnrevoked returns middleware that verifies tokens and additionally
// rejects those whose jti has been revoked.
func RequireUnrevoked(guard *denylist.Guard) func(http.Handler) http.Handler {
	if guard == nil {
		return Guard(nil)
	}
	return Guard(guard)
}
