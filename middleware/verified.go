package middleware

import (
	"context"
	"net/http"

	goJose "github.com/MrEthical07/goJose"
)

type engineAuthenticator struct {
	engine *goJose.Engine
}

func (a engineAuthenticator) Authenticate(_ context.Context, token string) (map[string]any, error) {
	return a.engine.Decode(token)
}

// RequireVerified returns middleware that verifies tokens cryptographically
// against the engine's registered keys. No revocation state is consulted.
func RequireVerified(engine *goJose.Engine) func(http.Handler) http.Handler {
	if engine == nil {
		return Guard(nil)
	}
	return Guard(engineAuthenticator{engine: engine})
}
