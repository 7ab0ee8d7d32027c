package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

// withRequestMetadata carries the client address into the service so
// conversion logs can name it.
func withRequestMetadata(r *http.Request) context.Context {
	return core.ContextWithClientIP(r.Context(), clientIP(r))
}
