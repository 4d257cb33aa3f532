package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/pizzaparty/backend-pizzeria/internal/common"
)

// BodyLimit caps request payload size. Every engine payload is a small
// JSON object, so the default limit is deliberately tight.
type BodyLimit struct {
	Max int64
}

// DefaultBodyLimit bounds customization and contact payloads with room
// to spare.
const DefaultBodyLimit = 64 << 10

func (b BodyLimit) max() int64 {
	if b.Max <= 0 {
		return DefaultBodyLimit
	}
	return b.Max
}

// Middleware rejects requests exceeding the limit with HTTP 413.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}
		limit := b.max()
		if r.ContentLength > limit && r.ContentLength != -1 {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request entity too large", nil)
			return
		}

		buf, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil && !errors.Is(err, io.EOF) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
			return
		}
		if int64(len(buf)) > limit {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request entity too large", nil)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(buf))
		r.ContentLength = int64(len(buf))
		next.ServeHTTP(w, r)
	})
}
