package middleware

import (
	"crypto/subtle"
	"net/http"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/models/dtos/responses"
)

// WebhookSecret admits requests whose ?secret= query parameter equals
// secret. With no secret configured every request is admitted.
func WebhookSecret(secret string) func(http.Handler) http.Handler {
	expected := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			provided := []byte(r.URL.Query().Get("secret"))
			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				logging.Warn("Rejected webhook call",
					"request_id", GetRequestID(r.Context()),
					"remote_addr", r.RemoteAddr,
				)
				common.WriteJSON(w, http.StatusUnauthorized, responses.AlertCheckError{Error: constants.MsgUnauthorized})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
