package middleware

import (
	"net/http"

	"coworking-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity trusts the auth gateway in front of this service: the gateway
// terminates the session and forwards the resolved user in X-User-ID.
// Requests without a valid user id never reach a handler.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDHeader := r.Header.Get("X-User-ID")
			if userIDHeader == "" {
				utils.ResponseUnauthorized(w, "Missing user identity")
				return
			}

			userID, err := uuid.Parse(userIDHeader)
			if err != nil {
				logger.Warn("Invalid user identity header",
					zap.String("user_id", userIDHeader),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid user identity")
				return
			}

			role := r.Header.Get("X-User-Role")
			if role == "" {
				role = "customer"
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
