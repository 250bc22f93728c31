package middleware

import (
	"net/http"

	"github.com/benjamibono/siam-may-sub000/internal/contextkeys"
	"github.com/benjamibono/siam-may-sub000/internal/domain"
	"github.com/benjamibono/siam-may-sub000/internal/handler"
)

// AdminOnly ensures the user has the admin role. Must be used AFTER Auth,
// which sets contextkeys.UserRole in the context.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(contextkeys.UserRole).(domain.Role)
		if !ok || role != domain.RoleAdmin {
			handler.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden: admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StaffOnly ensures the user has the admin or staff role. Must be used
// AFTER Auth.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(contextkeys.UserRole).(domain.Role)
		if !ok || !role.Exempt() {
			handler.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden: staff access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
