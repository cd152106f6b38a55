package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/atelier-scheduling/internal/api/handlers"
	"github.com/m04kA/atelier-scheduling/internal/domain"
)

// Заголовки, которые выставляет API-шлюз после аутентификации
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный X-User-ID"
	msgInvalidRole   = "некорректная роль пользователя"
)

type actorKey struct{}

// WithActor сохраняет пользователя в контексте
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor возвращает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// Auth требует заголовки пользователя. Роль по умолчанию - STAFF
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		actor, msg, ok := parseActor(r)
		if !ok {
			handlers.RespondUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// OptionalAuth кладет пользователя в контекст, если заголовки переданы.
// Для публичных маршрутов
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserID) == "" {
			next.ServeHTTP(w, r)
			return
		}

		actor, msg, ok := parseActor(r)
		if !ok {
			handlers.RespondUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func parseActor(r *http.Request) (domain.Actor, string, bool) {
	userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
	if err != nil || userID <= 0 {
		return domain.Actor{}, msgInvalidUserID, false
	}

	role := domain.RoleStaff
	if raw := r.Header.Get(HeaderUserRole); raw != "" {
		role, err = domain.ParseRole(raw)
		if err != nil {
			return domain.Actor{}, msgInvalidRole, false
		}
	}

	return domain.Actor{UserID: userID, Role: role}, "", true
}
