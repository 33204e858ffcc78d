package controller

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/syncplayer/server/pkg/ctxlogger"
	"github.com/syncplayer/server/pkg/rest"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = ctxlogger.AppendCtx(ctx, slog.String("request_id", c.generateTimeBasedId()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// sessionMw resolves the bearer token (or, for websocket upgrades, the token
// query parameter) into an explicit session and stores roomId/userId on the
// request context. Handlers never read identity from anywhere else.
func (c controller) sessionMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "missing session token"})
			return
		}

		session, err := c.roomService.Authenticate(r.Context(), token)
		if err != nil {
			c.logger.InfoContext(r.Context(), "authentication failed", "error", err)
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "invalid session token"})
			return
		}

		ctx := c.setSessionToCtx(r.Context(), session.RoomId, session.UserId)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("room_id", session.RoomId))
		ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", session.UserId))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
