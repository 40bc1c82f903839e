// Package middleware provides net/http middleware for services that bind
// requests with package binder.
//
// RequestID stores a uuid.UUID under RequestIDKey, which is a
// binder.ContextKey, so request records pick it up with a `ctx` field:
//
//	type GetUser struct {
//		ID        int64     `path:"id"`
//		RequestID uuid.UUID `ctx:"request_id"`
//	}
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID(), middleware.Logging(log))
package middleware
