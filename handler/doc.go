// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value filled by the
// configured binders, and returns a Response that renders itself. Wrap turns
// it into an http.HandlerFunc:
//
//	r.Post("/login", handler.Wrap(h.login, handler.WithBinder[loginRequest](binder.JSON())))
//
// Responses use a single JSON envelope, {"data": ...} on success and
// {"error": {"code", "message", "details"}} on failure. HTTPError carries a
// status and a stable code. Validation failures from pkg/validator render as
// 400 with per-field details.
package handler
