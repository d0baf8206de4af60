// Package server provides HTTP routing, middleware and the playlist storage resource.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Storage Resource
//
// [SongsHandler] exposes a [models.Repository] as an append-only JSON collection:
//
//	POST /songs/  validate and append one entry, returning the stored record
//	GET  /songs/  every entry in insertion order ([] when empty)
//
// Malformed JSON is answered with 400, a body that fails validation with 422.
// Error bodies have the shape {"detail": "..."}.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
