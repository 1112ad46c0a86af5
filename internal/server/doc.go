// Package server provides HTTP routing, middleware, and the local print preview server.
//
// [BasicRouter] registers [Route] values as method patterns on an [http.ServeMux] and wraps each in the
// [Middleware] stack, first added outermost. Components that own routes implement [Handler] and are
// attached with [BasicRouter.Mount].
//
// [PrintHandler] keeps rendered documents in memory under random ids and serves them at GET /print/{id}.
// [PreviewServer] binds it to 127.0.0.1 for as long as the media print command waits for the browser.
package server
