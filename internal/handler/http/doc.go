// Package http implements the REST API of the weight-tracker server.
//
// Routes are wired on a chi router in [Handler.Init]: /auth (accounts and
// tokens), /weights (the per-user weight document, behind bearer auth),
// /weather (forecast proxy), plus /ping, /version and /metrics. Every request
// passes the recoverer, trace id, access log, metrics and per-IP rate limit
// middlewares before it reaches a handler. Errors are written as
// {"error": "..."} bodies.
package http
