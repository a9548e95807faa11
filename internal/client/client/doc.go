// Package client talks to the memokeeper resource service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Client) for the resource endpoints:
//     list, paged list, create, upload with progress, patch, delete, plus
//     Ping and GetStatus.
//  2. A REST implementation (HTTPClient) that tags every request with an
//     X-Request-Id, streams uploads as multipart bodies and maps HTTP status
//     codes onto the errors below.
//
// # Error Handling
//
// A 404 is reported as ErrNotFound. Everything else that goes wrong on the
// wire is a *NetworkError; connection failures wrap ErrUnavailable and
// 401/403 wrap ErrUnauthorized, so callers can use errors.Is and errors.As.
//
// Records are returned as models.RemoteResource (unix seconds). Converting
// them to models.Resource is left to the services package.
package client
