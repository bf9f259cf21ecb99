// SPDX-License-Identifier: Apache-2.0

// Package api implements the HTTP gateway to the Sparky backend.
//
// [Client] wraps the full request/response lifecycle: bearer-token
// attachment from the shared state store, a single refresh-and-retry cycle
// on 401, connectivity tracking, and uniform error surfacing as user
// notifications. Errors are always returned to the caller as well: the
// client produces side effects (notifications, connectivity updates,
// credential clearing) but never swallows a failure.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapStatusError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrNotFound] for 404).
package api
