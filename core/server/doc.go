// Package server holds the HTTP server configuration and the Fiber application
// shared by the start command and the handler tests.
//
// NewApp wires the ray id, CORS and request logging middleware and installs
// ErrorHandler, which renders reconciliation errors as
//
//	{"exception_code": "amount_limit_exceeded", "detail": "...", "amount_limit": 24}
//	{"exception_code": "already_exist", "detail": "...", "existing_object": {...},
//	 "new_object": {...}, "conflict_object_index": 1, "conflict_field": "translations"}
//
// and validation failures as 400 responses listing the offending fields.
package server
