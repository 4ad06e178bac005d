// Package middleware groups the Fiber middleware shared by every feature.
//
//   - auth: API key check (plain or bcrypt hash) and JWT bearer tokens whose
//     subject is the user id; Required guards user-scoped routes.
//   - rayid: assigns each request a ray id, echoed in X-Ray-ID and attached
//     to log lines through logger.WithRayID.
package middleware
