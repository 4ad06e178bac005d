// Package integrity checks that the image rows in the database and the objects
// in the storage bucket agree.
//
// # Checks Provided
//
//   - Missing: image rows whose object is gone from the bucket.
//   - Stray: objects under images/ that no row points at, typically left by a
//     crash between upload and commit.
//
// # HTTP Endpoints
//
//   - GET /integrity/images : Runs the image check (supports ?fix=true).
package integrity
