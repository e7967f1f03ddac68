// Package services contains the HTTP clients for the playlist backend and
// the external catalog, plus the session context they share.
//
// All calls to the playlist backend go through [Gateway], which injects the
// bearer token held by [Session] and normalizes failures into
// [shared.ErrUnauthorized] or [*RequestError]. [LibraryService] wraps the
// gateway with typed playlist and song operations; [CatalogService] talks to
// the public catalog API directly (client id auth, no bearer token).
package services
