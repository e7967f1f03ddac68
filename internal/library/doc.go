// Package library implements the client-side playlist state machine.
//
// [Store] owns the playlist collection and the current selection. Every
// selection change bumps a monotonic generation counter; [Synchronizer] keys
// its song fetches to that generation and discards responses that arrive
// after a newer selection. Mutating operations republish the selection (same
// playlist id, new generation) so the song list re-fetches after every
// create, ingest, or remove. [Ingestor] normalizes candidate tracks from
// either origin, rejects duplicates locally, and submits the rest to the
// backend.
package library
