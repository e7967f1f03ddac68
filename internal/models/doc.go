// Package models defines the entities persisted in the local cache
// database: cached catalog searches and playback history records.
package models
