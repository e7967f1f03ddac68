// Package player drives audio playback. [Sink] abstracts the audio backend;
// [MPV] implements it over mpv's JSON IPC socket. [Transport] is the
// playback state machine the UI talks to: it tracks the current song,
// position and duration, and turns sink events into state changes.
package player
