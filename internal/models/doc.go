// Package models defines domain entities for the video organizer service.
//
// Entities mirror the rows the storage layer persists:
//   - [Channel] : an onboarded YouTube channel with cached statistics
//   - [Playlist] : a playlist owned by a channel, including the synthetic uploads playlist
//   - [Video] : cached video metadata keyed by its external video id
//   - [PlaylistItem] : playlist membership with a dense ordering position
//   - [WatchLaterEntry] : a queued video in the watch-later list
//
// Each entity carries an internal numeric id assigned by storage and the
// external string id assigned by the provider. JSON tags follow the API
// response shape, so entities serialize directly from HTTP handlers.
package models
