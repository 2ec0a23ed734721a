package radarr

import "errors"

// ErrInvalidSyncOptions indicates missing Radarr settings for a real sync
var ErrInvalidSyncOptions = errors.New("invalid radarr sync options")
