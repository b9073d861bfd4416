package model

import "time"

// Presence is a listener heartbeat with a coarse location. Kept only in
// Redis with a TTL; never persisted to MySQL.
type Presence struct {
	UserID   int64     `json:"userId"`
	Username string    `json:"username"`
	TrackID  int64     `json:"trackId,omitempty"` // what they are listening to, if anything
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	LastSeen time.Time `json:"lastSeen"`
}

// NearbyListener is a presence row annotated with its distance from the
// querying user.
type NearbyListener struct {
	Presence
	DistanceKm float64 `json:"distanceKm"`
}
