package domain

import "time"

// User represents per-chat weather notification settings.
// Coordinates, notification time and timezone are all optional: a profile is
// created empty on first contact and filled in as the user shares data.
type User struct {
	ChatID    int64
	Latitude  *float64
	Longitude *float64
	NotifyAtM *int   // local notification time, minutes from midnight (0..1439); nil = not set
	TZ        string // IANA timezone name; empty = unknown yet
	CreatedAt time.Time
}

// HasLocation reports whether both coordinates are stored.
func (u *User) HasLocation() bool {
	return u != nil && u.Latitude != nil && u.Longitude != nil
}

// Patch is a field-wise profile update: nil fields keep the stored value.
type Patch struct {
	Latitude  *float64
	Longitude *float64
	NotifyAtM *int
	TZ        *string
}
