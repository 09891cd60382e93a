package models

import "time"

// Player is a game participant. Everyone starts anonymous, identified
// only by the public id carried in their session cookie; linking an
// OAuth identity later preserves the same row so state follows them.
type Player struct {
	ID              int64     `json:"-"`
	PublicID        string    `json:"publicId"`
	DisplayName     string    `json:"displayName"`
	Provider        string    `json:"provider,omitempty"`
	ProviderSubject string    `json:"-"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	LastSeenAt      time.Time `json:"-"`
}

// Linked reports whether an external identity is attached
func (p *Player) Linked() bool {
	return p.Provider != ""
}
