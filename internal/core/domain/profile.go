package domain

import "time"

// Profile is the public face of a registered user. It is stored apart from
// the credential and joined to it by email only.
type Profile struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is the authenticated caller of a single request. It is built from
// the profile matched by the session's credential and never persisted.
type Identity struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IdentityFromProfile copies the fields exposed to handlers.
func IdentityFromProfile(p *Profile) *Identity {
	return &Identity{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}
