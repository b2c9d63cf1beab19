package domain

import "time"

// Event is a gathering created by an organizer that other users can join.
type Event struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	Image          string    `json:"image,omitempty"`
	Date           time.Time `json:"date"`
	OrganizerEmail string    `json:"organizerEmail"`
	OrganizerName  string    `json:"organizerName"`
	Attendees      []string  `json:"attendees"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsOrganizer reports whether email owns the event.
func (e *Event) IsOrganizer(email string) bool {
	return e.OrganizerEmail == email
}

// HasAttendee reports whether email already joined the event.
func (e *Event) HasAttendee(email string) bool {
	for _, a := range e.Attendees {
		if a == email {
			return true
		}
	}
	return false
}
