package models

import "time"

// Status is the lifecycle state of a session slot.
//
//	available --book--> booked
//	available/booked/rescheduled --reschedule--> rescheduled
//	any non-cancelled --cancel--> cancelled (terminal)
type Status string

const (
	StatusAvailable   Status = "available"
	StatusBooked      Status = "booked"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Duration bounds in minutes.
const (
	MinDuration     = 30
	MaxDuration     = 120
	DefaultDuration = 60
)

// MaxFeedbackLen limits feedback to 1000 characters.
const MaxFeedbackLen = 1000

// Person is the participant view included in session responses.
type Person struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
}

// Session is one appointment slot. A therapist creates it as available;
// a client claims it by booking. Cancellation is a soft terminal state,
// sessions are never deleted.
type Session struct {
	ID               int64      `json:"id"`
	Datetime         time.Time  `json:"datetime"`
	Duration         int        `json:"duration"` // minutes
	Status           Status     `json:"status"`
	CancelledBy      *int64     `json:"cancelledBy,omitempty"`
	OriginalDatetime *time.Time `json:"originalDatetime,omitempty"`
	Feedback         *string    `json:"feedback,omitempty"`
	TherapistID      int64      `json:"therapistId"`
	ClientID         *int64     `json:"clientId,omitempty"`
	Therapist        *Person    `json:"therapist,omitempty"`
	Client           *Person    `json:"client,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
