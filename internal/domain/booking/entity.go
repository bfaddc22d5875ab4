package booking

import "time"

// Status is the lifecycle status of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// Booking represents a reservation of an item for a time interval.
// The time range is fixed at creation; only the status changes afterwards.
type Booking struct {
	ID        int64     `db:"id"`
	ItemID    int64     `db:"item_id"`
	BookerID  int64     `db:"booker_id"`
	Start     time.Time `db:"start_date"`
	End       time.Time `db:"end_date"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
