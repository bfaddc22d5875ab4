package booking

import "time"

// CreateRequest for creating a booking
type CreateRequest struct {
	ItemID int64     `json:"itemId" validate:"required,gt=0"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

// ItemShort is the item view embedded in a booking response
type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserShort is the user view embedded in a booking response
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse for API response
type BookingResponse struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Item   ItemShort `json:"item"`
	Booker UserShort `json:"booker"`
}

func toResponse(b *Booking, item *ItemInfo, booker *UserInfo) *BookingResponse {
	resp := &BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Item:   ItemShort{ID: b.ItemID},
		Booker: UserShort{ID: b.BookerID},
	}
	if item != nil {
		resp.Item.Name = item.Name
	}
	if booker != nil {
		resp.Booker.Name = booker.Name
	}
	return resp
}
