package model

import (
	"kumbam/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldVenueID      = "venue_id"
	FieldName         = "name"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldEventType    = "event_type"
	FieldAddress      = "address"
	FieldBookingDates = "booking_dates"
	FieldTotalPrice   = "total_price"
	FieldCreatedBy    = "created_by"
)

const (
	BookedDateTableName  = "booked_dates"
	BookedDateEntityName = "booked_date"

	FieldBookingID  = "booking_id"
	FieldBookedDate = "booked_date"

	// ConstraintVenueDate guards against two bookings of one venue on one day.
	ConstraintVenueDate = "booked_dates_venue_id_booked_date_key"
)

type Booking struct {
	ID        string `db:"id"`
	VenueID   int64  `db:"venue_id"`
	Name      string `db:"name"`
	Phone     string `db:"phone"`
	Email     string `db:"email"`
	EventType string `db:"event_type"`
	Address   string `db:"address"`
	// BookingDates echoes the requested days, comma separated. The authoritative
	// copy is the booked_dates rows.
	BookingDates string `db:"booking_dates"`
	TotalPrice   int64  `db:"total_price"`
	model.Metadata
}

type BookedDate struct {
	BookingID  string    `db:"booking_id"`
	VenueID    int64     `db:"venue_id"`
	BookedDate time.Time `db:"booked_date"`
}
