package dto

import (
	"encoding/json"
	"errors"
	"kumbam/internal/domains/booking/model"
	"kumbam/shared"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	gModel "kumbam/shared/model"
	"kumbam/shared/timezone"
	"kumbam/shared/validator"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MsgMissingField      = "missing field"
	MsgInvalidPhone      = "invalid phone"
	MsgInvalidEmail      = "invalid email"
	MsgInvalidDate       = "invalid date"
	MsgVenueDoesNotExist = "venue does not exist"
	MsgDatesTaken        = "dates already booked"
)

var errInvalidDates = errors.New("dates must be a comma separated string or an array of strings")

// DateList accepts either "2025-04-10,2025-04-11" or ["2025-04-10","2025-04-11"].
type DateList []string

func (d *DateList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil

		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*d = splitDates(strings.Split(joined, constant.Comma))

		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errInvalidDates
	}

	*d = splitDates(list)

	return nil
}

func splitDates(values []string) DateList {
	dates := DateList{}

	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			dates = append(dates, value)
		}
	}

	return dates
}

type CreateBookingRequest struct {
	VenueID    int64    `json:"venue_id"    swaggertype:"integer"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	EventType  string   `json:"event_type"`
	Address    string   `json:"address"`
	Dates      DateList `json:"dates"       swaggertype:"array,string"`
	TotalPrice int64    `json:"total_price"`
}

// Validate checks the request in a fixed order: presence of every field, phone,
// email, then each date. The first failing check decides the message.
func (c *CreateBookingRequest) Validate() error {
	if c.VenueID <= 0 || c.TotalPrice <= 0 || len(c.Dates) == 0 ||
		blank(c.Name, c.Phone, c.Email, c.EventType, c.Address) {
		return failure.BadRequestFromString(MsgMissingField) //nolint:wrapcheck
	}

	if !validator.IsValid(strings.TrimSpace(c.Phone), "phone") {
		return failure.BadRequestFromString(MsgInvalidPhone) //nolint:wrapcheck
	}

	if !validator.IsValid(strings.TrimSpace(c.Email), "email") {
		return failure.BadRequestFromString(MsgInvalidEmail) //nolint:wrapcheck
	}

	for _, date := range c.Dates {
		if !validator.IsValid(date, "date") {
			return failure.BadRequestFromString(MsgInvalidDate) //nolint:wrapcheck
		}
	}

	return nil
}

func blank(values ...string) bool {
	return slices.ContainsFunc(values, func(value string) bool {
		return strings.TrimSpace(value) == ""
	})
}

// Days returns the requested dates parsed, de-duplicated and sorted. Call Validate first.
func (c *CreateBookingRequest) Days() []time.Time {
	days := make([]time.Time, 0, len(c.Dates))

	for _, date := range c.Dates {
		day, err := time.Parse(constant.DayFormat, date)
		if err != nil {
			continue
		}

		days = append(days, day)
	}

	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	return slices.CompactFunc(days, func(a, b time.Time) bool { return a.Equal(b) })
}

func (c *CreateBookingRequest) ToModel(user string, days []time.Time) model.Booking {
	formatted := make([]string, len(days))
	for i, day := range days {
		formatted[i] = day.Format(constant.DayFormat)
	}

	return model.Booking{
		ID:           uuid.NewString(),
		VenueID:      c.VenueID,
		Name:         strings.TrimSpace(c.Name),
		Phone:        strings.TrimSpace(c.Phone),
		Email:        strings.TrimSpace(c.Email),
		EventType:    strings.TrimSpace(c.EventType),
		Address:      strings.TrimSpace(c.Address),
		BookingDates: strings.Join(formatted, constant.Comma),
		TotalPrice:   c.TotalPrice,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

type CreateBookingResponse struct {
	BookingID string `json:"bookingId"`
}

type BookingResponse struct {
	ID         string   `json:"id"`
	VenueID    int64    `json:"venue_id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	EventType  string   `json:"event_type"`
	Address    string   `json:"address"`
	Dates      []string `json:"dates"`
	TotalPrice int64    `json:"total_price"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.VenueID = model.VenueID
	r.Name = model.Name
	r.Phone = model.Phone
	r.Email = model.Email
	r.EventType = model.EventType
	r.Address = model.Address
	r.Dates = splitDates(strings.Split(model.BookingDates, constant.Comma))
	r.TotalPrice = model.TotalPrice
	r.Metadata = gDto.MetadataFrom(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
