package dto

import (
	"kumbam/internal/domains/venue/model"
	"kumbam/shared"
	gDto "kumbam/shared/dto"
)

type VenueResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Image       string `json:"image"`
	Description string `json:"description"`
	gDto.Metadata
}

func (r *VenueResponse) FromModel(model model.Venue) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Price = model.Price
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Description = model.Description
	r.Metadata = gDto.MetadataFrom(model.Metadata)
}

type GetVenuesResponse struct {
	Venues    []VenueResponse `json:"venues"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetVenuesResponse) FromModels(models []model.Venue, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Venues = make([]VenueResponse, len(models))
	for i, mod := range models {
		r.Venues[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	Venue       VenueResponse `json:"venue"`
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	BookedDates []string      `json:"booked_dates"`
}

type MuhurthamResponse struct {
	Year       int      `json:"year"`
	Valarpirai []string `json:"valarpirai"`
	Theipirai  []string `json:"theipirai"`
}

func (r *MuhurthamResponse) FromModel(model model.Muhurtham) {
	r.Year = model.Year
	r.Valarpirai = append([]string{}, model.Valarpirai...)
	r.Theipirai = append([]string{}, model.Theipirai...)
}
