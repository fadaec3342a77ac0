package model

import (
	"kumbam/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "venues"
	EntityName = "venue"

	FieldID          = "id"
	FieldName        = "name"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldImage       = "image"
	FieldDescription = "description"
)

const (
	MuhurthamTableName  = "muhurtham_dates"
	MuhurthamEntityName = "muhurtham"

	FieldVenueID = "venue_id"
	FieldYear    = "year"
)

type Venue struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	Price       int64  `db:"price"`
	Location    string `db:"location"`
	Capacity    int    `db:"capacity"`
	Image       string `db:"image"`
	Description string `db:"description"`
	model.Metadata
}

// Muhurtham holds the auspicious dates of one venue for one year, split by lunar
// fortnight (valarpirai waxing, theipirai waning).
type Muhurtham struct {
	VenueID    int64          `db:"venue_id"`
	Year       int            `db:"year"`
	Valarpirai pq.StringArray `db:"valarpirai_dates"`
	Theipirai  pq.StringArray `db:"theipirai_dates"`
}
