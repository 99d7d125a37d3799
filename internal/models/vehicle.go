package models

type Vehicle struct {
	ID           string  `json:"id" bson:"_id"`
	Name         string  `json:"name" bson:"name" validate:"required"`
	Brand        string  `json:"brand" bson:"brand" validate:"required"`
	Type         string  `json:"type" bson:"type" validate:"required"`
	Year         int     `json:"year" bson:"year"`
	Seats        int     `json:"seats" bson:"seats"`
	Transmission string  `json:"transmission" bson:"transmission"`
	Fuel         string  `json:"fuel" bson:"fuel"`
	Price        float64 `json:"price" bson:"price" validate:"gte=0"`
	Image        string  `json:"image" bson:"image"`
	Available    bool    `json:"available" bson:"available" default:"true"`
}

// VehicleFilter selects catalog entries. Empty Brand or Type, or "All",
// matches every value.
type VehicleFilter struct {
	Brand string `json:"brand" form:"brand"`
	Type  string `json:"type" form:"type"`
	Query string `json:"query" form:"q"`
}

type CatalogFacets struct {
	Brands []string `json:"brands"`
	Types  []string `json:"types"`
}
