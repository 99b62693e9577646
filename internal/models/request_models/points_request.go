package request_models

import "io"

type FindPointsQuery struct {
	UF      string
	City    string
	ItemIDs []int64
}

// CreatePointRequest is bound from the multipart registration form. The raw
// "items" values, when present, are parsed into Items during registration.
// Coordinates stay text until validated so a malformed number is a field error.
type CreatePointRequest struct {
	Name      string  `form:"name" validate:"required"`
	Email     string  `form:"email" validate:"required,email"`
	Whatsapp  string  `form:"whatsapp" validate:"required"`
	UF        string  `form:"uf" validate:"required,len=2"`
	City      string  `form:"city" validate:"required"`
	Latitude  string  `form:"latitude" validate:"required,latitude"`
	Longitude string  `form:"longitude" validate:"required,longitude"`
	Items     []int64 `form:"-" json:"items" validate:"min=1"`

	RawItems []string `form:"items" validate:"-"`
}

// ImageFile is the uploaded image part of a registration.
type ImageFile struct {
	Filename string
	Content  io.Reader
}
