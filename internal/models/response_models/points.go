package response_models

type PointSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	UF        string  `json:"uf"`
}

type PointDetail struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Whatsapp  string         `json:"whatsapp"`
	ImageURL  string         `json:"image_url"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	City      string         `json:"city"`
	UF        string         `json:"uf"`
	Items     []ItemResponse `json:"items"`
}

type CreatedPointResponse struct {
	ID int64 `json:"id"`
}
