package response_models

type LocationResponse struct {
	UF     string `json:"uf"`
	City   string `json:"city"`
	Points int64  `json:"points"`
}
