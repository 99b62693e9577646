package services

import (
	"context"
	"log"
	"strings"

	"ecoleta/internal/models/response_models"
	"ecoleta/internal/repositories"
	"ecoleta/pkg/utils"
)

type LocationServiceInterface interface {
	ListLocations(uf string, ctx context.Context) ([]response_models.LocationResponse, error)
}

type LocationService struct {
	locationRepository repositories.LocationRepository
}

func NewLocationService(locationRepository repositories.LocationRepository) LocationServiceInterface {
	return &LocationService{
		locationRepository: locationRepository,
	}
}

// ListLocations reports the cities that have registered points, optionally
// restricted to one state.
func (l *LocationService) ListLocations(uf string, ctx context.Context) ([]response_models.LocationResponse, error) {
	uf = strings.TrimSpace(uf)
	if uf != "" && len(uf) != 2 {
		return nil, utils.NewValidationError(utils.FieldError{Field: "uf", Message: "must be exactly 2 characters"})
	}

	rows, err := l.locationRepository.ListLocations(ctx, uf)
	if err != nil {
		log.Printf("Error listing locations: %v", err)
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.LocationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, response_models.LocationResponse{
			UF:     row.UF,
			City:   row.City,
			Points: row.Points,
		})
	}
	return out, nil
}
