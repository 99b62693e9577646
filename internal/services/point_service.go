package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/models/request_models"
	"ecoleta/internal/models/response_models"
	"ecoleta/internal/repositories"
	"ecoleta/internal/selection"
	"ecoleta/internal/storage"
	"ecoleta/pkg/metrics"
	"ecoleta/pkg/utils"
)

type PointServiceInterface interface {
	FindPoints(query request_models.FindPointsQuery, ctx context.Context) ([]response_models.PointSummary, error)
	GetPointById(id int64, ctx context.Context) (response_models.PointDetail, error)
	RegisterPoint(req request_models.CreatePointRequest, image *request_models.ImageFile, ctx context.Context) (int64, error)
}

type PointService struct {
	pointRepository repositories.PointRepository
	itemRepository  repositories.ItemRepositoryInterface
	images          storage.ImageStore
	resolver        storage.URLResolver
}

func NewPointService(
	pointRepository repositories.PointRepository,
	itemRepository repositories.ItemRepositoryInterface,
	images storage.ImageStore,
	resolver storage.URLResolver) PointServiceInterface {

	return &PointService{
		pointRepository: pointRepository,
		itemRepository:  itemRepository,
		images:          images,
		resolver:        resolver,
	}
}

// FindPoints lists the points in (uf, city). An empty item list means no item
// filter; otherwise a point matches when it accepts any of the items.
func (p *PointService) FindPoints(query request_models.FindPointsQuery, ctx context.Context) ([]response_models.PointSummary, error) {
	start := time.Now()
	filtered := len(query.ItemIDs) > 0

	points, err := p.pointRepository.FindByLocationAndItems(ctx, query.UF, query.City, query.ItemIDs)
	if err != nil {
		metrics.ObserveDiscovery(metrics.ResultError, filtered, 0, time.Since(start))
		log.Printf("Error finding points: %v", err)
		return nil, utils.ErrDatabaseError
	}
	metrics.ObserveDiscovery(metrics.ResultSuccess, filtered, len(points), time.Since(start))

	if len(points) == 0 {
		return []response_models.PointSummary{}, nil
	}

	pointResponses := make([]response_models.PointSummary, 0, len(points))
	for _, point := range points {
		pointResponses = append(pointResponses, response_models.PointSummary{
			ID:        point.ID,
			Name:      point.Name,
			ImageURL:  p.resolver.Resolve(point.Image),
			Latitude:  point.Latitude,
			Longitude: point.Longitude,
			City:      point.City,
			UF:        point.UF,
		})
	}

	return pointResponses, nil
}

func (p *PointService) GetPointById(id int64, ctx context.Context) (response_models.PointDetail, error) {
	point, err := p.pointRepository.GetByIDWithItems(ctx, id)
	if err != nil {
		log.Printf("Error fetching point %d: %v", id, err)
		return response_models.PointDetail{}, utils.ErrDatabaseError
	}

	if point == nil {
		return response_models.PointDetail{}, utils.ErrPointNotFound
	}

	items := make([]response_models.ItemResponse, 0, len(point.Items))
	for _, link := range point.Items {
		items = append(items, toItemResponse(link.Item, p.resolver))
	}

	return response_models.PointDetail{
		ID:        point.ID,
		Name:      point.Name,
		Email:     point.Email,
		Whatsapp:  point.Whatsapp,
		ImageURL:  p.resolver.Resolve(point.Image),
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		City:      point.City,
		UF:        point.UF,
		Items:     items,
	}, nil
}

// RegisterPoint validates the request, checks every item id against the
// catalog, stores the image and inserts the point with its items. Nothing is
// persisted unless all checks pass.
func (p *PointService) RegisterPoint(req request_models.CreatePointRequest, image *request_models.ImageFile, ctx context.Context) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Whatsapp = strings.TrimSpace(req.Whatsapp)
	req.UF = strings.TrimSpace(req.UF)
	req.City = strings.TrimSpace(req.City)
	req.Latitude = strings.TrimSpace(req.Latitude)
	req.Longitude = strings.TrimSpace(req.Longitude)

	var itemsErr error
	if req.RawItems != nil {
		var items selection.Set
		items, itemsErr = selection.Parse(req.RawItems)
		req.Items = items.IDs()
	}

	verr := utils.ValidateStruct(&req)
	if itemsErr != nil {
		verr.Set("items", itemsErr.Error())
	}

	var imageBody io.Reader
	if image != nil {
		_, body, err := storage.SniffImage(image.Content)
		switch {
		case errors.Is(err, storage.ErrNotAnImage):
			verr.Add("image", "must be an image file")
		case err != nil:
			verr.Add("image", "could not be read")
		default:
			imageBody = body
		}
	}

	// unknown item ids are reported next to the other field errors
	missing, err := p.itemRepository.FindMissingIDs(ctx, req.Items)
	if err != nil {
		metrics.IncRegistration(metrics.ResultError)
		log.Printf("Error checking item ids: %v", err)
		return 0, utils.ErrDatabaseError
	}
	if len(missing) > 0 {
		refErr := &utils.ItemReferenceError{Missing: missing}
		if !verr.HasErrors() {
			metrics.IncRegistration(metrics.ResultReference)
			return 0, refErr
		}
		verr.Fields = append(verr.Fields, refErr.FieldErrors()...)
	}

	if verr.HasErrors() {
		metrics.IncRegistration(metrics.ResultInvalid)
		return 0, verr
	}

	// validated above, so both parse
	latitude, _ := strconv.ParseFloat(req.Latitude, 64)
	longitude, _ := strconv.ParseFloat(req.Longitude, 64)

	var imageName string
	if imageBody != nil {
		imageName, err = p.images.Save(ctx, image.Filename, imageBody)
		if err != nil {
			metrics.IncRegistration(metrics.ResultError)
			log.Printf("Error storing image: %v", err)
			return 0, utils.ErrStorageFailure
		}
	}

	newPoint := &db_models.Point{
		Name:      req.Name,
		Email:     req.Email,
		Whatsapp:  req.Whatsapp,
		Image:     imageName,
		Latitude:  latitude,
		Longitude: longitude,
		City:      req.City,
		UF:        req.UF,
	}

	id, err := p.pointRepository.InsertWithItems(ctx, newPoint, req.Items)
	if err != nil {
		if rmErr := p.images.Remove(ctx, imageName); rmErr != nil {
			log.Printf("Error cleaning up image %s: %v", imageName, rmErr)
		}

		var refErr *utils.ItemReferenceError
		if errors.As(err, &refErr) {
			metrics.IncRegistration(metrics.ResultReference)
			return 0, refErr
		}
		metrics.IncRegistration(metrics.ResultError)
		log.Printf("Error creating point: %v", err)
		return 0, utils.ErrStorageFailure
	}

	metrics.IncRegistration(metrics.ResultSuccess)
	log.Printf("Registered point %d (%s/%s) with %d items", id, newPoint.UF, newPoint.City, len(req.Items))
	return id, nil
}
