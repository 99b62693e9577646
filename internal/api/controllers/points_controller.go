package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecoleta/internal/config"
	"ecoleta/internal/models/request_models"
	"ecoleta/internal/models/response_models"
	"ecoleta/internal/selection"
	"ecoleta/internal/services"
	"ecoleta/pkg/utils"
)

type PointsController struct {
	pointService   services.PointServiceInterface
	maxUploadBytes int64
}

func NewPointsController(pointService services.PointServiceInterface, cfg config.Config) *PointsController {
	return &PointsController{
		pointService:   pointService,
		maxUploadBytes: cfg.MaxUploadMB << 20,
	}
}

// FindPoints godoc
// @Summary Find collection points
// @Description Points in the given uf and city accepting at least one of the selected items. No items means no item filter.
// @Tags Points
// @Produce json
// @Param uf query string true "State code"
// @Param city query string true "City name"
// @Param items query string false "Item ids, comma separated or repeated"
// @Success 200 {array} response_models.PointSummary
// @Failure 400 {object} utils.APIResponse
// @Router /points [get]
func (p *PointsController) FindPoints(c *gin.Context) {
	raw := append(c.QueryArray("items"), c.QueryArray("items[]")...)
	items, err := selection.Parse(raw)
	if err != nil {
		utils.RespondFieldErrors(c, http.StatusBadRequest, "Invalid item filter",
			[]utils.FieldError{{Field: "items", Message: err.Error()}})
		return
	}

	points, err := p.pointService.FindPoints(request_models.FindPointsQuery{
		UF:      c.Query("uf"),
		City:    c.Query("city"),
		ItemIDs: items.IDs(),
	}, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, points, "Points fetched successfully")
}

// GetPointById godoc
// @Summary Get a collection point
// @Tags Points
// @Produce json
// @Param id path int true "Point id"
// @Success 200 {object} response_models.PointDetail
// @Failure 404 {object} utils.APIResponse
// @Router /points/{id} [get]
func (p *PointsController) GetPointById(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid point id")
		return
	}

	point, err := p.pointService.GetPointById(id, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, point, "Point fetched successfully")
}

// CreatePoint godoc
// @Summary Register a collection point
// @Tags Points
// @Accept multipart/form-data
// @Produce json
// @Param items formData string true "Item ids, comma separated"
// @Param image formData file false "Point image"
// @Success 201 {object} response_models.CreatedPointResponse
// @Failure 413 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /points [post]
func (p *PointsController) CreatePoint(c *gin.Context) {
	if p.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, p.maxUploadBytes)
	}

	var req request_models.CreatePointRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(c, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload: "+err.Error())
		return
	}

	var image *request_models.ImageFile
	fileHeader, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		utils.RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	default:
		f, err := fileHeader.Open()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid image upload")
			return
		}
		defer f.Close()
		image = &request_models.ImageFile{Filename: fileHeader.Filename, Content: f}
	}

	id, err := p.pointService.RegisterPoint(req, image, c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.CreatedPointResponse{ID: id}, "Point created successfully")
}
