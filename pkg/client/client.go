// Package client talks to the collection point API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ecoleta/internal/models/response_models"
	"ecoleta/internal/selection"
	"ecoleta/pkg/utils"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []utils.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("ecoleta api: status %d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("ecoleta api: status %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient swaps the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) ListItems(ctx context.Context) ([]response_models.ItemResponse, error) {
	var items []response_models.ItemResponse
	if err := c.get(ctx, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindPoints queries points in uf/city accepting any item of the selection.
// An empty selection sends no item filter.
func (c *Client) FindPoints(ctx context.Context, uf, city string, items selection.Set) ([]response_models.PointSummary, error) {
	params := url.Values{}
	params.Set("uf", uf)
	params.Set("city", city)
	if !items.IsEmpty() {
		params.Set("items", items.Encode())
	}

	points := []response_models.PointSummary{}
	if err := c.get(ctx, "/points", params, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) GetPoint(ctx context.Context, id int64) (response_models.PointDetail, error) {
	var detail response_models.PointDetail
	err := c.get(ctx, "/points/"+strconv.FormatInt(id, 10), nil, &detail)
	return detail, err
}

// NewPoint is the payload of RegisterPoint. Image is optional.
type NewPoint struct {
	Name      string
	Email     string
	Whatsapp  string
	UF        string
	City      string
	Latitude  float64
	Longitude float64
	Items     selection.Set

	ImageName string
	Image     io.Reader
}

// RegisterPoint submits p as a multipart form and returns the new point id.
func (c *Client) RegisterPoint(ctx context.Context, p NewPoint) (int64, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := [][2]string{
		{"name", p.Name},
		{"email", p.Email},
		{"whatsapp", p.Whatsapp},
		{"uf", p.UF},
		{"city", p.City},
		{"latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64)},
		{"items", p.Items.Encode()},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return 0, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if p.Image != nil {
		name := p.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return 0, fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, p.Image); err != nil {
			return 0, fmt.Errorf("copy image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/points", &body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var created response_models.CreatedPointResponse
	if err := c.do(req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

type envelope struct {
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Errors  []utils.FieldError `json:"errors"`
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
