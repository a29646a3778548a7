package apiclient

import (
	"context"
	"net/url"

	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

// ListResult is the backend's list envelope.
type ListResult struct {
	Success    bool              `json:"success"`
	Data       []models.Resource `json:"data"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
}

// ItemResult is the backend's single-record envelope.
type ItemResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    models.Resource `json:"data"`
}

// StatusResult is returned by deletes and other bodiless mutations.
type StatusResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List fetches a collection. Totals default to the returned length when
// the backend leaves them out.
func (s *Session) List(ctx context.Context, path string, query url.Values) (ListResult, error) {
	var res ListResult
	if err := s.Get(ctx, path, query, &res); err != nil {
		return ListResult{}, err
	}
	if res.Total == 0 {
		res.Total = len(res.Data)
	}
	if res.TotalPages == 0 && len(res.Data) > 0 {
		res.TotalPages = 1
	}
	return res, nil
}

// Fetch reads one record.
func (s *Session) Fetch(ctx context.Context, path string) (models.Resource, error) {
	var res ItemResult
	if err := s.Get(ctx, path, nil, &res); err != nil {
		return models.Resource{}, err
	}
	return res.Data, nil
}

// Create POSTs a new record.
func (s *Session) Create(ctx context.Context, path string, body *Body) (models.Resource, error) {
	var res ItemResult
	if err := s.Post(ctx, path, body, &res); err != nil {
		return models.Resource{}, err
	}
	return res.Data, nil
}

// Update PUTs a record.
func (s *Session) Update(ctx context.Context, path string, body *Body) (models.Resource, error) {
	var res ItemResult
	if err := s.Put(ctx, path, body, &res); err != nil {
		return models.Resource{}, err
	}
	return res.Data, nil
}

// Remove DELETEs a record.
func (s *Session) Remove(ctx context.Context, path string) error {
	var res StatusResult
	return s.Delete(ctx, path, &res)
}

// Login exchanges admin credentials for a bearer token and profile.
func (s *Session) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	body := NewBody().Set("username", username).Set("password", password)
	var res models.LoginResult
	if err := s.Post(ctx, "/admin/login", body, &res); err != nil {
		return models.LoginResult{}, err
	}
	return res, nil
}
