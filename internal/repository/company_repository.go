package repository

import (
	"context"

	"jobnest/internal/domain/company"
	"jobnest/internal/infrastructure/httpapi"
)

type CompanyRepository interface {
	Top(ctx context.Context) ([]company.Company, error)
}

type HTTPCompanyRepository struct {
	api *httpapi.Client
}

func NewHTTPCompanyRepository(api *httpapi.Client) *HTTPCompanyRepository {
	return &HTTPCompanyRepository{api: api}
}

func (r *HTTPCompanyRepository) Top(ctx context.Context) ([]company.Company, error) {
	out := make([]company.Company, 0)
	err := r.api.Get(ctx, "/companies/top", nil, &out)
	return out, err
}
