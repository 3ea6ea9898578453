package usecase

import (
	"context"
	"sort"

	"jobnest/internal/domain/company"
	"jobnest/internal/repository"
)

type CompanyUsecase struct {
	companies repository.CompanyRepository
}

func NewCompanyUsecase(companies repository.CompanyRepository) *CompanyUsecase {
	return &CompanyUsecase{companies: companies}
}

// Top returns up to limit companies, most open positions first.
func (u *CompanyUsecase) Top(ctx context.Context, limit int) ([]company.Company, error) {
	list, err := u.companies.Top(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OpenPositions > list[j].OpenPositions
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return nonNil(list), nil
}
