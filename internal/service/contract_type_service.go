package service

import (
	"context"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

type ContractTypeStore interface {
	List(ctx context.Context, filter model.ContractTypeFilter, sort query.Sort, page query.Page) (query.Result[model.ContractType], error)
}

type ContractTypeService struct {
	types ContractTypeStore
}

func NewContractTypeService(types ContractTypeStore) *ContractTypeService {
	return &ContractTypeService{types: types}
}

func (s *ContractTypeService) List(ctx context.Context, filter model.ContractTypeFilter, sort query.Sort, page query.Page) (query.Result[model.ContractType], error) {
	return s.types.List(ctx, filter, sort, page)
}
