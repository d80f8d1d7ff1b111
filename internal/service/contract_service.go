package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
)

type ContractStore interface {
	Create(ctx context.Context, contract *model.Contract) error
	Get(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ContractFilter, sort query.Sort, page query.Page) (query.Result[model.Contract], error)
	ListAll(ctx context.Context, filter model.ContractFilter, sort query.Sort, limit int) ([]model.Contract, error)
}

type ContractTypeLookup interface {
	Get(ctx context.Context, id string) (*model.ContractType, error)
}

type ContractService struct {
	contracts ContractStore
	types     ContractTypeLookup
}

func NewContractService(contracts ContractStore, types ContractTypeLookup) *ContractService {
	return &ContractService{contracts: contracts, types: types}
}

type CreateContractInput struct {
	Name           string
	Number         string
	Date           time.Time
	BuyerID        uuid.UUID
	SellerID       uuid.UUID
	ContractTypeID string
	CompanyID      uuid.UUID
	ResponsibleID  uuid.UUID
}

func (s *ContractService) Create(ctx context.Context, p model.Principal, input CreateContractInput) (*model.Contract, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Number) == "" {
		return nil, fmt.Errorf("%w: contract_name and contract_number are required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := ensureCompany(p, input.CompanyID); err != nil {
		return nil, err
	}
	if err := s.ensureType(ctx, input.ContractTypeID); err != nil {
		return nil, err
	}

	contract := &model.Contract{
		ID:             uuid.New(),
		Number:         strings.TrimSpace(input.Number),
		Name:           strings.TrimSpace(input.Name),
		Date:           dateOnly(input.Date),
		BuyerID:        input.BuyerID,
		SellerID:       input.SellerID,
		CompanyID:      input.CompanyID,
		ResponsibleID:  input.ResponsibleID,
		ContractTypeID: input.ContractTypeID,
		CreatedBy:      p.UserID,
		ModifiedBy:     p.UserID,
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Update applies only the supplied fields and stamps the editor.
func (s *ContractService) Update(ctx context.Context, p model.Principal, id uuid.UUID, patch model.ContractPatch) (*model.Contract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	if err := ensureCompany(p, contract.CompanyID); err != nil {
		return nil, err
	}

	if patch.ContractTypeID != nil {
		if err := s.ensureType(ctx, *patch.ContractTypeID); err != nil {
			return nil, err
		}
		contract.ContractTypeID = *patch.ContractTypeID
	}
	if patch.CompanyID != nil {
		if err := ensureCompany(p, *patch.CompanyID); err != nil {
			return nil, err
		}
		contract.CompanyID = *patch.CompanyID
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: contract_name must not be empty", ErrInvalidInput)
		}
		contract.Name = name
	}
	if patch.Number != nil {
		number := strings.TrimSpace(*patch.Number)
		if number == "" {
			return nil, fmt.Errorf("%w: contract_number must not be empty", ErrInvalidInput)
		}
		contract.Number = number
	}
	if patch.Date != nil {
		contract.Date = dateOnly(*patch.Date)
	}
	if patch.BuyerID != nil {
		contract.BuyerID = *patch.BuyerID
	}
	if patch.SellerID != nil {
		contract.SellerID = *patch.SellerID
	}
	if patch.ResponsibleID != nil {
		contract.ResponsibleID = *patch.ResponsibleID
	}
	contract.ModifiedBy = p.UserID

	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Delete removes the contract and its file rows; stored objects are kept.
func (s *ContractService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return notFound(err, "contract")
	}
	if err := ensureCompany(p, contract.CompanyID); err != nil {
		return err
	}
	return notFound(s.contracts.Delete(ctx, id), "contract")
}

func (s *ContractService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Contract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract")
	}
	if err := ensureCompany(p, contract.CompanyID); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, p model.Principal, filter model.ContractFilter, sort query.Sort, page query.Page) (query.Result[model.Contract], error) {
	scope, err := listScope(p)
	if err != nil {
		return query.Result[model.Contract]{}, err
	}
	filter.CompanyID = scope
	return s.contracts.List(ctx, filter, sort, page)
}

func (s *ContractService) ensureType(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: contract_type_id is required", ErrInvalidInput)
	}
	if _, err := s.types.Get(ctx, id); err != nil {
		return notFound(err, "contract type")
	}
	return nil
}

func dateOnly(value time.Time) time.Time {
	y, m, d := value.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
