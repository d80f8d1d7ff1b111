package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/reference"
)

type ReferenceClient interface {
	AddByINN(ctx context.Context, call reference.Call, body model.LegalEntityCreate) (json.RawMessage, error)
	Get(ctx context.Context, call reference.Call, id uuid.UUID) (json.RawMessage, error)
	Update(ctx context.Context, call reference.Call, id uuid.UUID, body json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, call reference.Call, id uuid.UUID) error
	List(ctx context.Context, call reference.Call) (model.LegalEntityList, error)
	ByIDs(ctx context.Context, call reference.Call, ids []uuid.UUID) (model.LegalEntityList, error)
	ByINNKPP(ctx context.Context, call reference.Call, inn, kpp string) (json.RawMessage, error)
}

// LegalEntityService proxies the reference service and scopes it by local relations.
type LegalEntityService struct {
	reference ReferenceClient
	store     RelationStore
	relations *RelationService
	log       zerolog.Logger
}

func NewLegalEntityService(client ReferenceClient, store RelationStore, log zerolog.Logger) *LegalEntityService {
	return &LegalEntityService{
		reference: client,
		store:     store,
		relations: NewRelationService(store),
		log:       log,
	}
}

// AddByINN creates the entity remotely, then records the caller's relation to it.
func (s *LegalEntityService) AddByINN(ctx context.Context, p model.Principal, input model.LegalEntityCreate) (json.RawMessage, error) {
	if strings.TrimSpace(input.INN) == "" {
		return nil, fmt.Errorf("%w: inn is required", ErrInvalidInput)
	}
	if err := ensureCompany(p, input.CompanyID); err != nil {
		return nil, err
	}
	if err := validateRelationType(input.RelationType); err != nil {
		return nil, err
	}

	body, err := s.reference.AddByINN(ctx, reference.Call{Token: p.Token}, input)
	if err != nil {
		return nil, err
	}

	var created struct {
		LegalEntityID uuid.UUID `json:"legal_entity_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.LegalEntityID == uuid.Nil {
		return nil, &reference.Error{Status: http.StatusBadGateway, Message: "response has no legal_entity_id"}
	}

	relation, err := s.relations.ensure(ctx, CreateRelationInput{
		CompanyID:     input.CompanyID,
		LegalEntityID: created.LegalEntityID,
		RelationType:  input.RelationType,
		Description:   input.Description,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("relation_id", relation.ID.String()).
		Str("relation_type", relation.RelationType).
		Str("legal_entity_id", relation.LegalEntityID.String()).
		Msg("legal entity relation recorded")
	return body, nil
}

func (s *LegalEntityService) Get(ctx context.Context, p model.Principal, id uuid.UUID) (json.RawMessage, error) {
	if err := s.ensureRelated(ctx, p, id); err != nil {
		return nil, err
	}
	return s.reference.Get(ctx, scopedCall(p), id)
}

func (s *LegalEntityService) Update(ctx context.Context, p model.Principal, id uuid.UUID, body json.RawMessage) (json.RawMessage, error) {
	if err := s.ensureRelated(ctx, p, id); err != nil {
		return nil, err
	}
	return s.reference.Update(ctx, scopedCall(p), id, body)
}

func (s *LegalEntityService) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if err := s.ensureRelated(ctx, p, id); err != nil {
		return err
	}
	return s.reference.Delete(ctx, scopedCall(p), id)
}

// List returns every entity for superadmins and the related entities otherwise.
// rawQuery carries the caller's filters to the reference service.
func (s *LegalEntityService) List(ctx context.Context, p model.Principal, rawQuery string) (model.LegalEntityList, error) {
	if p.IsSuperadmin {
		return s.reference.List(ctx, reference.Call{Token: p.Token, RawQuery: rawQuery})
	}
	company, err := listScope(p)
	if err != nil {
		return model.LegalEntityList{}, err
	}
	ids, err := s.store.LegalEntityIDs(ctx, model.RelationLookup{CompanyID: company})
	if err != nil {
		return model.LegalEntityList{}, err
	}
	return s.byIDs(ctx, reference.Call{Token: p.Token, CompanyID: company, RawQuery: rawQuery}, ids)
}

// ByRelationType lists buyers or sellers of the caller's company.
// A superadmin without a company sees the relations of all companies.
func (s *LegalEntityService) ByRelationType(ctx context.Context, p model.Principal, relationType string) (model.LegalEntityList, error) {
	company := p.CompanyID
	if !p.IsSuperadmin {
		scope, err := listScope(p)
		if err != nil {
			return model.LegalEntityList{}, err
		}
		company = scope
	}
	ids, err := s.store.LegalEntityIDs(ctx, model.RelationLookup{CompanyID: company, RelationType: relationType})
	if err != nil {
		return model.LegalEntityList{}, err
	}
	return s.byIDs(ctx, reference.Call{Token: p.Token}, ids)
}

func (s *LegalEntityService) ByCompany(ctx context.Context, p model.Principal, companyID uuid.UUID) (model.LegalEntityList, error) {
	if companyID == uuid.Nil {
		return model.LegalEntityList{}, fmt.Errorf("%w: company_id is required", ErrInvalidInput)
	}
	if err := ensureCompany(p, companyID); err != nil {
		return model.LegalEntityList{}, err
	}
	ids, err := s.store.LegalEntityIDs(ctx, model.RelationLookup{CompanyID: companyID})
	if err != nil {
		return model.LegalEntityList{}, err
	}
	return s.byIDs(ctx, reference.Call{Token: p.Token}, ids)
}

func (s *LegalEntityService) ByINNKPP(ctx context.Context, p model.Principal, inn, kpp string) (json.RawMessage, error) {
	if strings.TrimSpace(inn) == "" {
		return nil, fmt.Errorf("%w: inn is required", ErrInvalidInput)
	}
	return s.reference.ByINNKPP(ctx, reference.Call{Token: p.Token}, strings.TrimSpace(inn), strings.TrimSpace(kpp))
}

func (s *LegalEntityService) byIDs(ctx context.Context, call reference.Call, ids []uuid.UUID) (model.LegalEntityList, error) {
	if len(ids) == 0 {
		return model.LegalEntityList{Total: 0, Entities: []json.RawMessage{}}, nil
	}
	return s.reference.ByIDs(ctx, call, ids)
}

func (s *LegalEntityService) ensureRelated(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if p.IsSuperadmin {
		return nil
	}
	company, err := listScope(p)
	if err != nil {
		return err
	}
	ok, err := s.store.Exists(ctx, company, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: legal entity is not related to your company", ErrPermissionDenied)
	}
	return nil
}

func scopedCall(p model.Principal) reference.Call {
	return reference.Call{Token: p.Token, CompanyID: p.CompanyID}
}
