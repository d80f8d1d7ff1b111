package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/repository"
	"github.com/nurpe/contracts-service/internal/service"
)

type createRelationRequest struct {
	CompanyID     uuid.UUID `json:"company_id" binding:"required"`
	LegalEntityID uuid.UUID `json:"legal_entity_id" binding:"required"`
	RelationType  string    `json:"relation_type" binding:"required,max=10"`
	Description   *string   `json:"description"`
}

type updateRelationRequest struct {
	CompanyID     *uuid.UUID `json:"company_id"`
	LegalEntityID *uuid.UUID `json:"legal_entity_id"`
	RelationType  *string    `json:"relation_type" binding:"omitempty,max=10"`
	Description   *string    `json:"description"`
}

func (h *Handler) createRelation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	relation, err := h.relations.Create(c.Request.Context(), p, service.CreateRelationInput{
		CompanyID:     req.CompanyID,
		LegalEntityID: req.LegalEntityID,
		RelationType:  req.RelationType,
		Description:   req.Description,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.requestLog(c).Info().
		Str("relation_id", relation.ID.String()).
		Str("relation_type", relation.RelationType).
		Msg("entity company relation recorded")
	c.JSON(http.StatusCreated, gin.H{"entity_company_relation_id": relation.ID})
}

func (h *Handler) updateRelation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	relation, err := h.relations.Update(c.Request.Context(), p, id, model.RelationPatch{
		CompanyID:     req.CompanyID,
		LegalEntityID: req.LegalEntityID,
		RelationType:  req.RelationType,
		Description:   req.Description,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity_company_relation_id": relation.ID})
}

func (h *Handler) deleteRelation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.relations.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getRelation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	relation, err := h.relations.Get(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRelationResponse(*relation))
}

func (h *Handler) listRelations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	legalEntityID, err := optionalUUID(c.Query("legal_entity_id"), "legal_entity_id")
	if err != nil {
		h.handleError(c, err)
		return
	}
	companyID, err := optionalUUID(c.Query("company_id"), "company_id")
	if err != nil {
		h.handleError(c, err)
		return
	}
	sort, page, err := listParams(c, repository.RelationSortFields, repository.RelationDefaultSort)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filter := model.RelationFilter{
		LegalEntityID: legalEntityID,
		CompanyID:     companyID,
		RelationType:  c.Query("relation_type"),
		Description:   c.Query("description"),
	}
	result, err := h.relations.List(c.Request.Context(), p, filter, sort, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, relationListResponse{
		Total:     result.Total,
		Relations: mapItems(result.Items, toRelationResponse),
	})
}
