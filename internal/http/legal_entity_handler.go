package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
)

type addLegalEntityRequest struct {
	INN          string    `json:"inn" binding:"required"`
	KPP          string    `json:"kpp"`
	CompanyID    uuid.UUID `json:"company_id" binding:"required"`
	RelationType string    `json:"relation_type" binding:"required,max=10"`
	Description  *string   `json:"description"`
}

func (h *Handler) addLegalEntityByINN(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req addLegalEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	body, err := h.legalEntities.AddByINN(c.Request.Context(), p, model.LegalEntityCreate{
		INN:          req.INN,
		KPP:          req.KPP,
		CompanyID:    req.CompanyID,
		Description:  req.Description,
		RelationType: req.RelationType,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", body)
}

func (h *Handler) updateLegalEntity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.legalEntities.Update(c.Request.Context(), p, id, json.RawMessage(body))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", updated)
}

func (h *Handler) deleteLegalEntity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.legalEntities.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getLegalEntity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	body, err := h.legalEntities.Get(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// listLegalEntities forwards the caller's query string; company_id is overridden for company members.
func (h *Handler) listLegalEntities(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respondList(c, func() (model.LegalEntityList, error) {
		return h.legalEntities.List(c.Request.Context(), p, c.Request.URL.RawQuery)
	})
}

func (h *Handler) listBuyers(c *gin.Context) {
	h.listByRelationType(c, model.RelationTypeBuyer)
}

func (h *Handler) listSellers(c *gin.Context) {
	h.listByRelationType(c, model.RelationTypeSeller)
}

func (h *Handler) listByRelationType(c *gin.Context, relationType string) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respondList(c, func() (model.LegalEntityList, error) {
		return h.legalEntities.ByRelationType(c.Request.Context(), p, relationType)
	})
}

func (h *Handler) listLegalEntitiesByCompany(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id must be a uuid"})
		return
	}
	h.respondList(c, func() (model.LegalEntityList, error) {
		return h.legalEntities.ByCompany(c.Request.Context(), p, companyID)
	})
}

func (h *Handler) legalEntityByINNKPP(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	body, err := h.legalEntities.ByINNKPP(c.Request.Context(), p, c.Query("inn"), c.Query("kpp"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h *Handler) respondList(c *gin.Context, fetch func() (model.LegalEntityList, error)) {
	list, err := fetch()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
