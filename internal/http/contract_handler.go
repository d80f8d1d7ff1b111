package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/repository"
	"github.com/nurpe/contracts-service/internal/service"
)

type createContractRequest struct {
	ContractName   string    `json:"contract_name" binding:"required,min=3,max=100"`
	ContractNumber string    `json:"contract_number" binding:"required"`
	Date           string    `json:"date" binding:"required,datetime=2006-01-02"`
	BuyerID        uuid.UUID `json:"buyer_id" binding:"required"`
	SellerID       uuid.UUID `json:"seller_id" binding:"required"`
	ContractTypeID string    `json:"contract_type_id" binding:"required"`
	CompanyID      uuid.UUID `json:"company_id" binding:"required"`
	ResponsibleID  uuid.UUID `json:"responsible_id" binding:"required"`
}

type updateContractRequest struct {
	ContractName   *string    `json:"contract_name" binding:"omitempty,min=3,max=100"`
	ContractNumber *string    `json:"contract_number"`
	Date           *string    `json:"date" binding:"omitempty,datetime=2006-01-02"`
	BuyerID        *uuid.UUID `json:"buyer_id"`
	SellerID       *uuid.UUID `json:"seller_id"`
	ContractTypeID *string    `json:"contract_type_id"`
	CompanyID      *uuid.UUID `json:"company_id"`
	ResponsibleID  *uuid.UUID `json:"responsible_id"`
}

func (h *Handler) createContract(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.handleError(c, err)
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), p, service.CreateContractInput{
		Name:           req.ContractName,
		Number:         req.ContractNumber,
		Date:           date,
		BuyerID:        req.BuyerID,
		SellerID:       req.SellerID,
		ContractTypeID: req.ContractTypeID,
		CompanyID:      req.CompanyID,
		ResponsibleID:  req.ResponsibleID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract_id": contract.ID})
}

func (h *Handler) updateContract(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	patch := model.ContractPatch{
		Name:           req.ContractName,
		Number:         req.ContractNumber,
		BuyerID:        req.BuyerID,
		SellerID:       req.SellerID,
		ContractTypeID: req.ContractTypeID,
		CompanyID:      req.CompanyID,
		ResponsibleID:  req.ResponsibleID,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			h.handleError(c, err)
			return
		}
		patch.Date = &date
	}

	contract, err := h.contracts.Update(c.Request.Context(), p, id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract_id": contract.ID})
}

func (h *Handler) deleteContract(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.contracts.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getContract(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) listContracts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, err := contractFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sort, page, err := listParams(c, repository.ContractSortFields, repository.ContractDefaultSort)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.contracts.List(c.Request.Context(), p, filter, sort, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractListResponse{
		Total:     result.Total,
		Contracts: mapItems(result.Items, toContractResponse),
	})
}

func (h *Handler) exportContracts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	format, err := model.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := contractFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sort, _, err := listParams(c, repository.ContractSortFields, repository.ContractDefaultSort)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.exports.ExportContracts(c.Request.Context(), p, filter, sort, format)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// contractFilter reads contract_name, contract_number and date; malformed values are 400.
func contractFilter(c *gin.Context) (model.ContractFilter, error) {
	filter := model.ContractFilter{Name: c.Query("contract_name")}
	if raw := c.Query("contract_number"); raw != "" {
		number, err := canonicalNumber(raw)
		if err != nil {
			return filter, err
		}
		filter.Number = number
	}
	if raw := c.Query("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}
	return filter, nil
}
