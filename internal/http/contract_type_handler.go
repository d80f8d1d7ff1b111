package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/repository"
)

func (h *Handler) listContractTypes(c *gin.Context) {
	sort, page, err := listParams(c, repository.ContractTypeSortFields, repository.ContractTypeDefaultSort)
	if err != nil {
		h.handleError(c, err)
		return
	}
	filter := model.ContractTypeFilter{Name: c.Query("contract_type_name")}

	result, err := h.contractTypes.List(c.Request.Context(), filter, sort, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractTypeListResponse{
		Total: result.Total,
		ContractTypes: mapItems(result.Items, func(t model.ContractType) contractTypeResponse {
			return contractTypeResponse{ContractTypeID: t.ID, ContractTypeName: t.Name, Colour: t.Colour}
		}),
	})
}
