package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/http/middleware"
	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/query"
	"github.com/nurpe/contracts-service/internal/reference"
	"github.com/nurpe/contracts-service/internal/repository"
	"github.com/nurpe/contracts-service/internal/service"
)

type Services struct {
	Contracts     *service.ContractService
	ContractTypes *service.ContractTypeService
	Files         *service.ContractFileService
	Relations     *service.RelationService
	LegalEntities *service.LegalEntityService
	Exports       *service.ExportService
}

type Handler struct {
	contracts     *service.ContractService
	contractTypes *service.ContractTypeService
	files         *service.ContractFileService
	relations     *service.RelationService
	legalEntities *service.LegalEntityService
	exports       *service.ExportService
	log           zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	initValidation()
	return &Handler{
		contracts:     services.Contracts,
		contractTypes: services.ContractTypes,
		files:         services.Files,
		relations:     services.Relations,
		legalEntities: services.LegalEntities,
		exports:       services.Exports,
		log:           log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api")
	api.Use(authMiddleware)

	contracts := api.Group("/contracts")
	contracts.POST("/add", middleware.RequirePermission("add_contract"), h.createContract)
	contracts.GET("/all", middleware.RequirePermission("get_all_contracts"), h.listContracts)
	contracts.GET("/export", middleware.RequirePermission("export_contracts"), h.exportContracts)
	contracts.PATCH("/:id", middleware.RequirePermission("edit_contract"), h.updateContract)
	contracts.DELETE("/:id", middleware.RequirePermission("delete_contract"), h.deleteContract)
	contracts.GET("/:id", middleware.RequirePermission("view_contract"), h.getContract)

	files := contracts.Group("/files")
	files.POST("/add", middleware.RequirePermission("add_contract_file"), h.createContractFile)
	files.GET("/all", middleware.RequirePermission("get_all_contract_files"), h.listContractFiles)
	files.PATCH("/:file_id", middleware.RequirePermission("edit_contract_file"), h.updateContractFile)
	files.DELETE("/:file_id", middleware.RequirePermission("delete_contract_file"), h.deleteContractFile)
	files.GET("/:file_id/download", middleware.RequirePermission("download_contract_file"), h.downloadContractFile)
	files.GET("/:file_id", middleware.RequirePermission("view_contract_file"), h.getContractFile)

	api.GET("/contract-types/all", h.listContractTypes)

	relations := api.Group("/entity-company-relations")
	relations.POST("/add", middleware.RequirePermission("add_legal_entity_company_relation"), h.createRelation)
	relations.GET("/all", middleware.RequirePermission("get_all_legal_entity_company_relations"), h.listRelations)
	relations.PATCH("/:id", middleware.RequirePermission("edit_legal_entity_company_relation"), h.updateRelation)
	relations.DELETE("/:id", middleware.RequirePermission("delete_legal_entity_company_relation"), h.deleteRelation)
	relations.GET("/:id", middleware.RequirePermission("view_legal_entity_company_relation"), h.getRelation)

	entities := api.Group("/legal-entities")
	entities.POST("/add-by-inn", middleware.RequirePermission("add_legal_entity_by_inn"), h.addLegalEntityByINN)
	entities.GET("/all", middleware.RequirePermission("get_all_legal_entities"), h.listLegalEntities)
	entities.GET("/get-buyers", middleware.RequirePermission("get_buyers"), h.listBuyers)
	entities.GET("/get-sellers", middleware.RequirePermission("get_sellers"), h.listSellers)
	entities.GET("/get-by-company", middleware.RequirePermission("get_by_company"), h.listLegalEntitiesByCompany)
	entities.GET("/inn-kpp", h.legalEntityByINNKPP)
	entities.PATCH("/:id", middleware.RequirePermission("edit_legal_entity"), h.updateLegalEntity)
	entities.DELETE("/:id", middleware.RequirePermission("delete_legal_entity"), h.deleteLegalEntity)
	entities.GET("/:id", middleware.RequirePermission("view_legal_entity"), h.getLegalEntity)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var upstream *reference.Error
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, query.ErrInvalidParam):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		if upstream.Status >= http.StatusInternalServerError {
			h.requestLog(c).Warn().Err(err).Int("status", upstream.Status).Msg("reference service failed")
		}
		c.JSON(upstream.Status, gin.H{"error": upstream.Message})
	default:
		h.requestLog(c).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requestLog prefers the request-scoped logger installed by logger.RequestLogger.
func (h *Handler) requestLog(c *gin.Context) *zerolog.Logger {
	if log := zerolog.Ctx(c.Request.Context()); log.GetLevel() != zerolog.Disabled {
		return log
	}
	return &h.log
}

func principal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return p, ok
}
