package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/model"
	"github.com/nurpe/contracts-service/internal/repository"
	"github.com/nurpe/contracts-service/internal/service"
)

const (
	minFileNameLength = 3
	maxFileNameLength = 100
)

func (h *Handler) createContractFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(strings.TrimSpace(c.PostForm("contract_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contract_id is required"})
		return
	}
	name, err := formFileName(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	upload, err := formUpload(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if upload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := h.files.Create(c.Request.Context(), p, service.CreateContractFileInput{
		ContractID: contractID,
		Name:       name,
		Upload:     *upload,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract_file_id": file.ID})
}

func (h *Handler) updateContractFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "file_id")
	if !ok {
		return
	}

	var input service.UpdateContractFileInput
	if raw := strings.TrimSpace(c.PostForm("contract_id")); raw != "" {
		contractID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract_id"})
			return
		}
		input.ContractID = &contractID
	}
	name, err := formFileName(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	input.Name = name
	if input.Upload, err = formUpload(c); err != nil {
		h.handleError(c, err)
		return
	}

	file, err := h.files.Update(c.Request.Context(), p, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract_file_id": file.ID})
}

func (h *Handler) deleteContractFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "file_id")
	if !ok {
		return
	}
	if err := h.files.Delete(c.Request.Context(), p, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getContractFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "file_id")
	if !ok {
		return
	}
	file, err := h.files.Get(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractFileResponse(*file))
}

func (h *Handler) downloadContractFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "file_id")
	if !ok {
		return
	}
	url, err := h.files.DownloadURL(c.Request.Context(), p, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) listContractFiles(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	contractID, err := optionalUUID(c.Query("contract_id"), "contract_id")
	if err != nil {
		h.handleError(c, err)
		return
	}
	sort, page, err := listParams(c, repository.ContractFileSortFields, repository.ContractFileDefaultSort)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filter := model.ContractFileFilter{Name: c.Query("contract_file_name"), ContractID: contractID}
	result, err := h.files.List(c.Request.Context(), p, filter, sort, page)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractFileListResponse{
		Total:         result.Total,
		ContractFiles: mapItems(result.Items, toContractFileResponse),
	})
}

// formFileName returns the optional contract_file_name field.
func formFileName(c *gin.Context) (*string, error) {
	raw, ok := c.GetPostForm("contract_file_name")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < minFileNameLength || n > maxFileNameLength {
		return nil, fmt.Errorf("%w: contract_file_name must be %d..%d characters", service.ErrInvalidInput, minFileNameLength, maxFileNameLength)
	}
	return &name, nil
}

// formUpload reads the optional "file" part fully into memory; nil means no file was sent.
func formUpload(c *gin.Context) (*model.Upload, error) {
	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: file could not be read", service.ErrInvalidInput)
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &model.Upload{Filename: header.Filename, Data: data}, nil
}
