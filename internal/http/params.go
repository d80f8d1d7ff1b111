package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/contracts-service/internal/query"
	"github.com/nurpe/contracts-service/internal/service"
)

const dateLayout = "2006-01-02"

// pathUUID parses a path parameter and answers 400 when it is not a uuid.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

// listParams reads sort_by, order, page and page_size; failures wrap query.ErrInvalidParam.
func listParams(c *gin.Context, fields query.SortFields, defaultSort string) (query.Sort, query.Page, error) {
	sort, err := query.ParseSort(c.Query("sort_by"), c.Query("order"), fields, defaultSort)
	if err != nil {
		return query.Sort{}, query.Page{}, err
	}
	page, err := query.ParsePage(c.Query("page"), c.Query("page_size"))
	if err != nil {
		return query.Sort{}, query.Page{}, err
	}
	return sort, page, nil
}

func optionalUUID(raw, name string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, name)
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", service.ErrInvalidInput)
	}
	return parsed, nil
}

// canonicalNumber accepts only integers and returns their decimal form.
func canonicalNumber(raw string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: contract_number must be an integer", service.ErrInvalidInput)
	}
	return strconv.FormatInt(n, 10), nil
}
