// Package reference talks to the legal-entity reference service.
package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nurpe/contracts-service/internal/model"
)

const legalEntitiesPath = "/api/legal-entities"

// Error is a failed call to the reference service. Status is the upstream
// HTTP status, or 502 when the service could not be reached.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("reference service: %d %s", e.Status, e.Message)
}

// Call carries the caller identity that is forwarded upstream.
type Call struct {
	Token     string
	CompanyID uuid.UUID
	// RawQuery is appended as-is before company_id is added.
	RawQuery string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// AddByINN registers a legal entity by its tax id and returns the raw created body.
func (c *Client) AddByINN(ctx context.Context, call Call, body model.LegalEntityCreate) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPost, legalEntitiesPath+"/add-by-inn", call, body, &out, http.StatusOK, http.StatusCreated)
	return out, err
}

func (c *Client) Get(ctx context.Context, call Call, id uuid.UUID) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, legalEntitiesPath+"/"+id.String(), call, nil, &out, http.StatusOK)
	return out, err
}

// Update forwards a partial update body untouched.
func (c *Client) Update(ctx context.Context, call Call, id uuid.UUID, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodPatch, legalEntitiesPath+"/"+id.String(), call, body, &out, http.StatusOK)
	return out, err
}

func (c *Client) Delete(ctx context.Context, call Call, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, legalEntitiesPath+"/"+id.String(), call, nil, nil, http.StatusNoContent)
}

func (c *Client) List(ctx context.Context, call Call) (model.LegalEntityList, error) {
	var out model.LegalEntityList
	err := c.do(ctx, http.MethodGet, legalEntitiesPath+"/all", call, nil, &out, http.StatusOK)
	return normalize(out), err
}

func (c *Client) ByIDs(ctx context.Context, call Call, ids []uuid.UUID) (model.LegalEntityList, error) {
	payload := struct {
		IDs []uuid.UUID `json:"ids"`
	}{IDs: ids}

	var out model.LegalEntityList
	err := c.do(ctx, http.MethodPost, legalEntitiesPath+"/by-ids", call, payload, &out, http.StatusOK)
	return normalize(out), err
}

func (c *Client) ByINNKPP(ctx context.Context, call Call, inn, kpp string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("inn", inn)
	if kpp != "" {
		params.Set("kpp", kpp)
	}
	call.RawQuery = params.Encode()

	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, legalEntitiesPath+"/inn-kpp", call, nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, call Call, in, out any, expected ...int) error {
	target, err := c.buildURL(path, call)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Status: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: http.StatusBadGateway, Message: "read response: " + err.Error()}
	}

	if !statusIn(resp.StatusCode, expected) {
		return &Error{Status: resp.StatusCode, Message: upstreamMessage(raw, resp.Status)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: http.StatusBadGateway, Message: "decode response: " + err.Error()}
	}
	return nil
}

func (c *Client) buildURL(path string, call Call) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	params, err := url.ParseQuery(call.RawQuery)
	if err != nil {
		return "", fmt.Errorf("parse query: %w", err)
	}
	if call.CompanyID != uuid.Nil {
		params.Set("company_id", call.CompanyID.String())
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func statusIn(status int, expected []int) bool {
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}

// upstreamMessage extracts {"detail": ...} or {"error": ...} from an error body.
func upstreamMessage(raw []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if len(payload.Detail) > 0 {
			var text string
			if err := json.Unmarshal(payload.Detail, &text); err == nil {
				return text
			}
			return string(payload.Detail)
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return fallback
}

func normalize(list model.LegalEntityList) model.LegalEntityList {
	if list.Entities == nil {
		list.Entities = []json.RawMessage{}
	}
	return list
}

// IsStatus reports whether err is a reference Error with the given status.
func IsStatus(err error, status int) bool {
	var refErr *Error
	return errors.As(err, &refErr) && refErr.Status == status
}
