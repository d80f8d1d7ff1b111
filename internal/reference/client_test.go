package reference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/model"
)

func TestByIDsForwardsTokenQueryAndBody(t *testing.T) {
	company := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/legal-entities/by-ids", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, company.String(), r.URL.Query().Get("company_id"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		var body struct {
			IDs []uuid.UUID `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ids, body.IDs)

		_, _ = io.WriteString(w, `{"total":2,"entities":[{"legal_entity_id":"a"},{"legal_entity_id":"b"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)
	list, err := client.ByIDs(context.Background(), Call{Token: "tkn", CompanyID: company, RawQuery: "page=2"}, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Entities, 2)
}

func TestListWithoutCompanyOmitsParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/legal-entities/all", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("company_id"))
		_, _ = io.WriteString(w, `{"total":0}`)
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, time.Second).List(context.Background(), Call{Token: "t"})
	require.NoError(t, err)
	assert.NotNil(t, list.Entities)
	assert.Empty(t, list.Entities)
}

func TestUpstreamErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"detail":"entity already exists"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).AddByINN(context.Background(), Call{}, model.LegalEntityCreate{INN: "7700000000"})
	var refErr *Error
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, http.StatusConflict, refErr.Status)
	assert.Equal(t, "entity already exists", refErr.Message)
	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestDeleteRequiresNoContent(t *testing.T) {
	for _, tc := range []struct {
		status int
		ok     bool
	}{
		{http.StatusNoContent, true},
		{http.StatusOK, false},
		{http.StatusNotFound, false},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(tc.status)
		}))

		err := NewClient(srv.URL, time.Second).Delete(context.Background(), Call{}, uuid.New())
		if tc.ok {
			assert.NoError(t, err)
		} else {
			assert.True(t, IsStatus(err, tc.status), "status %d", tc.status)
		}
		srv.Close()
	}
}

func TestTransportFailureIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr, time.Second).Get(context.Background(), Call{}, uuid.New())
	assert.True(t, IsStatus(err, http.StatusBadGateway))
}

func TestAddByINNOmitsRelationType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NotContains(t, string(raw), "relation_type")
		assert.Contains(t, string(raw), `"inn":"7700000000"`)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"legal_entity_id":"`+uuid.NewString()+`"}`)
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL, time.Second).AddByINN(context.Background(), Call{}, model.LegalEntityCreate{
		INN: "7700000000", CompanyID: uuid.New(), RelationType: model.RelationTypeBuyer,
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "legal_entity_id")
}

func TestByINNKPPQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/legal-entities/inn-kpp", r.URL.Path)
		assert.Equal(t, "7700000000", r.URL.Query().Get("inn"))
		assert.Equal(t, "770001001", r.URL.Query().Get("kpp"))
		_, _ = io.WriteString(w, `{"short_name":"ACME"}`)
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL, time.Second).ByINNKPP(context.Background(), Call{Token: "t"}, "7700000000", "770001001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"short_name":"ACME"}`, string(body))
}
