package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teebay-client/internal/domain"
	"teebay-client/internal/store"
)

type capturedRequest struct {
	query         string
	variables     map[string]any
	authorization string
	requestID     string
}

// newGraphQLServer returns an httptest server that records the incoming
// request and answers with the given data payload per root field.
func newGraphQLServer(t *testing.T, data map[string]any) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		captured = append(captured, capturedRequest{
			query:         body.Query,
			variables:     body.Variables,
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get("X-Request-Id"),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@teebay.test",
		"exp": time.Now().Add(ttl).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestFetchPage(t *testing.T) {
	rent := 12.5
	perHour := domain.RentPerHour
	srv, captured := newGraphQLServer(t, map[string]any{
		"allProductsPaginated": map[string]any{
			"totalPages":    4,
			"totalElements": 38,
			"currentPage":   1,
			"products": []domain.Product{{
				ID:                 7,
				Title:              "cordless drill",
				Categories:         []string{"TOOLS"},
				Rent:               &rent,
				TypeOfRent:         &perHour,
				AvailabilityStatus: domain.StatusAvailable,
			}},
		},
	})

	session := NewSession(nil)
	session.SetToken(signedToken(t, time.Hour))
	c := NewClient(srv.URL, session, 0, nil)

	result, err := c.FetchPage(context.Background(), 1, 10, store.ScopeAll)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalPages)
	assert.Equal(t, 38, result.TotalElements)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(7), result.Items[0].ID)
	require.NotNil(t, result.Items[0].TypeOfRent)
	assert.Equal(t, domain.RentPerHour, *result.Items[0].TypeOfRent)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Contains(t, req.query, "allProductsPaginated")
	assert.Equal(t, float64(1), req.variables["page"])
	assert.Equal(t, float64(10), req.variables["size"])
	assert.True(t, strings.HasPrefix(req.authorization, "Bearer "))
	assert.NotEmpty(t, req.requestID)
}

func TestFetchPage_ScopeSelectsQuery(t *testing.T) {
	srv, captured := newGraphQLServer(t, map[string]any{
		"productsByUserPaginated": map[string]any{"totalPages": 1, "products": []domain.Product{}},
	})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	_, err := c.FetchPage(context.Background(), 0, 10, store.ScopeMine)
	require.NoError(t, err)
	assert.Contains(t, (*captured)[0].query, "productsByUserPaginated")

	_, err = c.FetchPage(context.Background(), 0, 10, store.Scope("bogus"))
	assert.Error(t, err)
}

func TestTokenReadAtCallTime(t *testing.T) {
	srv, captured := newGraphQLServer(t, map[string]any{
		"allProductsPaginated": map[string]any{"totalPages": 1, "products": []domain.Product{}},
	})
	session := NewSession(nil)
	c := NewClient(srv.URL, session, 0, nil)

	// First call: signed out, no bearer header.
	_, err := c.FetchPage(context.Background(), 0, 10, store.ScopeAll)
	require.NoError(t, err)
	assert.Empty(t, (*captured)[0].authorization)

	// Token set after client creation is picked up by the next call.
	session.SetToken(signedToken(t, time.Hour))
	_, err = c.FetchPage(context.Background(), 0, 10, store.ScopeAll)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix((*captured)[1].authorization, "Bearer "))
}

func TestSession_ExpiredTokenIsAbsent(t *testing.T) {
	session := NewSession(nil)
	session.SetToken(signedToken(t, -time.Minute))

	_, ok := session.CurrentToken()
	assert.False(t, ok)

	session.SetToken(signedToken(t, time.Hour))
	_, ok = session.CurrentToken()
	assert.True(t, ok)

	session.Clear()
	_, ok = session.CurrentToken()
	assert.False(t, ok)
}

func TestSubmitBooking(t *testing.T) {
	srv, captured := newGraphQLServer(t, map[string]any{
		"bookForRent": domain.MutationStatus{StatusCode: "200", StatusMessage: "Booked 2 hour(s); total rent: 25.00"},
	})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	status, err := c.SubmitBooking(context.Background(), 7, "2024-03-10 23:30:00", "2024-03-11 01:30:00", 2)
	require.NoError(t, err)
	assert.True(t, status.Success())

	vars := (*captured)[0].variables
	assert.Equal(t, "2024-03-10 23:30:00", vars["rentStart"])
	assert.Equal(t, "2024-03-11 01:30:00", vars["rentEnd"])
	assert.Equal(t, float64(2), vars["noOfHours"])
}

func TestDeleteProduct_StatusPassthrough(t *testing.T) {
	srv, _ := newGraphQLServer(t, map[string]any{
		"deleteProduct": domain.MutationStatus{StatusCode: "400", StatusMessage: "Product is currently rented"},
	})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	status, err := c.DeleteProduct(context.Background(), 7)
	require.NoError(t, err, "a rejected mutation is data, not a transport error")
	assert.False(t, status.Success())
	assert.Equal(t, "Product is currently rented", status.StatusMessage)
}

func TestCreateProduct_ValidationBlocksDispatch(t *testing.T) {
	srv, captured := newGraphQLServer(t, map[string]any{})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	// Categories must be non-empty for a valid listing.
	_, err := c.CreateProduct(context.Background(), ProductFields{
		Title:       "cordless drill",
		Description: "18V, two batteries",
	})
	require.Error(t, err)
	assert.Empty(t, *captured, "local validation failures never reach the network")

	// Rent without a rental mode is malformed.
	rent := 10.0
	_, err = c.CreateProduct(context.Background(), ProductFields{
		Title:       "cordless drill",
		Description: "18V, two batteries",
		Categories:  []string{"TOOLS"},
		Rent:        &rent,
	})
	require.Error(t, err)
	assert.Empty(t, *captured)
}

func TestGraphQLErrorsBecomeRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": "Product not available"}},
		})
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	_, err := c.FetchPage(context.Background(), 0, 10, store.ScopeAll)
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Product not available", remote.StatusMessage)
}

func TestHTTPFailureBecomesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	_, err := c.FetchPage(context.Background(), 0, 10, store.ScopeAll)
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "503", remote.StatusCode)
}

func TestLogin(t *testing.T) {
	srv, captured := newGraphQLServer(t, map[string]any{
		"login": map[string]any{"jwtToken": "header.payload.sig", "message": "ok"},
	})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	token, err := c.Login(context.Background(), "user@teebay.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", token)
	assert.Equal(t, "user@teebay.test", (*captured)[0].variables["email"])
}

func TestLogin_RejectedCredentials(t *testing.T) {
	srv, _ := newGraphQLServer(t, map[string]any{
		"login": map[string]any{"jwtToken": "", "message": "bad credentials"},
	})
	c := NewClient(srv.URL, NewSession(nil), 0, nil)

	_, err := c.Login(context.Background(), "user@teebay.test", "wrong")
	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "bad credentials", remote.StatusMessage)
}
