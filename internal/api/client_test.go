package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mataam/internal/config"
	"mataam/internal/model"
	"mataam/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, role string) *session.Session {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &session.Claims{
		UserID: 1,
		Role:   role,
		Tenant: "shami",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	sess, err := session.New(token)
	require.NoError(t, err)
	return sess
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	sess := testSession(t, "staff")
	return NewClient(config.APIConfig{
		BaseURL:     baseURL,
		Token:       sess.Token(),
		Timeout:     5 * time.Second,
		ClockOffset: 2 * time.Hour,
	}, sess, zerolog.Nop())
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.GetBranches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+c.Session().Token(), gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"code":"BRANCH_CLOSED","description":"branch is closed"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.CreateOrder(context.Background(), model.OrderRequest{BranchID: 1, DeliveryFeeID: 2})
	require.Error(t, err)

	var apiErr *model.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.True(t, apiErr.HasCode(model.ErrCodeBranchClosed))
}

func TestClient_NonEnvelopeFailureIsPlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.GetLocations(context.Background())
	require.Error(t, err)

	var apiErr *model.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "502")
}

func TestGetCartItems_Normalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/CartItems/GetAll", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": 11,
				"cartId": 3,
				"quantity": 2,
				"note": "no onions",
				"menuItem": {
					"id": 70,
					"name": "Falafel plate",
					"itemPrice": 4.5,
					"itemOffer": {"id": 1, "discountType": "fixed", "discountValue": 1, "isEnabled": true,
						"startDate": "2024-01-01T00:00:00Z", "endDate": "2030-01-01T00:00:00Z"}
				},
				"menuItemOptions": [{"id": 9, "title": "extra tahini", "optionPrice": 0.5}]
			}
		]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	items, err := c.GetCartItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, int64(11), item.ID)
	assert.Equal(t, int64(3), item.CartID)
	assert.Equal(t, int64(70), item.MenuItemID)
	assert.Equal(t, "Falafel plate", item.Name)
	assert.Equal(t, 4.5, item.BasePrice)
	assert.Equal(t, "no onions", item.Note)
	require.NotNil(t, item.Offer)
	assert.Equal(t, model.DiscountFixed, item.Offer.Kind)
	require.Len(t, item.Options, 1)
	assert.Equal(t, "extra tahini", item.Options[0].Name)
	assert.Equal(t, 0.5, item.Options[0].Price)
}

func TestSearchOrders_ConvertsRangeToServerClock(t *testing.T) {
	var got model.OrderSearchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Orders/GetAllWithPagination", r.URL.Path)
		require.NoError(t, jsonDecode(r, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"totalItems":0,"totalPages":0,"pageNumber":1,"pageSize":20}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	from := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	_, err := c.SearchOrders(context.Background(), model.OrderSearchRequest{
		PageNumber: 1,
		PageSize:   20,
		Filters: []model.PropertyFilter{
			{PropertyName: "createdAt", Range: &model.DateRange{From: from, To: to}},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Filters, 1)
	require.NotNil(t, got.Filters[0].Range)
	assert.True(t, got.Filters[0].Range.From.Equal(from.Add(-2*time.Hour)))
	assert.True(t, got.Filters[0].Range.To.Equal(to.Add(-2*time.Hour)))
}

func jsonDecode(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
