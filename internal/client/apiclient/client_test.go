package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestClient_SignupReturnsIdentityWithToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/signup", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])
		_, hasKey := body["adminKey"]
		assert.False(t, hasKey)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u1","fullname":"Ann","email":"ann@example.com","isAdmin":false},"token":"tok"}`))
	})

	id, err := c.Signup(context.Background(), Credentials{Fullname: "Ann", Email: "ann@example.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "tok", id.Token)
	assert.False(t, id.IsAdmin)
}

func TestClient_SignupWithAdminKeyUsesEscalationEndpoint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/create-admin-key", r.URL.Path)
		_, _ = w.Write([]byte(`{"user":{"id":"u1","isAdmin":true},"token":"tok"}`))
	})

	id, err := c.Signup(context.Background(), Credentials{Email: "root@example.com", Password: "pw", AdminKey: "k"})
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	})

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestClient_SendsBearerAndIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "k-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "/books/b1/purchase", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"purchase":{"id":"p1","cardLast4":"4242","status":"completed"},"message":"purchase completed"}`))
	})

	p, err := c.Purchase(context.Background(), "tok", "b1", Card{Number: "4242424242424242", Expiry: "12/30", CVV: "123"}, "k-1")
	require.NoError(t, err)
	assert.Equal(t, "4242", p.CardLast4)
}

func TestClient_ListBooksCategoryQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sci fi", r.URL.Query().Get("category"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"b1","title":"Dune","category":"sci fi","price":9.5}]`))
	})

	books, err := c.ListBooks(context.Background(), "sci fi")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 9.5, books[0].Price)
}

func TestClient_UpdateBookOmitsUnsetPrice(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`{"id":"b1"}`))
	})

	_, err := c.UpdateBook(context.Background(), "tok", "b1", BookPayload{Name: "n", Title: "t", Category: "c"})
	require.NoError(t, err)
	free := 0.0
	_, err = c.UpdateBook(context.Background(), "tok", "b1", BookPayload{Name: "n", Title: "t", Category: "c", Price: &free})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	_, hasPrice := bodies[0]["price"]
	assert.False(t, hasPrice)
	assert.Equal(t, 0.0, bodies[1]["price"])
}

func TestClient_DeleteBookNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeleteBook(context.Background(), "tok", "b1"))
}

func TestClient_SetUserAdmin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/user/u2/admin", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["isAdmin"])
		_, _ = w.Write([]byte(`{"user":{"id":"u2","isAdmin":true},"message":"admin role granted"}`))
	})

	u, err := c.SetUserAdmin(context.Background(), "tok", "u2", true)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}
