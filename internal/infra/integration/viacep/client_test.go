package viacep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/01001000/json/", r.URL.Path)
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","complemento":"lado ímpar","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	addr, err := NewClient(srv.URL).Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Empty(t, addr.Complement)
}

func TestLookupNotFound(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := NewClient(srv.URL).Lookup(context.Background(), "99999999")
		assert.ErrorIs(t, err, ErrNotFound, body)
		srv.Close()
	}
}

func TestLookupRejectsMalformedInputWithoutCalling(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for _, cep := range []string{"0100100", "01001-000", "abcdefgh", ""} {
		_, err := c.Lookup(context.Background(), cep)
		assert.ErrorIs(t, err, ErrInvalidPostalCode)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Lookup(context.Background(), "01001000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
