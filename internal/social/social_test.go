package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id_token") {
		case "good":
			_, _ = w.Write([]byte(`{"aud":"client-1","sub":"g-123","email":"ann@example.com","name":"Ann","picture":"https://img/a.png"}`))
		case "other-aud":
			_, _ = w.Write([]byte(`{"aud":"someone-else","sub":"g-123","email":"ann@example.com"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleVerifier(t *testing.T) {
	t.Parallel()
	srv := googleServer(t)

	v := NewGoogleVerifier("client-1")
	v.TokenInfoURL = srv.URL

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, Identity{Provider: ProviderGoogle, Subject: "g-123", Email: "ann@example.com", Name: "Ann", Picture: "https://img/a.png"}, id)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"rejected", "bad"},
		{"audience mismatch", "other-aud"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := v.Verify(context.Background(), tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGoogleVerifier_NoClientID(t *testing.T) {
	t.Parallel()
	v := NewGoogleVerifier("")
	_, err := v.Verify(context.Background(), "good")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestFacebookVerifier(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "id,name,email,picture", r.URL.Query().Get("fields"))
		if r.Header.Get("Authorization") != "Bearer fb-good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"fb-1","name":"Bob","email":"bob@example.com","picture":{"data":{"url":"https://img/b.png"}}}`))
	}))
	t.Cleanup(srv.Close)

	v := NewFacebookVerifier()
	v.GraphURL = srv.URL

	id, err := v.Verify(context.Background(), "fb-good")
	require.NoError(t, err)
	assert.Equal(t, ProviderFacebook, id.Provider)
	assert.Equal(t, "fb-1", id.Subject)
	assert.Equal(t, "bob@example.com", id.Email)
	assert.Equal(t, "https://img/b.png", id.Picture)

	_, err = v.Verify(context.Background(), "fb-bad")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
