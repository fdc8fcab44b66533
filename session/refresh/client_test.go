package refresh_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binehq/bine-shell/session/refresh"
)

func TestClient_Refresh(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotToken = body.Token

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer srv.Close()

	client := refresh.NewClient(srv.URL)
	fresh, err := client.Refresh(context.Background(), "stale-token")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", fresh)
	require.Equal(t, "/api/token/refresh", gotPath)
	require.Equal(t, "stale-token", gotToken)
}

func TestClient_Refresh_CustomPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer srv.Close()

	client := refresh.NewClient(srv.URL+"/", refresh.WithPath("/v2/refresh"))
	_, err := client.Refresh(context.Background(), "stale-token")
	require.NoError(t, err)
	require.Equal(t, "/v2/refresh", gotPath)
}

func TestClient_Refresh_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "refresh rejected", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := refresh.NewClient(srv.URL)
	_, err := client.Refresh(context.Background(), "stale-token")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestClient_Refresh_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := refresh.NewClient(srv.URL)
	_, err := client.Refresh(context.Background(), "stale-token")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing token")
}

func TestClient_Refresh_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := refresh.NewClient(srv.URL)
	_, err := client.Refresh(ctx, "stale-token")
	require.Error(t, err)
}
