package hass

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_State(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/states/climate.office", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"entity_id": "climate.office",
			"state": "cool",
			"attributes": {
				"current_temperature": 24,
				"temperature": 22.5,
				"fan_mode": "high",
				"preset_mode": null,
				"friendly_name": "Office AC"
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", 0)
	s, err := c.State(context.Background(), "climate.office")
	require.NoError(t, err)

	assert.Equal(t, "cool", s.State)
	require.NotNil(t, s.Attributes.CurrentTemperature)
	assert.Equal(t, 24.0, *s.Attributes.CurrentTemperature)
	require.NotNil(t, s.Attributes.Temperature)
	assert.Equal(t, 22.5, *s.Attributes.Temperature)
	assert.Equal(t, "high", Str(s.Attributes.FanMode))
	assert.Nil(t, s.Attributes.PresetMode)
	assert.Nil(t, s.Attributes.HVACAction)
}

func TestClient_StateErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "bad", 0).State(context.Background(), "climate.office")
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusUnauthorized, se.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"state": `))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "secret", 0).State(context.Background(), "climate.office")
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		_, err := NewClient(base, "secret", 0).State(context.Background(), "climate.office")
		assert.Error(t, err)
	})
}

func TestClient_CallService(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/services/climate/set_fan_mode", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "secret", 0).CallService(context.Background(), "climate", "set_fan_mode",
		map[string]any{"entity_id": "climate.office", "fan_mode": "full"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"entity_id": "climate.office", "fan_mode": "full"}, got)
}

func TestClient_CallServiceStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "secret", 0).CallService(context.Background(), "climate", "set_hvac_mode", nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Error(), "/api/services/climate/set_hvac_mode")
}
