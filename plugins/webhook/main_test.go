package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/plugin"
)

func TestPost(t *testing.T) {
	var got event
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-Token")
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	args, _ := json.Marshal(target{URL: srv.URL, Method: "PUT", Headers: map[string]string{"X-Token": "abc"}})
	data, err := post(resty.New(), &plugin.Request{Action: "post", Pose: "fist", Hand: "left", Config: args})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"status": http.StatusAccepted}, data)
	assert.Equal(t, "abc", header)
	assert.Equal(t, "fist", got.Pose)
	assert.Equal(t, "left", got.Hand)
}

func TestPost_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args string
	}{
		{"missing url", `{}`},
		{"bad timeout", `{"url":"` + srv.URL + `","timeout":"soon"}`},
		{"error status", `{"url":"` + srv.URL + `"}`},
		{"bad json", `[`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := post(resty.New(), &plugin.Request{Action: "post", Config: json.RawMessage(tt.args)})
			assert.Error(t, err)
		})
	}
}
