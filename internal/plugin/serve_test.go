package plugin

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, input string, actions Actions) Response {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Serve(strings.NewReader(input), &out, actions))

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestServe(t *testing.T) {
	actions := Actions{
		"greet": func(req *Request) (any, error) {
			return map[string]string{"hello": req.Pose}, nil
		},
		"silent": func(*Request) (any, error) { return nil, nil },
		"fail": func(*Request) (any, error) {
			return nil, errors.New("no permission")
		},
	}

	t.Run("success with data", func(t *testing.T) {
		resp := serve(t, `{"action":"greet","pose":"okay"}`, actions)
		assert.True(t, resp.Success)
		assert.JSONEq(t, `{"hello":"okay"}`, string(resp.Data))
	})

	t.Run("success without data", func(t *testing.T) {
		resp := serve(t, `{"action":"silent"}`, actions)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Data)
	})

	t.Run("handler error", func(t *testing.T) {
		resp := serve(t, `{"action":"fail"}`, actions)
		assert.False(t, resp.Success)
		assert.Equal(t, "action fail failed: no permission", resp.Error)
	})

	t.Run("unknown action", func(t *testing.T) {
		resp := serve(t, `{"action":"dance"}`, actions)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "unknown action")
	})

	t.Run("bad request", func(t *testing.T) {
		resp := serve(t, `{`, actions)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "decode request")
	})
}

func TestRequest_Arguments(t *testing.T) {
	cfg := json.RawMessage(`{"key":"a"}`)

	assert.Equal(t, cfg, (&Request{Config: cfg}).Arguments())
	assert.Equal(t, cfg, (&Request{Config: cfg, Params: json.RawMessage("null")}).Arguments())
	assert.Equal(t, cfg, (&Request{Config: cfg, Params: json.RawMessage{}}).Arguments())

	params := json.RawMessage(`{"key":"b"}`)
	assert.Equal(t, params, (&Request{Config: cfg, Params: params}).Arguments())
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"keystroke", "shortcut"}}
	assert.True(t, m.Supports("shortcut"))
	assert.False(t, m.Supports("volume-up"))
	assert.True(t, (&Manifest{}).Supports("anything"))
}
