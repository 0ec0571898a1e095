package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Handler implements one plugin action. The returned data, if any, is sent
// back in Response.Data.
type Handler func(req *Request) (any, error)

// Actions routes requests to handlers by action name.
type Actions map[string]Handler

// Serve reads one Request from r, dispatches it, and writes one Response to
// w. Handler failures are reported in the Response; the returned error is
// only for I/O problems writing the response.
func Serve(r io.Reader, w io.Writer, actions Actions) error {
	resp := handle(r, actions)
	return json.NewEncoder(w).Encode(resp)
}

func handle(r io.Reader, actions Actions) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}

	handler, ok := actions[req.Action]
	if !ok {
		return Response{Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	data, err := handler(&req)
	if err != nil {
		return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}

	resp := Response{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Response{Error: fmt.Sprintf("encode result: %v", err)}
		}
		resp.Data = raw
	}
	return resp
}

// Main serves a single request over stdin/stdout. Plugin executables call it
// from their main function.
func Main(actions Actions) {
	if err := Serve(os.Stdin, os.Stdout, actions); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Arguments returns the request's action arguments: Params when present,
// otherwise the binding's Config.
func (r *Request) Arguments() json.RawMessage {
	if len(r.Params) > 0 && string(r.Params) != "null" {
		return r.Params
	}
	return r.Config
}
