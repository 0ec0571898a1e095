// Command webhook posts recognized poses to an HTTP endpoint.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayusman/mudra/internal/plugin"
)

type target struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Timeout string            `json:"timeout"`
}

type event struct {
	Pose   string    `json:"pose"`
	Hand   string    `json:"hand,omitempty"`
	SentAt time.Time `json:"sentAt"`
}

func main() {
	client := resty.New()
	plugin.Main(plugin.Actions{
		"post": func(req *plugin.Request) (any, error) { return post(client, req) },
	})
}

func post(client *resty.Client, req *plugin.Request) (any, error) {
	var t target
	if err := json.Unmarshal(req.Arguments(), &t); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if t.URL == "" {
		return nil, errors.New("url is required")
	}
	if t.Method == "" {
		t.Method = resty.MethodPost
	}
	if t.Timeout != "" {
		d, err := time.ParseDuration(t.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		client.SetTimeout(d)
	}

	resp, err := client.R().
		SetHeaders(t.Headers).
		SetBody(event{Pose: req.Pose, Hand: req.Hand, SentAt: time.Now().UTC()}).
		Execute(t.Method, t.URL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s %s: %s", t.Method, t.URL, resp.Status())
	}
	return map[string]int{"status": resp.StatusCode()}, nil
}
