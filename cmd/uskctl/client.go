package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// client is a thin resty wrapper over the backup service HTTP surface, used
// for scripted operations against a running server.
type client struct {
	http     *resty.Client
	password string
}

func newClient(baseURL, password string, timeout time.Duration) *client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &client{http: cli, password: password}
}

// request prepares a request with the password header when one was given.
func (c *client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.password != "" {
		req.SetHeader("X-USK-Password", c.password)
	}
	return req
}

// call executes fn and returns the raw response body, turning any non-2xx
// status into an error carrying the server's JSON error body.
func call(fn func() (*resty.Response, error)) (string, error) {
	resp, err := fn()
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("server returned %s: %s", resp.Status(), strings.TrimSpace(string(resp.Body())))
	}
	return strings.TrimSpace(string(resp.Body())), nil
}

func (c *client) health(ctx context.Context) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).Get("/")
	})
}

func (c *client) initSchema(ctx context.Context) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).Post("/init")
	})
}

func (c *client) status(ctx context.Context, domain string) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).Get("/status/" + domain)
	})
}

func (c *client) backup(ctx context.Context, body []byte) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post("/backup")
	})
}

func (c *client) restore(ctx context.Context, domain string) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).Get("/restore/" + domain)
	})
}

func (c *client) delete(ctx context.Context, domain string) (string, error) {
	return call(func() (*resty.Response, error) {
		return c.request(ctx).Delete("/backup/" + domain)
	})
}
