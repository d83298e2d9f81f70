package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// unwrap decodes raw into out. Payloads arrive either bare or wrapped in an
// object under one of keys; the first key present wins.
func unwrap(raw json.RawMessage, out any, keys ...string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' && len(keys) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		for _, key := range keys {
			if inner, ok := fields[key]; ok {
				trimmed = inner
				break
			}
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getWrapped fetches path and decodes the payload found under keys into out.
func (c *Client) getWrapped(ctx context.Context, op, path string, out any, keys ...string) error {
	var raw json.RawMessage
	if err := c.get(ctx, op, path, &raw); err != nil {
		return err
	}
	if err := unwrap(raw, out, keys...); err != nil {
		return &Error{Op: op, Code: CodeNetwork, Err: err}
	}
	return nil
}

// postWrapped is getWrapped for POST requests.
func (c *Client) postWrapped(ctx context.Context, op, path string, body, out any, keys ...string) error {
	var raw json.RawMessage
	if err := c.post(ctx, op, path, body, &raw); err != nil {
		return err
	}
	if err := unwrap(raw, out, keys...); err != nil {
		return &Error{Op: op, Code: CodeNetwork, Err: err}
	}
	return nil
}
