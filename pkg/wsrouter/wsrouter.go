package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

type message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp *int64          `json:"timestamp,omitempty"`
}

// HandlerFunc handles one decoded message received from conn.
type HandlerFunc[C, T any] func(ctx context.Context, conn C, payload T) error

type Middleware[C any] func(next HandlerFunc[C, json.RawMessage]) HandlerFunc[C, json.RawMessage]

type ValidateFunc func(any) error

type WSRouter[C any] struct {
	routes      map[string]HandlerFunc[C, json.RawMessage]
	notFound    HandlerFunc[C, json.RawMessage]
	middlewares []Middleware[C]
	validate    ValidateFunc
}

func New[C any](validate ValidateFunc) *WSRouter[C] {
	return &WSRouter[C]{
		routes:   make(map[string]HandlerFunc[C, json.RawMessage]),
		validate: validate,
	}
}

// Use appends middlewares applied to every route, outermost first.
func (r *WSRouter[C]) Use(mws ...Middleware[C]) {
	r.middlewares = append(r.middlewares, mws...)
}

// Handle registers handler for messageType. The payload is decoded into T and validated
// before handler is called. Route middlewares run inside the router-wide ones.
func Handle[C, T any](r *WSRouter[C], messageType string, handler HandlerFunc[C, T], mws ...Middleware[C]) {
	var h HandlerFunc[C, json.RawMessage] = func(ctx context.Context, conn C, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
			}
		}

		if r.validate != nil {
			if err := r.validate(payload); err != nil {
				return err
			}
		}

		return handler(ctx, conn, payload)
	}

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	r.routes[messageType] = h
}

// NotFound runs mws for message types without a route. The result is still
// ErrUnknownMessageType unless a middleware returns an error first.
func (r *WSRouter[C]) NotFound(mws ...Middleware[C]) {
	var h HandlerFunc[C, json.RawMessage] = func(context.Context, C, json.RawMessage) error {
		return ErrUnknownMessageType
	}

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	r.notFound = h
}

// Types returns the registered message types.
func (r *WSRouter[C]) Types() []string {
	types := make([]string, 0, len(r.routes))
	for t := range r.routes {
		types = append(types, t)
	}

	return types
}

// Serve decodes one raw frame and dispatches it to its route.
func (r *WSRouter[C]) Serve(ctx context.Context, conn C, data []byte) error {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
		return ErrInvalidMessage
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)

	var h HandlerFunc[C, json.RawMessage] = func(ctx context.Context, conn C, payload json.RawMessage) error {
		route, ok := r.routes[msg.Type]
		if !ok {
			if r.notFound != nil {
				return r.notFound(ctx, conn, payload)
			}
			return ErrUnknownMessageType
		}

		return route(ctx, conn, payload)
	}

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}

	return h(ctx, conn, msg.Payload)
}
