package clog

import (
	"context"
	"maps"
	"sync"
)

const (
	ErrorAttributeKey = "error.message"
	StackAttributeKey = "error.stack"
	UserAttributeKey  = "user_id"
)

// requestAttributes is a mutable attribute bag shared by everything that
// handles one request. The access log middleware creates it and emits it
// when the request finishes.
type requestAttributes struct {
	mu    sync.RWMutex
	attrs map[string]any
}

type requestAttributesKey struct{}

func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestAttributesKey{}, &requestAttributes{
		attrs: make(map[string]any),
	})
}

func fromContext(ctx context.Context) *requestAttributes {
	ra, _ := ctx.Value(requestAttributesKey{}).(*requestAttributes)
	return ra
}

func AddAttribute(ctx context.Context, key string, value any) {
	ra := fromContext(ctx)
	if ra == nil {
		return
	}
	ra.mu.Lock()
	defer ra.mu.Unlock()
	ra.attrs[key] = value
}

func AddAttributes(ctx context.Context, attributes map[string]any) {
	ra := fromContext(ctx)
	if ra == nil {
		return
	}
	ra.mu.Lock()
	defer ra.mu.Unlock()
	mergeMaps(ra.attrs, attributes)
}

func GetAttribute[T any](ctx context.Context, key string) T {
	var zero T
	ra := fromContext(ctx)
	if ra == nil {
		return zero
	}
	ra.mu.RLock()
	v, ok := ra.attrs[key].(T)
	ra.mu.RUnlock()
	if !ok {
		return zero
	}
	return v
}

// GetAttributes returns a copy of the request attributes, or nil outside a
// request.
func GetAttributes(ctx context.Context) map[string]any {
	ra := fromContext(ctx)
	if ra == nil {
		return nil
	}
	ra.mu.RLock()
	defer ra.mu.RUnlock()
	return maps.Clone(ra.attrs)
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		vMap, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if dstMap, ok := dst[k].(map[string]any); ok {
			mergeMaps(dstMap, vMap)
		} else {
			dst[k] = vMap
		}
	}
}

func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

func GetError(ctx context.Context) error {
	return GetAttribute[error](ctx, ErrorAttributeKey)
}

func AddStack(ctx context.Context, stack string) {
	AddAttribute(ctx, StackAttributeKey, stack)
}

func GetStack(ctx context.Context) string {
	return GetAttribute[string](ctx, StackAttributeKey)
}

// AddUser records the authenticated user on the request log.
func AddUser(ctx context.Context, userID string) {
	AddAttribute(ctx, UserAttributeKey, userID)
}
