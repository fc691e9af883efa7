package realtime

import (
	"context"
	"sync"
)

// Cache guarda en memoria el último snapshot de un tópico. No es fuente de verdad:
// hasta recibir el primer snapshot consulta el fallback (repositorio).
type Cache[T any] struct {
	mu       sync.RWMutex
	value    T
	primed   bool
	fallback func(ctx context.Context) (T, error)
}

// NewCache construye el cache con su fallback.
func NewCache[T any](fallback func(ctx context.Context) (T, error)) *Cache[T] {
	return &Cache[T]{fallback: fallback}
}

// Get devuelve el snapshot en memoria o consulta el fallback.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.primed {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()
	return c.fallback(ctx)
}

// Set reemplaza el snapshot completo.
func (c *Cache[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	c.primed = true
	c.mu.Unlock()
}

// Primed indica si ya recibió un snapshot.
func (c *Cache[T]) Primed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.primed
}

// Follow se suscribe al tópico y actualiza el cache con cada snapshot hasta que ctx termina.
// Al terminar el cache se descarta (vuelve al fallback).
func (c *Cache[T]) Follow(ctx context.Context, feed *Feed, topic string) error {
	sub, err := feed.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	go func() {
		defer c.reset()
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.C:
				if !ok {
					return
				}
				if msg.Kind != KindSnapshot {
					continue
				}
				if v, ok := msg.Data.(T); ok {
					c.Set(v)
				}
			}
		}
	}()
	return nil
}

func (c *Cache[T]) reset() {
	c.mu.Lock()
	var zero T
	c.value = zero
	c.primed = false
	c.mu.Unlock()
}
