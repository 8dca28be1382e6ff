package db

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Entity is anything stored in a collection, addressed by its id.
type Entity interface {
	GetID() string
}

// Collection gives typed access to one JSON array document. Every mutation
// reads the whole array, changes it in memory and writes the whole array back;
// there is no locking, so concurrent writers overwrite each other.
//
// Top-level fields of stored elements that T does not declare are remembered
// per id on read and written back on save.
type Collection[T Entity] struct {
	store DocumentStore
	name  string
	stamp func(item *T, id string, createdAt int64)
	newID func() string
	nowMs func() int64

	mu     sync.Mutex
	extras map[string]map[string]json.RawMessage
}

// Name is the document the collection lives in.
func (c *Collection[T]) Name() string { return c.name }

// FetchAll returns every element. A document that was never written yields an
// empty, non-nil slice.
func (c *Collection[T]) FetchAll(ctx context.Context) ([]T, error) {
	data, err := c.store.Read(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.name, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	c.rememberExtras(data)
	return items, nil
}

func (c *Collection[T]) rememberExtras(data []byte) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return
	}
	known := jsonFields(reflect.TypeOf((*T)(nil)).Elem())
	extras := make(map[string]map[string]json.RawMessage)
	for _, obj := range raw {
		var id string
		if err := json.Unmarshal(obj["id"], &id); err != nil || id == "" {
			continue
		}
		for k, v := range obj {
			if known[k] {
				continue
			}
			if extras[id] == nil {
				extras[id] = make(map[string]json.RawMessage)
			}
			extras[id][k] = v
		}
	}
	c.mu.Lock()
	c.extras = extras
	c.mu.Unlock()
}

// encode marshals items, merging back remembered unknown fields.
func (c *Collection[T]) encode(items []T) ([]byte, error) {
	c.mu.Lock()
	extras := c.extras
	c.mu.Unlock()
	if len(extras) == 0 {
		return json.Marshal(items)
	}

	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		if extra := extras[item.GetID()]; len(extra) > 0 {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(data, &obj); err != nil {
				return nil, err
			}
			for k, v := range extra {
				if _, ok := obj[k]; !ok {
					obj[k] = v
				}
			}
			if data, err = json.Marshal(obj); err != nil {
				return nil, err
			}
		}
		out = append(out, data)
	}
	return json.Marshal(out)
}

// jsonFields lists the JSON keys a struct type declares.
func jsonFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	if t.Kind() != reflect.Struct {
		return fields
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch {
		case name == "-":
		case name != "":
			fields[name] = true
		case f.Anonymous:
			for k := range jsonFields(f.Type) {
				fields[k] = true
			}
		default:
			fields[f.Name] = true
		}
	}
	return fields
}

// SaveAll replaces the whole document with items.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := c.encode(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.store.Write(ctx, c.name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.name, err)
	}
	return nil
}

// Add assigns a fresh id (and creation time where the type has one), appends
// the item and persists the collection.
func (c *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	items, err := c.FetchAll(ctx)
	if err != nil {
		return item, err
	}
	c.stamp(&item, c.newID(), c.nowMs())
	items = append(items, item)
	if err := c.SaveAll(ctx, items); err != nil {
		return item, err
	}
	return item, nil
}

// Update replaces the element with the same id. When no element matches
// nothing is written and found is false; this is not an error.
func (c *Collection[T]) Update(ctx context.Context, item T) (found bool, err error) {
	items, err := c.FetchAll(ctx)
	if err != nil {
		return false, err
	}
	for i := range items {
		if items[i].GetID() == item.GetID() {
			items[i] = item
			return true, c.SaveAll(ctx, items)
		}
	}
	return false, nil
}

// Delete removes the element with id and persists the rest.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	items, err := c.FetchAll(ctx)
	if err != nil {
		return err
	}
	return c.SaveAll(ctx, without(items, func(item T) bool { return item.GetID() == id }))
}

// GetByID looks up a single element.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.FetchAll(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if item.GetID() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Where returns the elements matching keep.
func (c *Collection[T]) Where(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// without returns items minus those matching drop, preserving order.
func without[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
