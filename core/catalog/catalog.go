package catalog

import (
	"cmp"
	"slices"
	"sync"

	"github.com/kilianp07/fleetquote/core/model"
)

// Query narrows Catalog.List. Empty fields match everything.
type Query struct {
	Category string
	Company  string
}

// Catalog is an in-memory registry of stock classes and fleet vehicles.
// Callers always receive copies.
type Catalog struct {
	mu   sync.RWMutex
	data map[string]model.Vehicle
}

// New returns a catalog holding the given vehicles. Invalid vehicles are
// rejected.
func New(vehicles ...model.Vehicle) (*Catalog, error) {
	c := &Catalog{data: make(map[string]model.Vehicle, len(vehicles))}
	for _, v := range vehicles {
		if err := c.Upsert(v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewWithStock returns a catalog seeded with Stock().
func NewWithStock() *Catalog {
	c := &Catalog{data: make(map[string]model.Vehicle, len(stock))}
	for _, v := range stock {
		c.data[v.ID] = v
	}
	return c
}

// Upsert validates v and stores it, replacing any vehicle with the same id.
func (c *Catalog) Upsert(v model.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.data[v.ID] = v
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Get(id string) (model.Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[id]
	return v, ok
}

// Delete removes a vehicle and reports whether it existed.
func (c *Catalog) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[id]
	delete(c.data, id)
	return ok
}

// List returns the vehicles matching q ordered by capacity then id.
func (c *Catalog) List(q Query) []model.Vehicle {
	c.mu.RLock()
	res := make([]model.Vehicle, 0, len(c.data))
	for _, v := range c.data {
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		if q.Company != "" && v.Company != q.Company {
			continue
		}
		res = append(res, v)
	}
	c.mu.RUnlock()
	slices.SortFunc(res, func(a, b model.Vehicle) int {
		if r := cmp.Compare(a.Capacity, b.Capacity); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}
