package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetquote/core/model"
)

func TestStockIsSortedAndValid(t *testing.T) {
	s := Stock()
	for i, v := range s {
		require.NoError(t, v.Validate())
		if i > 0 {
			assert.Less(t, s[i-1].Capacity, v.Capacity)
		}
	}
	assert.NoError(t, Generic().Validate())
	assert.Greater(t, Generic().Capacity, s[len(s)-1].Capacity)

	s[0].Capacity = 1
	assert.Equal(t, 1500.0, Stock()[0].Capacity, "Stock must return a copy")
}

func TestCatalogCRUD(t *testing.T) {
	c := NewWithStock()
	assert.Len(t, c.List(Query{}), len(Stock()))

	fleet := model.Vehicle{ID: "ABC-123", Name: "Unidad 7", Category: "rigid", Capacity: 9000, VolumetricCapacity: 45, Company: "acme"}
	require.NoError(t, c.Upsert(fleet))
	got, ok := c.Get("ABC-123")
	require.True(t, ok)
	assert.Equal(t, fleet, got)

	rigid := c.List(Query{Category: "rigid"})
	ids := []string{}
	for _, v := range rigid {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"rabon", "ABC-123", "torton"}, ids)
	assert.Len(t, c.List(Query{Company: "acme"}), 1)

	assert.True(t, c.Delete("ABC-123"))
	assert.False(t, c.Delete("ABC-123"))

	err := c.Upsert(model.Vehicle{ID: "bad"})
	assert.True(t, errors.Is(err, model.ErrInvalidVehicle))
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(model.Vehicle{ID: "x", Capacity: 1, VolumetricCapacity: 1}, model.Vehicle{ID: ""})
	assert.Error(t, err)
	_, err = New(model.Vehicle{ID: "unsized", Capacity: 9000})
	assert.ErrorIs(t, err, model.ErrInvalidVehicle)
	c, err := New(model.Vehicle{ID: "x", Capacity: 1, VolumetricCapacity: 1})
	require.NoError(t, err)
	assert.Len(t, c.List(Query{}), 1)
}

func TestCatalogConcurrentAccess(t *testing.T) {
	c := NewWithStock()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = c.Upsert(model.Vehicle{ID: "fleet", Capacity: float64(1000 + i), VolumetricCapacity: 10})
		}(i)
		go func() {
			defer wg.Done()
			_ = c.List(Query{})
		}()
	}
	wg.Wait()
	_, ok := c.Get("fleet")
	assert.True(t, ok)
}
