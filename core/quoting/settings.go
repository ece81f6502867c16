package quoting

import (
	"context"
	"sync/atomic"

	"github.com/kilianp07/fleetquote/core/model"
)

// SettingsProvider returns the settings snapshot a quote is priced with.
type SettingsProvider interface {
	Settings(ctx context.Context) (model.Settings, error)
}

// StaticSettings is an in-process SettingsProvider. Update swaps the
// snapshot atomically; quotes in flight keep the snapshot they started with.
type StaticSettings struct {
	v atomic.Pointer[model.Settings]
}

func NewStaticSettings(s model.Settings) *StaticSettings {
	st := &StaticSettings{}
	st.Update(s)
	return st
}

func (s *StaticSettings) Settings(context.Context) (model.Settings, error) {
	return *s.v.Load(), nil
}

// Update replaces the snapshot with a private copy of next.
func (s *StaticSettings) Update(next model.Settings) {
	c := next.Clone()
	s.v.Store(&c)
}
