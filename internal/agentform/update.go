package agentform

import (
	"errors"
	"fmt"

	"agentconsole/internal/model"
)

// ErrNotClearable is returned when Clear names a field that cannot be emptied
var ErrNotClearable = errors.New("field cannot be cleared")

// FieldUpdate batch of user input changes; nil fields are left untouched.
// Clear lists numeric or switch fields to reset to empty.
type FieldUpdate struct {
	Name         *string  `json:"name,omitempty"`
	IP           *string  `json:"ip,omitempty"`
	Image        *string  `json:"image,omitempty"`
	Capacity     *int     `json:"capacity,omitempty"`
	NodeCapacity *int     `json:"node_capacity,omitempty"`
	Type         *string  `json:"type,omitempty"`
	LogLevel     *string  `json:"log_level,omitempty"`
	Schedulable  *bool    `json:"schedulable,omitempty"`
	Clear        []string `json:"clear,omitempty"`
}

// Apply applies u in form order and stops at the first rejected change
func (p *Page) Apply(u FieldUpdate) error {
	steps := []struct {
		set bool
		fn  func() error
	}{
		{u.Name != nil, func() error { return p.SetName(*u.Name) }},
		{u.IP != nil, func() error { return p.SetIP(*u.IP) }},
		{u.Image != nil, func() error { return p.SetImage(*u.Image) }},
		{u.Capacity != nil, func() error { return p.SetCapacity(u.Capacity) }},
		{u.NodeCapacity != nil, func() error { return p.SetNodeCapacity(u.NodeCapacity) }},
		{u.Type != nil, func() error { return p.SetType(*u.Type) }},
		{u.LogLevel != nil, func() error { return p.SetLogLevel(*u.LogLevel) }},
		{u.Schedulable != nil, func() error { return p.SetSchedulable(u.Schedulable) }},
	}
	for _, step := range steps {
		if !step.set {
			continue
		}
		if err := step.fn(); err != nil {
			return err
		}
	}

	for _, key := range u.Clear {
		var err error
		switch key {
		case model.FieldCapacity:
			err = p.SetCapacity(nil)
		case model.FieldNodeCapacity:
			err = p.SetNodeCapacity(nil)
		case model.FieldSchedulable:
			err = p.SetSchedulable(nil)
		case model.FieldConfigFile:
			err = p.RemoveConfigFile()
		default:
			err = fmt.Errorf("%s: %w", key, ErrNotClearable)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
