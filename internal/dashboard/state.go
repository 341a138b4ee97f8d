// Package dashboard holds the in-memory view state of the order dashboard:
// the loaded orders, the selected filter and the expanded row.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

// Filter selects which orders are visible.
type Filter string

const (
	FilterAll      Filter = "All"
	FilterPending  Filter = Filter(repository.StatusPending)
	FilterDispatch Filter = Filter(repository.StatusDispatch)
	FilterSuccess  Filter = Filter(repository.StatusSuccess)
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterDispatch, FilterSuccess}

// ErrUnknownFilter 表示筛选条件不在可选范围内。
var ErrUnknownFilter = errors.New("unknown filter / 未知的筛选条件")

// ParseFilter accepts exactly the values in Filters. The empty string means All.
func ParseFilter(raw string) (Filter, error) {
	if raw == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if raw == string(f) {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("%w: %q", ErrUnknownFilter, raw)
}

// Matches reports whether an order with the given status passes the filter.
func (f Filter) Matches(status repository.OrderStatus) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return string(f) == string(status)
}

// State is the dashboard of one viewer. It is not safe for concurrent use;
// callers that share it keep a Clone per request.
type State struct {
	Orders   []*repository.Order `json:"orders"`
	Filter   Filter              `json:"filter"`
	Expanded string              `json:"expanded,omitempty"`
}

// NewState wraps freshly loaded orders with the default filter. The slice is
// copied, so later writes never reach the caller's.
func NewState(orders []*repository.Order) *State {
	return &State{Orders: append([]*repository.Order{}, orders...), Filter: FilterAll}
}

// Visible returns the orders passing the current filter in their loaded order.
func (s *State) Visible() []*repository.Order {
	if s == nil {
		return nil
	}
	out := make([]*repository.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		if s.Filter.Matches(o.Status) {
			out = append(out, o)
		}
	}
	return out
}

// SetFilter changes the visible subset. The expanded row is kept even when it
// is filtered out, so switching back shows it open again.
func (s *State) SetFilter(f Filter) {
	s.Filter = f
}

// Toggle opens the detail of id, closing any other, or closes it if open.
func (s *State) Toggle(id string) {
	if s.Expanded == id {
		s.Expanded = ""
		return
	}
	s.Expanded = id
}

// IsExpanded reports whether id's detail panel is open.
func (s *State) IsExpanded(id string) bool {
	return s != nil && id != "" && s.Expanded == id
}

// Find returns the order with id, or nil.
func (s *State) Find(id string) *repository.Order {
	if s == nil {
		return nil
	}
	for _, o := range s.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// ApplyStatus sets the status of exactly one order. It reports whether the
// order was present.
func (s *State) ApplyStatus(id string, status repository.OrderStatus) bool {
	for i, o := range s.Orders {
		if o.ID != id {
			continue
		}
		updated := o.Clone()
		updated.Status = status
		s.Orders[i] = updated
		return true
	}
	return false
}

// Remove drops exactly one order, keeping the others in place, and closes the
// detail panel if it belonged to that order.
func (s *State) Remove(id string) bool {
	for i, o := range s.Orders {
		if o.ID != id {
			continue
		}
		next := make([]*repository.Order, 0, len(s.Orders)-1)
		next = append(next, s.Orders[:i]...)
		next = append(next, s.Orders[i+1:]...)
		s.Orders = next
		if s.Expanded == id {
			s.Expanded = ""
		}
		return true
	}
	return false
}

// Counts returns how many orders each filter would show.
func (s *State) Counts() map[Filter]int {
	counts := make(map[Filter]int, len(Filters))
	if s == nil {
		return counts
	}
	for _, o := range s.Orders {
		counts[FilterAll]++
		if o.Status.IsSet() {
			counts[Filter(o.Status)]++
		}
	}
	return counts
}

// Clone copies the state deeply enough that mutating the copy never changes s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := &State{Filter: s.Filter, Expanded: s.Expanded, Orders: make([]*repository.Order, len(s.Orders))}
	for i, o := range s.Orders {
		cp.Orders[i] = o.Clone()
	}
	return cp
}
