package service

import (
	"context"
	"errors"

	"github.com/creamcroissant/shopadmin/internal/repository"
	"github.com/creamcroissant/shopadmin/internal/security"
)

type fakeOrders struct {
	orders    []*repository.Order
	listErr   error
	statusErr error
	deleteErr error

	statusCalls []string
	deleteCalls []string
}

func (f *fakeOrders) List(context.Context) ([]*repository.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*repository.Order, len(f.orders))
	for i, o := range f.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

func (f *fakeOrders) SetStatus(_ context.Context, id string, status repository.OrderStatus) error {
	f.statusCalls = append(f.statusCalls, id+"="+string(status))
	if f.statusErr != nil {
		return f.statusErr
	}
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

var errBoom = errors.New("boom")

type memRecorder struct {
	events []security.Event
}

func (m *memRecorder) Record(_ context.Context, e security.Event) {
	m.events = append(m.events, e)
}
