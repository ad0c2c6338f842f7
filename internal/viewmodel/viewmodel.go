// Package viewmodel holds the observable UI state of the app. Mutators run in
// the background and publish a fresh immutable snapshot after every change.
package viewmodel

import (
	"context"
	"sync"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
	"github.com/HusseinZein235/SalesAssociate/internal/service"
)

// State is one immutable snapshot of the UI state. Slices and maps inside it
// must not be mutated by observers.
type State struct {
	Loading   bool
	Err       string
	Customers []model.Customer
	Selected  *model.Customer
	Catalog   model.Catalog
	Query     string
	Filtered  model.Catalog
	LastSale  *model.Sale
}

// ViewModel mediates between the UI and the service. All exported mutators
// are safe for concurrent use.
type ViewModel struct {
	svc *service.Service

	mu       sync.Mutex
	state    State
	watchers []chan State
	pending  sync.WaitGroup
}

// New creates a view model over the service.
func New(svc *service.Service) *ViewModel {
	return &ViewModel{svc: svc}
}

// Snapshot returns the current state.
func (vm *ViewModel) Snapshot() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Watch registers an observer. Every state change is delivered to the
// returned channel; a slow observer misses intermediate states rather than
// blocking mutators.
func (vm *ViewModel) Watch() <-chan State {
	ch := make(chan State, 16)
	vm.mu.Lock()
	vm.watchers = append(vm.watchers, ch)
	vm.mu.Unlock()
	return ch
}

// Wait blocks until all background mutations started so far have finished.
func (vm *ViewModel) Wait() {
	vm.pending.Wait()
}

// update applies fn to the state under the lock and notifies watchers.
func (vm *ViewModel) update(fn func(*State)) {
	vm.mu.Lock()
	fn(&vm.state)
	snapshot := vm.state
	watchers := vm.watchers
	vm.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// run executes a mutation in the background, bracketing it with the loading
// flag and capturing any error as a message in the state.
func (vm *ViewModel) run(fn func(context.Context) error) {
	vm.pending.Add(1)
	vm.update(func(s *State) {
		s.Loading = true
		s.Err = ""
	})

	go func() {
		defer vm.pending.Done()
		err := fn(context.Background())
		vm.update(func(s *State) {
			s.Loading = false
			if err != nil {
				s.Err = err.Error()
			}
		})
	}()
}

// Load refreshes customers and the catalog from the service.
func (vm *ViewModel) Load() {
	vm.run(func(ctx context.Context) error {
		customers, err := vm.svc.Customers(ctx)
		if err != nil {
			return err
		}
		catalog, err := vm.svc.Catalog(ctx)
		if err != nil {
			return err
		}
		vm.update(func(s *State) {
			s.Customers = customers
			s.Catalog = catalog
			s.Filtered = catalog.Filter(s.Query)
			if s.Selected != nil {
				s.Selected = findCustomer(customers, s.Selected.ID)
			}
		})
		return nil
	})
}

// Select makes the customer with the given id current. A zero id clears the
// selection.
func (vm *ViewModel) Select(id int64) {
	vm.update(func(s *State) {
		if id == 0 {
			s.Selected = nil
			return
		}
		s.Selected = findCustomer(s.Customers, id)
	})
}

// SetQuery filters the catalog live against the new query text.
func (vm *ViewModel) SetQuery(query string) {
	vm.update(func(s *State) {
		s.Query = query
		s.Filtered = s.Catalog.Filter(query)
	})
}

// AddToCart adds quantity units of a product to the selected customer's cart.
func (vm *ViewModel) AddToCart(item string, quantity int) {
	id, ok := vm.selectedID()
	if !ok {
		return
	}
	vm.run(func(ctx context.Context) error {
		customer, err := vm.svc.AddCartItem(ctx, id, item, quantity)
		if err != nil {
			return err
		}
		vm.replaceCustomer(customer)
		return nil
	})
}

// SetCartQuantity changes the quantity of one cart line of the selected
// customer.
func (vm *ViewModel) SetCartQuantity(item string, quantity int) {
	id, ok := vm.selectedID()
	if !ok {
		return
	}
	vm.run(func(ctx context.Context) error {
		customer, err := vm.svc.UpdateCartItem(ctx, id, item, quantity)
		if err != nil {
			return err
		}
		vm.replaceCustomer(customer)
		return nil
	})
}

// RemoveFromCart drops one line from the selected customer's cart.
func (vm *ViewModel) RemoveFromCart(item string) {
	id, ok := vm.selectedID()
	if !ok {
		return
	}
	vm.run(func(ctx context.Context) error {
		customer, err := vm.svc.RemoveCartItem(ctx, id, item)
		if err != nil {
			return err
		}
		vm.replaceCustomer(customer)
		return nil
	})
}

// ConfirmSale turns the selected customer's cart into a sale and reloads the
// catalog so decreased stock shows up.
func (vm *ViewModel) ConfirmSale() {
	id, ok := vm.selectedID()
	if !ok {
		return
	}
	vm.run(func(ctx context.Context) error {
		sale, err := vm.svc.ConfirmSale(ctx, id)
		if err != nil {
			return err
		}
		customers, err := vm.svc.Customers(ctx)
		if err != nil {
			return err
		}
		catalog, err := vm.svc.Catalog(ctx)
		if err != nil {
			return err
		}
		vm.update(func(s *State) {
			s.LastSale = sale
			s.Customers = customers
			s.Catalog = catalog
			s.Filtered = catalog.Filter(s.Query)
			s.Selected = findCustomer(customers, id)
		})
		return nil
	})
}

// ImportWorkbook replaces the catalog from the workbook at path.
func (vm *ViewModel) ImportWorkbook(path string) {
	vm.run(func(ctx context.Context) error {
		if _, err := vm.svc.ImportWorkbookSync(ctx, path); err != nil {
			return err
		}
		catalog, err := vm.svc.Catalog(ctx)
		if err != nil {
			return err
		}
		vm.update(func(s *State) {
			s.Catalog = catalog
			s.Filtered = catalog.Filter(s.Query)
		})
		return nil
	})
}

func (vm *ViewModel) selectedID() (int64, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.state.Selected == nil {
		return 0, false
	}
	return vm.state.Selected.ID, true
}

// replaceCustomer swaps the updated customer into the list and the selection.
func (vm *ViewModel) replaceCustomer(customer *model.Customer) {
	vm.update(func(s *State) {
		for i := range s.Customers {
			if s.Customers[i].ID == customer.ID {
				s.Customers[i] = *customer
				break
			}
		}
		if s.Selected != nil && s.Selected.ID == customer.ID {
			s.Selected = customer
		}
	})
}

func findCustomer(customers []model.Customer, id int64) *model.Customer {
	for i := range customers {
		if customers[i].ID == id {
			c := customers[i]
			return &c
		}
	}
	return nil
}
