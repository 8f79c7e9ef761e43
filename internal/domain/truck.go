package domain

import "fmt"

// Vehicle being loaded by a route construction heuristic.
// Stops holds 1-based positions in the problem's city order, depot excluded.
type Truck struct {
	ID       int
	Capacity int
	Load     int
	Stops    []int
}

func NewTruck(id int, capacity int) *Truck {
	return &Truck{ID: id, Capacity: capacity}
}

func (t *Truck) Remaining() int {
	return t.Capacity - t.Load
}

// Serve appends a stop and its demand to the truck.
func (t *Truck) Serve(stop int, demand int) error {
	if demand < 0 {
		return fmt.Errorf("serve stop %d: truck %d: negative demand %d", stop, t.ID, demand)
	}
	if demand > t.Remaining() {
		return fmt.Errorf("serve stop %d: truck %d is over capacity (load=%d demand=%d capacity=%d)",
			stop, t.ID, t.Load, demand, t.Capacity)
	}

	t.Stops = append(t.Stops, stop)
	t.Load += demand
	return nil
}

// Tour returns the closed tour depot -> stops -> depot as 1-based positions.
func (t *Truck) Tour() []int {
	tour := make([]int, 0, len(t.Stops)+2)
	tour = append(tour, 1)
	tour = append(tour, t.Stops...)
	return append(tour, 1)
}
