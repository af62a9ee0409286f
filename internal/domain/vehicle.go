package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// VehicleType describes one class of vehicle in the fleet.
// A zero Count means an unlimited number of vehicles; a zero RangeKm means
// the vehicle has no route-length limit.
type VehicleType struct {
	Name     string
	Count    int
	Capacity int
	RangeKm  float64
}

func (v VehicleType) Unlimited() bool { return v.Count == 0 }

// HasRange reports whether route distance is limited for this type.
func (v VehicleType) HasRange() bool { return v.RangeKm > 0 }

// Fits reports whether a trip with the given stop count and round-trip
// distance can be served by this vehicle type.
func (v VehicleType) Fits(stops int, distanceMeters int) bool {
	if stops > v.Capacity {
		return false
	}
	if v.HasRange() && float64(distanceMeters) > v.RangeKm*1000 {
		return false
	}
	return true
}

// Fleet is ordered from the smallest to the largest vehicle type.
type Fleet []VehicleType

// DefaultFleet mirrors the store's standing fleet: three-wheelers, electric
// four-wheelers and an unlimited pool of regular four-wheelers.
func DefaultFleet() Fleet {
	return Fleet{
		{Name: "3W", Count: 50, Capacity: 5, RangeKm: 15},
		{Name: "4W-EV", Count: 25, Capacity: 8, RangeKm: 20},
		{Name: "4W", Count: 0, Capacity: 25, RangeKm: 0},
	}
}

// ParseFleet parses "name:count:capacity:rangeKm" entries separated by commas,
// e.g. "3W:50:5:15,4W-EV:25:8:20,4W:0:25:0".
func ParseFleet(s string) (Fleet, error) {
	var fleet Fleet
	seen := map[string]struct{}{}
	for i, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("parse fleet: entry #%d %q: expected name:count:capacity:rangeKm", i+1, entry)
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("parse fleet: entry #%d: empty name", i+1)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("parse fleet: duplicate vehicle type %q", name)
		}
		seen[name] = struct{}{}

		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("parse fleet: %s: invalid count %q", name, parts[1])
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || capacity < 1 {
			return nil, fmt.Errorf("parse fleet: %s: invalid capacity %q", name, parts[2])
		}
		rangeKm, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || rangeKm < 0 {
			return nil, fmt.Errorf("parse fleet: %s: invalid range %q", name, parts[3])
		}

		fleet = append(fleet, VehicleType{Name: name, Count: count, Capacity: capacity, RangeKm: rangeKm})
	}

	if len(fleet) == 0 {
		return nil, fmt.Errorf("parse fleet: no vehicle types in %q", s)
	}
	return fleet, nil
}

// FleetPool tracks how many vehicles of each type are still free during one
// optimization run. It is not safe for concurrent use.
type FleetPool struct {
	fleet Fleet
	used  []int
}

func NewFleetPool(f Fleet) *FleetPool {
	return &FleetPool{fleet: f, used: make([]int, len(f))}
}

func (p *FleetPool) Types() Fleet { return p.fleet }

// Available reports whether a vehicle of type index i can still be dispatched.
func (p *FleetPool) Available(i int) bool {
	t := p.fleet[i]
	return t.Unlimited() || p.used[i] < t.Count
}

// Acquire takes one vehicle of type index i from the pool.
func (p *FleetPool) Acquire(i int) error {
	if !p.Available(i) {
		return fmt.Errorf("acquire vehicle: type %s exhausted (count=%d)", p.fleet[i].Name, p.fleet[i].Count)
	}
	p.used[i]++
	return nil
}

// Release returns one vehicle of type index i to the pool.
func (p *FleetPool) Release(i int) {
	if p.used[i] > 0 {
		p.used[i]--
	}
}

// Used returns the number of dispatched vehicles of type index i.
func (p *FleetPool) Used(i int) int { return p.used[i] }
