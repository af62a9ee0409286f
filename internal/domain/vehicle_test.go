package domain

import "testing"

func TestParseFleet(t *testing.T) {
	fleet, err := ParseFleet("3W:50:5:15, 4W-EV:25:8:20,4W:0:25:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fleet) != 3 {
		t.Fatalf("expected 3 types, got %d", len(fleet))
	}
	if fleet[1].Name != "4W-EV" || fleet[1].Capacity != 8 || fleet[1].RangeKm != 20 {
		t.Errorf("unexpected second type: %+v", fleet[1])
	}
	if !fleet[2].Unlimited() || fleet[2].HasRange() {
		t.Errorf("4W should be unlimited without range: %+v", fleet[2])
	}

	for _, bad := range []string{"", "3W:50:5", "3W:x:5:15", "3W:1:0:15", "3W:1:5:-1", "A:1:1:1,A:1:1:1"} {
		if _, err := ParseFleet(bad); err == nil {
			t.Errorf("ParseFleet(%q) expected error", bad)
		}
	}
}

func TestFleetPoolAcquireRelease(t *testing.T) {
	pool := NewFleetPool(Fleet{
		{Name: "small", Count: 1, Capacity: 2},
		{Name: "big", Count: 0, Capacity: 10},
	})

	if err := pool.Acquire(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Available(0) {
		t.Fatalf("small pool should be exhausted")
	}
	if err := pool.Acquire(0); err == nil {
		t.Fatalf("expected exhaustion error")
	}

	pool.Release(0)
	if !pool.Available(0) {
		t.Fatalf("small pool should be available after release")
	}

	for i := 0; i < 100; i++ {
		if err := pool.Acquire(1); err != nil {
			t.Fatalf("unlimited pool refused vehicle %d: %v", i, err)
		}
	}
	if pool.Used(1) != 100 {
		t.Errorf("used = %d, want 100", pool.Used(1))
	}
}

func TestVehicleTypeFits(t *testing.T) {
	ev := VehicleType{Name: "4W-EV", Count: 25, Capacity: 8, RangeKm: 20}
	if !ev.Fits(8, 20000) {
		t.Errorf("8 stops over 20 km should fit")
	}
	if ev.Fits(9, 1000) {
		t.Errorf("9 stops should not fit capacity 8")
	}
	if ev.Fits(1, 20001) {
		t.Errorf("20.001 km should exceed range")
	}
}
