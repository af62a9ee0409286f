package services

import (
	"context"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config holds the planning parameters of an Optimizer.
type Config struct {
	Depot domain.Coordinates
	Fleet domain.Fleet
	// DispatchStart is the earliest depot departure, minutes after midnight.
	DispatchStart    int
	ServiceMinutes   int
	ClusterRadiusKm  float64
	TwoOptIterations int
}

// DefaultConfig matches the store's standing setup.
func DefaultConfig() Config {
	return Config{
		Depot:            domain.Coordinates{Lat: 19.075887, Lon: 72.877911},
		Fleet:            domain.DefaultFleet(),
		DispatchStart:    0,
		ServiceMinutes:   10,
		ClusterRadiusKm:  3,
		TwoOptIterations: 50,
	}
}

// Optimizer groups shipments into vehicle trips.
//
// The heuristic is cluster-first greedy insertion followed by 2-opt:
// shipments are clustered by proximity, inserted one by one at the cheapest
// feasible position of any open trip (opening trips on the smallest free
// vehicle when needed), and each trip is then locally improved. Results are
// deterministic for identical input.
type Optimizer struct {
	cfg      Config
	provider ports.DistanceProvider
	now      func() time.Time
}

func NewOptimizer(cfg Config, provider ports.DistanceProvider) (*Optimizer, error) {
	if provider == nil {
		return nil, errors.New("new optimizer: provider is nil")
	}
	if err := cfg.Depot.Validate(); err != nil {
		return nil, fmt.Errorf("new optimizer: depot: %w", err)
	}
	if len(cfg.Fleet) == 0 {
		return nil, errors.New("new optimizer: fleet is empty")
	}
	for _, vt := range cfg.Fleet {
		if vt.Capacity < 1 {
			return nil, fmt.Errorf("new optimizer: vehicle %s has capacity %d", vt.Name, vt.Capacity)
		}
	}
	if cfg.ServiceMinutes < 0 || cfg.ClusterRadiusKm < 0 || cfg.TwoOptIterations < 0 {
		return nil, errors.New("new optimizer: service minutes, cluster radius and iterations must not be negative")
	}
	if cfg.DispatchStart < 0 || cfg.DispatchStart >= domain.MinutesPerDay {
		return nil, fmt.Errorf("new optimizer: dispatch start %d outside the day", cfg.DispatchStart)
	}

	return &Optimizer{cfg: cfg, provider: provider, now: time.Now}, nil
}

func (o *Optimizer) Config() Config { return o.cfg }

// Optimize plans trips for shipments. Structural problems fail the whole call
// with a *domain.ValidationError before any distance is fetched. Shipments that
// cannot be placed are returned in Unassigned rather than failing the call.
// An expired or cancelled ctx yields domain.ErrOptimizationTimeout.
func (o *Optimizer) Optimize(ctx context.Context, shipments []domain.Shipment) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "services.Optimize")(&err)

	if err := domain.ValidateShipments(shipments); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, timeoutErr(err)
	}

	points := make([]domain.Coordinates, 0, len(shipments)+1)
	points = append(points, o.cfg.Depot)
	for _, s := range shipments {
		points = append(points, s.Location)
	}

	m, err := BuildMatrix(ctx, o.provider, points)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, timeoutErr(ctxErr)
		}
		return nil, fmt.Errorf("optimize: %w", err)
	}

	checker := &FeasibilityChecker{
		Matrix:         m,
		Shipments:      shipments,
		DispatchStart:  o.cfg.DispatchStart,
		ServiceMinutes: o.cfg.ServiceMinutes,
	}
	p := newPlanner(checker, o.cfg.Fleet)

	unassigned := []domain.Unassigned{}
	for _, node := range clusterNodes(m, shipments, o.cfg.ClusterRadiusKm*1000) {
		if err := ctx.Err(); err != nil {
			return nil, timeoutErr(err)
		}

		err := p.insert(node)
		var ue *UnassignedError
		switch {
		case err == nil:
		case errors.As(err, &ue):
			unassigned = append(unassigned, domain.Unassigned{Shipment: shipments[node-1], Reason: ue.Reason})
		default:
			return nil, fmt.Errorf("optimize: insert %q: %w", shipments[node-1].ID, err)
		}
	}

	for _, tr := range p.trips {
		if err := ctx.Err(); err != nil {
			return nil, timeoutErr(err)
		}
		improveTwoOpt(checker, tr, o.cfg.TwoOptIterations)
	}

	trips := make([]domain.Trip, 0, len(p.trips))
	for _, tr := range p.trips {
		trips = append(trips, buildTrip(checker, o.cfg.Fleet, tr))
	}
	sort.SliceStable(trips, func(a, b int) bool {
		if trips[a].DepartAt != trips[b].DepartAt {
			return trips[a].DepartAt < trips[b].DepartAt
		}
		return trips[a].Stops[0].Shipment.ID < trips[b].Stops[0].Shipment.ID
	})
	for i := range trips {
		trips[i].TripID = fmt.Sprintf("T%03d_1", i+1)
	}

	sort.Slice(unassigned, func(a, b int) bool { return unassigned[a].Shipment.ID < unassigned[b].Shipment.ID })

	result := &domain.OptimizationResult{
		CreatedAt:  o.now().UTC(),
		Depot:      o.cfg.Depot,
		Trips:      trips,
		Unassigned: unassigned,
	}

	log.WithFields(log.Fields{
		"req_id":     obs.ReqID(ctx),
		"shipments":  len(shipments),
		"trips":      len(trips),
		"unassigned": len(unassigned),
		"meters":     result.TotalDistanceMeters(),
	}).Info("optimization finished")

	return result, nil
}

func timeoutErr(cause error) error {
	return fmt.Errorf("optimize: %w: %w", domain.ErrOptimizationTimeout, cause)
}
