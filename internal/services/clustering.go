package services

import (
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"sort"
)

type cluster struct {
	leader  int
	members []int
}

// clusterNodes groups shipment nodes by proximity using leader clustering:
// nodes are visited in shipment id order and join the nearest leader within
// radiusMeters, or become the leader of a new cluster. With a zero radius only
// co-located shipments share a cluster.
//
// The returned node order is the insertion order: clusters by earliest window
// start then leader id, members by window end then id.
func clusterNodes(m ports.Matrix, shipments []domain.Shipment, radiusMeters float64) []int {
	nodes := make([]int, len(shipments))
	for i := range shipments {
		nodes[i] = i + 1
	}
	id := func(node int) string { return shipments[node-1].ID }
	win := func(node int) domain.TimeWindow { return shipments[node-1].Window }

	sort.Slice(nodes, func(a, b int) bool { return id(nodes[a]) < id(nodes[b]) })

	var clusters []*cluster
	for _, node := range nodes {
		var best *cluster
		bestMeters := 0
		for _, cl := range clusters {
			d := m.At(cl.leader, node).DistanceMeters
			if float64(d) > radiusMeters {
				continue
			}
			// Ties keep the earlier cluster.
			if best == nil || d < bestMeters {
				best, bestMeters = cl, d
			}
		}
		if best == nil {
			clusters = append(clusters, &cluster{leader: node, members: []int{node}})
			continue
		}
		best.members = append(best.members, node)
	}

	earliest := make(map[*cluster]int, len(clusters))
	for _, cl := range clusters {
		start := win(cl.members[0]).Start
		for _, n := range cl.members[1:] {
			start = min(start, win(n).Start)
		}
		earliest[cl] = start
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		ca, cb := clusters[a], clusters[b]
		if earliest[ca] != earliest[cb] {
			return earliest[ca] < earliest[cb]
		}
		return id(ca.leader) < id(cb.leader)
	})

	order := make([]int, 0, len(shipments))
	for _, cl := range clusters {
		sort.SliceStable(cl.members, func(a, b int) bool {
			wa, wb := win(cl.members[a]), win(cl.members[b])
			if wa.End != wb.End {
				return wa.End < wb.End
			}
			return id(cl.members[a]) < id(cl.members[b])
		})
		order = append(order, cl.members...)
	}

	return order
}
