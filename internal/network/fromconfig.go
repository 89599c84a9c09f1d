package network

import (
	"fmt"

	"github.com/metrix-scopf/metrix/internal/config"
)

// FromConfig builds a Network directly from a configuration file's
// per-element parallel arrays: zone_ids; node_ids/node_zone/node_balance;
// branch_ids/branch_origin/branch_extremity/branch_y/branch_r and the two
// thermal threshold arrays; generator_ids/generator_node/generator_p0/
// generator_pmin/generator_pmax/generator_adjustability and the two cost
// arrays; load_ids/load_node/load_value and the shed-cost/shed-cap arrays.
// Every required array belonging to one element kind must have the same
// length. Optional float arrays (branch_r, branch_threshold_n, the cost
// arrays, the shed arrays) default to zeros when the key is absent or its
// length differs; branch_threshold_nk defaults to the N thresholds and
// generator_adjustability to preventive-only when absent, and either one
// present with a different length is rejected.
func FromConfig(kv *config.KV) (*Network, error) {
	b := NewBuilder()

	zoneIDs, err := kv.StringArray("zone_ids")
	if err != nil {
		return nil, fmt.Errorf("fromconfig: %w", err)
	}
	zoneByID := make(map[string]ZoneHandle, len(zoneIDs))
	for _, id := range zoneIDs {
		h, bb := b.AddZone(id)
		b = bb
		zoneByID[id] = h
	}

	nodeIDs, err := kv.StringArray("node_ids")
	if err != nil {
		return nil, fmt.Errorf("fromconfig: %w", err)
	}
	nodeZone, err := kv.StringArray("node_zone")
	if err != nil {
		return nil, fmt.Errorf("fromconfig: %w", err)
	}
	nodeBalance, err := kv.IntArray("node_balance")
	if err != nil {
		return nil, fmt.Errorf("fromconfig: %w", err)
	}
	if len(nodeZone) != len(nodeIDs) || len(nodeBalance) != len(nodeIDs) {
		return nil, fmt.Errorf("fromconfig: node_ids/node_zone/node_balance length mismatch")
	}
	for i, id := range nodeIDs {
		zh := ZoneHandle(NoHandle)
		if nodeZone[i] != "" {
			var ok bool
			zh, ok = zoneHandleOrFail(zoneByID, nodeZone[i])
			if !ok {
				return nil, fmt.Errorf("fromconfig: node %q references unknown zone %q", id, nodeZone[i])
			}
		}
		_, bb := b.AddNode(id, zh, nodeBalance[i] != 0)
		b = bb
	}

	if err := addBranches(b, kv); err != nil {
		return nil, err
	}
	if err := addGenerators(b, kv); err != nil {
		return nil, err
	}
	if err := addLoads(b, kv); err != nil {
		return nil, err
	}

	return b.Build()
}

func zoneHandleOrFail(m map[string]ZoneHandle, id string) (ZoneHandle, bool) {
	h, ok := m[id]
	return h, ok
}

func addBranches(b *Builder, kv *config.KV) error {
	ids, err := kv.StringArray("branch_ids")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	origin, err := kv.StringArray("branch_origin")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	extremity, err := kv.StringArray("branch_extremity")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	y, err := kv.FloatArray("branch_y")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	n := len(ids)
	if len(origin) != n || len(extremity) != n || len(y) != n {
		return fmt.Errorf("fromconfig: branch_ids/branch_origin/branch_extremity/branch_y length mismatch")
	}
	r := floatArrayOrZeros(kv, "branch_r", n)
	thrN := floatArrayOrZeros(kv, "branch_threshold_n", n)
	thrNk, err := kv.FloatArray("branch_threshold_nk")
	if err != nil {
		thrNk = append([]float64(nil), thrN...)
	} else if len(thrNk) != n {
		return fmt.Errorf("fromconfig: branch_threshold_nk length mismatch")
	}

	net := b.net
	for i, id := range ids {
		oh, err := net.NodeHandleByID(origin[i])
		if err != nil {
			return fmt.Errorf("fromconfig: branch %q origin: %w", id, err)
		}
		eh, err := net.NodeHandleByID(extremity[i])
		if err != nil {
			return fmt.Errorf("fromconfig: branch %q extremity: %w", id, err)
		}
		_, bb := b.AddBranch(Branch{
			ID:          id,
			Origin:      oh,
			Extremity:   eh,
			Y:           y[i],
			U2Y:         y[i],
			R:           r[i],
			Kind:        BranchReal,
			Connected:   true,
			ThresholdN:  thrN[i],
			ThresholdNk: thrNk[i],
		})
		b = bb
	}
	return b.err
}

func addGenerators(b *Builder, kv *config.KV) error {
	ids, err := kv.StringArray("generator_ids")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	node, err := kv.StringArray("generator_node")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	p0, err := kv.FloatArray("generator_p0")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	pmin, err := kv.FloatArray("generator_pmin")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	pmax, err := kv.FloatArray("generator_pmax")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	n := len(ids)
	if len(node) != n || len(p0) != n || len(pmin) != n || len(pmax) != n {
		return fmt.Errorf("fromconfig: generator arrays length mismatch")
	}
	adjustability, err := kv.IntArray("generator_adjustability")
	if err != nil {
		adjustability = make([]int, n)
		for i := range adjustability {
			adjustability[i] = int(AdjustPreventiveOnly)
		}
	} else if len(adjustability) != n {
		return fmt.Errorf("fromconfig: generator_adjustability length mismatch")
	}
	costUp := floatArrayOrZeros(kv, "generator_cost_up_hr", n)
	costDown := floatArrayOrZeros(kv, "generator_cost_down_hr", n)

	net := b.net
	for i, id := range ids {
		h, err := net.NodeHandleByID(node[i])
		if err != nil {
			return fmt.Errorf("fromconfig: generator %q: %w", id, err)
		}
		_, bb := b.AddGenerator(Generator{
			ID:            id,
			Host:          h,
			P0:            p0[i],
			Pmin:          pmin[i],
			Pmax:          pmax[i],
			Adjustability: Adjustability(adjustability[i]),
			CostUpHR:      costUp[i],
			CostDownHR:    costDown[i],
		})
		b = bb
	}
	return b.err
}

func addLoads(b *Builder, kv *config.KV) error {
	ids, err := kv.StringArray("load_ids")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	node, err := kv.StringArray("load_node")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	value, err := kv.FloatArray("load_value")
	if err != nil {
		return fmt.Errorf("fromconfig: %w", err)
	}
	n := len(ids)
	if len(node) != n || len(value) != n {
		return fmt.Errorf("fromconfig: load arrays length mismatch")
	}
	shedCost := floatArrayOrZeros(kv, "load_shed_cost", n)
	shedCap := floatArrayOrZeros(kv, "load_shed_cap", n)

	net := b.net
	for i, id := range ids {
		h, err := net.NodeHandleByID(node[i])
		if err != nil {
			return fmt.Errorf("fromconfig: load %q: %w", id, err)
		}
		_, bb := b.AddLoad(Load{
			ID:                id,
			Host:              h,
			Value:             value[i],
			ShedCost:          shedCost[i],
			ShedPercentageCap: shedCap[i],
		})
		b = bb
	}
	return b.err
}

func floatArrayOrZeros(kv *config.KV, key string, n int) []float64 {
	v, err := kv.FloatArray(key)
	if err != nil || len(v) != n {
		return make([]float64, n)
	}
	return v
}
