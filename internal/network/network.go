package network

import (
	"fmt"
	"sync"
)

// Network is the arena of every element plus the handle tables used to
// resolve an external ID (as it appears in the configuration file) to its
// handle. Builder populates it; once Build succeeds the only mutations are
// the Set* methods below, used by the variant overlay, and every other
// component treats the Network as read-only.
type Network struct {
	mu sync.RWMutex

	nodes      []Node
	branches   []Branch
	psts       []PhaseShifter
	hvdcs      []HVDCLink
	generators []Generator
	loads      []Load
	zones      []SynchronousZone

	nodeByID   map[string]NodeHandle
	branchByID map[string]BranchHandle
	zoneByID   map[string]ZoneHandle

	built bool
}

// New returns an empty Network ready for Builder to populate.
func New() *Network {
	return &Network{
		nodeByID:   make(map[string]NodeHandle),
		branchByID: make(map[string]BranchHandle),
		zoneByID:   make(map[string]ZoneHandle),
	}
}

// Builder accumulates elements into a Network and performs the invariant
// checks on Build.
type Builder struct {
	net *Network
	err error // first error encountered; subsequent calls become no-ops
}

// NewBuilder starts building a fresh Network.
func NewBuilder() *Builder {
	return &Builder{net: New()}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddZone registers a synchronous zone and returns its handle.
func (b *Builder) AddZone(id string) (ZoneHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if _, exists := b.net.zoneByID[id]; exists {
		b.fail(fmt.Errorf("zone %q: %w", id, ErrDuplicateNodeID))
		return NoHandle, b
	}
	h := ZoneHandle(len(b.net.zones))
	b.net.zones = append(b.net.zones, SynchronousZone{ID: id, BalanceNode: NoHandle})
	b.net.zoneByID[id] = h
	return h, b
}

// AddNode registers a node and returns its handle. zone may be NoHandle for
// an isolated node (validated away at Build time unless it stays isolated).
func (b *Builder) AddNode(id string, zone ZoneHandle, isBalance bool) (NodeHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if id == "" {
		b.fail(ErrEmptyNodeID)
		return NoHandle, b
	}
	if _, exists := b.net.nodeByID[id]; exists {
		b.fail(fmt.Errorf("node %q: %w", id, ErrDuplicateNodeID))
		return NoHandle, b
	}
	if zone != NoHandle && (int(zone) < 0 || int(zone) >= len(b.net.zones)) {
		b.fail(fmt.Errorf("node %q: %w", id, ErrUnknownZone))
		return NoHandle, b
	}

	h := NodeHandle(len(b.net.nodes))
	b.net.nodes = append(b.net.nodes, Node{ID: id, Zone: zone, IsBalance: isBalance})
	b.net.nodeByID[id] = h

	if isBalance && zone != NoHandle {
		z := &b.net.zones[zone]
		if z.BalanceNode != NoHandle && z.BalanceNode != h {
			b.fail(fmt.Errorf("zone %q: %w", b.net.zones[zone].ID, ErrMultipleBalanceNodes))
			return h, b
		}
		z.BalanceNode = h
	}
	return h, b
}

// AddBranch registers a Quadripole between two already-added nodes.
func (b *Builder) AddBranch(br Branch) (BranchHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if err := b.net.checkNode(br.Origin); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	if err := b.net.checkNode(br.Extremity); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	if br.Connected && br.Y <= 0 {
		b.fail(fmt.Errorf("branch %q: %w", br.ID, ErrNonPositiveAdmittance))
		return NoHandle, b
	}

	h := BranchHandle(len(b.net.branches))
	b.net.branches = append(b.net.branches, br)
	if br.ID != "" {
		b.net.branchByID[br.ID] = h
	}
	b.net.nodes[br.Origin].Branches = append(b.net.nodes[br.Origin].Branches, h)
	b.net.nodes[br.Extremity].Branches = append(b.net.nodes[br.Extremity].Branches, h)
	return h, b
}

// AddPhaseShifter registers a TD hosted on an existing branch.
func (b *Builder) AddPhaseShifter(pst PhaseShifter) (PSTHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if int(pst.Host) < 0 || int(pst.Host) >= len(b.net.branches) {
		b.fail(fmt.Errorf("phase-shifter %q: unknown host branch", pst.ID))
		return NoHandle, b
	}
	h := PSTHandle(len(b.net.psts))
	b.net.psts = append(b.net.psts, pst)
	br := b.net.branches[pst.Host]
	b.net.nodes[br.Origin].PSTs = append(b.net.nodes[br.Origin].PSTs, h)
	b.net.nodes[br.Extremity].PSTs = append(b.net.nodes[br.Extremity].PSTs, h)
	return h, b
}

// AddHVDC registers a LigneCC between two already-added nodes.
func (b *Builder) AddHVDC(link HVDCLink) (HVDCHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if err := b.net.checkNode(link.Origin); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	if err := b.net.checkNode(link.Extremity); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	h := HVDCHandle(len(b.net.hvdcs))
	b.net.hvdcs = append(b.net.hvdcs, link)
	b.net.nodes[link.Origin].HVDCs = append(b.net.nodes[link.Origin].HVDCs, h)
	b.net.nodes[link.Extremity].HVDCs = append(b.net.nodes[link.Extremity].HVDCs, h)
	return h, b
}

// AddGenerator registers a generator hosted on an existing node.
func (b *Builder) AddGenerator(g Generator) (GeneratorHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if err := b.net.checkNode(g.Host); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	h := GeneratorHandle(len(b.net.generators))
	b.net.generators = append(b.net.generators, g)
	b.net.nodes[g.Host].Generators = append(b.net.nodes[g.Host].Generators, h)
	return h, b
}

// AddLoad registers a load hosted on an existing node.
func (b *Builder) AddLoad(l Load) (LoadHandle, *Builder) {
	if b.err != nil {
		return NoHandle, b
	}
	if err := b.net.checkNode(l.Host); err != nil {
		b.fail(err)
		return NoHandle, b
	}
	h := LoadHandle(len(b.net.loads))
	b.net.loads = append(b.net.loads, l)
	b.net.nodes[l.Host].Loads = append(b.net.nodes[l.Host].Loads, h)
	return h, b
}

func (n *Network) checkNode(h NodeHandle) error {
	if int(h) < 0 || int(h) >= len(n.nodes) {
		return ErrUnknownNode
	}
	return nil
}

// Build validates the topology's core invariants and freezes the
// Network: exactly one balance node per synchronous zone, every
// non-isolated node belongs to a zone.
func (b *Builder) Build() (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}
	n := b.net

	for zh := range n.zones {
		if n.zones[zh].BalanceNode == NoHandle {
			return nil, fmt.Errorf("zone %q: %w", n.zones[zh].ID, ErrNoBalanceNode)
		}
	}
	for _, node := range n.nodes {
		isolated := len(node.Branches) == 0 && len(node.HVDCs) == 0
		if node.Zone == NoHandle && !isolated {
			return nil, fmt.Errorf("node %q: %w", node.ID, ErrNodeWithoutZone)
		}
	}

	n.built = true
	return n, nil
}

// --- read-only accessors used by every downstream component ---

func (n *Network) NumNodes() int      { return len(n.nodes) }
func (n *Network) NumBranches() int   { return len(n.branches) }
func (n *Network) NumZones() int      { return len(n.zones) }
func (n *Network) Node(h NodeHandle) Node                 { return n.nodes[h] }
func (n *Network) Branch(h BranchHandle) Branch           { return n.branches[h] }
func (n *Network) PST(h PSTHandle) PhaseShifter            { return n.psts[h] }
func (n *Network) HVDC(h HVDCHandle) HVDCLink               { return n.hvdcs[h] }
func (n *Network) Generator(h GeneratorHandle) Generator   { return n.generators[h] }
func (n *Network) Load(h LoadHandle) Load                  { return n.loads[h] }
func (n *Network) Zone(h ZoneHandle) SynchronousZone        { return n.zones[h] }

func (n *Network) AllBranches() []Branch       { return n.branches }
func (n *Network) AllPSTs() []PhaseShifter     { return n.psts }
func (n *Network) AllHVDCs() []HVDCLink        { return n.hvdcs }
func (n *Network) AllGenerators() []Generator  { return n.generators }
func (n *Network) AllLoads() []Load            { return n.loads }
func (n *Network) AllZones() []SynchronousZone { return n.zones }
func (n *Network) AllNodes() []Node            { return n.nodes }

// NodeHandleByID resolves an external node ID to its handle.
func (n *Network) NodeHandleByID(id string) (NodeHandle, error) {
	h, ok := n.nodeByID[id]
	if !ok {
		return NoHandle, fmt.Errorf("%q: %w", id, ErrUnknownNode)
	}
	return h, nil
}

// BranchHandleByID resolves an external branch ID to its handle.
func (n *Network) BranchHandleByID(id string) (BranchHandle, error) {
	h, ok := n.branchByID[id]
	if !ok {
		return NoHandle, fmt.Errorf("branch %q: not found", id)
	}
	return h, nil
}

// ZoneHandleByID resolves an external zone ID to its handle.
func (n *Network) ZoneHandleByID(id string) (ZoneHandle, error) {
	h, ok := n.zoneByID[id]
	if !ok {
		return NoHandle, fmt.Errorf("%q: %w", id, ErrUnknownZone)
	}
	return h, nil
}

// Mu exposes the read-write lock the variant overlay uses while a topology
// delta group is applied, so concurrent variant-group workers never observe
// a half-applied overlay. Network data itself is read-only after Build;
// the lock only serializes overlay apply/rollback.
func (n *Network) Mu() *sync.RWMutex { return &n.mu }

// The setters below are the sole mutation surface for elements after Build.
// They exist for internal/variant's transactional overlay only: every
// setter returns the prior value so the overlay can restore it exactly on
// rollback, bit-identically (within 1e-12 for floating-point fields).

// SetBranchConnected sets a branch's connected flag and returns the prior value.
func (n *Network) SetBranchConnected(h BranchHandle, connected bool) bool {
	prev := n.branches[h].Connected
	n.branches[h].Connected = connected
	return prev
}

// SetBranchThresholds overwrites a branch's four threshold fields and
// returns the prior values (N, Nk, beforeCurative, ITAM).
func (n *Network) SetBranchThresholds(h BranchHandle, tN, tNk, tBeforeCur, tITAM float64) (float64, float64, float64, float64) {
	br := &n.branches[h]
	prev := [4]float64{br.ThresholdN, br.ThresholdNk, br.ThresholdBeforeCurative, br.ThresholdITAM}
	br.ThresholdN, br.ThresholdNk, br.ThresholdBeforeCurative, br.ThresholdITAM = tN, tNk, tBeforeCur, tITAM
	return prev[0], prev[1], prev[2], prev[3]
}

// SetGeneratorSchedule overwrites P0/Pmin/Pmax and returns the prior values.
func (n *Network) SetGeneratorSchedule(h GeneratorHandle, p0, pmin, pmax float64) (float64, float64, float64) {
	g := &n.generators[h]
	prevP0, prevMin, prevMax := g.P0, g.Pmin, g.Pmax
	g.P0, g.Pmin, g.Pmax = p0, pmin, pmax
	return prevP0, prevMin, prevMax
}

// SetGeneratorCosts overwrites the four cost fields and returns the prior values.
func (n *Network) SetGeneratorCosts(h GeneratorHandle, upHR, upAR, downHR, downAR float64) (float64, float64, float64, float64) {
	g := &n.generators[h]
	prev := [4]float64{g.CostUpHR, g.CostUpAR, g.CostDownHR, g.CostDownAR}
	g.CostUpHR, g.CostUpAR, g.CostDownHR, g.CostDownAR = upHR, upAR, downHR, downAR
	return prev[0], prev[1], prev[2], prev[3]
}

// SetLoadValue overwrites a load's value and returns the prior value.
func (n *Network) SetLoadValue(h LoadHandle, value float64) float64 {
	l := &n.loads[h]
	prev := l.Value
	l.Value = value
	return prev
}

// SetPSTSetPoint overwrites a phase-shifter's mode and set-point and
// returns the prior values.
func (n *Network) SetPSTSetPoint(h PSTHandle, mode PSTMode, setPoint float64) (PSTMode, float64) {
	p := &n.psts[h]
	prevMode, prevSP := p.Mode, p.SetPoint
	p.Mode, p.SetPoint = mode, setPoint
	return prevMode, prevSP
}

// SetHVDCSetPoint overwrites an HVDC link's mode and set-point and returns
// the prior values.
func (n *Network) SetHVDCSetPoint(h HVDCHandle, mode HVDCMode, setPoint float64) (HVDCMode, float64) {
	l := &n.hvdcs[h]
	prevMode, prevSP := l.Mode, l.SetPoint
	l.Mode, l.SetPoint = mode, setPoint
	return prevMode, prevSP
}
