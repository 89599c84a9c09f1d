package network

import "errors"

// Sentinel errors for network construction and queries.
var (
	// ErrEmptyNodeID indicates a node was added with an empty external ID.
	ErrEmptyNodeID = errors.New("network: node id is empty")

	// ErrDuplicateNodeID indicates two nodes were added with the same external ID.
	ErrDuplicateNodeID = errors.New("network: duplicate node id")

	// ErrUnknownNode indicates a handle or external ID does not resolve to a node.
	ErrUnknownNode = errors.New("network: unknown node")

	// ErrUnknownZone indicates a handle or external ID does not resolve to a synchronous zone.
	ErrUnknownZone = errors.New("network: unknown synchronous zone")

	// ErrNonPositiveAdmittance indicates a connected branch was given admittance <= 0.
	ErrNonPositiveAdmittance = errors.New("network: connected branch must have admittance > 0")

	// ErrMultipleBalanceNodes indicates a synchronous zone was given more than one balance node.
	ErrMultipleBalanceNodes = errors.New("network: synchronous zone has more than one balance node")

	// ErrNoBalanceNode indicates a synchronous zone has no balance node at Build time.
	ErrNoBalanceNode = errors.New("network: synchronous zone has no balance node")

	// ErrNodeWithoutZone indicates a non-isolated node was not assigned to any synchronous zone.
	ErrNodeWithoutZone = errors.New("network: non-isolated node has no synchronous zone")

	// ErrAlreadyBuilt indicates a mutation was attempted after Build froze the network.
	ErrAlreadyBuilt = errors.New("network: network is already built; use a variant overlay for per-scenario changes")
)
