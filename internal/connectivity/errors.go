package connectivity

import "errors"

// ErrUnknownStart indicates a traversal was asked to start from a node
// handle outside the network's range.
var ErrUnknownStart = errors.New("connectivity: start node out of range")
