package game

import (
	"slices"
	"strconv"
	"strings"
)

// An Address names a node's location in the tree as the sequence of child
// indices chosen at each depth, read from the root. The empty address names
// the root. Addresses survive serialization: because children only ever
// append, an address saved before a game is encoded still resolves to the
// same node after the movetext is parsed back.
type Address []int

// AddressOf computes the address of a node by walking its parent links.
// The address of nil is nil; the address of a root is empty.
func AddressOf(n *Node) Address {
	if n == nil {
		return nil
	}
	addr := Address{}
	for cur := n; cur.parent != nil; cur = cur.parent {
		addr = append(addr, cur.childIndex())
	}
	slices.Reverse(addr)
	return addr
}

// Equal reports whether two addresses name the same location.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a, other)
}

// Copy returns an independent copy of the address.
func (a Address) Copy() Address {
	if a == nil {
		return nil
	}
	return slices.Clone(a)
}

// String implements the fmt.Stringer interface and renders the address in
// dotted form ("0.1.0"). The empty address renders as "-".
func (a Address) String() string {
	if len(a) == 0 {
		return "-"
	}
	parts := make([]string, len(a))
	for i, idx := range a {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}
