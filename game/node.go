package game

import (
	"github.com/alextaconet/en-croissant/chess"
)

// A Node is one position in the variation tree, reached from its parent by
// a single move. The root node has no move and no parent. A node's children
// are ordered: the first child continues the main line, the rest are
// variations in the order they were created.
//
// Nodes are created by Game push operations and the PGN parser; they are
// never constructed directly.
type Node struct {
	parent   *Node
	children []*Node
	move     *chess.Move
	san      string
	pos      *chess.Position

	// Annotations are opaque payloads attached by callers (analysis UI,
	// PGN comments) and carried through serialization verbatim.
	comment  string
	nag      string
	commands map[string]string
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in order. The returned slice is the
// node's own; callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// Move returns the move that produced this node, or nil for the root.
func (n *Node) Move() *chess.Move {
	return n.move
}

// SAN returns the standard algebraic notation of the move that produced
// this node, encoded against the parent's position, or "" for the root.
func (n *Node) SAN() string {
	return n.san
}

// Position returns the position at this node.
func (n *Node) Position() *chess.Position {
	return n.pos
}

// IsRoot reports whether the node is the root of its tree.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// IsLeaf reports whether the node has no continuation.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// IsMainLine reports whether the node lies on the main line, i.e. it and
// every ancestor is the first child of its parent.
func (n *Node) IsMainLine() bool {
	for cur := n; cur.parent != nil; cur = cur.parent {
		if cur.parent.children[0] != cur {
			return false
		}
	}
	return true
}

// Depth returns the number of moves from the root to this node.
func (n *Node) Depth() int {
	depth := 0
	for cur := n; cur.parent != nil; cur = cur.parent {
		depth++
	}
	return depth
}

// IsAncestorOf reports whether the node lies strictly above other on the
// path to the root.
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil {
		return false
	}
	for cur := other.parent; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Siblings returns the alternatives to this node: its parent's other
// children, in order. The root has no siblings.
func (n *Node) Siblings() []*Node {
	if n.parent == nil || len(n.parent.children) <= 1 {
		return nil
	}
	siblings := make([]*Node, 0, len(n.parent.children)-1)
	for _, child := range n.parent.children {
		if child != n {
			siblings = append(siblings, child)
		}
	}
	return siblings
}

// Comment returns the comment text attached to the node.
func (n *Node) Comment() string {
	return n.comment
}

// SetComment attaches comment text to the node, replacing any previous
// text. The content is not interpreted.
func (n *Node) SetComment(text string) {
	n.comment = text
}

// AddComment appends comment text to the node, separated from existing
// text by a space.
func (n *Node) AddComment(text string) {
	if n.comment != "" {
		n.comment += " " + text
	} else {
		n.comment = text
	}
}

// NAG returns the numeric annotation glyph attached to the node ("$1",
// "$4", ...), or "".
func (n *Node) NAG() string {
	return n.nag
}

// SetNAG attaches a numeric annotation glyph to the node.
func (n *Node) SetNAG(nag string) {
	n.nag = nag
}

// Command returns the value of an embedded command ("[%key value]")
// attached to the node.
func (n *Node) Command(key string) (string, bool) {
	v, ok := n.commands[key]
	return v, ok
}

// Commands returns a copy of the node's embedded commands, or nil if there
// are none.
func (n *Node) Commands() map[string]string {
	if len(n.commands) == 0 {
		return nil
	}
	m := make(map[string]string, len(n.commands))
	for k, v := range n.commands {
		m[k] = v
	}
	return m
}

// SetCommand attaches a single embedded command to the node.
func (n *Node) SetCommand(key, value string) {
	if n.commands == nil {
		n.commands = make(map[string]string)
	}
	n.commands[key] = value
}

// SetCommands replaces the node's embedded commands.
func (n *Node) SetCommands(m map[string]string) {
	n.commands = m
}

// childIndex returns the node's index in its parent's children, or -1 for
// the root.
func (n *Node) childIndex() int {
	if n.parent == nil {
		return -1
	}
	for i, child := range n.parent.children {
		if child == n {
			return i
		}
	}
	return -1
}

// clone deep-copies the node and its subtree under the given parent.
func (n *Node) clone(parent *Node) *Node {
	c := &Node{
		parent:  parent,
		san:     n.san,
		pos:     n.pos,
		comment: n.comment,
		nag:     n.nag,
	}
	if n.move != nil {
		c.move = n.move.Copy()
	}
	if len(n.commands) > 0 {
		c.commands = make(map[string]string, len(n.commands))
		for k, v := range n.commands {
			c.commands[k] = v
		}
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.clone(c)
		}
	}
	return c
}
