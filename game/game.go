/*
Package game implements the variation tree at the heart of the application:
a persistent, navigable tree of chess positions built from move sequences.

A Game owns the tree and a cursor. Moves pushed at the cursor either reuse
an existing child (replaying a known continuation never forks a duplicate)
or append a new one, so the same position reached by the same move is always
the same node. The first child of every node is the main line; the remaining
children are variations in creation order. Nodes are addressable by the
child indices on the path from the root, which stay valid across
serialization because children are only ever appended (promotion being the
one sanctioned reorder).

Legality is delegated to package chess. The tree itself never mutates on a
rejected move.

Example usage:

	g := game.New()
	if err := g.PushMoves([]string{"e4", "e5", "Nf3"}, nil); err != nil {
		log.Fatal(err)
	}
	g.GoBack()
	g.PushMove("Nc3", nil) // variation at move 2
*/
package game

import (
	"errors"

	"github.com/alextaconet/en-croissant/chess"
)

// An Outcome is the result of a game.
type Outcome string

const (
	UnknownOutcome Outcome = ""
	// NoOutcome indicates that a game is in progress or ended without a result.
	NoOutcome Outcome = "*"
	// WhiteWon indicates that white won the game.
	WhiteWon Outcome = "1-0"
	// BlackWon indicates that black won the game.
	BlackWon Outcome = "0-1"
	// Draw indicates that the game was a draw.
	Draw Outcome = "1/2-1/2"
)

// String implements the fmt.Stringer interface.
func (o Outcome) String() string {
	return string(o)
}

// A Method is the method that produced the outcome.
type Method uint8

const (
	// NoMethod indicates that an outcome hasn't occurred or that the method can't be determined.
	NoMethod Method = iota
	// Checkmate indicates that the game was won by checkmate.
	Checkmate
	// Resignation indicates that the game was won by resignation.
	Resignation
	// DrawOffer indicates that the game was drawn by agreement.
	DrawOffer
	// Stalemate indicates that the game was drawn by stalemate.
	Stalemate
	// ThreefoldRepetition indicates that the game was drawn when the current
	// position occurred three times and a player claimed the draw.
	ThreefoldRepetition
	// FivefoldRepetition indicates that the game was automatically drawn
	// by the current position occurring five times.
	FivefoldRepetition
	// FiftyMoveRule indicates that the game was drawn when the half move
	// clock reached one hundred and a player claimed the draw.
	FiftyMoveRule
	// SeventyFiveMoveRule indicates that the game was automatically drawn
	// when the half move clock reached one hundred and fifty.
	SeventyFiveMoveRule
	// InsufficientMaterial indicates that the game was automatically drawn
	// because neither side can deliver checkmate.
	InsufficientMaterial
)

// TagPairs holds PGN tag pairs keyed by tag name.
type TagPairs map[string]string

// A Game is a variation tree of positions with a cursor into it.
type Game struct {
	root    *Node
	current *Node
	outcome Outcome
	method  Method
	tags    TagPairs
}

// New returns a game whose tree holds the single root node at the standard
// starting position. Optional functions configure the initial state.
//
// Example:
//
//	// Standard game
//	g := game.New()
//
//	// Game from a custom position
//	fromFEN, err := game.FromFEN("8/8/8/8/8/4k3/8/R3K3 w Q - 0 1")
//	if err != nil {
//		log.Fatal(err)
//	}
//	g := game.New(fromFEN, game.WithTag("Event", "Endgame study"))
func New(options ...func(*Game)) *Game {
	root := &Node{pos: chess.StartingPosition()}
	g := &Game{
		root:    root,
		current: root,
		outcome: NoOutcome,
		method:  NoMethod,
		tags:    make(TagPairs),
	}
	for _, f := range options {
		if f != nil {
			f(g)
		}
	}
	return g
}

// FromFEN returns a game option that roots the tree at the position the FEN
// describes. An error is returned if the FEN does not parse.
func FromFEN(fen string) (func(*Game), error) {
	pos, err := chess.PositionFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return FromPosition(pos), nil
}

// FromPosition returns a game option that roots the tree at the given
// position.
func FromPosition(pos *chess.Position) func(*Game) {
	return func(g *Game) {
		g.root = &Node{pos: pos}
		g.current = g.root
		g.syncSetupTags()
		g.evaluatePositionStatus()
	}
}

// WithTag returns a game option that sets a PGN tag pair.
func WithTag(key, value string) func(*Game) {
	return func(g *Game) {
		g.tags[key] = value
	}
}

// Root returns the root node of the tree.
func (g *Game) Root() *Node {
	return g.root
}

// Current returns the node under the cursor.
func (g *Game) Current() *Node {
	return g.current
}

// Position returns the position at the cursor.
func (g *Game) Position() *chess.Position {
	return g.current.pos
}

// FEN returns the FEN of the position at the cursor.
func (g *Game) FEN() string {
	return g.current.pos.String()
}

// ValidMoves returns all legal moves in the position at the cursor.
func (g *Game) ValidMoves() []chess.Move {
	return g.current.pos.ValidMoves()
}

// Outcome returns the game outcome.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Method returns the method by which the outcome occurred.
func (g *Game) Method() Method {
	return g.method
}

// SetOutcome sets the outcome and method directly, overriding any detected
// result. It is used when loading a recorded game whose result token does
// not follow from the final position (resignations, adjudications).
func (g *Game) SetOutcome(outcome Outcome, method Method) {
	g.outcome = outcome
	g.method = method
}

// PushMoveOptions configures push behavior.
type PushMoveOptions struct {
	// ForceMainline moves the pushed continuation to the front of its
	// parent's children, making it the main line at that point.
	ForceMainline bool
}

// PushMove applies a move in standard algebraic notation at the cursor.
//
// If a child of the current node already leads to the resulting position,
// the cursor moves to that child and the tree is unchanged. Otherwise a new
// child is appended and the cursor moves to it. An illegal or unreadable
// move returns an *IllegalMoveError and leaves the game untouched.
//
// Example:
//
//	err := g.PushMove("e4", &game.PushMoveOptions{ForceMainline: true})
func (g *Game) PushMove(san string, options *PushMoveOptions) error {
	return g.PushNotationMove(san, chess.AlgebraicNotation{}, options)
}

// PushNotationMove applies a move in any supported notation at the cursor.
// The stored SAN is re-encoded from the decoded move, so "Ngf3", "g1f3" and
// "Nf3" all produce the same node text.
//
// Example:
//
//	g.PushNotationMove("e2e4", chess.UCINotation{}, nil)
func (g *Game) PushNotationMove(moveStr string, notation chess.Notation, options *PushMoveOptions) error {
	if options == nil {
		options = &PushMoveOptions{}
	}

	pos := g.current.pos
	move, err := notation.Decode(pos, moveStr)
	if err != nil {
		return &IllegalMoveError{Move: moveStr, FEN: pos.String(), Err: err}
	}
	next := pos.Update(move)

	if existing := g.findExistingChild(next); existing != nil {
		if options.ForceMainline {
			rotateToFront(existing)
		}
		g.current = existing
		return nil
	}

	node := &Node{
		parent: g.current,
		move:   move,
		san:    chess.AlgebraicNotation{}.Encode(pos, move),
		pos:    next,
	}
	if options.ForceMainline {
		g.current.children = append([]*Node{node}, g.current.children...)
	} else {
		g.current.children = append(g.current.children, node)
	}
	g.current = node

	g.evaluatePositionStatus()

	return nil
}

// PushMoves applies a sequence of moves in standard algebraic notation from
// the cursor. On failure the moves applied so far are kept, the cursor
// stays on the last applied node, and the returned *MoveSequenceError names
// the failing element.
func (g *Game) PushMoves(moves []string, options *PushMoveOptions) error {
	for i, san := range moves {
		if err := g.PushMove(san, options); err != nil {
			return &MoveSequenceError{Index: i, Move: san, Err: err}
		}
	}
	return nil
}

// findExistingChild returns the child of the current node whose position
// matches pos under canonical comparison, or nil.
func (g *Game) findExistingChild(pos *chess.Position) *Node {
	for _, child := range g.current.children {
		if child.pos.SamePosition(pos) {
			return child
		}
	}
	return nil
}

// rotateToFront moves n to index 0 of its parent's children, shifting the
// earlier siblings right by one so their relative order is preserved.
func rotateToFront(n *Node) {
	children := n.parent.children
	for i, child := range children {
		if child == n {
			copy(children[1:i+1], children[:i])
			children[0] = n
			return
		}
	}
}

// GoBack moves the cursor to the parent node. It returns ErrAtRoot if the
// cursor is already at the root.
func (g *Game) GoBack() error {
	if g.current.parent == nil {
		return ErrAtRoot
	}
	g.current = g.current.parent
	return nil
}

// GoForward moves the cursor to the main continuation, the first child. It
// returns ErrNoChildren if the cursor is at a leaf.
func (g *Game) GoForward() error {
	if len(g.current.children) == 0 {
		return ErrNoChildren
	}
	g.current = g.current.children[0]
	return nil
}

// GoToStart moves the cursor to the root of the tree.
func (g *Game) GoToStart() {
	g.current = g.root
}

// GoToEnd moves the cursor forward along first children until a leaf.
func (g *Game) GoToEnd() {
	for len(g.current.children) > 0 {
		g.current = g.current.children[0]
	}
}

// GoToAddress moves the cursor to the node the address names and returns
// it. If any index is out of bounds an *AddressError is returned and the
// cursor does not move.
func (g *Game) GoToAddress(addr Address) (*Node, error) {
	node := g.root
	for depth, index := range addr {
		if index < 0 || index >= len(node.children) {
			return nil, &AddressError{
				Address: addr.Copy(),
				Depth:   depth,
				Index:   index,
				Len:     len(node.children),
			}
		}
		node = node.children[index]
	}
	g.current = node
	return node, nil
}

// CurrentAddress returns the address of the node under the cursor.
func (g *Game) CurrentAddress() Address {
	return AddressOf(g.current)
}

// NavigateToMainLine moves the cursor up to the nearest ancestor that lies
// on the main line. The cursor does not move if it is already there.
func (g *Game) NavigateToMainLine() {
	cur := g.current
	for !cur.IsMainLine() {
		cur = cur.parent
	}
	g.current = cur
}

// IsAtStart reports whether the cursor is at the root.
func (g *Game) IsAtStart() bool {
	return g.current == g.root
}

// IsAtEnd reports whether the cursor is at a leaf.
func (g *Game) IsAtEnd() bool {
	return len(g.current.children) == 0
}

// ResetToPosition discards the entire tree and replaces it with a fresh
// single-node root at the given position. Used when the board is edited
// piece by piece rather than played.
func (g *Game) ResetToPosition(pos *chess.Position) {
	g.root = &Node{pos: pos}
	g.current = g.root
	g.outcome = NoOutcome
	g.method = NoMethod
	g.syncSetupTags()
	g.evaluatePositionStatus()
}

// MainLine returns the sequence root, root.children[0], ... down to a
// leaf. The slice is recomputed per call and safe to retain; the nodes are
// live tree nodes.
func (g *Game) MainLine() []*Node {
	line := make([]*Node, 0, 16)
	for node := g.root; ; node = node.children[0] {
		line = append(line, node)
		if len(node.children) == 0 {
			return line
		}
	}
}

// Variations returns the alternative continuations at the given node, i.e.
// all children except the main line, or nil if there are none.
func (g *Game) Variations(n *Node) []*Node {
	if n == nil || len(n.children) <= 1 {
		return nil
	}
	return n.children[1:]
}

// Promote moves the node to the front of its parent's children, making it
// the main continuation at that point. The displaced siblings keep their
// relative order. Promoting the root returns ErrRootNode.
func (g *Game) Promote(n *Node) error {
	if n == nil || n.parent == nil {
		return ErrRootNode
	}
	rotateToFront(n)
	return nil
}

// PromoteToMainLine promotes the node and each of its ancestors so that the
// node ends up on the main line.
func (g *Game) PromoteToMainLine(n *Node) error {
	if n == nil || n.parent == nil {
		return ErrRootNode
	}
	for cur := n; cur.parent != nil; cur = cur.parent {
		rotateToFront(cur)
	}
	return nil
}

// RemoveVariation detaches the node and its subtree from the tree. If the
// cursor was at or below the node it relocates to the node's parent.
// Removing the root returns ErrRootNode.
func (g *Game) RemoveVariation(n *Node) error {
	if n == nil || n.parent == nil {
		return ErrRootNode
	}
	if n == g.current || n.IsAncestorOf(g.current) {
		g.current = n.parent
	}
	children := n.parent.children
	for i, child := range children {
		if child == n {
			n.parent.children = append(children[:i], children[i+1:]...)
			break
		}
	}
	n.parent = nil
	return nil
}

// Draw attempts to end the game as a draw by the given method. Claimed
// draws are validated against the position at the cursor; an invalid claim
// returns an error and the game is unchanged.
func (g *Game) Draw(method Method) error {
	const halfMoveClockForFiftyMoveRule = 100
	const repetitionsForThreefoldRepetition = 3

	switch method {
	case ThreefoldRepetition:
		if g.repetitions() < repetitionsForThreefoldRepetition {
			return errors.New("game: draw by ThreefoldRepetition requires at least three repetitions of the current position")
		}
	case FiftyMoveRule:
		if g.current.pos.HalfMoveClock() < halfMoveClockForFiftyMoveRule {
			return errors.New("game: draw by FiftyMoveRule requires a half move clock of 100 or greater")
		}
	case DrawOffer:
	default:
		return errors.New("game: invalid draw method")
	}
	g.outcome = Draw
	g.method = method
	return nil
}

// Resign resigns the game for the given color. If the game has already
// ended the game is not updated.
func (g *Game) Resign(color chess.Color) {
	if g.outcome != NoOutcome || color == chess.NoColor {
		return
	}
	if color == chess.White {
		g.outcome = BlackWon
	} else {
		g.outcome = WhiteWon
	}
	g.method = Resignation
}

// EligibleDraws returns the methods Draw currently accepts.
func (g *Game) EligibleDraws() []Method {
	const halfMoveClockForFiftyMoveRule = 100
	const repetitionsForThreefoldRepetition = 3

	draws := []Method{DrawOffer}
	if g.repetitions() >= repetitionsForThreefoldRepetition {
		draws = append(draws, ThreefoldRepetition)
	}
	if g.current.pos.HalfMoveClock() >= halfMoveClockForFiftyMoveRule {
		draws = append(draws, FiftyMoveRule)
	}
	return draws
}

// AddTagPair adds or updates a tag pair with the given key and value and
// returns true if an existing value was overwritten.
func (g *Game) AddTagPair(key, value string) bool {
	if g.tags == nil {
		g.tags = make(TagPairs)
	}
	_, existing := g.tags[key]
	g.tags[key] = value
	return existing
}

// GetTagPair returns the value for the given tag key, or "" if it is not
// present.
func (g *Game) GetTagPair(key string) string {
	return g.tags[key]
}

// TagPairs returns the game's tag pairs.
func (g *Game) TagPairs() TagPairs {
	return g.tags
}

// RemoveTagPair removes the tag pair for the given key and returns true if
// a tag pair was removed.
func (g *Game) RemoveTagPair(key string) bool {
	if _, existing := g.tags[key]; existing {
		delete(g.tags, key)
		return true
	}
	return false
}

// Clone returns a deep copy of the game. The clone's cursor sits at the
// same address as the original's; later changes to either tree do not
// affect the other.
func (g *Game) Clone() *Game {
	clone := &Game{
		root:    g.root.clone(nil),
		outcome: g.outcome,
		method:  g.method,
		tags:    make(TagPairs, len(g.tags)),
	}
	for k, v := range g.tags {
		clone.tags[k] = v
	}
	cur := clone.root
	for _, index := range g.CurrentAddress() {
		cur = cur.children[index]
	}
	clone.current = cur
	return clone
}

// syncSetupTags keeps the SetUp and FEN tags consistent with the root
// position: present when the tree is rooted away from the standard start,
// absent otherwise.
func (g *Game) syncSetupTags() {
	fen := g.root.pos.String()
	if fen == chess.StartingFEN {
		delete(g.tags, "SetUp")
		delete(g.tags, "FEN")
		return
	}
	g.tags["SetUp"] = "1"
	g.tags["FEN"] = fen
}

// evaluatePositionStatus updates the outcome and method from the position
// at the cursor.
func (g *Game) evaluatePositionStatus() {
	pos := g.current.pos
	switch pos.Status() {
	case chess.Stalemate:
		g.outcome = Draw
		g.method = Stalemate
	case chess.Checkmate:
		g.method = Checkmate
		g.outcome = WhiteWon
		if pos.Turn() == chess.White {
			g.outcome = BlackWon
		}
	}
	if g.outcome != NoOutcome {
		return
	}

	// Repetition and move-count draws are automatic at five and
	// seventy-five; the claimable thresholds live in Draw.
	if g.repetitions() >= 5 {
		g.outcome = Draw
		g.method = FivefoldRepetition
	}
	if pos.HalfMoveClock() >= 150 {
		g.outcome = Draw
		g.method = SeventyFiveMoveRule
	}
	if !pos.Board().HasSufficientMaterial() {
		g.outcome = Draw
		g.method = InsufficientMaterial
	}
}

// repetitions counts how many times the position at the cursor occurs on
// the path from the cursor to the root. Repetitions on other branches do
// not count toward the current line.
func (g *Game) repetitions() int {
	count := 0
	for node := g.current; node != nil; node = node.parent {
		if g.current.pos.SamePosition(node.pos) {
			count++
		}
	}
	return count
}
