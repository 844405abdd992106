package game

import (
	"errors"
	"fmt"
)

// Navigation errors. These are boundary signals rather than failures: the
// caller probes the edge of the tree and decides what to do next.
var (
	// ErrAtRoot indicates that the cursor is already at the root.
	ErrAtRoot = errors.New("game: already at the root")

	// ErrNoChildren indicates that the current node has no continuation.
	ErrNoChildren = errors.New("game: no moves to go forward to")
)

// Address errors.
var (
	// ErrOutOfRange indicates that an address does not fit the tree,
	// typically because the movetext was edited after the address was saved.
	ErrOutOfRange = errors.New("game: address out of range")
)

// Tree mutation errors.
var (
	// ErrRootNode indicates an operation that is not valid on the root,
	// such as promoting or removing it.
	ErrRootNode = errors.New("game: operation not valid on the root node")
)

// An IllegalMoveError is returned when the rules engine rejects a move.
// The tree is left unchanged.
type IllegalMoveError struct {
	Move string // the move as given by the caller
	FEN  string // the position it was attempted against
	Err  error  // the rules engine's reason
}

// Error implements the error interface.
func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("game: illegal move %q in position %q: %v", e.Move, e.FEN, e.Err)
}

// Unwrap returns the rules engine's error.
func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// An AddressError is returned when an address walks off the tree. It wraps
// ErrOutOfRange and records where the walk failed.
type AddressError struct {
	Address Address // the full address that failed
	Depth   int     // the step at which it failed
	Index   int     // the child index requested at that step
	Len     int     // the number of children actually present
}

// Error implements the error interface.
func (e *AddressError) Error() string {
	return fmt.Sprintf("game: address %s out of range at depth %d: index %d with %d children",
		e.Address, e.Depth, e.Index, e.Len)
}

// Unwrap returns ErrOutOfRange so callers can test with errors.Is.
func (e *AddressError) Unwrap() error {
	return ErrOutOfRange
}

// A MoveSequenceError is returned when a batch of moves fails part-way.
// Moves before Index have been applied and are retained; the cursor rests
// on the last applied node.
type MoveSequenceError struct {
	Index int    // position of the failing move in the batch
	Move  string // the failing move
	Err   error  // why it failed
}

// Error implements the error interface.
func (e *MoveSequenceError) Error() string {
	return fmt.Sprintf("game: move %d (%q) of sequence: %v", e.Index, e.Move, e.Err)
}

// Unwrap returns the underlying error.
func (e *MoveSequenceError) Unwrap() error {
	return e.Err
}
