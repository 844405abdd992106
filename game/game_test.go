package game

import (
	"errors"
	"testing"

	"github.com/alextaconet/en-croissant/chess"
)

// walkNodes visits every node of the subtree rooted at n in depth-first
// order.
func walkNodes(n *Node, visit func(*Node)) {
	visit(n)
	for _, child := range n.Children() {
		walkNodes(child, visit)
	}
}

func countNodes(n *Node) int {
	count := 0
	walkNodes(n, func(*Node) { count++ })
	return count
}

func TestPushMovesMainLine(t *testing.T) {
	g := New()
	if err := g.PushMoves([]string{"e4", "e5", "Nf3"}, nil); err != nil {
		t.Fatal(err)
	}
	line := g.MainLine()
	if len(line) != 4 {
		t.Fatalf("expected 4 nodes in the main line but got %d", len(line))
	}
	if line[0] != g.Root() {
		t.Fatal("main line should start at the root")
	}
	want := []string{"", "e4", "e5", "Nf3"}
	for i, n := range line {
		if n.SAN() != want[i] {
			t.Fatalf("expected %q at main line index %d but got %q", want[i], i, n.SAN())
		}
	}
	if g.Current() != line[3] {
		t.Fatal("cursor should sit on the last pushed node")
	}
	if !g.IsAtEnd() {
		t.Fatal("cursor should be at a leaf")
	}
	if addr := g.CurrentAddress(); addr.String() != "0.0.0" {
		t.Fatalf("expected address 0.0.0 but got %s", addr)
	}
}

func TestPushMoveIllegal(t *testing.T) {
	g := New()
	err := g.PushMove("Qh5", nil)
	if err == nil {
		t.Fatal("expected an error for an illegal move")
	}
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected *IllegalMoveError but got %T", err)
	}
	if illegal.Move != "Qh5" {
		t.Fatalf("expected move %q in error but got %q", "Qh5", illegal.Move)
	}
	if illegal.FEN != chess.StartingFEN {
		t.Fatalf("expected starting FEN in error but got %q", illegal.FEN)
	}
	if !errors.Is(err, chess.ErrNoLegalMove) {
		t.Fatalf("expected error to wrap chess.ErrNoLegalMove, got %v", err)
	}
	if len(g.Root().Children()) != 0 {
		t.Fatal("tree should be unchanged after an illegal move")
	}
	if !g.IsAtStart() {
		t.Fatal("cursor should be unchanged after an illegal move")
	}

	if err := g.PushMove("xyzzy", nil); !errors.Is(err, chess.ErrInvalidNotation) {
		t.Fatalf("expected error to wrap chess.ErrInvalidNotation, got %v", err)
	}
}

func TestVariationFork(t *testing.T) {
	g := New()
	if err := g.PushMoves([]string{"e4", "e5", "Nf3"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.GoBack(); err != nil {
		t.Fatal(err)
	}
	if err := g.PushMove("Nc3", nil); err != nil {
		t.Fatal(err)
	}
	parent := g.Current().Parent()
	children := parent.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 children at the fork but got %d", len(children))
	}
	if children[0].SAN() != "Nf3" {
		t.Fatalf("expected Nf3 to stay the main line but got %q", children[0].SAN())
	}
	if children[1].SAN() != "Nc3" {
		t.Fatalf("expected Nc3 as the variation but got %q", children[1].SAN())
	}
	if g.Current() != children[1] {
		t.Fatal("cursor should sit on the new variation node")
	}
	if addr := g.CurrentAddress(); addr.String() != "0.0.1" {
		t.Fatalf("expected address 0.0.1 but got %s", addr)
	}
}

func TestReplayReusesChild(t *testing.T) {
	g := New()
	if err := g.PushMove("e4", nil); err != nil {
		t.Fatal(err)
	}
	first := g.Current()
	g.GoToStart()
	if err := g.PushMove("e4", nil); err != nil {
		t.Fatal(err)
	}
	if g.Current() != first {
		t.Fatal("replaying an existing continuation should reuse the node")
	}
	if len(g.Root().Children()) != 1 {
		t.Fatalf("expected 1 child after replay but got %d", len(g.Root().Children()))
	}

	// Replay with a fork present still finds the right child.
	if err := g.PushMove("e5", nil); err != nil {
		t.Fatal(err)
	}
	if err := g.GoBack(); err != nil {
		t.Fatal(err)
	}
	if err := g.PushMove("c5", nil); err != nil {
		t.Fatal(err)
	}
	if err := g.GoBack(); err != nil {
		t.Fatal(err)
	}
	if err := g.PushMove("e5", nil); err != nil {
		t.Fatal(err)
	}
	if g.Current().SAN() != "e5" || g.Current() != first.Children()[0] {
		t.Fatal("replay should land on the existing e5 node")
	}
	if len(first.Children()) != 2 {
		t.Fatalf("expected 2 children after replay but got %d", len(first.Children()))
	}
}

func TestNoDuplicateChildren(t *testing.T) {
	g := New()
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	g.GoToStart()
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	g.GoToStart()
	if err := g.PushMoves([]string{"e4", "c5", "Nf3"}, nil); err != nil {
		t.Fatal(err)
	}
	if got := countNodes(g.Root()); got != 8 {
		t.Fatalf("expected 8 nodes but got %d", got)
	}
	walkNodes(g.Root(), func(n *Node) {
		children := n.Children()
		for i := 0; i < len(children); i++ {
			for j := i + 1; j < len(children); j++ {
				if children[i].Position().SamePosition(children[j].Position()) {
					t.Fatalf("node %s has duplicate children %q and %q",
						AddressOf(n), children[i].SAN(), children[j].SAN())
				}
			}
		}
	})
}

func TestNavigationBoundaries(t *testing.T) {
	g := New()
	if err := g.GoBack(); !errors.Is(err, ErrAtRoot) {
		t.Fatalf("expected ErrAtRoot but got %v", err)
	}
	if err := g.GoForward(); !errors.Is(err, ErrNoChildren) {
		t.Fatalf("expected ErrNoChildren on an empty tree but got %v", err)
	}
	if err := g.PushMoves([]string{"e4", "e5"}, nil); err != nil {
		t.Fatal(err)
	}
	leaf := g.Current()
	if err := g.GoForward(); !errors.Is(err, ErrNoChildren) {
		t.Fatalf("expected ErrNoChildren at a leaf but got %v", err)
	}
	if g.Current() != leaf {
		t.Fatal("cursor should not move on a failed GoForward")
	}
	if got := countNodes(g.Root()); got != 3 {
		t.Fatalf("expected 3 nodes but got %d", got)
	}
	g.GoToStart()
	if err := g.GoBack(); !errors.Is(err, ErrAtRoot) {
		t.Fatalf("expected ErrAtRoot but got %v", err)
	}
}

// buildForkedTree pushes a tree with variations at two depths:
// root -> [e4, d4], e4 -> e5 -> [Nf3, Nc3], Nc3 -> Nf6.
func buildForkedTree(t *testing.T) *Game {
	t.Helper()
	g := New()
	if err := g.PushMoves([]string{"e4", "e5", "Nf3"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.GoBack(); err != nil {
		t.Fatal(err)
	}
	if err := g.PushMoves([]string{"Nc3", "Nf6"}, nil); err != nil {
		t.Fatal(err)
	}
	g.GoToStart()
	if err := g.PushMove("d4", nil); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestAddressRoundTrip(t *testing.T) {
	g := buildForkedTree(t)
	walkNodes(g.Root(), func(n *Node) {
		addr := AddressOf(n)
		got, err := g.GoToAddress(addr)
		if err != nil {
			t.Fatalf("GoToAddress(%s): %v", addr, err)
		}
		if got != n {
			t.Fatalf("GoToAddress(%s) resolved to a different node", addr)
		}
		if !addr.Equal(AddressOf(got)) {
			t.Fatalf("address %s not stable across resolution", addr)
		}
	})
}

func TestGoToAddressOutOfRange(t *testing.T) {
	g := buildForkedTree(t)
	g.GoToStart()
	before := g.Current()

	_, err := g.GoToAddress(Address{0, 9})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange but got %v", err)
	}
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		t.Fatalf("expected *AddressError but got %T", err)
	}
	if addrErr.Depth != 1 || addrErr.Index != 9 || addrErr.Len != 1 {
		t.Fatalf("unexpected address error detail: %+v", addrErr)
	}
	if g.Current() != before {
		t.Fatal("cursor should not move on a failed GoToAddress")
	}

	if _, err := g.GoToAddress(Address{-1}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for a negative index but got %v", err)
	}
}

func TestGoToEndFollowsCurrentLine(t *testing.T) {
	g := buildForkedTree(t)
	g.GoToStart()
	g.GoToEnd()
	if g.Current().SAN() != "Nf3" {
		t.Fatalf("expected main line leaf Nf3 but got %q", g.Current().SAN())
	}
	if _, err := g.GoToAddress(Address{0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	g.GoToEnd()
	if g.Current().SAN() != "Nf6" {
		t.Fatalf("expected variation leaf Nf6 but got %q", g.Current().SAN())
	}
}

func TestNavigateToMainLine(t *testing.T) {
	g := buildForkedTree(t)
	if _, err := g.GoToAddress(Address{0, 0, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if g.Current().SAN() != "Nf6" {
		t.Fatalf("expected to start at Nf6 but got %q", g.Current().SAN())
	}
	g.NavigateToMainLine()
	if g.Current().SAN() != "e5" {
		t.Fatalf("expected nearest main line ancestor e5 but got %q", g.Current().SAN())
	}
	g.NavigateToMainLine()
	if g.Current().SAN() != "e5" {
		t.Fatal("NavigateToMainLine should not move a main line cursor")
	}
}

func TestPushMovesPartialFailure(t *testing.T) {
	g := New()
	err := g.PushMoves([]string{"e4", "Ke7", "d4"}, nil)
	if err == nil {
		t.Fatal("expected an error for an illegal move in the sequence")
	}
	var seqErr *MoveSequenceError
	if !errors.As(err, &seqErr) {
		t.Fatalf("expected *MoveSequenceError but got %T", err)
	}
	if seqErr.Index != 1 || seqErr.Move != "Ke7" {
		t.Fatalf("expected failure at index 1 (Ke7) but got index %d (%s)", seqErr.Index, seqErr.Move)
	}
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Fatal("sequence error should wrap the illegal move error")
	}
	if g.Current().SAN() != "e4" {
		t.Fatalf("cursor should stay on the last applied move, got %q", g.Current().SAN())
	}
	if got := countNodes(g.Root()); got != 2 {
		t.Fatalf("expected applied moves to be retained, got %d nodes", got)
	}
}

func TestForceMainline(t *testing.T) {
	g := New()
	for _, san := range []string{"e4", "d4"} {
		if err := g.PushMove(san, nil); err != nil {
			t.Fatal(err)
		}
		g.GoToStart()
	}
	if err := g.PushMove("c4", &PushMoveOptions{ForceMainline: true}); err != nil {
		t.Fatal(err)
	}
	order := func() []string {
		var sans []string
		for _, child := range g.Root().Children() {
			sans = append(sans, child.SAN())
		}
		return sans
	}
	want := []string{"c4", "e4", "d4"}
	for i, san := range order() {
		if san != want[i] {
			t.Fatalf("expected child order %v but got %v", want, order())
		}
	}

	// Forcing an existing child rotates it to the front.
	g.GoToStart()
	if err := g.PushMove("d4", &PushMoveOptions{ForceMainline: true}); err != nil {
		t.Fatal(err)
	}
	want = []string{"d4", "c4", "e4"}
	for i, san := range order() {
		if san != want[i] {
			t.Fatalf("expected child order %v but got %v", want, order())
		}
	}
	if got := countNodes(g.Root()); got != 4 {
		t.Fatalf("forcing an existing child should not add nodes, got %d", got)
	}
}

func TestPromote(t *testing.T) {
	g := New()
	for _, san := range []string{"e4", "d4", "c4"} {
		if err := g.PushMove(san, nil); err != nil {
			t.Fatal(err)
		}
		g.GoToStart()
	}
	third := g.Root().Children()[2]
	if err := g.Promote(third); err != nil {
		t.Fatal(err)
	}
	want := []string{"c4", "e4", "d4"}
	for i, child := range g.Root().Children() {
		if child.SAN() != want[i] {
			t.Fatalf("expected child order %v after promote", want)
		}
	}
	if err := g.Promote(g.Root()); !errors.Is(err, ErrRootNode) {
		t.Fatalf("expected ErrRootNode but got %v", err)
	}
}

func TestPromoteToMainLine(t *testing.T) {
	g := buildForkedTree(t)
	node, err := g.GoToAddress(Address{0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if node.IsMainLine() {
		t.Fatal("variation node should not start on the main line")
	}
	if err := g.PromoteToMainLine(node); err != nil {
		t.Fatal(err)
	}
	if !node.IsMainLine() {
		t.Fatal("node should be on the main line after PromoteToMainLine")
	}
	if !AddressOf(node).Equal(Address{0, 0, 0, 0}) {
		t.Fatalf("expected address 0.0.0.0 but got %s", AddressOf(node))
	}
	// The displaced line is still present as a variation.
	fork := node.Parent().Parent()
	if len(fork.Children()) != 2 || fork.Children()[1].SAN() != "Nf3" {
		t.Fatal("displaced main line should remain as the second child")
	}
}

func TestRemoveVariation(t *testing.T) {
	g := buildForkedTree(t)
	variation, err := g.GoToAddress(Address{0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	g.GoToEnd() // cursor inside the subtree being removed
	parent := variation.Parent()
	if err := g.RemoveVariation(variation); err != nil {
		t.Fatal(err)
	}
	if g.Current() != parent {
		t.Fatal("cursor should relocate to the parent of the removed subtree")
	}
	if len(parent.Children()) != 1 || parent.Children()[0].SAN() != "Nf3" {
		t.Fatal("only the removed child should be gone")
	}
	if err := g.RemoveVariation(g.Root()); !errors.Is(err, ErrRootNode) {
		t.Fatalf("expected ErrRootNode but got %v", err)
	}

	// Removing a branch the cursor is not on leaves the cursor alone.
	cursor := g.Current()
	if err := g.RemoveVariation(g.Root().Children()[1]); err != nil {
		t.Fatal(err)
	}
	if g.Current() != cursor {
		t.Fatal("cursor should not move when removing an unrelated branch")
	}
	if len(g.Root().Children()) != 1 {
		t.Fatalf("expected 1 root child but got %d", len(g.Root().Children()))
	}
}

func TestResetToPosition(t *testing.T) {
	g := New()
	if err := g.PushMoves([]string{"e4", "e5"}, nil); err != nil {
		t.Fatal(err)
	}
	pos, err := chess.PositionFromFEN("8/8/8/8/8/4k3/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	g.ResetToPosition(pos)
	if countNodes(g.Root()) != 1 {
		t.Fatal("reset should discard the previous tree")
	}
	if !g.IsAtStart() || !g.IsAtEnd() {
		t.Fatal("cursor should sit on the fresh root")
	}
	if g.GetTagPair("SetUp") != "1" || g.GetTagPair("FEN") != pos.String() {
		t.Fatal("reset to a custom position should set the SetUp and FEN tags")
	}
	if err := g.PushMove("O-O", nil); err != nil {
		t.Fatal(err)
	}

	g.ResetToPosition(chess.StartingPosition())
	if g.GetTagPair("SetUp") != "" || g.GetTagPair("FEN") != "" {
		t.Fatal("reset to the starting position should clear the SetUp and FEN tags")
	}
	if g.Outcome() != NoOutcome {
		t.Fatalf("expected outcome %s but got %s", NoOutcome, g.Outcome())
	}
}

func TestCheckmate(t *testing.T) {
	fromFEN, err := FromFEN("rn1qkbnr/pbpp1ppp/1p6/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if err := g.PushMove("Qxf7#", nil); err != nil {
		t.Fatal(err)
	}
	if g.Method() != Checkmate {
		t.Fatalf("expected method %d but got %d", Checkmate, g.Method())
	}
	if g.Outcome() != WhiteWon {
		t.Fatalf("expected outcome %s but got %s", WhiteWon, g.Outcome())
	}

	// Checkmate delivered by castling.
	fromFEN, err = FromFEN("Q7/5Qp1/3k2N1/7p/8/4B3/PP3PPP/R3K2R w KQ - 0 31")
	if err != nil {
		t.Fatal(err)
	}
	g = New(fromFEN)
	if err := g.PushMove("O-O-O", nil); err != nil {
		t.Fatal(err)
	}
	if g.Method() != Checkmate {
		t.Fatalf("expected method %d but got %d", Checkmate, g.Method())
	}
	if g.Outcome() != WhiteWon {
		t.Fatalf("expected outcome %s but got %s", WhiteWon, g.Outcome())
	}
}

func TestCheckmateFromFEN(t *testing.T) {
	fromFEN, err := FromFEN("rn1qkbnr/pbpp1Qpp/1p6/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if g.Method() != Checkmate {
		t.Fatalf("expected method %d but got %d", Checkmate, g.Method())
	}
	if g.Outcome() != WhiteWon {
		t.Fatalf("expected outcome %s but got %s", WhiteWon, g.Outcome())
	}
}

func TestStalemate(t *testing.T) {
	fromFEN, err := FromFEN("k1K5/8/8/8/8/8/8/1Q6 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if err := g.PushMove("Qb6", nil); err != nil {
		t.Fatal(err)
	}
	if g.Method() != Stalemate {
		t.Fatalf("expected method %d but got %d", Stalemate, g.Method())
	}
	if g.Outcome() != Draw {
		t.Fatalf("expected outcome %s but got %s", Draw, g.Outcome())
	}
}

func TestThreefoldRepetition(t *testing.T) {
	g := New()
	moves := []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
	}
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(ThreefoldRepetition); err != nil {
		t.Fatalf("%v - %d repetitions", err, g.repetitions())
	}
	if g.Outcome() != Draw || g.Method() != ThreefoldRepetition {
		t.Fatal("claimed draw should be recorded")
	}
}

func TestInvalidThreefoldRepetition(t *testing.T) {
	g := New()
	if err := g.PushMoves([]string{"Nf3", "Nf6", "Ng1", "Ng8"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(ThreefoldRepetition); err == nil {
		t.Fatal("should require three repetitions of the current position")
	}
}

func TestRepetitionCountsCurrentLineOnly(t *testing.T) {
	g := New()
	moves := []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
	}
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	g.GoToStart()
	// The starting position occurred three times in the pushed line, but
	// from the root's point of view it has occurred once.
	if err := g.Draw(ThreefoldRepetition); err == nil {
		t.Fatal("repetitions on a line below the cursor should not support a claim at the root")
	}
}

func TestFivefoldRepetition(t *testing.T) {
	g := New()
	moves := []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
	}
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	if g.Outcome() != Draw || g.Method() != FivefoldRepetition {
		t.Fatal("should automatically draw after five repetitions")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	fromFEN, err := FromFEN("2r3k1/1q1nbppp/r3p3/3pP3/pPpP4/P1Q2N2/2RN1PPP/2R4K b - - 100 60")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if err := g.Draw(FiftyMoveRule); err != nil {
		t.Fatal(err)
	}
}

func TestInvalidFiftyMoveRule(t *testing.T) {
	fromFEN, err := FromFEN("2r3k1/1q1nbppp/r3p3/3pP3/pPpP4/P1Q2N2/2RN1PPP/2R4K b - - 99 60")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if err := g.Draw(FiftyMoveRule); err == nil {
		t.Fatal("should require a half move clock of 100 or greater")
	}
}

func TestSeventyFiveMoveRule(t *testing.T) {
	fromFEN, err := FromFEN("2r3k1/1q1nbppp/r3p3/3pP3/pPpP4/P1Q2N2/2RN1PPP/2R4K b - - 149 80")
	if err != nil {
		t.Fatal(err)
	}
	g := New(fromFEN)
	if err := g.PushMove("Kf8", nil); err != nil {
		t.Fatal(err)
	}
	if g.Outcome() != Draw || g.Method() != SeventyFiveMoveRule {
		t.Fatal("should automatically draw after seventy five moves with no pawn move or capture")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	fens := []string{
		"8/2k5/8/8/8/3K4/8/8 w - - 1 1",
		"8/2k5/8/8/8/3K1N2/8/8 w - - 1 1",
		"8/2k5/8/8/8/3K1B2/8/8 w - - 1 1",
		"8/2k5/2b5/8/8/3K1B2/8/8 w - - 1 1",
		"4b3/2k5/2b5/8/8/3K1B2/8/8 w - - 1 1",
	}
	for _, f := range fens {
		fromFEN, err := FromFEN(f)
		if err != nil {
			t.Fatal(err)
		}
		g := New(fromFEN)
		if g.Outcome() != Draw || g.Method() != InsufficientMaterial {
			t.Fatalf("%s should automatically draw by insufficient material", f)
		}
	}
}

func TestSufficientMaterial(t *testing.T) {
	fens := []string{
		"8/2k5/8/8/8/3K1B2/4N3/8 w - - 1 1",
		"8/2k5/8/8/8/3KBB2/8/8 w - - 1 1",
		"8/2k1b3/8/8/8/3K1B2/8/8 w - - 1 1",
		"8/2k5/8/8/4P3/3K4/8/8 w - - 1 1",
		"8/2k5/8/8/8/3KQ3/8/8 w - - 1 1",
		"8/2k5/8/8/8/3KR3/8/8 w - - 1 1",
	}
	for _, f := range fens {
		fromFEN, err := FromFEN(f)
		if err != nil {
			t.Fatal(err)
		}
		g := New(fromFEN)
		if g.Outcome() != NoOutcome {
			t.Fatalf("%s should not draw by insufficient material", f)
		}
	}
}

func TestResign(t *testing.T) {
	g := New()
	g.Resign(chess.White)
	if g.Outcome() != BlackWon || g.Method() != Resignation {
		t.Fatalf("expected %s by resignation but got %s", BlackWon, g.Outcome())
	}
	g.Resign(chess.Black)
	if g.Outcome() != BlackWon {
		t.Fatal("resigning a finished game should not change the outcome")
	}

	g = New()
	g.Resign(chess.NoColor)
	if g.Outcome() != NoOutcome {
		t.Fatal("resigning for no color should not change the outcome")
	}
}

func TestEligibleDraws(t *testing.T) {
	g := New()
	draws := g.EligibleDraws()
	if len(draws) != 1 || draws[0] != DrawOffer {
		t.Fatalf("expected only DrawOffer but got %v", draws)
	}
	moves := []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1", "Ng8",
	}
	if err := g.PushMoves(moves, nil); err != nil {
		t.Fatal(err)
	}
	draws = g.EligibleDraws()
	if len(draws) != 2 || draws[1] != ThreefoldRepetition {
		t.Fatalf("expected DrawOffer and ThreefoldRepetition but got %v", draws)
	}
}

func TestSetOutcome(t *testing.T) {
	g := New()
	g.SetOutcome(WhiteWon, Resignation)
	if g.Outcome() != WhiteWon || g.Method() != Resignation {
		t.Fatal("SetOutcome should override the detected result")
	}
	g.SetOutcome(NoOutcome, NoMethod)
	if g.Outcome() != NoOutcome || g.Method() != NoMethod {
		t.Fatal("SetOutcome should be able to clear the result")
	}
}

func TestTagPairs(t *testing.T) {
	g := New(WithTag("Event", "Club match"))
	if g.GetTagPair("Event") != "Club match" {
		t.Fatal("WithTag should set the tag pair")
	}
	if overwritten := g.AddTagPair("White", "Adams"); overwritten {
		t.Fatal("adding a new tag should not report an overwrite")
	}
	if overwritten := g.AddTagPair("White", "Byrne"); !overwritten {
		t.Fatal("updating a tag should report an overwrite")
	}
	if g.GetTagPair("White") != "Byrne" {
		t.Fatalf("expected White tag %q but got %q", "Byrne", g.GetTagPair("White"))
	}
	if !g.RemoveTagPair("White") {
		t.Fatal("removing an existing tag should report true")
	}
	if g.RemoveTagPair("White") {
		t.Fatal("removing a missing tag should report false")
	}
}

func TestClone(t *testing.T) {
	g := New(WithTag("Event", "Original"))
	if err := g.PushMoves([]string{"e4", "e5"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := g.GoBack(); err != nil {
		t.Fatal(err)
	}
	g.Current().SetComment("sharp")

	c := g.Clone()
	if c.Root() == g.Root() {
		t.Fatal("clone should not share nodes with the original")
	}
	if !c.CurrentAddress().Equal(g.CurrentAddress()) {
		t.Fatalf("expected clone cursor at %s but got %s", g.CurrentAddress(), c.CurrentAddress())
	}
	if c.Current().SAN() != "e4" || c.Current().Comment() != "sharp" {
		t.Fatal("clone should carry node payloads")
	}
	if c.GetTagPair("Event") != "Original" {
		t.Fatal("clone should carry tag pairs")
	}

	if err := c.PushMove("c5", nil); err != nil {
		t.Fatal(err)
	}
	if len(g.Current().Children()) != 1 {
		t.Fatal("pushing on the clone should not touch the original")
	}
	c.AddTagPair("Event", "Copy")
	if g.GetTagPair("Event") != "Original" {
		t.Fatal("clone tags should be independent")
	}
}

func TestPushNotationMoveUCI(t *testing.T) {
	g := New()
	if err := g.PushNotationMove("g1f3", chess.UCINotation{}, nil); err != nil {
		t.Fatal(err)
	}
	if g.Current().SAN() != "Nf3" {
		t.Fatalf("expected canonical SAN %q but got %q", "Nf3", g.Current().SAN())
	}
	// The same continuation in a different notation reuses the node.
	g.GoToStart()
	if err := g.PushMove("Nf3", nil); err != nil {
		t.Fatal(err)
	}
	if len(g.Root().Children()) != 1 {
		t.Fatal("identical continuations in different notations should dedupe")
	}
}

func TestFromFENInvalid(t *testing.T) {
	if _, err := FromFEN("not a fen"); !errors.Is(err, chess.ErrInvalidFEN) {
		t.Fatalf("expected chess.ErrInvalidFEN but got %v", err)
	}
}

func TestNodeHelpers(t *testing.T) {
	g := buildForkedTree(t)
	root := g.Root()
	if !root.IsRoot() || root.Parent() != nil || root.Move() != nil || root.SAN() != "" {
		t.Fatal("root should have no move and no parent")
	}
	nc3, err := g.GoToAddress(Address{0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if nc3.Depth() != 3 {
		t.Fatalf("expected depth 3 but got %d", nc3.Depth())
	}
	if nc3.IsMainLine() {
		t.Fatal("second child should not be on the main line")
	}
	if !root.IsAncestorOf(nc3) {
		t.Fatal("root should be an ancestor of every node")
	}
	if nc3.IsAncestorOf(nc3) {
		t.Fatal("a node is not its own ancestor")
	}
	siblings := nc3.Siblings()
	if len(siblings) != 1 || siblings[0].SAN() != "Nf3" {
		t.Fatalf("expected sibling Nf3 but got %v", siblings)
	}
	if root.Siblings() != nil {
		t.Fatal("root should have no siblings")
	}
	leaf := nc3.Children()[0]
	if !leaf.IsLeaf() || leaf.IsRoot() {
		t.Fatal("Nf6 should be a non-root leaf")
	}
}

func TestNodeAnnotations(t *testing.T) {
	g := New()
	if err := g.PushMove("e4", nil); err != nil {
		t.Fatal(err)
	}
	n := g.Current()
	n.SetComment("Best by test")
	n.AddComment("or so they say")
	if n.Comment() != "Best by test or so they say" {
		t.Fatalf("unexpected comment %q", n.Comment())
	}
	n.SetNAG("$1")
	if n.NAG() != "$1" {
		t.Fatalf("expected NAG $1 but got %q", n.NAG())
	}
	n.SetCommand("clk", "0:05:00")
	if v, ok := n.Command("clk"); !ok || v != "0:05:00" {
		t.Fatalf("expected clk command but got %q", v)
	}
	cmds := n.Commands()
	cmds["clk"] = "tampered"
	if v, _ := n.Command("clk"); v != "0:05:00" {
		t.Fatal("Commands should return a copy")
	}
	if _, ok := n.Command("eval"); ok {
		t.Fatal("missing command should not be found")
	}
}
