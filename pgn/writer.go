package pgn

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/alextaconet/en-croissant/chess"
	"github.com/alextaconet/en-croissant/game"
)

// requiredTags are written first, in this order; remaining tags follow
// alphabetically.
var requiredTags = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

var tagValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Encode renders the whole game as PGN: the sorted tag section, the full
// variation tree with comments, commands, and glyphs, and the result
// token. Parsing the output reconstructs an equivalent tree.
func Encode(g *game.Game) string {
	var sb strings.Builder

	writeTagPairs(g.TagPairs(), &sb)

	movetext := encodeMovetext(g)
	if movetext != "" {
		sb.WriteString(movetext)
		sb.WriteString(" ")
	}

	outcome := g.Outcome()
	if outcome == game.UnknownOutcome {
		outcome = game.NoOutcome
	}
	sb.WriteString(outcome.String())

	return sb.String()
}

// EncodePath renders the single line from the root to n as numbered SAN,
// without tags, variations, or a result token. A nil n means the cursor.
func EncodePath(g *game.Game, n *game.Node) string {
	if n == nil {
		n = g.Current()
	}
	var nodes []*game.Node
	for cur := n; cur != nil; cur = cur.Parent() {
		nodes = append(nodes, cur)
	}
	slices.Reverse(nodes)

	var sb strings.Builder
	for i, node := range nodes[1:] {
		pos := nodes[i].Position()
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		if pos.Turn() == chess.White {
			sb.WriteString(fmt.Sprintf("%d. ", pos.FullMoves()))
		} else if i == 0 {
			sb.WriteString(fmt.Sprintf("%d... ", pos.FullMoves()))
		}
		sb.WriteString(node.SAN())
	}
	return sb.String()
}

type tagPair struct {
	Key   string
	Value string
}

func writeTagPairs(tags game.TagPairs, sb *strings.Builder) {
	if len(tags) == 0 {
		return
	}
	pairs := make([]tagPair, 0, len(tags))
	for key, value := range tags {
		pairs = append(pairs, tagPair{Key: key, Value: value})
	}
	slices.SortFunc(pairs, cmpTags)
	for _, pair := range pairs {
		sb.WriteString(fmt.Sprintf("[%s \"%s\"]\n", pair.Key, tagValueEscaper.Replace(pair.Value)))
	}
	sb.WriteString("\n")
}

func cmpTags(a, b tagPair) int {
	if a.Key == b.Key {
		return 0
	}
	for _, req := range requiredTags {
		if a.Key == req {
			return -1
		}
		if b.Key == req {
			return +1
		}
	}
	if a.Key < b.Key {
		return -1
	}
	if b.Key < a.Key {
		return +1
	}
	return 0
}

func encodeMovetext(g *game.Game) string {
	var sb strings.Builder
	root := g.Root()

	writeComment(root, &sb)
	writeCommands(root, &sb)

	if len(root.Children()) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		pos := root.Position()
		writeMoves(root, pos.FullMoves(), pos.Turn() == chess.White, &sb, false, false, true)
	}

	// Annotation helpers write with a leading space; at the front of the
	// movetext it is dropped.
	return strings.TrimSpace(sb.String())
}

// writeMoves writes node's first child (or node itself when it heads a
// variation) followed by the alternatives to that child and the rest of
// the line.
func writeMoves(node *game.Node, moveNum int, isWhite bool, sb *strings.Builder, subVariation, closedVariation, isRoot bool) {
	if node == nil {
		return
	}

	current := node
	if !subVariation {
		if len(node.Children()) == 0 {
			return
		}
		current = node.Children()[0]
	}

	writeMoveNumber(moveNum, isWhite, subVariation, closedVariation, isRoot, sb)
	sb.WriteString(current.SAN())
	if nag := current.NAG(); nag != "" {
		sb.WriteString(" " + nag)
	}
	writeComment(current, sb)
	writeCommands(current, sb)

	if (!subVariation && len(node.Children()) > 1) || len(current.Children()) > 0 {
		sb.WriteString(" ")
	}

	// A variation head writes only its own line; its siblings were the
	// caller's alternatives. Alternatives to the head's continuation are
	// written by the recursive call, where the head is the parent.
	closedVar := false
	if !subVariation {
		closedVar = writeVariations(node, moveNum, isWhite, sb)
	}

	if len(current.Children()) > 0 {
		nextMoveNum := moveNum
		if !isWhite {
			nextMoveNum++
		}
		writeMoves(current, nextMoveNum, !isWhite, sb, false, closedVar, false)
	}
}

func writeMoveNumber(moveNum int, isWhite bool, subVariation, closedVariation, isRoot bool, sb *strings.Builder) {
	if closedVariation {
		sb.WriteString(" ")
	}
	if isWhite {
		sb.WriteString(fmt.Sprintf("%d. ", moveNum))
	} else if subVariation || closedVariation || isRoot {
		sb.WriteString(fmt.Sprintf("%d... ", moveNum))
	}
}

// writeVariations writes the alternatives to node's first child and
// reports whether any were written.
func writeVariations(node *game.Node, moveNum int, isWhite bool, sb *strings.Builder) bool {
	children := node.Children()
	if len(children) <= 1 {
		return false
	}
	wrote := false
	for _, variation := range children[1:] {
		if wrote {
			sb.WriteString(" ")
		}
		wrote = true
		sb.WriteString("(")
		writeMoves(variation, moveNum, isWhite, sb, true, false, false)
		sb.WriteString(")")
	}
	return wrote
}

func writeComment(n *game.Node, sb *strings.Builder) {
	if comment := n.Comment(); comment != "" {
		sb.WriteString(" {" + comment + "}")
	}
}

func writeCommands(n *game.Node, sb *strings.Builder) {
	commands := n.Commands()
	if len(commands) == 0 {
		return
	}
	keys := maps.Keys(commands)
	slices.Sort(keys)
	sb.WriteString(" {")
	for _, key := range keys {
		sb.WriteString(" [%" + key + " " + commands[key] + "]")
	}
	sb.WriteString(" }")
}
