/*
Package pgn converts between PGN movetext and game variation trees.

Parsing is staged: Tokenize splits the input into offset-carrying tokens,
and a recursive-descent parser replays them through the game API, so a
parsed tree obeys the same invariants as one built move by move (main line
as first children, variations attached at their divergence point, no
duplicate children). Encode walks a tree back to movetext, tags and nested
variations included; EncodePath flattens the line from the root to one node.

Example usage:

	g, err := pgn.Parse("1. e4 e5 (1... c5 2. Nf3) 2. Nf3 *")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(pgn.Encode(g))
*/
package pgn

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/alextaconet/en-croissant/chess"
	"github.com/alextaconet/en-croissant/game"
)

const (
	// DefaultMaxBytes is the largest input Parse accepts.
	DefaultMaxBytes = 1 << 20
	// DefaultMaxDepth is the deepest variation nesting Parse accepts.
	DefaultMaxDepth = 64
)

// A ParseOption adjusts the parse safety limits.
type ParseOption func(*parseConfig)

type parseConfig struct {
	maxBytes int
	maxDepth int
}

// MaxBytes overrides the input byte limit.
func MaxBytes(n int) ParseOption {
	return func(cfg *parseConfig) {
		cfg.maxBytes = n
	}
}

// MaxDepth overrides the variation nesting limit.
func MaxDepth(n int) ParseOption {
	return func(cfg *parseConfig) {
		cfg.maxDepth = n
	}
}

func newParseConfig(opts []ParseOption) parseConfig {
	cfg := parseConfig{maxBytes: DefaultMaxBytes, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Parse builds a game from PGN text. The tag section, movetext, nested
// variations, comments with embedded commands, glyphs, and the result
// token are all consumed; input that is a bare sequence of coordinate
// moves ("e2e4 e7e5 ...") is accepted via the UCI notation path. The
// cursor of the returned game sits at the end of the main line.
//
// On a movetext error the tree built so far is returned alongside the
// error, so callers can still show what was read. Inputs over the safety
// limits fail with ErrInputTooLarge.
func Parse(s string, opts ...ParseOption) (*game.Game, error) {
	cfg := newParseConfig(opts)

	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == string(game.NoOutcome) {
		return game.New(), nil
	}
	if looksLikeCoordinateMoves(trimmed) {
		return parseCoordinateGame(trimmed)
	}

	tokens, err := tokenize(s, cfg.maxBytes)
	if err != nil {
		return nil, err
	}
	p := &parser{
		tokens:   tokens,
		inputLen: len(s),
		maxDepth: cfg.maxDepth,
	}
	return p.parse()
}

// ParseReader reads all of r and parses it as PGN text.
func ParseReader(r io.Reader, opts ...ParseOption) (*game.Game, error) {
	cfg := newParseConfig(opts)
	data, err := io.ReadAll(io.LimitReader(r, int64(cfg.maxBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("pgn: reading input: %w", err)
	}
	if len(data) > cfg.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, cfg.maxBytes)
	}
	return Parse(string(data), opts...)
}

// parser holds the state needed during parsing.
type parser struct {
	g        *game.Game
	tokens   []Token
	position int
	inputLen int
	maxDepth int
	fenValue Token
}

// current returns the token being processed.
func (p *parser) current() Token {
	if p.position >= len(p.tokens) {
		return Token{Type: EOF, Offset: p.inputLen}
	}
	return p.tokens[p.position]
}

// advance moves to the next token.
func (p *parser) advance() {
	p.position++
}

func (p *parser) errorAt(message string) error {
	tok := p.current()
	return &ParseError{
		Message:    message,
		TokenType:  tok.Type,
		TokenValue: tok.Value,
		Position:   p.position,
		Offset:     tok.Offset,
	}
}

func (p *parser) parse() (*game.Game, error) {
	tags, err := p.parseHeader()
	if err != nil {
		g := game.New()
		applyTags(g, tags)
		return g, err
	}

	if fen, ok := tags["FEN"]; ok {
		fromFEN, err := game.FromFEN(fen)
		if err != nil {
			g := game.New()
			applyTags(g, tags)
			return g, &ParseError{
				Message:    "invalid FEN tag",
				TokenType:  p.fenValue.Type,
				TokenValue: fen,
				Offset:     p.fenValue.Offset,
				Err:        err,
			}
		}
		p.g = game.New(fromFEN)
	} else {
		p.g = game.New()
	}
	applyTags(p.g, tags)

	if err := p.parseMoveText(); err != nil {
		return p.g, err
	}
	return p.g, nil
}

func applyTags(g *game.Game, tags map[string]string) {
	for key, value := range tags {
		g.AddTagPair(key, value)
	}
}

func (p *parser) parseHeader() (map[string]string, error) {
	tags := make(map[string]string)
	for p.current().Type == TagStart {
		p.advance()

		if p.current().Type != TagKey {
			return tags, p.errorAt("expected tag key")
		}
		key := p.current().Value
		p.advance()

		if p.current().Type != TagValue {
			return tags, p.errorAt("expected tag value")
		}
		value := p.current().Value
		if key == "FEN" {
			p.fenValue = p.current()
		}
		p.advance()

		if p.current().Type != TagEnd {
			return tags, p.errorAt("expected tag end")
		}
		p.advance()

		tags[key] = value
	}
	return tags, nil
}

func (p *parser) parseMoveText() error {
	for p.position < len(p.tokens) {
		switch p.current().Type {
		case MoveNumber:
			p.advance()
			if p.current().Type == DOT {
				p.advance()
			}

		case ELLIPSIS:
			p.advance()

		case PIECE, SQUARE, FILE, KingsideCastle, QueensideCastle:
			if err := p.parseMove(); err != nil {
				return err
			}
			if err := p.collectAnnotations(); err != nil {
				return err
			}

		case CommentStart:
			if err := p.attachComment(); err != nil {
				return err
			}

		case VariationStart:
			if err := p.parseVariation(1); err != nil {
				return err
			}

		case RESULT:
			applyResult(p.g, p.current().Value)
			p.advance()
			return nil

		default:
			p.advance()
		}
	}
	return nil
}

// parseMove reassembles the SAN text from the component tokens and pushes
// it at the cursor. The oracle re-derives captures, checks, and
// disambiguation, so sloppy input normalizes to canonical SAN.
func (p *parser) parseMove() error {
	startIdx := p.position
	start := p.current()
	var sb strings.Builder

	switch start.Type {
	case KingsideCastle, QueensideCastle:
		sb.WriteString(start.Value)
		p.advance()

	default:
		if p.current().Type == PIECE {
			sb.WriteString(p.current().Value)
			p.advance()
			switch p.current().Type {
			case FILE, RANK, DeambiguationSquare:
				sb.WriteString(p.current().Value)
				p.advance()
			}
		} else if p.current().Type == FILE {
			sb.WriteString(p.current().Value)
			p.advance()
		}

		if p.current().Type == CAPTURE {
			sb.WriteString("x")
			p.advance()
		}

		if p.current().Type != SQUARE {
			return p.errorAt("expected destination square")
		}
		sb.WriteString(p.current().Value)
		p.advance()

		if p.current().Type == PROMOTION {
			p.advance()
			if p.current().Type != PromotionPiece {
				return p.errorAt("expected promotion piece")
			}
			sb.WriteString("=")
			sb.WriteString(p.current().Value)
			p.advance()
		}
	}

	// The stored SAN carries the canonical suffix.
	if p.current().Type == CHECK {
		p.advance()
	}

	san := sb.String()
	if err := p.g.PushMove(san, nil); err != nil {
		return &ParseError{
			Message:    "illegal move",
			TokenType:  start.Type,
			TokenValue: san,
			Position:   startIdx,
			Offset:     start.Offset,
			Err:        err,
		}
	}
	return nil
}

// collectAnnotations consumes the NAGs and comments that follow a move and
// attaches them to the node under the cursor.
func (p *parser) collectAnnotations() error {
	for {
		switch p.current().Type {
		case NAG:
			p.g.Current().SetNAG(p.current().Value)
			p.advance()
		case CommentStart:
			if err := p.attachComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *parser) attachComment() error {
	text, commands, err := p.parseComment()
	if err != nil {
		return err
	}
	node := p.g.Current()
	if text != "" {
		node.AddComment(text)
	}
	if len(commands) > 0 {
		if existing := node.Commands(); existing != nil {
			maps.Copy(existing, commands)
			node.SetCommands(existing)
		} else {
			node.SetCommands(commands)
		}
	}
	return nil
}

func (p *parser) parseComment() (string, map[string]string, error) {
	p.advance() // consume {

	var comment string
	var commands map[string]string

	for p.current().Type != CommentEnd && p.position < len(p.tokens) {
		switch p.current().Type {
		case CommandStart:
			cmds, err := p.parseCommand()
			if err != nil {
				return "", nil, err
			}
			if commands == nil {
				commands = make(map[string]string)
			}
			maps.Copy(commands, cmds)

		case COMMENT:
			if comment != "" {
				comment += " " + p.current().Value
			} else {
				comment = p.current().Value
			}

		default:
			return "", nil, p.errorAt("unexpected token in comment")
		}
		p.advance()
	}

	if p.position >= len(p.tokens) {
		return "", nil, p.errorAt("unterminated comment")
	}

	p.advance() // consume }
	return comment, commands, nil
}

func (p *parser) parseCommand() (map[string]string, error) {
	command := make(map[string]string)
	var key string

	p.advance() // consume [%

	for p.current().Type != CommandEnd && p.position < len(p.tokens) {
		switch p.current().Type {
		case CommandName:
			key = p.current().Value
		case CommandParam:
			if key != "" {
				command[key] = p.current().Value
				key = ""
			}
		default:
			return nil, p.errorAt("unexpected token in command")
		}
		p.advance()
	}

	if p.position >= len(p.tokens) {
		return nil, p.errorAt("unterminated command")
	}

	// The closing ] is consumed by the comment loop.
	return command, nil
}

// parseVariation reads one parenthesized alternative. A variation replaces
// the move just played, so it branches from that move's parent; the cursor
// and any result detected on the enclosing line are restored afterwards.
func (p *parser) parseVariation(depth int) error {
	if depth > p.maxDepth {
		return fmt.Errorf("%w: variation depth %d, limit %d", ErrInputTooLarge, depth, p.maxDepth)
	}
	open := p.current()
	openIdx := p.position
	p.advance() // consume (

	ret := p.g.CurrentAddress()
	outcome, method := p.g.Outcome(), p.g.Method()
	if !p.g.Current().IsRoot() {
		if err := p.g.GoBack(); err != nil {
			return err
		}
	}

	for p.current().Type != VariationEnd && p.position < len(p.tokens) {
		switch p.current().Type {
		case MoveNumber:
			p.advance()
			if p.current().Type == DOT {
				p.advance()
			}

		case ELLIPSIS:
			p.advance()

		case PIECE, SQUARE, FILE, KingsideCastle, QueensideCastle:
			if err := p.parseMove(); err != nil {
				return err
			}
			if err := p.collectAnnotations(); err != nil {
				return err
			}

		case CommentStart:
			if err := p.attachComment(); err != nil {
				return err
			}

		case VariationStart:
			if err := p.parseVariation(depth + 1); err != nil {
				return err
			}

		default:
			p.advance()
		}
	}

	if p.position >= len(p.tokens) {
		return &ParseError{
			Message:    "unterminated variation",
			TokenType:  open.Type,
			TokenValue: open.Value,
			Position:   openIdx,
			Offset:     open.Offset,
		}
	}
	p.advance() // consume )

	if _, err := p.g.GoToAddress(ret); err != nil {
		return err
	}
	p.g.SetOutcome(outcome, method)
	return nil
}

func applyResult(g *game.Game, value string) {
	var outcome game.Outcome
	switch value {
	case "1-0":
		outcome = game.WhiteWon
	case "0-1":
		outcome = game.BlackWon
	case "1/2-1/2":
		outcome = game.Draw
	default:
		outcome = game.NoOutcome
	}
	// A matching detected result keeps its method (checkmate stays
	// checkmate); a differing token is the recorded game's authority.
	if outcome != g.Outcome() {
		g.SetOutcome(outcome, game.NoMethod)
	}
}

// scannedWord is a whitespace-delimited chunk of input with its offset.
type scannedWord struct {
	value  string
	offset int
}

func splitWords(s string) []scannedWord {
	var words []scannedWord
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			if start >= 0 {
				if w := strings.Trim(s[start:i], ",;"); w != "" {
					words = append(words, scannedWord{value: w, offset: start})
				}
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		if w := strings.Trim(s[start:], ",;"); w != "" {
			words = append(words, scannedWord{value: w, offset: start})
		}
	}
	return words
}

// looksLikeCoordinateMoves reports whether the input is a bare sequence of
// coordinate moves (engine line format) rather than PGN movetext.
func looksLikeCoordinateMoves(s string) bool {
	if strings.ContainsAny(s, "[]{}()") {
		return false
	}
	sawMove := false
	words := splitWords(s)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		switch {
		case isCoordinateMove(w.value):
			sawMove = true
		case isResultWord(w.value):
		default:
			return false
		}
	}
	return sawMove
}

func isCoordinateMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if !isFileChar(s[0]) || !isRankChar(s[1]) || !isFileChar(s[2]) || !isRankChar(s[3]) {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n', 'Q', 'R', 'B', 'N':
		default:
			return false
		}
	}
	return true
}

func isResultWord(s string) bool {
	switch s {
	case "*", "1-0", "0-1", "1/2-1/2":
		return true
	}
	return false
}

func parseCoordinateGame(s string) (*game.Game, error) {
	g := game.New()
	for _, w := range splitWords(s) {
		if isResultWord(w.value) {
			applyResult(g, w.value)
			continue
		}
		if err := g.PushNotationMove(w.value, chess.UCINotation{}, nil); err != nil {
			return g, &ParseError{
				Message:    "illegal coordinate move",
				TokenValue: w.value,
				Offset:     w.offset,
				Err:        err,
			}
		}
	}
	return g, nil
}
