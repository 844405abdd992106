package pgn

import (
	"fmt"
	"strings"
)

// TokenType identifies the lexical class of a header or movetext token.
type TokenType uint8

const (
	EOF TokenType = iota
	TagStart
	TagKey
	TagValue
	TagEnd
	MoveNumber
	DOT
	ELLIPSIS
	PIECE
	SQUARE
	FILE
	RANK
	DeambiguationSquare
	CAPTURE
	PROMOTION
	PromotionPiece
	KingsideCastle
	QueensideCastle
	CHECK
	NAG
	CommentStart
	COMMENT
	CommandStart
	CommandName
	CommandParam
	CommandEnd
	CommentEnd
	VariationStart
	VariationEnd
	RESULT
)

// A Token is one lexical element of the input. Offset is the byte offset
// of the token start, kept so parse errors can point back into the input.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
}

// annotationToNAG maps suffix annotations to their numeric glyph form.
var annotationToNAG = map[string]string{
	"!":  "$1",
	"?":  "$2",
	"!!": "$3",
	"??": "$4",
	"!?": "$5",
	"?!": "$6",
}

// moveChars marks the bytes that may appear inside a move word.
var moveChars [256]bool

func init() {
	for c := byte('a'); c <= 'h'; c++ {
		moveChars[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChars[c] = true
	}
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B', 'O', 'x', '=', '-'} {
		moveChars[c] = true
	}
}

func isFileChar(c byte) bool { return c >= 'a' && c <= 'h' }
func isRankChar(c byte) bool { return c >= '1' && c <= '8' }

func isPieceChar(c byte) bool {
	switch c {
	case 'K', 'Q', 'R', 'N', 'B':
		return true
	}
	return false
}

func isPromotionPiece(c byte) bool {
	switch c {
	case 'Q', 'R', 'B', 'N':
		return true
	}
	return false
}

func isTagKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Tokenize splits PGN input into tokens. Move words are decomposed into
// their components (piece, origin hints, capture marker, destination,
// promotion), suffix annotations become NAG tokens, and every token
// carries its byte offset. Inputs over the default byte limit are rejected
// with ErrInputTooLarge.
func Tokenize(s string) ([]Token, error) {
	return tokenize(s, DefaultMaxBytes)
}

func tokenize(s string, maxBytes int) ([]Token, error) {
	if len(s) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(s), maxBytes)
	}
	t := &tokenizer{input: s}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

// tokenizer holds the state of a single pass over the input.
type tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

func (t *tokenizer) emit(typ TokenType, value string, offset int) {
	t.tokens = append(t.tokens, Token{Type: typ, Value: value, Offset: offset})
}

func (t *tokenizer) errorf(offset int, format string, args ...any) error {
	return &ParseError{
		Message:  fmt.Sprintf(format, args...),
		Position: len(t.tokens),
		Offset:   offset,
	}
}

func (t *tokenizer) startOfLine() bool {
	return t.pos == 0 || t.input[t.pos-1] == '\n'
}

func (t *tokenizer) skipLine() {
	for t.pos < len(t.input) && t.input[t.pos] != '\n' {
		t.pos++
	}
}

func (t *tokenizer) run() error {
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			t.pos++

		case ch == '%' && t.startOfLine():
			// Escape convention: a line led by % is ignored wholesale.
			t.skipLine()

		case ch == ';':
			// Rest-of-line commentary is not carried into the tree.
			t.skipLine()

		case ch == '[':
			if err := t.gatherTag(); err != nil {
				return err
			}

		case ch == '{':
			if err := t.gatherComment(); err != nil {
				return err
			}

		case ch == '}':
			return t.errorf(t.pos, "unexpected comment end")

		case ch == '(':
			t.emit(VariationStart, "(", t.pos)
			t.pos++

		case ch == ')':
			t.emit(VariationEnd, ")", t.pos)
			t.pos++

		case ch == '*':
			t.emit(RESULT, "*", t.pos)
			t.pos++

		case ch == '$':
			if err := t.gatherNAG(); err != nil {
				return err
			}

		case ch == '!' || ch == '?':
			t.gatherAnnotation()

		case ch == '+' || ch == '#':
			t.emit(CHECK, string(ch), t.pos)
			t.pos++

		case isDigit(ch):
			if err := t.gatherNumber(); err != nil {
				return err
			}

		case ch == '.':
			t.gatherDots()

		case moveChars[ch]:
			if err := t.gatherMove(); err != nil {
				return err
			}

		default:
			return t.errorf(t.pos, "unexpected character %q", string(ch))
		}
	}
	return nil
}

// gatherTag lexes a complete [Key "Value"] pair.
func (t *tokenizer) gatherTag() error {
	t.emit(TagStart, "[", t.pos)
	t.pos++
	t.skipSpaces()

	start := t.pos
	for t.pos < len(t.input) && isTagKeyChar(t.input[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return t.errorf(start, "expected tag key")
	}
	t.emit(TagKey, t.input[start:t.pos], start)
	t.skipSpaces()

	if t.pos >= len(t.input) || t.input[t.pos] != '"' {
		return t.errorf(t.pos, "expected tag value")
	}
	valueStart := t.pos
	value, err := t.gatherString()
	if err != nil {
		return err
	}
	t.emit(TagValue, value, valueStart)
	t.skipSpaces()

	if t.pos >= len(t.input) || t.input[t.pos] != ']' {
		return t.errorf(t.pos, "expected tag end")
	}
	t.emit(TagEnd, "]", t.pos)
	t.pos++
	return nil
}

func (t *tokenizer) skipSpaces() {
	for t.pos < len(t.input) && (t.input[t.pos] == ' ' || t.input[t.pos] == '\t') {
		t.pos++
	}
}

// gatherString reads a quoted string, honoring \" and \\ escapes. Strings
// do not span lines.
func (t *tokenizer) gatherString() (string, error) {
	start := t.pos
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		switch ch {
		case '\\':
			if t.pos+1 < len(t.input) {
				next := t.input[t.pos+1]
				if next == '"' || next == '\\' {
					sb.WriteByte(next)
					t.pos += 2
					continue
				}
			}
			sb.WriteByte(ch)
			t.pos++
		case '"':
			t.pos++
			return sb.String(), nil
		case '\n':
			return "", t.errorf(start, "unterminated string")
		default:
			sb.WriteByte(ch)
			t.pos++
		}
	}
	return "", t.errorf(start, "unterminated string")
}

// gatherComment lexes a braced comment, splitting embedded [%name param]
// commands into their own tokens. A bracket not followed by % stays plain
// comment text.
func (t *tokenizer) gatherComment() error {
	openOffset := t.pos
	t.emit(CommentStart, "{", t.pos)
	t.pos++

	textStart := t.pos
	flushText := func(end int) {
		chunk := normalizeCommentText(t.input[textStart:end])
		if chunk != "" {
			t.emit(COMMENT, chunk, textStart)
		}
	}

	for t.pos < len(t.input) {
		switch {
		case t.input[t.pos] == '}':
			flushText(t.pos)
			t.emit(CommentEnd, "}", t.pos)
			t.pos++
			return nil

		case t.input[t.pos] == '[' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '%':
			flushText(t.pos)
			if err := t.gatherCommand(); err != nil {
				return err
			}
			textStart = t.pos

		default:
			t.pos++
		}
	}
	return t.errorf(openOffset, "unterminated comment")
}

// gatherCommand lexes one [%name param] element inside a comment.
func (t *tokenizer) gatherCommand() error {
	openOffset := t.pos
	t.emit(CommandStart, "[%", t.pos)
	t.pos += 2 // consume [%

	start := t.pos
	for t.pos < len(t.input) && isTagKeyChar(t.input[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return t.errorf(start, "expected command name")
	}
	t.emit(CommandName, t.input[start:t.pos], start)
	t.skipSpaces()

	paramStart := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != ']' && t.input[t.pos] != '}' && t.input[t.pos] != '\n' {
		t.pos++
	}
	if t.pos >= len(t.input) || t.input[t.pos] != ']' {
		return t.errorf(openOffset, "unterminated command")
	}
	if param := strings.TrimSpace(t.input[paramStart:t.pos]); param != "" {
		t.emit(CommandParam, param, paramStart)
	}
	t.emit(CommandEnd, "]", t.pos)
	t.pos++
	return nil
}

func normalizeCommentText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// gatherNAG lexes a $n glyph.
func (t *tokenizer) gatherNAG() error {
	start := t.pos
	t.pos++ // consume $
	digitStart := t.pos
	for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
		t.pos++
	}
	if t.pos == digitStart {
		return t.errorf(start, "expected glyph number")
	}
	t.emit(NAG, t.input[start:t.pos], start)
	return nil
}

// gatherAnnotation converts a !/? suffix annotation into its $n form.
func (t *tokenizer) gatherAnnotation() {
	start := t.pos
	end := t.pos + 1
	if end < len(t.input) && (t.input[end] == '!' || t.input[end] == '?') {
		end++
	}
	t.emit(NAG, annotationToNAG[t.input[start:end]], start)
	t.pos = end
}

// gatherNumber handles everything that starts with a digit: castles in
// their 0-0 spelling, result tokens, and move numbers.
func (t *tokenizer) gatherNumber() error {
	start := t.pos
	rest := t.input[start:]

	switch {
	case strings.HasPrefix(rest, "0-0-0"):
		t.emit(QueensideCastle, "O-O-O", start)
		t.pos += len("0-0-0")
		return nil
	case strings.HasPrefix(rest, "0-0"):
		t.emit(KingsideCastle, "O-O", start)
		t.pos += len("0-0")
		return nil
	case strings.HasPrefix(rest, "1-0"):
		t.emit(RESULT, "1-0", start)
		t.pos += len("1-0")
		return nil
	case strings.HasPrefix(rest, "0-1"):
		t.emit(RESULT, "0-1", start)
		t.pos += len("0-1")
		return nil
	case strings.HasPrefix(rest, "1/2-1/2"):
		t.emit(RESULT, "1/2-1/2", start)
		t.pos += len("1/2-1/2")
		return nil
	case strings.HasPrefix(rest, "1/2"):
		t.emit(RESULT, "1/2-1/2", start)
		t.pos += len("1/2")
		return nil
	}

	for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
		t.pos++
	}
	t.emit(MoveNumber, t.input[start:t.pos], start)
	return nil
}

// gatherDots lexes a run of dots: one is the white-move dot, two or more
// the black-move ellipsis.
func (t *tokenizer) gatherDots() {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] == '.' {
		t.pos++
	}
	if t.pos-start == 1 {
		t.emit(DOT, ".", start)
		return
	}
	t.emit(ELLIPSIS, t.input[start:t.pos], start)
}

// gatherMove reads a move word and decomposes it into component tokens.
func (t *tokenizer) gatherMove() error {
	start := t.pos
	for t.pos < len(t.input) && moveChars[t.input[t.pos]] {
		t.pos++
	}
	return t.emitMoveTokens(t.input[start:t.pos], start)
}

// emitMoveTokens splits a move word such as Nbxd5 or exd8=Q into the
// component tokens the parser consumes. The word is scanned from the end:
// promotion suffix, destination square, capture marker, then whatever is
// left past the piece letter is origin disambiguation.
func (t *tokenizer) emitMoveTokens(word string, offset int) error {
	switch word {
	case "O-O":
		t.emit(KingsideCastle, word, offset)
		return nil
	case "O-O-O":
		t.emit(QueensideCastle, word, offset)
		return nil
	}

	rest := word

	promo := ""
	if i := strings.IndexByte(rest, '='); i >= 0 {
		if i != len(rest)-2 || !isPromotionPiece(rest[len(rest)-1]) {
			return t.errorf(offset, "bad promotion in move %q", word)
		}
		promo = string(rest[len(rest)-1])
		rest = rest[:i]
	}

	if len(rest) < 2 || !isFileChar(rest[len(rest)-2]) || !isRankChar(rest[len(rest)-1]) {
		return t.errorf(offset, "expected destination square in move %q", word)
	}
	dest := rest[len(rest)-2:]
	rest = rest[:len(rest)-2]

	capture := false
	if len(rest) > 0 && rest[len(rest)-1] == 'x' {
		capture = true
		rest = rest[:len(rest)-1]
	}

	piece := ""
	if len(rest) > 0 && isPieceChar(rest[0]) {
		piece = string(rest[0])
		rest = rest[1:]
	}

	var disambigType TokenType
	switch {
	case rest == "":
	case len(rest) == 1 && isFileChar(rest[0]):
		disambigType = FILE
	case len(rest) == 1 && isRankChar(rest[0]):
		if piece == "" {
			return t.errorf(offset, "malformed move %q", word)
		}
		disambigType = RANK
	case len(rest) == 2 && isFileChar(rest[0]) && isRankChar(rest[1]):
		if piece == "" {
			return t.errorf(offset, "malformed move %q", word)
		}
		disambigType = DeambiguationSquare
	default:
		return t.errorf(offset, "malformed move %q", word)
	}

	at := offset
	if piece != "" {
		t.emit(PIECE, piece, at)
		at++
	}
	if rest != "" {
		t.emit(disambigType, rest, at)
		at += len(rest)
	}
	if capture {
		t.emit(CAPTURE, "x", at)
		at++
	}
	t.emit(SQUARE, dest, at)
	at += len(dest)
	if promo != "" {
		t.emit(PROMOTION, "=", at)
		t.emit(PromotionPiece, promo, at+1)
	}
	return nil
}
