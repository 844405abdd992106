/*
Package db stores finished and in-progress games in a MongoDB collection.
Records hold the roster tags alongside the full movetext, so the database
is searchable by player/event/result without parsing, and any record can be
rebuilt into a full variation tree.
*/
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alextaconet/en-croissant/game"
	"github.com/alextaconet/en-croissant/pgn"
)

// ErrNotFound is returned when no record has the given ID.
var ErrNotFound = errors.New("db: game not found")

// Record is one stored game.
type Record struct {
	ID             string       `bson:"_id" json:"id"`
	Event          string       `bson:"event" json:"event"`
	Site           string       `bson:"site" json:"site"`
	Date           string       `bson:"date" json:"date"`
	Round          string       `bson:"round" json:"round"`
	White          string       `bson:"white" json:"white"`
	Black          string       `bson:"black" json:"black"`
	Result         string       `bson:"result" json:"result"`
	FEN            string       `bson:"fen,omitempty" json:"fen,omitempty"`
	Movetext       string       `bson:"movetext" json:"movetext"`
	CurrentAddress game.Address `bson:"current_address" json:"current_address"`
	PlyCount       int          `bson:"ply_count" json:"ply_count"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
}

// FromGame flattens g into a record. An empty id mints a fresh one.
func FromGame(g *game.Game, id string) Record {
	if id == "" {
		id = uuid.NewString()
	}
	result := g.GetTagPair("Result")
	if result == "" {
		result = g.Outcome().String()
	}
	now := time.Now().UTC()
	return Record{
		ID:             id,
		Event:          g.GetTagPair("Event"),
		Site:           g.GetTagPair("Site"),
		Date:           g.GetTagPair("Date"),
		Round:          g.GetTagPair("Round"),
		White:          g.GetTagPair("White"),
		Black:          g.GetTagPair("Black"),
		Result:         result,
		FEN:            g.GetTagPair("FEN"),
		Movetext:       pgn.Encode(g),
		CurrentAddress: g.CurrentAddress(),
		PlyCount:       len(g.MainLine()) - 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Game rebuilds the variation tree from the stored movetext. An address
// that no longer resolves leaves the cursor at the root.
func (r Record) Game() (*game.Game, error) {
	g, err := pgn.Parse(r.Movetext)
	if err != nil {
		return nil, fmt.Errorf("db: record %s: %w", r.ID, err)
	}
	if _, err := g.GoToAddress(r.CurrentAddress); err != nil {
		g.GoToStart()
	}
	return g, nil
}
