/*
Package session persists open games as portable snapshots. A snapshot
carries the full movetext plus the cursor address, so restoring a session
rebuilds the whole variation tree and puts the cursor back where the user
left it. Stores keep snapshots on disk (FileStore) or in Redis
(RedisStore).
*/
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alextaconet/en-croissant/game"
	"github.com/alextaconet/en-croissant/pgn"
)

// State is one open game flattened to its storable parts.
type State struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Movetext       string       `json:"movetext"`
	CurrentAddress game.Address `json:"current_address"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Snapshot flattens g into a new state with a fresh ID.
func Snapshot(g *game.Game, name string) State {
	return State{
		ID:             uuid.NewString(),
		Name:           name,
		Movetext:       pgn.Encode(g),
		CurrentAddress: g.CurrentAddress(),
		UpdatedAt:      time.Now().UTC(),
	}
}

// Update refreshes the snapshot in place from the game's current shape,
// keeping its identity.
func (st *State) Update(g *game.Game) {
	st.Movetext = pgn.Encode(g)
	st.CurrentAddress = g.CurrentAddress()
	st.UpdatedAt = time.Now().UTC()
}

// Restore rebuilds the game from a stored state. An address that no longer
// resolves leaves the cursor at the root instead of failing the restore.
func Restore(st State) (*game.Game, error) {
	g, err := pgn.Parse(st.Movetext)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", st.ID, err)
	}
	if _, err := g.GoToAddress(st.CurrentAddress); err != nil {
		g.GoToStart()
	}
	return g, nil
}
