package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	collectionName = "games"
	opTimeout      = 5 * time.Second
)

// Store is a game database over a MongoDB collection.
type Store struct {
	coll *mongo.Collection
	log  *zap.SugaredLogger
}

// NewStore uses the "games" collection of the given database. A nil logger
// disables logging.
func NewStore(database *mongo.Database, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{coll: database.Collection(collectionName), log: log}
}

// Filter narrows Search and Count. Zero fields match everything.
type Filter struct {
	White  string
	Black  string
	Event  string
	Result string
	Limit  int64
	Offset int64
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.White != "" {
		q["white"] = f.White
	}
	if f.Black != "" {
		q["black"] = f.Black
	}
	if f.Event != "" {
		q["event"] = f.Event
	}
	if f.Result != "" {
		q["result"] = f.Result
	}
	return q
}

func (s *Store) Insert(ctx context.Context, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		s.log.Errorf("insert game %s: %v", rec.ID, err)
		return fmt.Errorf("db: inserting game: %w", err)
	}
	s.log.Infof("game %s stored", rec.ID)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("db: fetching game %s: %w", id, err)
	}
	return rec, nil
}

// Search returns matching records, most recently updated first.
func (s *Store) Search(ctx context.Context, f Filter) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Offset > 0 {
		opts.SetSkip(f.Offset)
	}

	cur, err := s.coll.Find(ctx, f.query(), opts)
	if err != nil {
		s.log.Errorf("search games: %v", err)
		return nil, fmt.Errorf("db: searching games: %w", err)
	}
	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("db: reading search results: %w", err)
	}
	return recs, nil
}

func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, f.query())
	if err != nil {
		return 0, fmt.Errorf("db: counting games: %w", err)
	}
	return n, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.log.Errorf("delete game %s: %v", id, err)
		return fmt.Errorf("db: deleting game %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	s.log.Infof("game %s deleted", id)
	return nil
}
