// Package mongostore keeps transactions as documents in a MongoDB
// collection and pushes filters down as query documents and aggregation
// pipelines.
package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/query"
	"sales-dashboard/internal/store"
)

const (
	defaultBatchSize = 500
	connectTimeout   = 10 * time.Second
)

type Options struct {
	URI        string
	Database   string
	Collection string
	BatchSize  int
}

type Store struct {
	client    *mongo.Client
	coll      *mongo.Collection
	batchSize int
}

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image,omitempty"`
	Sold        bool               `bson:"sold"`
	DateOfSale  time.Time          `bson:"dateOfSale"`
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URI == "" || opts.Database == "" || opts.Collection == "" {
		return nil, fmt.Errorf("mongo uri, database and collection are required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	return &Store{
		client:    client,
		coll:      client.Database(opts.Database).Collection(opts.Collection),
		batchSize: batch,
	}, nil
}

// Filter renders f as a query document. The month clause compares the
// UTC month of dateOfSale, so it matches that month in every year.
func Filter(f query.Filter) bson.D {
	doc := bson.D{
		{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{bson.D{{Key: "$month", Value: "$dateOfSale"}}, int(f.Month())}},
		}},
	}

	if s, ok := f.Search(); ok {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(s.Term), Options: "i"}
		or := bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
		}
		if s.Price != nil {
			or = append(or, bson.D{{Key: "price", Value: *s.Price}})
		}
		doc = append(doc, bson.E{Key: "$or", Value: or})
	}

	if r, ok := f.PriceRange(); ok {
		op := "$gte"
		if r.MinExclusive {
			op = "$gt"
		}
		price := bson.D{{Key: op, Value: r.Min}}
		if r.Bounded {
			price = append(price, bson.E{Key: "$lte", Value: r.Max})
		}
		doc = append(doc, bson.E{Key: "price", Value: price})
	}

	return doc
}

// SummaryPipeline groups every matching document into one totals row.
func SummaryPipeline(f query.Filter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: Filter(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "priceSum", Value: bson.D{{Key: "$sum", Value: "$price"}}},
			{Key: "sold", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$sold", 1, 0}}}}}},
			{Key: "notSold", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$sold", 0, 1}}}}}},
		}}},
	}
}

func CategoryPipeline(f query.Filter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: Filter(f)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}
}

func (s *Store) Count(ctx context.Context, f query.Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, Filter(f))
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, f query.Filter, skip, limit int64) ([]models.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.coll.Find(ctx, Filter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Store) Summarize(ctx context.Context, f query.Filter) (store.Totals, error) {
	cur, err := s.coll.Aggregate(ctx, SummaryPipeline(f))
	if err != nil {
		return store.Totals{}, fmt.Errorf("aggregate summary: %w", err)
	}

	var rows []store.Totals
	if err := cur.All(ctx, &rows); err != nil {
		return store.Totals{}, fmt.Errorf("decode summary: %w", err)
	}
	if len(rows) == 0 {
		return store.Totals{}, nil
	}
	return rows[0], nil
}

func (s *Store) CountByCategory(ctx context.Context, f query.Filter) ([]models.CategoryCount, error) {
	cur, err := s.coll.Aggregate(ctx, CategoryPipeline(f))
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}

	out := []models.CategoryCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

func (s *Store) CountAll(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count all documents: %w", err)
	}
	return n, nil
}

func (s *Store) ReplaceAll(ctx context.Context, txs []models.Transaction) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}

	for start := 0; start < len(txs); start += s.batchSize {
		end := min(start+s.batchSize, len(txs))
		docs := make([]any, 0, end-start)
		for _, tx := range txs[start:end] {
			docs = append(docs, fromModel(tx))
		}
		// Ordered keeps _id ascending in insertion order.
		if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return fmt.Errorf("insert batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func fromModel(tx models.Transaction) document {
	return document{
		Title:       tx.Title,
		Description: tx.Description,
		Price:       tx.Price,
		Category:    tx.Category,
		Image:       tx.Image,
		Sold:        tx.Sold,
		DateOfSale:  tx.DateOfSale.UTC(),
	}
}

func (d document) toModel() models.Transaction {
	return models.Transaction{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Sold:        d.Sold,
		DateOfSale:  d.DateOfSale.UTC(),
	}
}
