package store

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/karyoview/pkg/cache"
	"github.com/matzehuels/karyoview/pkg/genome"
)

// MongoDB names.
const (
	DefaultDatabase    = "karyoview"
	CytobandCollection = "cytoband"
)

// bandDoc is the stored form of one band.
type bandDoc struct {
	ID    string `bson:"_id"`
	Build string `bson:"build"`
	Chrom string `bson:"chrom"`
	Band  string `bson:"band"`
	Start int    `bson:"start"`
	Stop  int    `bson:"stop"`
	Stain string `bson:"stain"`
}

func bandID(build string, c genome.Chromosome, band genome.Cytoband) string {
	return fmt.Sprintf("%s-%s-%s", build, c, band.Band)
}

// MongoStore keeps bands in the cytoband collection, one document per band.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, verifies the connection and ensures the
// (build, chrom, start) index. Connection failures are retried with backoff.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: mongo: %v", cache.ErrUnavailable, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: %w", err)
	}
	return NewMongoStoreFromClient(ctx, client, database)
}

// NewMongoStoreFromClient uses an already connected client.
func NewMongoStoreFromClient(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	coll := client.Database(database).Collection(CytobandCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "build", Value: 1}, {Key: "chrom", Value: 1}, {Key: "start", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("store: create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Cytobands(ctx context.Context, build string) (*genome.CytobandReference, error) {
	b, err := normalize(build)
	if err != nil {
		return nil, err
	}

	cur, err := s.coll.Find(ctx, bson.M{"build": b},
		options.Find().SetSort(bson.D{{Key: "chrom", Value: 1}, {Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("store: find cytobands: %w", err)
	}
	var docs []bandDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store: decode cytobands: %w", err)
	}
	if len(docs) == 0 {
		return nil, notFound(b)
	}

	bands := make(map[genome.Chromosome][]genome.Cytoband)
	for _, d := range docs {
		c, ok := genome.ParseChromosome(d.Chrom)
		if !ok {
			continue
		}
		bands[c] = append(bands[c], genome.Cytoband{Band: d.Band, Start: d.Start, Stop: d.Stop, Stain: d.Stain})
	}
	return genome.NewCytobandReference(b, bands)
}

// Put upserts every band of ref and removes stale bands of the same build.
func (s *MongoStore) Put(ctx context.Context, ref *genome.CytobandReference) error {
	build := ref.Build()
	var models []mongo.WriteModel
	var ids []string
	for _, c := range ref.Chromosomes() {
		bands, _ := ref.Bands(c)
		for _, band := range bands {
			doc := bandDoc{
				ID:    bandID(build, c, band),
				Build: build,
				Chrom: string(c),
				Band:  band.Band,
				Start: band.Start,
				Stop:  band.Stop,
				Stain: band.Stain,
			}
			ids = append(ids, doc.ID)
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": doc.ID}).
				SetReplacement(doc).
				SetUpsert(true))
		}
	}

	if len(models) > 0 {
		if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("store: bulk upsert: %w", err)
		}
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"build": build, "_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("store: delete stale bands: %w", err)
	}
	return nil
}

func (s *MongoStore) Builds(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "build", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("store: distinct builds: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if b, ok := v.(string); ok {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Drop removes every band of a build.
func (s *MongoStore) Drop(ctx context.Context, build string) error {
	b, err := normalize(build)
	if err != nil {
		return err
	}
	_, err = s.coll.DeleteMany(ctx, bson.M{"build": b})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
