package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
)

// MongoConfig configures a [Mongo] store.
type MongoConfig struct {
	URI      string
	Database string
	// Timeout bounds connecting and pinging.
	Timeout time.Duration
}

// DefaultMongoConfig returns a configuration for a local server.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:      "mongodb://localhost:27017",
		Database: "discograph",
		Timeout:  10 * time.Second,
	}
}

const (
	discoveriesCollection = "discoveries"
	topicsCollection      = "topics"
)

// Mongo is a [Store] backed by two MongoDB collections: discoveries, one
// document per record, and topics, holding each topic's branch and
// first-seen order.
type Mongo struct {
	client      *mongo.Client
	discoveries *mongo.Collection
	topics      *mongo.Collection
}

type topicDoc struct {
	Name   string `bson:"_id"`
	Branch string `bson:"branch,omitempty"`
	Seq    int64  `bson:"seq"`
}

// NewMongo connects to MongoDB and ensures the topic index exists.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoConfig().Database
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMongoConfig().Timeout
	}
	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}

	pctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	db := client.Database(cfg.Database)
	m := &Mongo{
		client:      client,
		discoveries: db.Collection(discoveriesCollection),
		topics:      db.Collection(topicsCollection),
	}
	_, err = m.discoveries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "topic", Value: 1}, {Key: "seq", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create topic index")
	}
	return m, nil
}

// Import implements [Store]. Records are upserted by ID; a replaced record
// keeps its original position. A topic's branch is set by the first record
// carrying a hierarchy.
func (m *Mongo) Import(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	base, err := m.discoveries.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "count discoveries")
	}

	recModels := make([]mongo.WriteModel, 0, len(records))
	topicModels := make([]mongo.WriteModel, 0, 2*len(records))
	for i := range records {
		r := records[i]
		if err := r.Normalize(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "import")
		}
		seq := base + int64(i)
		recModels = append(recModels, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: r.ID}}).
			SetUpdate(bson.D{
				{Key: "$set", Value: bson.D{
					{Key: "name", Value: r.Name},
					{Key: "year", Value: r.Year},
					{Key: "topic", Value: r.TopicLabel},
					{Key: "hierarchy", Value: r.TopicHierarchy},
				}},
				{Key: "$setOnInsert", Value: bson.D{{Key: "seq", Value: seq}}},
			}).
			SetUpsert(true))

		topicModels = append(topicModels, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: r.TopicLabel}}).
			SetUpdate(bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "seq", Value: seq}}}}).
			SetUpsert(true))
		if len(r.TopicHierarchy) > 0 {
			topicModels = append(topicModels, mongo.NewUpdateOneModel().
				SetFilter(bson.D{{Key: "_id", Value: r.TopicLabel}, {Key: "branch", Value: nil}}).
				SetUpdate(bson.D{{Key: "$set", Value: bson.D{{Key: "branch", Value: r.Branch()}}}}))
		}
	}

	ordered := options.BulkWrite().SetOrdered(true)
	if _, err := m.discoveries.BulkWrite(ctx, recModels, ordered); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "write discoveries")
	}
	if _, err := m.topics.BulkWrite(ctx, topicModels, ordered); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "write topics")
	}
	return len(records), nil
}

// Topics implements [Store].
func (m *Mongo) Topics(ctx context.Context) ([]Topic, error) {
	names, err := m.discoveries.Distinct(ctx, "topic", bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list topics")
	}
	has := make(map[string]bool, len(names))
	for _, n := range names {
		if s, ok := n.(string); ok {
			has[s] = true
		}
	}

	cur, err := m.topics.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list topics")
	}
	var docs []topicDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode topics")
	}

	out := make([]Topic, 0, len(docs))
	for _, d := range docs {
		if !has[d.Name] {
			continue
		}
		out = append(out, Topic{Name: d.Name, Branch: branchOr(d.Branch)})
	}
	return out, nil
}

// Discoveries implements [Store].
func (m *Mongo) Discoveries(ctx context.Context, topic string) ([]graph.Discovery, error) {
	cur, err := m.discoveries.Aggregate(ctx, discoveriesPipeline(topic))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query discoveries")
	}
	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode discoveries")
	}
	if len(recs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no discoveries for topic %q", topic)
	}
	out := make([]graph.Discovery, len(recs))
	for i, r := range recs {
		out[i] = graph.Discovery{Name: r.Name, Year: r.Year, URL: WikipediaURL(r.Name)}
	}
	return out, nil
}

// Graph implements [Store].
func (m *Mongo) Graph(ctx context.Context, f graph.Filter) (*graph.Graph, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	cur, err := m.discoveries.Aggregate(ctx, graphPipeline(f))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query graph")
	}
	var rows []struct {
		Name   string `bson:"_id"`
		Branch string `bson:"branch"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph")
	}
	g := graph.New()
	for _, r := range rows {
		g.Nodes = append(g.Nodes, topicNode(r.Name, r.Branch))
	}
	return g, nil
}

// Close disconnects from the server.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func branchOr(b string) string {
	if b == "" {
		return UnsortedBranch
	}
	return b
}

// discoveriesPipeline sorts by year with undated documents last. In
// aggregation comparisons null sorts below every number, so an explicit
// flag moves them to the end.
func discoveriesPipeline(topic string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "topic", Value: topic}}}},
		{{Key: "$addFields", Value: bson.D{{Key: "undated", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$gt", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$year", nil}}}, nil}}},
			0, 1,
		}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "undated", Value: 1}, {Key: "year", Value: 1}, {Key: "seq", Value: 1}}}},
	}
}

// graphPipeline selects topics with a discovery in the year range. Missing
// years count as errors.MinYear against the lower bound and errors.MaxYear
// against the upper one.
func graphPipeline(f graph.Filter) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$gte", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$year", errors.MinYear}}}, f.MinYear}}},
			bson.D{{Key: "$lte", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$year", errors.MaxYear}}}, f.MaxYear}}},
		}}}}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$topic"}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: topicsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "t"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "branch", Value: bson.D{{Key: "$ifNull", Value: bson.A{
			bson.D{{Key: "$arrayElemAt", Value: bson.A{"$t.branch", 0}}},
			UnsortedBranch,
		}}}}}}},
	}
	if f.Topic != "" {
		p = append(p, bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "_id", Value: f.Topic}},
			bson.D{{Key: "branch", Value: f.Topic}},
		}}}}})
	}
	return append(p, bson.D{{Key: "$sort", Value: bson.D{{Key: "branch", Value: 1}, {Key: "_id", Value: 1}}}})
}
