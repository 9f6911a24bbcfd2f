package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/audiomidi/ingest/internal/model"
	"github.com/audiomidi/ingest/internal/util"
)

// MongoStore is the document sink. One collection per annotation kind;
// documents are unique on (dataset_name, title) within a collection.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to the document store and ensures the natural key
// indexes exist.
func OpenMongo(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongo")
	}

	store := &MongoStore{
		client: client,
		db:     client.Database(database),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	util.DebugLog("Mongo connection established: db=%s", database)
	return store, nil
}

// Close releases the client connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var seriesCollections = []model.SeriesKind{
	model.SeriesPitchContour,
	model.SeriesNoteMidi,
	model.SeriesBeatPosition,
	model.SeriesChord,
	model.SeriesTranscription,
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "dataset_name", Value: 1}, {Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, kind := range seriesCollections {
		if _, err := s.db.Collection(string(kind)).Indexes().CreateOne(ctx, index); err != nil {
			return errors.Wrapf(err, "creating natural key index on %v", kind)
		}
	}
	return nil
}

// Upsert writes one annotation series document, keyed strictly on the
// natural key. inserted_at is refreshed on every write, updates
// included: it is a last-write-wins freshness marker, not a creation
// timestamp.
func (s *MongoStore) Upsert(ctx context.Context, series *model.AnnotationSeries) (WriteOutcome, error) {
	doc := SeriesDocument(series)
	doc["inserted_at"] = time.Now().UTC()

	filter := bson.M{"dataset_name": series.DatasetName, "title": series.AnnotatedTitle}
	result, err := s.db.Collection(string(series.Kind)).UpdateOne(
		ctx,
		filter,
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting %s for %s/%s: %v",
			util.ErrStorage, series.Kind, series.DatasetName, series.AnnotatedTitle, err)
	}

	if result.UpsertedCount > 0 {
		util.DebugLog("Document inserted: %s %s/%s", series.Kind, series.DatasetName, series.AnnotatedTitle)
		return OutcomeInserted, nil
	}
	util.DebugLog("Document updated: %s %s/%s", series.Kind, series.DatasetName, series.AnnotatedTitle)
	return OutcomeUpdated, nil
}

// SeriesDocument builds the document body for a series. The natural key
// is denormalized into every document so consumers never need the
// relational surrogate id.
func SeriesDocument(series *model.AnnotationSeries) bson.M {
	doc := bson.M{
		"dataset_name": series.DatasetName,
		"title":        series.AnnotatedTitle,
	}
	switch series.Kind {
	case model.SeriesPitchContour:
		doc["pitch_contour"] = series.PitchContour
	case model.SeriesNoteMidi:
		doc["note_midi"] = series.NoteMidi
	case model.SeriesBeatPosition:
		doc["beat_position"] = series.BeatPosition
	case model.SeriesChord:
		doc["chord"] = series.Chord
	case model.SeriesTranscription:
		doc["transcription"] = series.Transcription
	}
	return doc
}
