package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	telemetry "solar-dgr/internal/telemetry/domain"
)

const (
	// MaxWindowDocuments bounds memory for one report request. Exceeding it
	// truncates the window rather than failing; callers must treat a
	// truncated result as potentially incomplete for the latest days.
	MaxWindowDocuments = 200000

	timestampField = "timestamp"
)

// WindowLoader retrieves and normalizes telemetry documents for an inclusive
// calendar-day range.
type WindowLoader struct {
	db *mongo.Database
}

// NewWindowLoader constructs a loader over a connected database handle.
func NewWindowLoader(db *mongo.Database) (*WindowLoader, error) {
	if db == nil {
		return nil, errors.New("window loader: nil database")
	}
	return &WindowLoader{db: db}, nil
}

// Load fetches candidate documents from the collection and hands them to
// telemetry.Window for normalization, day filtering, capping and ordering.
// Documents whose timestamp cannot be classified are dropped silently. A
// store failure surfaces as telemetry.ErrSourceUnavailable; nothing is
// retried here.
func (l *WindowLoader) Load(ctx context.Context, collection string, startDay, endDay time.Time) ([]telemetry.NormalizedReading, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("window loader: nil loader")
	}
	if collection == "" {
		return nil, errors.New("window loader: empty collection")
	}
	if endDay.Before(startDay) {
		return nil, errors.New("window loader: end day before start day")
	}

	filter := bson.M{timestampField: bson.M{"$exists": true, "$ne": nil}}
	cursor, err := l.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", telemetry.ErrSourceUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []map[string]any
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", telemetry.ErrSourceUnavailable, err)
		}
		docs = append(docs, decodeDocument(doc))
		if len(docs) >= MaxWindowDocuments {
			break
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", telemetry.ErrSourceUnavailable, err)
	}

	start := startDay.Format(telemetry.DayLayout)
	end := endDay.Format(telemetry.DayLayout)
	return telemetry.Window(docs, timestampField, start, end, MaxWindowDocuments), nil
}

// decodeDocument maps BSON-specific values onto plain Go types so the domain
// normalizer never sees driver types. The object id is dropped.
func decodeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for name, value := range doc {
		if name == "_id" {
			continue
		}
		out[name] = decodeValue(value)
	}
	return out
}

func decodeValue(value any) any {
	if v, ok := value.(primitive.DateTime); ok {
		return v.Time()
	}
	return value
}
