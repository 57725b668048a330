package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dzinly/matsearch/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the catalog database.
const (
	collMaterials = "materials"
	collCurated   = "materials_new"
	collAuditLog  = "audit_log"
)

// flatToStorePath maps flat field names to their document paths. FilterSpec
// speaks flat names everywhere; this table is the only place the nested
// store layout is known.
var flatToStorePath = map[string]string{
	"family_id":        "color.family_id",
	"family_name":      "color.family_name",
	"hex":              "color.hex",
	"voc_level":        "performance.voc_level",
	"price_per_gallon": "pricing.per_gallon",
	"price_per_sqft":   "pricing.per_sqft",
	"in_stock":         "logistics.in_stock",
	"lead_time_days":   "logistics.lead_time_days",
}

// translateFilter turns a FilterSpec into a store query. Allowed-value sets
// keep their original types: a numeric set such as family_ids must reach the
// store as numbers, since `{"$in": ["3"]}` matches no integer field.
func translateFilter(spec domain.FilterSpec) bson.M {
	query := bson.M{}
	for field, f := range spec {
		path := field
		if mapped, ok := flatToStorePath[field]; ok {
			path = mapped
		}
		switch {
		case len(f.Any) > 0:
			query[path] = bson.M{"$in": f.Any}
		default:
			bounds := bson.M{}
			if f.Min != nil {
				bounds["$gte"] = *f.Min
			}
			if f.Max != nil {
				bounds["$lte"] = *f.Max
			}
			query[path] = bounds
		}
	}
	return query
}

// MongoStore is the document-store gateway for the materials catalog. It is
// constructed explicitly and closed at shutdown — never a package-level client.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to the document store and verifies the connection.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping document store: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// Close releases the store connection.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FetchFiltered returns catalog records matching the spec, up to limit.
// FilterSpec is translated to the store's query language here and nowhere else.
func (s *MongoStore) FetchFiltered(ctx context.Context, spec domain.FilterSpec, limit int64) ([]domain.CatalogRecord, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	query := translateFilter(spec)

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.db.Collection(collMaterials).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch filtered materials: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.CatalogRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	return records, nil
}

// FetchByIDs returns the records for the given identifiers.
func (s *MongoStore) FetchByIDs(ctx context.Context, ids []string) ([]domain.CatalogRecord, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("invalid material id %q: %w", id, err)
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := s.db.Collection(collMaterials).Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("fetch materials by id: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.CatalogRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	return records, nil
}

// ListPending returns source records not yet promoted by curation.
func (s *MongoStore) ListPending(ctx context.Context, limit int64) ([]domain.CatalogRecord, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.db.Collection(collMaterials).Find(ctx, bson.M{"extracted": bson.M{"$ne": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending materials: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.CatalogRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode pending materials: %w", err)
	}
	return records, nil
}

// Promote inserts the curated document and flags the source record as
// extracted. The source flag is only set after the insert succeeded.
func (s *MongoStore) Promote(ctx context.Context, sourceID string, curated domain.CatalogRecord) error {
	oid, err := primitive.ObjectIDFromHex(sourceID)
	if err != nil {
		return fmt.Errorf("invalid source id %q: %w", sourceID, err)
	}

	if _, err := s.db.Collection(collCurated).InsertOne(ctx, curated); err != nil {
		return fmt.Errorf("insert curated material: %w", err)
	}

	_, err = s.db.Collection(collMaterials).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"extracted": true}},
	)
	if err != nil {
		return fmt.Errorf("mark source extracted: %w", err)
	}
	return nil
}

// Stats reports total, transferred and pending source record counts.
func (s *MongoStore) Stats(ctx context.Context) (domain.CurationStats, error) {
	coll := s.db.Collection(collMaterials)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domain.CurationStats{}, fmt.Errorf("count materials: %w", err)
	}
	transferred, err := coll.CountDocuments(ctx, bson.M{"extracted": true})
	if err != nil {
		return domain.CurationStats{}, fmt.Errorf("count transferred materials: %w", err)
	}

	return domain.CurationStats{
		Total:       total,
		Transferred: transferred,
		Pending:     total - transferred,
	}, nil
}

// WriteAudit appends one audit record.
func (s *MongoStore) WriteAudit(action, resource, resourceID, details, ip, userAgent string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := domain.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.db.Collection(collAuditLog).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// RecentAudit returns the newest audit entries, most recent first.
func (s *MongoStore) RecentAudit(ctx context.Context, limit int64) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)

	cursor, err := s.db.Collection(collAuditLog).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch audit log: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit log: %w", err)
	}
	return entries, nil
}
