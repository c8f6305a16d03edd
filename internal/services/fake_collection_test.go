package services

import (
	"bytes"
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/franciscosanchezn/gin-restaurant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is an in-memory stand-in for *mongo.Collection. It
// interprets the exact filter shapes the service builds (soft-delete
// predicate, id equality, name regex, field equality, created_at $gte) and
// honors skip/limit/sort find options, so service tests exercise real query
// semantics without a running MongoDB.
type fakeCollection struct {
	docs []models.Restaurant

	findErr   error
	insertErr error
	updateErr error
	deleteErr error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: []models.Restaurant{}}
}

// add bypasses the service to plant a document with chosen fields (for
// example an old created_at).
func (f *fakeCollection) add(doc models.Restaurant) models.Restaurant {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	f.docs = append(f.docs, doc)
	return doc
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	matched := f.match(filter)
	if len(opts) > 0 && opts[0] != nil {
		opt := opts[0]
		if opt.Sort != nil {
			sortDocs(matched, opt.Sort.(bson.D))
		}
		if opt.Skip != nil {
			skip := int(*opt.Skip)
			if skip > len(matched) {
				skip = len(matched)
			}
			matched = matched[skip:]
		}
		if opt.Limit != nil && int(*opt.Limit) < len(matched) {
			matched = matched[:*opt.Limit]
		}
	}

	return cursorFor(matched)
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	matched := f.match(filter)
	if len(matched) == 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(matched[0], nil, nil)
}

func (f *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	doc := document.(models.Restaurant)
	doc.ID = primitive.NewObjectID()
	f.docs = append(f.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc.ID}, nil
}

func (f *fakeCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	ids := make([]interface{}, 0, len(documents))
	for _, document := range documents {
		doc := document.(models.Restaurant)
		doc.ID = primitive.NewObjectID()
		f.docs = append(f.docs, doc)
		ids = append(ids, doc.ID)
	}
	return &mongo.InsertManyResult{InsertedIDs: ids}, nil
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	set := update.(bson.M)["$set"].(bson.M)
	for i := range f.docs {
		if matchDoc(f.docs[i], filter.(bson.M)) {
			applySet(&f.docs[i], set)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}

	for i := range f.docs {
		if matchDoc(f.docs[i], filter.(bson.M)) {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

// Aggregate only understands the $match + $sample pipeline the service
// builds; "sampling" returns the first match to keep tests deterministic.
func (f *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	matched := f.docs
	for _, stage := range pipeline.(mongo.Pipeline) {
		switch stage[0].Key {
		case "$match":
			matched = filterDocs(matched, stage[0].Value.(bson.M))
		case "$sample":
			if len(matched) > 1 {
				matched = matched[:1]
			}
		}
	}
	return cursorFor(matched)
}

func (f *fakeCollection) match(filter interface{}) []models.Restaurant {
	return filterDocs(f.docs, filter.(bson.M))
}

func filterDocs(docs []models.Restaurant, filter bson.M) []models.Restaurant {
	matched := make([]models.Restaurant, 0)
	for _, doc := range docs {
		if matchDoc(doc, filter) {
			matched = append(matched, doc)
		}
	}
	return matched
}

func matchDoc(doc models.Restaurant, filter bson.M) bool {
	for field, cond := range filter {
		switch field {
		case "_id":
			if doc.ID != cond.(primitive.ObjectID) {
				return false
			}
		case "deleted":
			if ne, ok := cond.(bson.M); ok {
				if doc.Deleted == ne["$ne"].(bool) {
					return false
				}
			} else if doc.Deleted != cond.(bool) {
				return false
			}
		case "name":
			if !matchString(doc.Name, cond) {
				return false
			}
		case "city":
			if !matchString(doc.City, cond) {
				return false
			}
		case "cuisine":
			if !matchString(doc.Cuisine, cond) {
				return false
			}
		case "rating":
			if v, ok := cond.(float64); !ok || doc.Rating != v {
				return false
			}
		case "created_at":
			gte := cond.(bson.M)["$gte"].(time.Time)
			if doc.CreatedAt.Before(gte) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchString(value *string, cond interface{}) bool {
	if value == nil {
		return false
	}
	switch c := cond.(type) {
	case string:
		return *value == c
	case primitive.Regex:
		pattern := c.Pattern
		if c.Options == "i" {
			pattern = "(?i)" + pattern
		}
		return regexp.MustCompile(pattern).MatchString(*value)
	default:
		return false
	}
}

func applySet(doc *models.Restaurant, set bson.M) {
	for field, value := range set {
		switch field {
		case "name":
			v := value.(string)
			doc.Name = &v
		case "city":
			v := value.(string)
			doc.City = &v
		case "cuisine":
			v := value.(string)
			doc.Cuisine = &v
		case "rating":
			doc.Rating = value.(float64)
		case "deleted":
			doc.Deleted = value.(bool)
		}
	}
}

func sortDocs(docs []models.Restaurant, keys bson.D) {
	// Apply keys from least to most significant so the final stable sort
	// leaves earlier keys dominant.
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		direction := key.Value.(int)
		sort.SliceStable(docs, func(a, b int) bool {
			cmp := compareField(docs[a], docs[b], key.Key)
			if direction < 0 {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

func compareField(a, b models.Restaurant, field string) int {
	switch field {
	case "_id":
		return bytes.Compare(a.ID[:], b.ID[:])
	case "rating":
		switch {
		case a.Rating < b.Rating:
			return -1
		case a.Rating > b.Rating:
			return 1
		}
		return 0
	case "name":
		return compareStringPtr(a.Name, b.Name)
	case "city":
		return compareStringPtr(a.City, b.City)
	case "cuisine":
		return compareStringPtr(a.Cuisine, b.Cuisine)
	default:
		return 0
	}
}

func compareStringPtr(a, b *string) int {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return bytes.Compare([]byte(av), []byte(bv))
}

func cursorFor(docs []models.Restaurant) (*mongo.Cursor, error) {
	raw := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		raw = append(raw, doc)
	}
	return mongo.NewCursorFromDocuments(raw, nil, nil)
}
