package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/franciscosanchezn/gin-restaurant-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRestaurantNotFound is returned when no document matches the requested
// id. A malformed id is indistinguishable from a missing document.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// defaultPerPage is the page size used when the caller supplies none or a
// non-positive value.
const defaultPerPage = 10

// RestaurantService provides all read and write operations over the
// restaurant collection
type RestaurantService interface {
	// GetAllRestaurants retrieves all active restaurants
	GetAllRestaurants(ctx context.Context) ([]models.Restaurant, error)
	// GetRestaurantByID retrieves a restaurant by its id, including soft-deleted ones
	GetRestaurantByID(ctx context.Context, id string) (models.Restaurant, error)
	// CreateRestaurant inserts a new restaurant and returns the stored document
	CreateRestaurant(ctx context.Context, input models.RestaurantInput) (models.Restaurant, error)
	// UpdateRestaurant merges the present fields into an existing restaurant
	UpdateRestaurant(ctx context.Context, id string, input models.RestaurantInput) (models.Restaurant, error)
	// DisableRestaurant marks a restaurant as deleted without removing it
	DisableRestaurant(ctx context.Context, id string) error
	// DeleteRestaurant permanently removes a restaurant
	DeleteRestaurant(ctx context.Context, id string) error
	// SearchRestaurants finds active restaurants whose name contains the query
	SearchRestaurants(ctx context.Context, query string) ([]models.Restaurant, error)
	// FilterRestaurants finds active restaurants matching every criterion exactly
	FilterRestaurants(ctx context.Context, criteria map[string]interface{}) ([]models.Restaurant, error)
	// PaginateRestaurants returns one page of active restaurants
	PaginateRestaurants(ctx context.Context, page, perPage int) (models.PaginatedRestaurants, error)
	// SortRestaurants returns active restaurants ordered by the named field
	SortRestaurants(ctx context.Context, field, order string) ([]models.Restaurant, error)
	// BulkCreateRestaurants inserts a batch of restaurants in one operation
	BulkCreateRestaurants(ctx context.Context, inputs []models.RestaurantInput) (models.BulkCreateResult, error)
	// TopRatedRestaurants returns the highest rated active restaurants
	TopRatedRestaurants(ctx context.Context, limit int) ([]models.Restaurant, error)
	// RandomRestaurant samples one active restaurant, or nil when none exist
	RandomRestaurant(ctx context.Context) (*models.Restaurant, error)
	// DisabledRestaurants returns all soft-deleted restaurants
	DisabledRestaurants(ctx context.Context) ([]models.Restaurant, error)
	// NearbyRestaurants returns active restaurants within radiusKm of a point
	NearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]models.Restaurant, error)
	// RecentRestaurants returns active restaurants created within the last days
	RecentRestaurants(ctx context.Context, days int) ([]models.Restaurant, error)
}

// Collection is the subset of *mongo.Collection the service depends on.
// Declared as an interface so tests can substitute an in-memory double.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// restaurantService is the implementation of the RestaurantService interface
type restaurantService struct {
	coll Collection
}

// NewRestaurantService creates a new instance of RestaurantService
func NewRestaurantService(coll Collection) RestaurantService {
	return &restaurantService{coll: coll}
}

// activeFilter is the single soft-delete predicate shared by every "active"
// read. Built fresh on each call so callers can extend it safely.
func activeFilter() bson.M {
	return bson.M{"deleted": bson.M{"$ne": true}}
}

func (s *restaurantService) GetAllRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	cur, err := s.coll.Find(ctx, activeFilter())
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

func (s *restaurantService) GetRestaurantByID(ctx context.Context, id string) (models.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Restaurant{}, ErrRestaurantNotFound
	}

	// Id lookups deliberately skip the deleted filter so disable and destroy
	// can still reach soft-deleted documents.
	var restaurant models.Restaurant
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&restaurant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Restaurant{}, ErrRestaurantNotFound
		}
		return models.Restaurant{}, err
	}
	return restaurant, nil
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, input models.RestaurantInput) (models.Restaurant, error) {
	doc := input.NewRestaurant(time.Now().UTC())

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return models.Restaurant{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc, nil
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, id string, input models.RestaurantInput) (models.Restaurant, error) {
	existing, err := s.GetRestaurantByID(ctx, id)
	if err != nil {
		return models.Restaurant{}, err
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.City != nil {
		set["city"] = *input.City
	}
	if input.Cuisine != nil {
		set["cuisine"] = *input.Cuisine
	}
	if rating, ok := input.RatingValue(); ok {
		set["rating"] = rating
	}

	if len(set) > 0 {
		if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
			return models.Restaurant{}, err
		}
	}
	return s.GetRestaurantByID(ctx, id)
}

func (s *restaurantService) DisableRestaurant(ctx context.Context, id string) error {
	existing, err := s.GetRestaurantByID(ctx, id)
	if err != nil {
		return err
	}

	// Idempotent: re-disabling an already disabled restaurant re-applies the flag.
	_, err = s.coll.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{"deleted": true}})
	return err
}

func (s *restaurantService) DeleteRestaurant(ctx context.Context, id string) error {
	existing, err := s.GetRestaurantByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.coll.DeleteOne(ctx, bson.M{"_id": existing.ID})
	return err
}

func (s *restaurantService) SearchRestaurants(ctx context.Context, query string) ([]models.Restaurant, error) {
	filter := activeFilter()
	// Substring match only: the query is escaped, never interpreted as a
	// user-supplied regex. An empty query matches every active restaurant.
	filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

func (s *restaurantService) FilterRestaurants(ctx context.Context, criteria map[string]interface{}) ([]models.Restaurant, error) {
	filter := activeFilter()
	for field, value := range criteria {
		if value == nil || value == "" {
			continue
		}
		filter[field] = value
	}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

// PaginateRestaurants treats page < 1 as page 1 and perPage < 1 as the
// default page size, so no input combination can produce a negative skip.
func (s *restaurantService) PaginateRestaurants(ctx context.Context, page, perPage int) (models.PaginatedRestaurants, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	skip := int64(page-1) * int64(perPage)

	opts := options.Find().SetSkip(skip).SetLimit(int64(perPage))
	cur, err := s.coll.Find(ctx, activeFilter(), opts)
	if err != nil {
		return models.PaginatedRestaurants{}, err
	}
	data, err := decodeRestaurants(ctx, cur)
	if err != nil {
		return models.PaginatedRestaurants{}, err
	}

	return models.PaginatedRestaurants{
		Page:    page,
		PerPage: perPage,
		Data:    data,
	}, nil
}

func (s *restaurantService) SortRestaurants(ctx context.Context, field, order string) ([]models.Restaurant, error) {
	direction := 1
	if order == "desc" {
		direction = -1
	}

	// Secondary _id sort keeps ties in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, activeFilter(), opts)
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

func (s *restaurantService) BulkCreateRestaurants(ctx context.Context, inputs []models.RestaurantInput) (models.BulkCreateResult, error) {
	result := models.BulkCreateResult{Message: "Restaurants created successfully"}
	if len(inputs) == 0 {
		return result, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(inputs))
	for _, input := range inputs {
		docs = append(docs, input.NewRestaurant(now))
	}

	// Ordered insert: the batch aborts on the first failure.
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return models.BulkCreateResult{}, err
	}
	result.Count = len(res.InsertedIDs)
	return result, nil
}

func (s *restaurantService) TopRatedRestaurants(ctx context.Context, limit int) ([]models.Restaurant, error) {
	// A mongo limit of 0 would mean "unlimited", so short-circuit here.
	if limit <= 0 {
		return []models.Restaurant{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, activeFilter(), opts)
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

func (s *restaurantService) RandomRestaurant(ctx context.Context) (*models.Restaurant, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter()}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	sampled, err := decodeRestaurants(ctx, cur)
	if err != nil {
		return nil, err
	}
	if len(sampled) == 0 {
		return nil, nil
	}
	return &sampled[0], nil
}

func (s *restaurantService) DisabledRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	cur, err := s.coll.Find(ctx, bson.M{"deleted": true})
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

func (s *restaurantService) NearbyRestaurants(ctx context.Context, lat, lng, radiusKm float64) ([]models.Restaurant, error) {
	all, err := s.GetAllRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.Restaurant, 0)
	for _, r := range all {
		if !r.HasCoordinates() {
			continue
		}
		if distanceKm(lat, lng, *r.Latitude, *r.Longitude) <= radiusKm {
			nearby = append(nearby, r)
		}
	}
	return nearby, nil
}

func (s *restaurantService) RecentRestaurants(ctx context.Context, days int) ([]models.Restaurant, error) {
	threshold := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	filter := activeFilter()
	filter["created_at"] = bson.M{"$gte": threshold}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeRestaurants(ctx, cur)
}

// decodeRestaurants drains a cursor into a slice, always returning a non-nil
// slice so empty results serialize as [] rather than null.
func decodeRestaurants(ctx context.Context, cur *mongo.Cursor) ([]models.Restaurant, error) {
	restaurants := make([]models.Restaurant, 0)
	if err := cur.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}
