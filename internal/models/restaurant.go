package models

import (
	"encoding/json"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant represents a restaurant document as stored in MongoDB.
// The ObjectID is assigned by the store on insert and rendered as a hex
// string in JSON responses.
type Restaurant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      *string            `bson:"name" json:"name"`
	City      *string            `bson:"city,omitempty" json:"city,omitempty"`
	Cuisine   *string            `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	Rating    float64            `bson:"rating" json:"rating"`
	Latitude  *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Deleted   bool               `bson:"deleted" json:"deleted"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// HasCoordinates reports whether both latitude and longitude are present.
// Records missing either coordinate never take part in proximity queries.
func (r Restaurant) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// RestaurantInput is the request payload for create and update operations.
// Numeric fields are declared loosely so clients may send numbers or numeric
// strings; coercion happens in NewRestaurant / RatingValue. A nil field means
// "absent or null" and is left untouched on update.
type RestaurantInput struct {
	Name      *string     `json:"name"`
	City      *string     `json:"city"`
	Cuisine   *string     `json:"cuisine"`
	Rating    interface{} `json:"rating"`
	Latitude  interface{} `json:"latitude"`
	Longitude interface{} `json:"longitude"`
}

// NewRestaurant builds the document stored for a create request. Rating
// defaults to 0 when absent or unparseable; coordinates are only set when
// they coerce cleanly. There is intentionally no name validation: a missing
// name yields a document with a null name.
func (in RestaurantInput) NewRestaurant(now time.Time) Restaurant {
	r := Restaurant{
		Name:      in.Name,
		City:      in.City,
		Cuisine:   in.Cuisine,
		Rating:    ToFloat(in.Rating),
		Deleted:   false,
		CreatedAt: now,
	}
	if v, ok := ToFloatOK(in.Latitude); ok {
		r.Latitude = &v
	}
	if v, ok := ToFloatOK(in.Longitude); ok {
		r.Longitude = &v
	}
	return r
}

// RatingValue returns the coerced rating and whether the field was present.
func (in RestaurantInput) RatingValue() (float64, bool) {
	if in.Rating == nil {
		return 0, false
	}
	return ToFloat(in.Rating), true
}

// BulkRestaurantsInput is the request payload for bulk creation.
type BulkRestaurantsInput struct {
	Restaurants []RestaurantInput `json:"restaurants"`
}

// PaginatedRestaurants wraps a single page of active restaurants.
type PaginatedRestaurants struct {
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
	Data    []Restaurant `json:"data"`
}

// BulkCreateResult reports the outcome of a bulk insert.
type BulkCreateResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToFloat coerces an arbitrary JSON value to float64, defaulting to 0 when
// the value is absent or unparseable.
func ToFloat(v interface{}) float64 {
	f, _ := ToFloatOK(v)
	return f
}

// ToFloatOK coerces an arbitrary JSON value to float64 and reports whether
// the coercion succeeded. Numbers, numeric strings and json.Number are
// accepted; anything else fails.
func ToFloatOK(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
