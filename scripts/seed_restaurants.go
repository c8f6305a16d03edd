package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/franciscosanchezn/gin-restaurant-api/internal/config"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/database"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/models"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/services"
)

// Development helper: fills the restaurant collection with sample documents
// so the query endpoints have something to chew on.
func main() {
	// Parse command line flags
	reset := flag.Bool("reset", false, "Drop the collection before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	client, collection, err := database.InitDatabase(database.DatabaseConfig{
		URI:        conf.MongoURI,
		Name:       conf.MongoDatabase,
		Collection: conf.MongoCollection,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Shutdown(client, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *reset {
		if err := collection.Drop(ctx); err != nil {
			log.Fatal("Failed to drop collection:", err)
		}
		log.Println("Collection dropped")
	}

	service := services.NewRestaurantService(collection)
	result, err := service.BulkCreateRestaurants(ctx, sampleRestaurants())
	if err != nil {
		log.Fatal("Failed to seed restaurants:", err)
	}

	fmt.Printf("Seeded %d restaurants into %s.%s\n", result.Count, conf.MongoDatabase, conf.MongoCollection)
}

func sampleRestaurants() []models.RestaurantInput {
	return []models.RestaurantInput{
		{Name: ptr("Spice Garden"), City: ptr("Chennai"), Cuisine: ptr("Indian"), Rating: 4.5, Latitude: 13.0827, Longitude: 80.2707},
		{Name: ptr("Madras Tiffin"), City: ptr("Chennai"), Cuisine: ptr("Indian"), Rating: 4.1, Latitude: 13.0604, Longitude: 80.2496},
		{Name: ptr("Bella Napoli"), City: ptr("Bangalore"), Cuisine: ptr("Italian"), Rating: 4.2, Latitude: 12.9716, Longitude: 77.5946},
		{Name: ptr("Dragon Wok"), City: ptr("Mumbai"), Cuisine: ptr("Chinese"), Rating: 3.8, Latitude: 19.0760, Longitude: 72.8777},
		{Name: ptr("Cafe Mysore"), City: ptr("Mysore"), Cuisine: ptr("Indian"), Rating: 4.7, Latitude: 12.2958, Longitude: 76.6394},
		{Name: ptr("Le Petit Bistro"), City: ptr("Pondicherry"), Cuisine: ptr("French"), Rating: 4.4},
	}
}

func ptr(s string) *string {
	return &s
}
