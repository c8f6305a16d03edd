package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-restaurant-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-restaurant-api/internal/config"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/controllers"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/database"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/middleware"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/models"
	"github.com/franciscosanchezn/gin-restaurant-api/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mongoClient          *mongo.Client
	restaurantService    services.RestaurantService
	restaurantController controllers.RestaurantController
	configuration        *config.Config
)

// @title Restaurant API
// @version 1.0
// @description A CRUD API for restaurants backed by MongoDB
// @host localhost:8080
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	collection := setupDatabase(configuration)
	defer shutdownDatabase()

	// Initialize services and controllers
	restaurantService = services.NewRestaurantService(collection)
	restaurantController = controllers.NewRestaurantController(restaurantService)

	// Seed development data when requested
	if configuration.SeedDatabase {
		seedDatabase(collection)
	}

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %+v", conf)
	return conf
}

// setupDatabase connects to MongoDB and returns the restaurant collection handle
func setupDatabase(conf *config.Config) *mongo.Collection {
	client, collection, err := database.InitDatabase(database.DatabaseConfig{
		URI:        conf.MongoURI,
		Name:       conf.MongoDatabase,
		Collection: conf.MongoCollection,
	})
	checkPanicErr(err)
	mongoClient = client
	return collection
}

// shutdownDatabase closes the MongoDB client
func shutdownDatabase() {
	if err := database.Shutdown(mongoClient, 10*time.Second); err != nil {
		log.WithError(err).Error("Failed to close database connection")
	}
}

// seedDatabase seeds the database with initial data, but only when the
// collection is still empty
func seedDatabase(collection *mongo.Collection) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		log.WithError(err).Error("Failed to count restaurants, skipping seed")
		return
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return
	}

	log.Info("Database is empty, seeding initial data")
	restaurants := []models.RestaurantInput{
		{Name: strPtr("Spice Garden"), City: strPtr("Chennai"), Cuisine: strPtr("Indian"), Rating: 4.5, Latitude: 13.0827, Longitude: 80.2707},
		{Name: strPtr("Bella Napoli"), City: strPtr("Bangalore"), Cuisine: strPtr("Italian"), Rating: 4.2, Latitude: 12.9716, Longitude: 77.5946},
		{Name: strPtr("Dragon Wok"), City: strPtr("Mumbai"), Cuisine: strPtr("Chinese"), Rating: 3.8, Latitude: 19.0760, Longitude: 72.8777},
	}
	result, err := restaurantService.BulkCreateRestaurants(ctx, restaurants)
	if err != nil {
		log.WithError(err).Error("Failed to seed database")
		return
	}
	log.Infof("Database seeded successfully with %d restaurants", result.Count)
}

func strPtr(s string) *string {
	return &s
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	// CORS: the API is consumed directly from browsers
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/", healthCheckHandler)

	// Restaurant routes
	api := router.Group("/api")
	{
		restaurants := api.Group("/restaurants")
		{
			// Collection views
			restaurants.GET("", restaurantController.GetAllRestaurants)
			restaurants.GET("/search/:query", restaurantController.SearchRestaurants)
			restaurants.GET("/filter", restaurantController.FilterRestaurants)
			restaurants.GET("/page/:page", restaurantController.PaginateRestaurants)
			restaurants.GET("/sort/:field", restaurantController.SortRestaurants)
			restaurants.GET("/top/:limit", restaurantController.TopRatedRestaurants)
			restaurants.GET("/random", restaurantController.RandomRestaurant)
			restaurants.GET("/nearby", restaurantController.NearbyRestaurants)
			restaurants.GET("/recent/:days", restaurantController.RecentRestaurants)
			restaurants.GET("/disabled", restaurantController.DisabledRestaurants)

			// Mutations
			restaurants.POST("", restaurantController.CreateRestaurant)
			restaurants.POST("/bulk", restaurantController.BulkCreateRestaurants)

			// Member routes
			restaurants.GET("/:id", restaurantController.GetRestaurantByID)
			restaurants.PUT("/:id", restaurantController.UpdateRestaurant)
			restaurants.PATCH("/:id/disable", restaurantController.DisableRestaurant)
			restaurants.DELETE("/:id", restaurantController.DeleteRestaurant)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant API is running",
		"version": "1.0.0",
	})
}
