package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

const connectTimeout = 10 * time.Second

// InitDatabase establishes the MongoDB connection described by the provided
// configuration, with automatic retry logic, and returns the client together
// with a handle on the restaurant collection.
func InitDatabase(cfg DatabaseConfig) (*mongo.Client, *mongo.Collection, error) {
	log.WithFields(logrus.Fields{
		"db_uri":        maskURI(cfg.URI),
		"db_name":       cfg.Name,
		"db_collection": cfg.Collection,
	}).Info("Initializing database connection")

	// Retry logic: max 5 attempts with exponential backoff
	maxRetries := 5
	retryDelays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
		}).Info("Attempting database connection")

		client, err := connect(cfg.URI)
		if err == nil {
			log.WithFields(logrus.Fields{
				"db_name": cfg.Name,
				"attempt": attempt,
			}).Info("Database initialized successfully")
			return client, client.Database(cfg.Name).Collection(cfg.Collection), nil
		}
		lastErr = err

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Database connection attempt failed")

		// Don't wait after the last attempt
		if attempt < maxRetries {
			delay := retryDelays[attempt-1]
			log.WithField("delay", delay).Info("Retrying database connection")
			time.Sleep(delay)
		}
	}

	// All retries exhausted
	return nil, nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

// connect opens a client and verifies the connection with a primary ping
func connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Release the client's resources before reporting failure
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), connectTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// Shutdown closes the MongoDB client, waiting at most the given timeout.
func Shutdown(client *mongo.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Disconnect(ctx)
}
