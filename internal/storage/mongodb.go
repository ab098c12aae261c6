package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gradelens/marksheet_ocr_gemini/configs"
	"github.com/gradelens/marksheet_ocr_gemini/internal/models"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

// InitMongoDB initializes the MongoDB connection. Storage is optional;
// when MONGO_URI is unset the service runs without extraction history.
func InitMongoDB() error {
	if configs.MONGO_URI == "" {
		log.Println("ℹ️ MONGO_URI not set, extraction history disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(configs.MONGO_URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(configs.MONGO_DB_NAME)

	log.Println("✅ Connected to MongoDB successfully!")
	return nil
}

// Enabled reports whether extraction history is available.
func Enabled() bool {
	return mongoDB != nil
}

// CloseMongoDB closes the MongoDB connection
func CloseMongoDB() {
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
		log.Println("MongoDB connection closed")
	}
}

// ExtractionRecord is one stored extraction result.
type ExtractionRecord struct {
	RequestID  string                 `bson:"request_id" json:"request_id"`
	Filename   string                 `bson:"filename" json:"filename"`
	Provider   string                 `bson:"provider" json:"provider"`
	Data       *models.MarksheetData  `bson:"data" json:"data"`
	Metadata   map[string]interface{} `bson:"metadata" json:"metadata"`
	DurationMs int64                  `bson:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}

// SaveExtractionRecord stores a completed extraction. No-op when
// storage is disabled.
func SaveExtractionRecord(record ExtractionRecord) error {
	if !Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	collection := mongoDB.Collection("extractions")
	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to save extraction record: %w", err)
	}

	return nil
}

// GetRecentExtractions returns the most recent extraction records,
// newest first.
func GetRecentExtractions(limit int64) ([]ExtractionRecord, error) {
	if !Enabled() {
		return []ExtractionRecord{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	collection := mongoDB.Collection("extractions")
	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []ExtractionRecord
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}
