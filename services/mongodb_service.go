package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"profitpilot/config"
	"profitpilot/models"
)

// MongoDBService persists calculation history, bulk reports and alert
// state. Every method is a no-op (or a typed error for queries) when
// MongoDB is disabled, so callers never branch on availability.
type MongoDBService struct {
	client  *mongo.Client
	db      *mongo.Database
	log     *zap.Logger
	enabled bool
}

const (
	CollectionCalculations = "calculations"
	CollectionBulkReports  = "bulk_reports"
	CollectionAlertRules   = "alert_rules"
	CollectionAlertHistory = "alert_history"
)

func NewMongoDBService(cfg *config.Config, log *zap.Logger) (*MongoDBService, error) {
	if !cfg.MongoDB.Enabled {
		log.Info("mongodb disabled in configuration")
		return &MongoDBService{enabled: false, log: log}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoDB.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB.Database)

	service := &MongoDBService{
		client:  client,
		db:      db,
		log:     log,
		enabled: true,
	}

	if err := service.createIndexes(ctx); err != nil {
		log.Warn("failed to create indexes", zap.Error(err))
	}

	log.Info("mongodb connected", zap.String("database", cfg.MongoDB.Database))
	return service, nil
}

func (m *MongoDBService) createIndexes(ctx context.Context) error {
	if !m.enabled {
		return nil
	}

	_, err := m.db.Collection(CollectionCalculations).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_desc"),
		},
		{
			Keys:    bson.D{{Key: "product", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("product_timestamp"),
		},
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionBulkReports).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionAlertRules).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("id").SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.db.Collection(CollectionAlertHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})

	return err
}

func (m *MongoDBService) Close() error {
	if !m.enabled || m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// ============================================
// Calculation history
// ============================================

func (m *MongoDBService) InsertCalculation(ctx context.Context, record *models.CalculationRecord) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionCalculations).InsertOne(ctx, record)
	return err
}

// GetRecentCalculations returns the newest records first, capped at limit.
func (m *MongoDBService) GetRecentCalculations(ctx context.Context, limit int64) ([]models.CalculationRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := m.db.Collection(CollectionCalculations).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CalculationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// GetCalculationByID looks up one record by its uuid.
func (m *MongoDBService) GetCalculationByID(ctx context.Context, id string) (*models.CalculationRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	var record models.CalculationRecord
	err := m.db.Collection(CollectionCalculations).FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetCalculationsByProduct returns a product's history, newest first.
func (m *MongoDBService) GetCalculationsByProduct(ctx context.Context, product string, limit int64) ([]models.CalculationRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	filter := bson.M{"product": product}
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)

	cursor, err := m.db.Collection(CollectionCalculations).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CalculationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// GetHistoryStats aggregates the stored calculations into summary figures.
func (m *MongoDBService) GetHistoryStats(ctx context.Context) (*models.HistoryStats, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	// Field paths follow the driver's default lowercasing of the nested
	// result structs, which carry json tags only.
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"total":      bson.M{"$sum": 1},
			"avg_margin": bson.M{"$avg": "$result.totals.marginpercent"},
			"avg_roi":    bson.M{"$avg": "$result.totals.roipercent"},
			"profitable": bson.M{"$sum": bson.M{"$cond": []interface{}{
				bson.M{"$gt": []interface{}{"$result.totals.netprofit", 0}},
				1,
				0,
			}}},
			"oldest": bson.M{"$min": "$timestamp"},
			"newest": bson.M{"$max": "$timestamp"},
		}}},
	}

	cursor, err := m.db.Collection(CollectionCalculations).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var row struct {
		Total      int       `bson:"total"`
		AvgMargin  float64   `bson:"avg_margin"`
		AvgROI     float64   `bson:"avg_roi"`
		Profitable int       `bson:"profitable"`
		Oldest     time.Time `bson:"oldest"`
		Newest     time.Time `bson:"newest"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
	}

	return &models.HistoryStats{
		TotalCalculations: row.Total,
		AvgMargin:         row.AvgMargin,
		AvgROI:            row.AvgROI,
		ProfitableCount:   row.Profitable,
		OldestTimestamp:   row.Oldest,
		NewestTimestamp:   row.Newest,
	}, nil
}

// DeleteOldCalculations trims history past the retention window.
func (m *MongoDBService) DeleteOldCalculations(ctx context.Context, olderThan time.Duration) error {
	if !m.enabled {
		return fmt.Errorf("MongoDB not enabled")
	}

	cutoff := time.Now().Add(-olderThan)
	filter := bson.M{"timestamp": bson.M{"$lt": cutoff}}

	calcResult, err := m.db.Collection(CollectionCalculations).DeleteMany(ctx, filter)
	if err != nil {
		return err
	}

	bulkResult, err := m.db.Collection(CollectionBulkReports).DeleteMany(ctx, filter)
	if err != nil {
		return err
	}

	m.log.Info("trimmed history",
		zap.Int64("calculations", calcResult.DeletedCount),
		zap.Int64("bulk_reports", bulkResult.DeletedCount))

	return nil
}

// ============================================
// Bulk reports
// ============================================

func (m *MongoDBService) InsertBulkReport(ctx context.Context, record *models.BulkReportRecord) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionBulkReports).InsertOne(ctx, record)
	return err
}

func (m *MongoDBService) GetRecentBulkReports(ctx context.Context, limit int64) ([]models.BulkReportRecord, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := m.db.Collection(CollectionBulkReports).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.BulkReportRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// ============================================
// Alert rules and history
// ============================================

func (m *MongoDBService) InsertAlertRule(ctx context.Context, rule *models.AlertRule) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionAlertRules).InsertOne(ctx, rule)
	return err
}

func (m *MongoDBService) UpdateAlertRule(ctx context.Context, rule *models.AlertRule) error {
	if !m.enabled {
		return nil
	}

	filter := bson.M{"id": rule.ID}
	update := bson.M{"$set": rule}

	_, err := m.db.Collection(CollectionAlertRules).UpdateOne(ctx, filter, update)
	return err
}

func (m *MongoDBService) DeleteAlertRule(ctx context.Context, ruleID string) error {
	if !m.enabled {
		return nil
	}

	_, err := m.db.Collection(CollectionAlertRules).DeleteOne(ctx, bson.M{"id": ruleID})
	return err
}

func (m *MongoDBService) GetAlertRule(ctx context.Context, ruleID string) (*models.AlertRule, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	var rule models.AlertRule
	err := m.db.Collection(CollectionAlertRules).FindOne(ctx, bson.M{"id": ruleID}).Decode(&rule)
	if err != nil {
		return nil, err
	}

	return &rule, nil
}

func (m *MongoDBService) GetAllAlertRules(ctx context.Context) ([]*models.AlertRule, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	cursor, err := m.db.Collection(CollectionAlertRules).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []*models.AlertRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}

	return rules, nil
}

func (m *MongoDBService) InsertAlertEvent(ctx context.Context, event *models.AlertEvent) error {
	if !m.enabled {
		return nil
	}
	_, err := m.db.Collection(CollectionAlertHistory).InsertOne(ctx, event)
	return err
}

func (m *MongoDBService) GetRecentAlertEvents(ctx context.Context, limit int64) ([]models.AlertEvent, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := m.db.Collection(CollectionAlertHistory).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.AlertEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// ============================================
// Utility
// ============================================

func (m *MongoDBService) Enabled() bool {
	return m != nil && m.enabled
}

// GetDatabaseStats returns document counts and the stored time span.
func (m *MongoDBService) GetDatabaseStats(ctx context.Context) (map[string]interface{}, error) {
	if !m.enabled {
		return nil, fmt.Errorf("MongoDB not enabled")
	}

	stats := make(map[string]interface{})

	calcCount, _ := m.db.Collection(CollectionCalculations).CountDocuments(ctx, bson.M{})
	bulkCount, _ := m.db.Collection(CollectionBulkReports).CountDocuments(ctx, bson.M{})
	ruleCount, _ := m.db.Collection(CollectionAlertRules).CountDocuments(ctx, bson.M{})
	alertCount, _ := m.db.Collection(CollectionAlertHistory).CountDocuments(ctx, bson.M{})

	stats["calculations_count"] = calcCount
	stats["bulk_reports_count"] = bulkCount
	stats["alert_rules_count"] = ruleCount
	stats["alert_history_count"] = alertCount

	var oldest, newest models.CalculationRecord
	if err := m.db.Collection(CollectionCalculations).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"timestamp": 1})).Decode(&oldest); err == nil {
		stats["oldest_calculation"] = oldest.Timestamp
	}
	if err := m.db.Collection(CollectionCalculations).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"timestamp": -1})).Decode(&newest); err == nil {
		stats["newest_calculation"] = newest.Timestamp
		if !oldest.Timestamp.IsZero() {
			stats["data_span_days"] = newest.Timestamp.Sub(oldest.Timestamp).Hours() / 24
		}
	}

	return stats, nil
}
