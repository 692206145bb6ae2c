package models

import "time"

// Alert rule types evaluated against calculation results.
const (
	RuleMarginBelow  = "margin_below"  // margin percent under threshold
	RuleTierCritical = "tier_critical" // performance tier is CRITICAL
	RuleHealthRed    = "health_red"    // health score in the red zone
	RuleNeverBreaks  = "never_breaks"  // product never breaks even
)

// AlertRule is a configured portfolio alert.
type AlertRule struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	RuleType  string    `json:"rule_type" bson:"rule_type"`
	Threshold float64   `json:"threshold,omitempty" bson:"threshold,omitempty"`
	Enabled   bool      `json:"enabled" bson:"enabled"`
	Cooldown  int       `json:"cooldown_minutes" bson:"cooldown_minutes"`
	LastFired time.Time `json:"last_fired" bson:"last_fired"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// AlertEvent records a rule firing for a product.
type AlertEvent struct {
	ID        string    `json:"id" bson:"id"`
	RuleID    string    `json:"rule_id" bson:"rule_id"`
	RuleName  string    `json:"rule_name" bson:"rule_name"`
	RuleType  string    `json:"rule_type" bson:"rule_type"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Product   string    `json:"product" bson:"product"`
	Message   string    `json:"message" bson:"message"`
	Value     float64   `json:"value" bson:"value"`
	Threshold float64   `json:"threshold,omitempty" bson:"threshold,omitempty"`
	Notified  bool      `json:"notified" bson:"notified"`
}
