package entities

import "time"

// WebhookDelivery is one queued phase-completion notification. Workers claim
// rows with FOR UPDATE SKIP LOCKED so deliveries survive restarts and are
// never processed twice.
type WebhookDelivery struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID   string `gorm:"type:varchar(50);uniqueIndex;not null"`
	ScopeID    string `gorm:"type:varchar(64);index;not null"`
	Phase      string `gorm:"type:varchar(20);not null"`
	Percentage int    `gorm:"not null"`

	Status      string     `gorm:"type:varchar(20);index;not null;default:'queued'"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   *string    `gorm:"type:text"`
	QueuedAt    time.Time  `gorm:"not null"`
	DeliveredAt *time.Time `gorm:"type:timestamp"`
}

// TableName specifies the table name for WebhookDelivery.
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
