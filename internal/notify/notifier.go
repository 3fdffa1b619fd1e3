// Package notify is the fire-and-forget notification channel. Dispatch
// happens after the core transaction has committed; a failed dispatch is
// logged and never surfaces to the caller or rolls anything back.
package notify

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

type Event struct {
	Type     string
	UserID   *string // nil = broadcast to the role's queue, resolved downstream
	RefTable string
	RefID    uint64
	Message  string
}

type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Notification is the persisted outbox row a delivery worker picks up.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	UserID    *string   `gorm:"size:32;index"`
	Type      string    `gorm:"size:64"`
	RefTable  string    `gorm:"size:64"`
	RefID     uint64    `gorm:"index"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }

type GormNotifier struct{ db *gorm.DB }

func NewGormNotifier(db *gorm.DB) *GormNotifier { return &GormNotifier{db: db} }

func (n *GormNotifier) Notify(ctx context.Context, ev Event) {
	row := &Notification{
		UserID:   ev.UserID,
		Type:     ev.Type,
		RefTable: ev.RefTable,
		RefID:    ev.RefID,
		Message:  ev.Message,
	}
	if err := n.db.WithContext(ctx).Create(row).Error; err != nil {
		log.Printf("notify: dropping %s event for %s/%d: %v", ev.Type, ev.RefTable, ev.RefID, err)
	}
}

// Noop satisfies Notifier where notifications are not wired (tests, tools).
type Noop struct{}

func (Noop) Notify(context.Context, Event) {}
