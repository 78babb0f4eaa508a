package models

import "time"

// SubscriberModel holds one newsletter subscription. Email is stored
// lowercased; the unsubscribe token is the only credential a reader needs
// to opt out.
type SubscriberModel struct {
	Base
	Email              string     `json:"email"              gorm:"uniqueIndex;not null"`
	IsActive           bool       `json:"is_active"          gorm:"default:true;index"`
	SubscribedAt       time.Time  `json:"subscribed_at"`
	UnsubscribedAt     *time.Time `json:"unsubscribed_at"`
	IPHash             string     `json:"-"`
	UserAgent          string     `json:"-"                  gorm:"type:varchar(512)"`
	Referrer           string     `json:"-"`
	UnsubscribeToken   string     `json:"-"                  gorm:"uniqueIndex;size:64"`
	WelcomeEmailSent   bool       `json:"welcome_email_sent" gorm:"default:false"`
	WelcomeEmailSentAt *time.Time `json:"welcome_email_sent_at"`
}

func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

// EmailLogModel records every transactional email attempt for a
// subscriber, successful or not.
type EmailLogModel struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	SubscriberID uint      `json:"subscriber_id" gorm:"index"`
	EmailType    string    `json:"email_type"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"` // sent | failed
	ExternalID   string    `json:"external_id"`
	Error        string    `json:"error"         gorm:"type:text"`
}

func (EmailLogModel) TableName() string { return "newsletter_email_log" }
