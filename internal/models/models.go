package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// We use 'db' tags for sqlx to automatically map
// the database column names (snake_case) to our Go fields (CamelCase).
// All monetary values are integer minor units (cents).

// User roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
	RoleAdmin = "admin"
)

// Call types.
const (
	CallVoice = "voice"
	CallVideo = "video"
)

// Call session statuses.
const (
	CallActive    = "active"
	CallCompleted = "completed"
	CallCancelled = "cancelled"
)

// Scheduled call statuses.
const (
	SchedulePending   = "pending"
	ScheduleConfirmed = "confirmed"
	ScheduleCancelled = "cancelled"
	ScheduleCompleted = "completed"
)

// Transaction types.
const (
	TxDeposit     = "deposit"
	TxCallCharge  = "call_charge"
	TxCallRevenue = "call_revenue"
)

// Transaction statuses.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// StringList stores a list of strings in a single text column as JSON.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// User represents an account of any role.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Gender       string    `db:"gender" json:"gender"`
	Age          int       `db:"age" json:"age"`
	City         string    `db:"city" json:"city"`
	Country      string    `db:"country" json:"country"`
	ProfileImage string    `db:"profile_image" json:"profileImage"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ModelProfile extends a User with role=model. Exists iff the owning
// user has the model role.
type ModelProfile struct {
	ID                int        `db:"id" json:"id"`
	UserID            int        `db:"user_id" json:"userId"`
	Bio               string     `db:"bio" json:"bio"`
	Languages         StringList `db:"languages" json:"languages"`
	Categories        StringList `db:"categories" json:"categories"`
	OfferVoiceCalls   bool       `db:"offer_voice_calls" json:"offerVoiceCalls"`
	OfferVideoCalls   bool       `db:"offer_video_calls" json:"offerVideoCalls"`
	VoiceRateCents    int        `db:"voice_rate_cents" json:"voiceRateCents"`
	VideoRateCents    int        `db:"video_rate_cents" json:"videoRateCents"`
	IsAvailable       bool       `db:"is_available" json:"isAvailable"`
	IsVerified        bool       `db:"is_verified" json:"isVerified"`
	CommissionRateBps int        `db:"commission_rate_bps" json:"-"`
	PayoutInfo        string     `db:"payout_info" json:"-"`
	ReferrerID        int        `db:"referrer_id" json:"-"`
	ProfileImages     StringList `db:"profile_images" json:"profileImages"`
}

// Default model profile values.
const (
	DefaultVoiceRateCents    = 497
	DefaultVideoRateCents    = 997
	DefaultCommissionRateBps = 7500
)

// Wallet holds a user's balance in cents. One wallet per user.
type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"userId"`
	BalanceCents int       `db:"balance_cents" json:"balanceCents"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Transaction is an append-only ledger entry. Amount is signed:
// credits positive, debits negative. OrderID correlates gateway
// deposits with their webhook notification.
type Transaction struct {
	ID              int       `db:"id" json:"id"`
	UserID          int       `db:"user_id" json:"userId"`
	AmountCents     int       `db:"amount_cents" json:"amountCents"`
	Type            string    `db:"type" json:"type"`
	Status          string    `db:"status" json:"status"`
	Description     string    `db:"description" json:"description"`
	RelatedEntityID int       `db:"related_entity_id" json:"relatedEntityId,omitempty"`
	OrderID         string    `db:"order_id" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// CallSession is one real-time call. Rate is snapshotted at creation
// and never recalculated.
type CallSession struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"userId"`
	ModelID        int        `db:"model_id" json:"modelId"`
	Type           string     `db:"type" json:"type"`
	Status         string     `db:"status" json:"status"`
	StartTime      time.Time  `db:"start_time" json:"startTime"`
	EndTime        *time.Time `db:"end_time" json:"endTime,omitempty"`
	Duration       int        `db:"duration" json:"duration"` // seconds
	RateCents      int        `db:"rate_cents" json:"rateCents"`
	TotalCostCents int        `db:"total_cost_cents" json:"totalCostCents"`
	RoomID         string     `db:"room_id" json:"roomId"`
	RoomToken      string     `db:"room_token" json:"roomToken,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// ScheduledCall is a future booking, distinct from an active session.
type ScheduledCall struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"userId"`
	ModelID       int       `db:"model_id" json:"modelId"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduledTime"`
	Duration      int       `db:"duration" json:"duration"` // minutes
	Type          string    `db:"type" json:"type"`
	RateCents     int       `db:"rate_cents" json:"rateCents"`
	Status        string    `db:"status" json:"status"`
	CallSessionID int       `db:"call_session_id" json:"callSessionId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Message is immutable except for the IsRead flag, settable once by
// the receiver.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"senderId"`
	ReceiverID int       `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Favorite is a user's bookmark of a model. (userId, modelId) is unique.
type Favorite struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	ModelID   int       `db:"model_id" json:"modelId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
