package monetization

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus tracks the billing state of a user's subscription.
type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "active"
	SubPastDue   SubscriptionStatus = "past_due"
	SubCancelled SubscriptionStatus = "cancelled"
)

var validSubStatuses = map[SubscriptionStatus]bool{
	SubActive: true, SubPastDue: true, SubCancelled: true,
}

// Subscription is a user's current plan binding. Updates are a whole-object
// shallow merge of the requested changes.
type Subscription struct {
	UserID        string             `json:"user_id"`
	PlanID        string             `json:"plan_id"`
	Status        SubscriptionStatus `json:"status"`
	AutoRenew     bool               `json:"auto_renew"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	StartedAt     time.Time          `json:"started_at"`
	RenewsAt      *time.Time         `json:"renews_at,omitempty"`
}

// SubscriptionChanges carries the fields of a merge update. Nil fields are
// left untouched.
type SubscriptionChanges struct {
	PlanID        *string             `json:"plan_id,omitempty"`
	Status        *SubscriptionStatus `json:"status,omitempty"`
	AutoRenew     *bool               `json:"auto_renew,omitempty"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
}

// Plan is a purchasable subscription tier. Prices are in paise.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly int      `json:"price_monthly"`
	PriceYearly  int      `json:"price_yearly"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
	Highlight    bool     `json:"highlight"`
}

// PremiumFeature is a capability unlocked at or above a given plan.
type PremiumFeature struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinPlanID   string `json:"min_plan_id"`
}

// PartnerService is a third-party offering surfaced in the app.
type PartnerService struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Discount    string `json:"discount,omitempty"`
	URL         string `json:"url"`
}

// Doctor is a bookable practitioner.
type Doctor struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	ExperienceYrs  int     `json:"experience_years"`
	Rating         float64 `json:"rating"`
	Fee            int     `json:"fee"`
}

// ConsultationMode is how a consultation is held.
type ConsultationMode string

const (
	ModeVideo  ConsultationMode = "video"
	ModeAudio  ConsultationMode = "audio"
	ModeClinic ConsultationMode = "clinic"
)

var validModes = map[ConsultationMode]bool{
	ModeVideo: true, ModeAudio: true, ModeClinic: true,
}

func (m ConsultationMode) Valid() bool { return validModes[m] }

// Consultation is a booked appointment with a doctor.
type Consultation struct {
	ID        uuid.UUID        `json:"id"`
	UserID    string           `json:"user_id"`
	DoctorID  string           `json:"doctor_id"`
	Slot      time.Time        `json:"slot"`
	Mode      ConsultationMode `json:"mode"`
	Status    string           `json:"status"`
	Fee       int              `json:"fee"`
	CreatedAt time.Time        `json:"created_at"`
}

// Offer is a time-bound promotional code.
type Offer struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Discount    string    `json:"discount"`
	ValidUntil  time.Time `json:"valid_until"`
}
