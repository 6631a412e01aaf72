package monetization

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/rest"
)

// BookingRequest carries the parameters of a consultation booking.
type BookingRequest struct {
	UserID   string           `json:"user_id"`
	DoctorID string           `json:"doctor_id"`
	Slot     time.Time        `json:"slot"`
	Mode     ConsultationMode `json:"mode"`
}

type Service struct {
	d             dispatch.Dispatcher
	api           *rest.Client
	subs          SubscriptionRepository
	consultations ConsultationRepository
	clk           clock.Clock
	log           zerolog.Logger
}

func NewService(d dispatch.Dispatcher, api *rest.Client, subs SubscriptionRepository, consultations ConsultationRepository, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{d: d, api: api, subs: subs, consultations: consultations, clk: clk, log: log}
}

// GetSubscription returns the user's subscription, defaulting new users onto
// the free plan.
func (s *Service) GetSubscription(ctx context.Context, userID string) (*Subscription, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyRead,
		func() (*Subscription, error) {
			return s.getOrDefault(ctx, userID)
		},
		func(ctx context.Context) (*Subscription, error) {
			var sub Subscription
			if err := s.api.Get(ctx, "/monetization/subscription/"+url.PathEscape(userID), &sub); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &sub, nil
		})
}

// UpdateSubscription applies a shallow merge of the given changes onto the
// user's subscription and returns the merged result.
func (s *Service) UpdateSubscription(ctx context.Context, userID string, changes SubscriptionChanges) (*Subscription, error) {
	if changes.PlanID != nil && FindPlan(*changes.PlanID) == nil {
		return nil, fmt.Errorf("unknown plan: %s", *changes.PlanID)
	}
	if changes.Status != nil && !validSubStatuses[*changes.Status] {
		return nil, fmt.Errorf("invalid status: %s", *changes.Status)
	}

	return dispatch.Do(ctx, s.d, dispatch.LatencyWrite,
		func() (*Subscription, error) {
			sub, err := s.getOrDefault(ctx, userID)
			if err != nil {
				return nil, err
			}
			if changes.PlanID != nil {
				sub.PlanID = *changes.PlanID
			}
			if changes.Status != nil {
				sub.Status = *changes.Status
			}
			if changes.AutoRenew != nil {
				sub.AutoRenew = *changes.AutoRenew
			}
			if changes.PaymentMethod != nil {
				sub.PaymentMethod = *changes.PaymentMethod
			}
			if err := s.subs.Save(ctx, sub); err != nil {
				return nil, err
			}
			return sub, nil
		},
		func(ctx context.Context) (*Subscription, error) {
			var sub Subscription
			if err := s.api.Put(ctx, "/monetization/subscription/"+url.PathEscape(userID), changes, &sub); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &sub, nil
		})
}

func (s *Service) getOrDefault(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.subs.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		sub = &Subscription{
			UserID:    userID,
			PlanID:    "free",
			Status:    SubActive,
			StartedAt: s.clk.Now(),
		}
		if err := s.subs.Save(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}
	return sub, err
}

// ListPlans returns the plan catalog.
func (s *Service) ListPlans(ctx context.Context) ([]Plan, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]Plan, error) { return Plans, nil },
		func(ctx context.Context) ([]Plan, error) {
			var plans []Plan
			if err := s.api.Get(ctx, "/monetization/plans", &plans); err != nil {
				return nil, err
			}
			return plans, nil
		})
}

// ListPremiumFeatures returns the premium feature catalog.
func (s *Service) ListPremiumFeatures(ctx context.Context) ([]PremiumFeature, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]PremiumFeature, error) { return PremiumFeatures, nil },
		func(ctx context.Context) ([]PremiumFeature, error) {
			var features []PremiumFeature
			if err := s.api.Get(ctx, "/monetization/features", &features); err != nil {
				return nil, err
			}
			return features, nil
		})
}

// ListPartnerServices returns partner services, optionally narrowed to an
// exact type match.
func (s *Service) ListPartnerServices(ctx context.Context, partnerType string) ([]PartnerService, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]PartnerService, error) {
			if partnerType == "" {
				return Partners, nil
			}
			result := []PartnerService{}
			for _, p := range Partners {
				if p.Type == partnerType {
					result = append(result, p)
				}
			}
			return result, nil
		},
		func(ctx context.Context) ([]PartnerService, error) {
			path := "/monetization/partners"
			if partnerType != "" {
				path += "?type=" + url.QueryEscape(partnerType)
			}
			var partners []PartnerService
			if err := s.api.Get(ctx, path, &partners); err != nil {
				return nil, err
			}
			return partners, nil
		})
}

// ListDoctors returns doctors, optionally narrowed by a case-insensitive
// substring match on specialization.
func (s *Service) ListDoctors(ctx context.Context, specialization string) ([]Doctor, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]Doctor, error) {
			if specialization == "" {
				return Doctors, nil
			}
			needle := strings.ToLower(specialization)
			result := []Doctor{}
			for _, d := range Doctors {
				if strings.Contains(strings.ToLower(d.Specialization), needle) {
					result = append(result, d)
				}
			}
			return result, nil
		},
		func(ctx context.Context) ([]Doctor, error) {
			path := "/monetization/doctors"
			if specialization != "" {
				path += "?specialization=" + url.QueryEscape(specialization)
			}
			var doctors []Doctor
			if err := s.api.Get(ctx, path, &doctors); err != nil {
				return nil, err
			}
			return doctors, nil
		})
}

// BookConsultation books a slot with a doctor.
func (s *Service) BookConsultation(ctx context.Context, req BookingRequest) (*Consultation, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("invalid mode: %s", req.Mode)
	}
	if req.Slot.IsZero() {
		return nil, fmt.Errorf("slot is required")
	}

	return dispatch.Do(ctx, s.d, dispatch.LatencyWrite,
		func() (*Consultation, error) {
			doctor := FindDoctor(req.DoctorID)
			if doctor == nil {
				return nil, ErrNotFound
			}
			if !req.Slot.After(s.clk.Now()) {
				return nil, fmt.Errorf("slot must be in the future")
			}
			c := &Consultation{
				ID:        uuid.New(),
				UserID:    req.UserID,
				DoctorID:  doctor.ID,
				Slot:      req.Slot,
				Mode:      req.Mode,
				Status:    "booked",
				Fee:       doctor.Fee,
				CreatedAt: s.clk.Now(),
			}
			if err := s.consultations.Create(ctx, c); err != nil {
				return nil, err
			}
			return c, nil
		},
		func(ctx context.Context) (*Consultation, error) {
			var c Consultation
			if err := s.api.Post(ctx, "/monetization/consultations", req, &c); err != nil {
				return nil, mapRemoteNotFound(err)
			}
			return &c, nil
		})
}

// ListConsultations returns the user's bookings, newest first.
func (s *Service) ListConsultations(ctx context.Context, userID string) ([]*Consultation, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]*Consultation, error) {
			return s.consultations.ListByUser(ctx, userID)
		},
		func(ctx context.Context) ([]*Consultation, error) {
			var result []*Consultation
			if err := s.api.Get(ctx, "/monetization/consultations/"+url.PathEscape(userID), &result); err != nil {
				return nil, err
			}
			return result, nil
		})
}

// ListOffers returns the active offer catalog.
func (s *Service) ListOffers(ctx context.Context) ([]Offer, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]Offer, error) { return Offers, nil },
		func(ctx context.Context) ([]Offer, error) {
			var offers []Offer
			if err := s.api.Get(ctx, "/monetization/offers", &offers); err != nil {
				return nil, err
			}
			return offers, nil
		})
}

func mapRemoteNotFound(err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}
