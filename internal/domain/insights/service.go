package insights

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/rest"
)

type Service struct {
	d   dispatch.Dispatcher
	api *rest.Client
	log zerolog.Logger
}

func NewService(d dispatch.Dispatcher, api *rest.Client, log zerolog.Logger) *Service {
	return &Service{d: d, api: api, log: log}
}

// ListInsights returns insights for a user, optionally narrowed to an exact
// category match.
func (s *Service) ListInsights(ctx context.Context, userID, category string) ([]AIInsight, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyList,
		func() ([]AIInsight, error) {
			if category == "" {
				return Insights, nil
			}
			result := []AIInsight{}
			for _, ins := range Insights {
				if ins.Category == category {
					result = append(result, ins)
				}
			}
			return result, nil
		},
		func(ctx context.Context) ([]AIInsight, error) {
			path := "/insights/" + url.PathEscape(userID)
			if category != "" {
				path += "?category=" + url.QueryEscape(category)
			}
			var result []AIInsight
			if err := s.api.Get(ctx, path, &result); err != nil {
				return nil, err
			}
			return result, nil
		})
}

// ListPredictions returns predictive risk estimates for a user.
func (s *Service) ListPredictions(ctx context.Context, userID string) ([]PredictiveInsight, error) {
	return dispatch.Do(ctx, s.d, dispatch.LatencyGenerate,
		func() ([]PredictiveInsight, error) {
			return Predictions, nil
		},
		func(ctx context.Context) ([]PredictiveInsight, error) {
			var result []PredictiveInsight
			if err := s.api.Get(ctx, "/insights/"+url.PathEscape(userID)+"/predictions", &result); err != nil {
				return nil, err
			}
			return result, nil
		})
}
