package service

import (
	"context"
	"errors"

	"dineout-frontend/internal/client"
	"dineout-frontend/internal/metrics"
	"dineout-frontend/internal/model"
	"dineout-frontend/pkg/logger"
)

// ResultsHook observes every results-area replacement. It runs under the
// page's write lock and must not block.
type ResultsHook func(pageID string, area model.ResultsArea)

// FormController drives one page: it fills the dropdowns and turns a
// submission into a rendered results area.
type FormController struct {
	page    *model.Page
	backend client.Backend
	hook    ResultsHook
}

func NewFormController(page *model.Page, backend client.Backend, hook ResultsHook) *FormController {
	return &FormController{
		page:    page,
		backend: backend,
		hook:    hook,
	}
}

// LoadCuisines fills the cuisine dropdown from the backend. A failure leaves
// a single disabled placeholder option and is only logged.
func (f *FormController) LoadCuisines(ctx context.Context) {
	f.page.Mutate(func(s *model.PageState) {
		s.CuisineState = model.LoadLoading
	})

	cuisines, err := f.backend.Cuisines(ctx)

	f.page.Mutate(func(s *model.PageState) {
		if err != nil {
			s.Cuisine.Replace(model.Option{
				Value:    model.CuisineErrorLabel,
				Label:    model.CuisineErrorLabel,
				Disabled: true,
			})
			s.CuisineState = model.LoadFailed
			return
		}
		for _, c := range cuisines {
			s.Cuisine.Append(c, c)
		}
		s.CuisineState = model.LoadReady
	})

	if err != nil {
		logger.WithFields(logger.Fields{"page_id": f.page.ID()}).Errorf("Error fetching cuisines: %v", err)
		return
	}
	logger.WithFields(logger.Fields{"page_id": f.page.ID(), "count": len(cuisines)}).Debug("cuisines loaded")
}

// PopulateStaticOptions appends the fixed rating, vegetarian and service-mode
// options.
func (f *FormController) PopulateStaticOptions() {
	f.page.Mutate(func(s *model.PageState) {
		for _, v := range model.RatingValues {
			s.Rating.Append(v, v)
		}
		for _, v := range model.VegValues {
			s.Veg.Append(v, v)
		}
		for _, v := range model.OrderValues {
			s.Order.Append(v, v)
		}
	})
}

// Submit records the control values, posts one recommendation request and
// replaces the results area with whatever comes back. Overlapping calls are
// neither cancelled nor merged; the last one to finish wins.
func (f *FormController) Submit(ctx context.Context, in model.FormInput) model.ResultsArea {
	var sel model.FilterSelection
	f.page.Mutate(func(s *model.PageState) {
		s.CuisineInput = in.CuisineInput
		s.Cuisine.Choose(in.Cuisine)
		s.Budget = in.Budget
		s.Rating.Choose(in.Rating)
		s.Veg.Choose(in.Veg)
		s.Order.Choose(in.Order)
		s.SubmitState = model.SubmitInFlight

		sel = model.FilterSelection{
			PreferredCuisines: []string{model.ResolveCuisine(s.CuisineInput, s.Cuisine.Value())},
			Budget:            s.Budget,
			MinRating:         s.Rating.Value(),
			VegChoice:         s.Veg.Value(),
			OrderChoice:       s.Order.Value(),
		}
	})

	log := logger.WithFields(logger.Fields{"page_id": f.page.ID()})
	log.WithFields(logger.Fields{
		"preferred_cuisines": sel.PreferredCuisines,
		"budget":             sel.Budget,
		"min_rating":         sel.MinRating,
		"veg_choice":         sel.VegChoice,
		"order_choice":       sel.OrderChoice,
	}).Info("Sending recommendation request")

	restaurants, err := f.backend.Recommend(ctx, sel)

	area := resultsFor(restaurants, err)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			log = log.WithFields(logger.Fields{"status_code": apiErr.StatusCode, "detail": apiErr.Detail})
		}
		log.Errorf("Error fetching recommendations: %v", err)
	} else {
		log.Infof("Received %d recommendations", len(restaurants))
	}

	f.page.Mutate(func(s *model.PageState) {
		s.Results = area
		if area.Kind == model.ResultsError {
			s.SubmitState = model.SubmitError
		} else {
			s.SubmitState = model.SubmitRendered
		}
		if f.hook != nil {
			f.hook(s.ID, area)
		}
	})
	metrics.Submissions.WithLabelValues(string(area.Kind)).Inc()

	return area
}

func resultsFor(restaurants []model.Restaurant, err error) model.ResultsArea {
	if err != nil {
		return model.ResultsArea{
			Kind: model.ResultsError,
			Text: model.ErrorMessagePrefix + errorMessage(err),
		}
	}
	if len(restaurants) == 0 {
		return model.ResultsArea{Kind: model.ResultsMessage, Text: model.NoResultsMessage}
	}
	return model.ResultsArea{
		Kind:  model.ResultsCards,
		Cards: append([]model.Restaurant(nil), restaurants...),
	}
}

// errorMessage picks the text shown to the user: the backend's own message
// when it sent one, otherwise the error itself.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
