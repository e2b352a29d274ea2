package model

import (
	"strings"
	"sync"
	"time"
)

const (
	CuisineErrorLabel   = "Error loading cuisines"
	NoResultsMessage    = "No recommendations found."
	ErrorMessagePrefix  = "Error fetching recommendations: "
	UnknownErrorMessage = "Unknown error"
	OrderLinkLabel      = "Order Now →"
)

var (
	RatingValues = []string{"1", "2", "3", "4"}
	VegValues    = []string{"Yes", "No", "Both"}
	OrderValues  = []string{"Seating", "Order"}
)

type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadReady   LoadState = "ready"
	LoadFailed  LoadState = "failed"
)

type SubmitState string

const (
	SubmitIdle     SubmitState = "idle"
	SubmitInFlight SubmitState = "in_flight"
	SubmitRendered SubmitState = "rendered"
	SubmitError    SubmitState = "error"
)

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Select is a dropdown control.
type Select struct {
	Name     string   `json:"name"`
	Options  []Option `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

func (s *Select) Append(value, label string) {
	s.Options = append(s.Options, Option{Value: value, Label: label})
}

// Replace drops every option and the current selection.
func (s *Select) Replace(opts ...Option) {
	s.Options = append([]Option(nil), opts...)
	s.Selected = ""
}

// Choose records v as the current selection. Empty values are ignored.
func (s *Select) Choose(v string) {
	if v != "" {
		s.Selected = v
	}
}

// Value returns the current selection, or the first enabled option when
// nothing was chosen. A select with only disabled options has no value.
func (s Select) Value() string {
	if s.Selected != "" {
		return s.Selected
	}
	for _, o := range s.Options {
		if !o.Disabled {
			return o.Value
		}
	}
	return ""
}

type ResultsKind string

const (
	ResultsNone    ResultsKind = "none"
	ResultsCards   ResultsKind = "cards"
	ResultsMessage ResultsKind = "message"
	ResultsError   ResultsKind = "error"
)

// ResultsArea is the container the recommendation cards are rendered into.
// Each resolved submission replaces it wholesale.
type ResultsArea struct {
	Kind  ResultsKind  `json:"kind"`
	Cards []Restaurant `json:"cards,omitempty"`
	Text  string       `json:"text,omitempty"`
}

// PlainText flattens the area to what a reader would see on screen.
func (r ResultsArea) PlainText() string {
	if r.Kind != ResultsCards {
		return r.Text
	}
	var b strings.Builder
	for i, c := range r.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.Name + "\n")
		b.WriteString("Location: " + c.FullAddress + "\n")
		b.WriteString("Average Cost: " + c.AverageCost.String() + "\n")
		b.WriteString("Cuisines: " + c.Cuisines + "\n")
		b.WriteString(OrderLinkLabel + " " + c.URL + "\n")
	}
	return b.String()
}

// PageState is everything one open form page displays.
type PageState struct {
	ID           string      `json:"id"`
	CuisineInput string      `json:"cuisine_input"`
	Cuisine      Select      `json:"cuisine"`
	Budget       string      `json:"budget"`
	Rating       Select      `json:"rating"`
	Veg          Select      `json:"veg"`
	Order        Select      `json:"order"`
	Results      ResultsArea `json:"results"`
	CuisineState LoadState   `json:"cuisine_state"`
	SubmitState  SubmitState `json:"submit_state"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (s PageState) clone() PageState {
	out := s
	out.Cuisine.Options = append([]Option(nil), s.Cuisine.Options...)
	out.Rating.Options = append([]Option(nil), s.Rating.Options...)
	out.Veg.Options = append([]Option(nil), s.Veg.Options...)
	out.Order.Options = append([]Option(nil), s.Order.Options...)
	out.Results.Cards = append([]Restaurant(nil), s.Results.Cards...)
	return out
}

// Page guards a PageState for concurrent readers and submissions.
type Page struct {
	mu    sync.RWMutex
	state PageState
}

func NewPage(id string) *Page {
	now := time.Now()
	return &Page{state: PageState{
		ID:           id,
		Cuisine:      Select{Name: "cuisine"},
		Rating:       Select{Name: "rating"},
		Veg:          Select{Name: "veg"},
		Order:        Select{Name: "order"},
		Results:      ResultsArea{Kind: ResultsNone},
		CuisineState: LoadIdle,
		SubmitState:  SubmitIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
}

func (p *Page) ID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.ID
}

func (p *Page) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.UpdatedAt
}

// Snapshot returns a deep copy safe to render outside the lock.
func (p *Page) Snapshot() PageState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.clone()
}

// Mutate runs fn under the write lock and bumps UpdatedAt.
func (p *Page) Mutate(fn func(s *PageState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
	p.state.UpdatedAt = time.Now()
}
