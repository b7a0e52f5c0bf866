package catalog

import (
	"time"

	"github.com/safar/go-storefront/internal/models"
)

const (
	FetchSize          = 100
	PageSize           = 12
	AutocompleteDelay  = 300 * time.Millisecond
	AutocompleteMinLen = 2

	MsgNoMatches = "Нет товаров, соответствующих вашему запросу"
	MsgNoGoods   = "Товары не найдены"
)

type Status int

const (
	Idle Status = iota
	Loading
	Displayed
	Errored
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

// State is everything the catalog page knows. It is only changed by Reduce.
type State struct {
	Status Status

	// Generation is the id of the most recently started fetch.
	Generation   uint64
	Query        string
	PendingQuery string
	Goods        []models.Good
	Filters      Filters
	Sort         SortKey
	Page         int
	Err          error
}

type Event interface {
	isEvent()
}

type FetchStarted struct {
	Generation uint64
	Query      string
}

type GoodsLoaded struct {
	Generation uint64
	Goods      []models.Good
}

type FetchFailed struct {
	Generation uint64
	Err        error
}

type FiltersChanged struct {
	Filters Filters
}

type SortChanged struct {
	Key SortKey
}

type MoreRequested struct{}

func (FetchStarted) isEvent()   {}
func (GoodsLoaded) isEvent()    {}
func (FetchFailed) isEvent()    {}
func (FiltersChanged) isEvent() {}
func (SortChanged) isEvent()    {}
func (MoreRequested) isEvent()  {}

// Reduce returns the state after e. Results of a fetch other than the latest
// started one are ignored. A failed fetch keeps the goods already shown.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case FetchStarted:
		if e.Generation <= s.Generation {
			return s
		}
		s.Generation = e.Generation
		s.PendingQuery = e.Query
		s.Status = Loading
		s.Err = nil

	case GoodsLoaded:
		if e.Generation != s.Generation || s.Status != Loading {
			return s
		}
		s.Goods = e.Goods
		if s.Goods == nil {
			s.Goods = []models.Good{}
		}
		s.Query = s.PendingQuery
		s.PendingQuery = ""
		s.Status = Displayed
		s.Page = 1

	case FetchFailed:
		if e.Generation != s.Generation || s.Status != Loading {
			return s
		}
		s.PendingQuery = ""
		s.Status = Errored
		s.Err = e.Err

	case FiltersChanged:
		s.Filters = e.Filters
		s.Page = 1

	case SortChanged:
		s.Sort = e.Key
		s.Page = 1

	case MoreRequested:
		if Project(s).HasMore {
			s.Page++
		}
	}
	return s
}

// View is what gets rendered for a State.
type View struct {
	Status     Status
	Query      string
	Goods      []models.Good
	Appended   []models.Good
	HasMore    bool
	Total      int
	Page       OffsetPage
	Message    string
	Categories []string
}

// Project derives the view from s. It has no side effects.
func Project(s State) View {
	result := Sort(Filter(s.Goods, s.Filters, s.Query), s.Sort)
	p := Paginate(len(result), max(s.Page, 1))

	v := View{
		Status:     s.Status,
		Query:      s.Query,
		Goods:      result[:p.End],
		Appended:   result[p.Start:p.End],
		HasMore:    p.HasMore(),
		Total:      len(result),
		Page:       p,
		Categories: Categories(s.Goods),
	}

	if v.Total == 0 && (s.Status == Displayed || s.Status == Errored) {
		if s.Query != "" {
			v.Message = MsgNoMatches
		} else {
			v.Message = MsgNoGoods
		}
	}
	return v
}
