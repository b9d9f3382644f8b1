package render

import (
	"maps"
	"time"

	"github.com/goodsign/monday"
	"github.com/lysyi3m/sheet-catalog/app/catalog"
)

// Card is the display form of a record.
type Card struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Tags        []string          `json:"tags"`
	Status      string            `json:"status,omitempty"`
	Note        string            `json:"note,omitempty"`
	DemoURL     string            `json:"demo_url,omitempty"`
	RepoURL     string            `json:"repo_url,omitempty"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
	UpdatedText string            `json:"updated_text,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type CardOptions struct {
	Locale monday.Locale
	Layout string
}

func (o CardOptions) layout() string {
	if o.Layout == "" {
		return "2006/1/2"
	}
	return o.Layout
}

func (o CardOptions) locale() monday.Locale {
	if o.Locale == "" {
		return monday.LocaleZhTW
	}
	return o.Locale
}

// NewCard builds the card for r. Links that are not http(s) are dropped.
func NewCard(r catalog.Record, opts CardOptions) Card {
	card := Card{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		Tags:        r.TagList(),
		Status:      r.Status,
		Note:        r.Note,
		DemoURL:     r.SafeDemoURL(),
		RepoURL:     r.SafeRepoURL(),
		Extra:       maps.Clone(r.Extra),
	}

	if r.UpdatedAt != nil {
		t := r.UpdatedAt.In(time.Local)
		card.UpdatedAt = &t
		card.UpdatedText = monday.Format(t, opts.layout(), opts.locale())
	}

	return card
}

func NewCards(records []catalog.Record, opts CardOptions) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, NewCard(r, opts))
	}
	return cards
}
