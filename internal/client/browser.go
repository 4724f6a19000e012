package client

import (
	"context"
	"net/url"
	"strings"
)

const (
	mailSubject     = "Interesse na coleta de resíduos"
	whatsAppMessage = "Tenho interesse na coleta de resíduos"
)

type pointReader interface {
	ListPoints(ctx context.Context, city, uf string, itemIDs []int64) ([]Point, error)
	GetPoint(ctx context.Context, id int64) (*PointDetail, error)
}

// Browser lists the points of one city filtered by the selected items, and
// shows the detail of one of them.
type Browser struct {
	City string
	UF   string

	Items    map[int64]bool
	Points   []Point
	Selected *PointDetail

	api pointReader
}

func NewBrowser(api pointReader, city, uf string) *Browser {
	return &Browser{
		City:  city,
		UF:    uf,
		Items: make(map[int64]bool),
		api:   api,
	}
}

// ToggleItem adds id to the filter, or removes it if already present.
// Call Refresh to apply it.
func (b *Browser) ToggleItem(id int64) {
	if b.Items[id] {
		delete(b.Items, id)
		return
	}
	b.Items[id] = true
}

// Refresh refetches Points for the current filter. On error the previous
// Points are kept.
func (b *Browser) Refresh(ctx context.Context) error {
	points, err := b.api.ListPoints(ctx, b.City, b.UF, selectedIDs(b.Items))
	if err != nil {
		return err
	}
	b.Points = points
	return nil
}

// Detail loads one point and makes it the Selected one.
func (b *Browser) Detail(ctx context.Context, id int64) (*PointDetail, error) {
	detail, err := b.api.GetPoint(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Selected = detail
	return detail, nil
}

// MailtoURL composes an e-mail to the selected point. Empty when nothing is
// selected.
func (b *Browser) MailtoURL() string {
	if b.Selected == nil || b.Selected.Point.Email == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "mailto",
		Opaque:   url.PathEscape(strings.TrimSpace(b.Selected.Point.Email)),
		RawQuery: "subject=" + url.PathEscape(mailSubject),
	}
	return u.String()
}

// WhatsAppURL opens a WhatsApp chat with the selected point. Empty when
// nothing is selected.
func (b *Browser) WhatsAppURL() string {
	if b.Selected == nil || b.Selected.Point.WhatsApp == "" {
		return ""
	}
	q := url.Values{}
	q.Set("phone", strings.TrimSpace(b.Selected.Point.WhatsApp))
	q.Set("text", whatsAppMessage)
	return "whatsapp://send?" + q.Encode()
}
