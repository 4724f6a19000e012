package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	lastItems []int64
	points    []Point
	detail    *PointDetail
	err       error
}

func (f *fakeReader) ListPoints(_ context.Context, _, _ string, itemIDs []int64) ([]Point, error) {
	f.lastItems = itemIDs
	return f.points, f.err
}

func (f *fakeReader) GetPoint(context.Context, int64) (*PointDetail, error) {
	return f.detail, f.err
}

func TestBrowser_RefreshUsesSelectedItems(t *testing.T) {
	api := &fakeReader{points: []Point{{ID: 1}, {ID: 2}}}
	b := NewBrowser(api, "São Paulo", "SP")

	b.ToggleItem(4)
	b.ToggleItem(2)
	require.NoError(t, b.Refresh(context.Background()))
	assert.Equal(t, []int64{2, 4}, api.lastItems)
	assert.Len(t, b.Points, 2)
}

func TestBrowser_RefreshFailureKeepsPoints(t *testing.T) {
	api := &fakeReader{points: []Point{{ID: 1}}}
	b := NewBrowser(api, "São Paulo", "SP")
	require.NoError(t, b.Refresh(context.Background()))

	api.err = errors.New("offline")
	assert.Error(t, b.Refresh(context.Background()))
	assert.Equal(t, []Point{{ID: 1}}, b.Points)
}

func TestBrowser_ContactURLs(t *testing.T) {
	api := &fakeReader{detail: &PointDetail{Point: Point{ID: 1, Email: "m@example.com", WhatsApp: "11999999999"}}}
	b := NewBrowser(api, "São Paulo", "SP")

	assert.Empty(t, b.MailtoURL())
	assert.Empty(t, b.WhatsAppURL())

	_, err := b.Detail(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "mailto:m@example.com?subject=Interesse%20na%20coleta%20de%20res%C3%ADduos", b.MailtoURL())
	assert.Equal(t, "whatsapp://send?phone=11999999999&text=Tenho+interesse+na+coleta+de+res%C3%ADduos", b.WhatsAppURL())
}

func TestBrowser_DetailFailureKeepsSelection(t *testing.T) {
	api := &fakeReader{detail: &PointDetail{Point: Point{ID: 1}}}
	b := NewBrowser(api, "São Paulo", "SP")
	_, err := b.Detail(context.Background(), 1)
	require.NoError(t, err)

	api.err = errors.New("offline")
	_, err = b.Detail(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, int64(1), b.Selected.Point.ID)
}

func TestBrowser_MailtoEscapesAddress(t *testing.T) {
	api := &fakeReader{detail: &PointDetail{Point: Point{ID: 1, Email: "a@b.com?cc=x@evil.com"}}}
	b := NewBrowser(api, "Recife", "PE")
	_, err := b.Detail(context.Background(), 1)
	require.NoError(t, err)

	got := b.MailtoURL()
	assert.Equal(t, "mailto:a@b.com%3Fcc=x@evil.com?subject=Interesse%20na%20coleta%20de%20res%C3%ADduos", got)
}
