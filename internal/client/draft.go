package client

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vbonduro/ecoleta/internal/domain"
	"github.com/vbonduro/ecoleta/internal/geo"
)

// Locator reports the device's current position.
type Locator interface {
	Locate(ctx context.Context) (geo.Coordinates, error)
}

// StaticLocator always reports the same position.
type StaticLocator geo.Coordinates

func (l StaticLocator) Locate(context.Context) (geo.Coordinates, error) {
	return geo.Coordinates(l), nil
}

// Regions lists states and their municipalities.
type Regions interface {
	States(ctx context.Context) ([]geo.State, error)
	Cities(ctx context.Context, uf string) ([]string, error)
}

// Geocoder resolves a free-form place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geo.Coordinates, error)
}

type pointCreator interface {
	CreatePoint(ctx context.Context, p NewPoint) (*Point, error)
}

// Draft is a point registration being filled in. Center is where the map
// is focused; Latitude/Longitude is the position actually submitted, and
// only SetPosition changes it.
type Draft struct {
	Name     string
	Email    string
	WhatsApp string

	UF   string
	City string

	Latitude  float64
	Longitude float64
	Center    geo.Coordinates

	UFs    []string
	Cities []string

	Items     map[int64]bool
	ImagePath string

	regions  Regions
	geocoder Geocoder
	logger   *slog.Logger
}

func NewDraft(regions Regions, geocoder Geocoder, logger *slog.Logger) *Draft {
	return &Draft{
		Items:    make(map[int64]bool),
		regions:  regions,
		geocoder: geocoder,
		logger:   logger,
	}
}

// LocateDevice centres the map on the device position. Failures keep the
// current centre.
func (d *Draft) LocateDevice(ctx context.Context, loc Locator) {
	pos, err := loc.Locate(ctx)
	if err != nil {
		d.logger.Warn("locating device", "error", err)
		return
	}
	d.Center = pos
}

// LoadStates fills UFs with every state abbreviation.
func (d *Draft) LoadStates(ctx context.Context) error {
	states, err := d.regions.States(ctx)
	if err != nil {
		return err
	}
	d.UFs = make([]string, 0, len(states))
	for _, s := range states {
		d.UFs = append(d.UFs, s.UF)
	}
	return nil
}

// SelectUF switches state, clearing the selected city and reloading the
// city list. The list is left empty when the lookup fails.
func (d *Draft) SelectUF(ctx context.Context, uf string) {
	d.UF = strings.ToUpper(strings.TrimSpace(uf))
	d.City = ""
	d.Cities = nil

	cities, err := d.regions.Cities(ctx, d.UF)
	if err != nil {
		d.logger.Warn("loading cities", "uf", d.UF, "error", err)
		return
	}
	d.Cities = cities
}

// SelectCity sets the city and re-centres the map on it. A failed lookup
// keeps the current centre.
func (d *Draft) SelectCity(ctx context.Context, city string) {
	d.City = strings.TrimSpace(city)
	if d.City == "" || d.UF == "" {
		return
	}

	pos, err := d.geocoder.Geocode(ctx, d.City+", "+d.UF)
	if err != nil {
		d.logger.Warn("geocoding city", "city", d.City, "uf", d.UF, "error", err)
		return
	}
	d.Center = *pos
}

// SetPosition sets the coordinates that will be submitted.
func (d *Draft) SetPosition(lat, lng float64) {
	d.Latitude = lat
	d.Longitude = lng
}

// ToggleItem adds id to the selection, or removes it if already selected.
func (d *Draft) ToggleItem(id int64) {
	if d.Items[id] {
		delete(d.Items, id)
		return
	}
	d.Items[id] = true
}

// ItemIDs returns the selected item ids in ascending order.
func (d *Draft) ItemIDs() []int64 {
	return selectedIDs(d.Items)
}

// Validate reports every missing or invalid field at once.
func (d *Draft) Validate() error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		ve.Add("name", "is required")
	}
	if strings.TrimSpace(d.Email) == "" {
		ve.Add("email", "is required")
	}
	if strings.TrimSpace(d.WhatsApp) == "" {
		ve.Add("whatsapp", "is required")
	}
	if d.UF == "" {
		ve.Add("uf", "is required")
	}
	if d.City == "" {
		ve.Add("city", "is required")
	}
	if d.Latitude == 0 || d.Longitude == 0 {
		ve.Add("position", "must be selected on the map")
	}
	if len(d.Items) == 0 {
		ve.Add("items", "select at least one item")
	}
	if d.ImagePath == "" {
		ve.Add("image", "is required")
	}
	return ve.OrNil()
}

// Submit validates the draft and registers it. It is not retried.
func (d *Draft) Submit(ctx context.Context, api pointCreator) (*Point, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(d.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	return api.CreatePoint(ctx, NewPoint{
		Name:      strings.TrimSpace(d.Name),
		Email:     strings.TrimSpace(d.Email),
		WhatsApp:  strings.TrimSpace(d.WhatsApp),
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		City:      d.City,
		UF:        d.UF,
		ItemIDs:   d.ItemIDs(),
		ImageName: filepath.Base(d.ImagePath),
		Image:     f,
	})
}

func selectedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
