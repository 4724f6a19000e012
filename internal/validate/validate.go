// Package validate checks collection-point requests before they reach the
// service layer.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/ecoleta/internal/domain"
)

var itemListPattern = regexp.MustCompile(`^\d+(,\d+)*$`)

// PointForm is the raw text of a point registration, as submitted in a
// multipart form.
type PointForm struct {
	Name      string `form:"name" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	WhatsApp  string `form:"whatsapp" validate:"required,numeric"`
	Latitude  string `form:"latitude" validate:"required,numeric,nonzero"`
	Longitude string `form:"longitude" validate:"required,numeric,nonzero"`
	City      string `form:"city" validate:"required"`
	UF        string `form:"uf" validate:"required,max=2"`
	Items     string `form:"items" validate:"required,itemlist"`
}

// PointUpdate is the JSON body of a point update. The image is not part of
// it: a point keeps the file it was registered with.
type PointUpdate struct {
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	WhatsApp  string  `json:"whatsapp" validate:"required,numeric"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
	City      string  `json:"city" validate:"required"`
	UF        string  `json:"uf" validate:"required,max=2"`
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// Both registrations use static tag names and non-nil funcs, so they cannot fail.
	_ = v.RegisterValidation("nonzero", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && f != 0
	})
	_ = v.RegisterValidation("itemlist", func(fl validator.FieldLevel) bool {
		return itemListPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Point validates a registration form and converts it into a point and the
// ids of the items it accepts. Failures are reported as a
// *domain.ValidationError listing every bad field.
func (v *Validator) Point(form PointForm) (*domain.Point, []int64, error) {
	form = form.trimmed()
	if err := v.check(form); err != nil {
		return nil, nil, err
	}

	// The tags above guarantee these parse.
	lat, _ := strconv.ParseFloat(form.Latitude, 64)
	lng, _ := strconv.ParseFloat(form.Longitude, 64)
	ids, err := ParseItemIDs(form.Items)
	if err != nil {
		ve := &domain.ValidationError{}
		ve.Add("items", err.Error())
		return nil, nil, ve
	}

	point := &domain.Point{
		Name:      form.Name,
		Email:     form.Email,
		WhatsApp:  form.WhatsApp,
		Latitude:  lat,
		Longitude: lng,
		City:      form.City,
		UF:        strings.ToUpper(form.UF),
	}
	return point, ids, nil
}

// Update validates an update body and converts it into a point.
func (v *Validator) Update(body PointUpdate) (*domain.Point, error) {
	body = body.trimmed()
	if err := v.check(body); err != nil {
		return nil, err
	}
	return &domain.Point{
		Name:      body.Name,
		Email:     body.Email,
		WhatsApp:  body.WhatsApp,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		City:      body.City,
		UF:        strings.ToUpper(body.UF),
	}, nil
}

// trimmed strips surrounding whitespace so a blank value fails "required".
func (f PointForm) trimmed() PointForm {
	for _, s := range []*string{&f.Name, &f.Email, &f.WhatsApp, &f.Latitude, &f.Longitude, &f.City, &f.UF, &f.Items} {
		*s = strings.TrimSpace(*s)
	}
	return f
}

func (b PointUpdate) trimmed() PointUpdate {
	for _, s := range []*string{&b.Name, &b.Email, &b.WhatsApp, &b.City, &b.UF} {
		*s = strings.TrimSpace(*s)
	}
	return b
}

func (v *Validator) check(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	ve := &domain.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), message(fe))
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "numeric":
		return "must be a number"
	case "nonzero":
		return "must not be zero"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "itemlist":
		return "must be a comma-separated list of item ids"
	default:
		return "is invalid"
	}
}

// ParseItemIDs parses a comma-separated id list such as "1,2,3". Blank input
// yields no ids.
func ParseItemIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", part)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
