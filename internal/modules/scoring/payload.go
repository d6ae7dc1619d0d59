// README: Wire schema of valuation requests/responses, validation and conversion to scoring inputs.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"valora/internal/types"
)

// Request fields use pointers so that a missing value can be told apart from
// a zero one; `binding` tags are the ones gin validates with.

type Coordinates struct {
	Latitude  *float64 `json:"latitud" yaml:"latitud" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitud" yaml:"longitud" binding:"required,min=-180,max=180"`
}

func (c *Coordinates) Point() types.Point {
	return types.Point{Lat: *c.Latitude, Lng: *c.Longitude}
}

type BasicJob struct {
	PickupAt    *types.Timestamp `json:"fecha_hora_carga" yaml:"fecha_hora_carga" binding:"required"`
	Coordinates *Coordinates     `json:"coordenadas" yaml:"coordenadas" binding:"required"`
}

type BasicUnit struct {
	ID          *string          `json:"matricula" yaml:"matricula" binding:"required"`
	AvailableAt *types.Timestamp `json:"fecha_disponibilidad" yaml:"fecha_disponibilidad" binding:"required"`
	DistanceKm  *float64         `json:"distancia_hasta_carga" yaml:"distancia_hasta_carga" binding:"required"`
	ShiftEndsAt *types.Timestamp `json:"amplitud_jornada" yaml:"amplitud_jornada" binding:"required"`
}

type BasicRequest struct {
	Job   *BasicJob   `json:"servicio" yaml:"servicio" binding:"required"`
	Units []BasicUnit `json:"medios" yaml:"medios" binding:"required,dive"`
}

type ExtendedJob struct {
	PickupAt    *types.Timestamp `json:"fecha_hora_carga" yaml:"fecha_hora_carga" binding:"required"`
	Coordinates *Coordinates     `json:"coordenadas" yaml:"coordenadas" binding:"required"`
	OrgUnit     *string          `json:"unidad_organizativa" yaml:"unidad_organizativa" binding:"required"`
}

type ExtendedUnit struct {
	ID          *string          `json:"matricula" yaml:"matricula" binding:"required"`
	AvailableAt *types.Timestamp `json:"fecha_disponibilidad" yaml:"fecha_disponibilidad" binding:"required"`
	Coordinates *Coordinates     `json:"coordenadas" yaml:"coordenadas" binding:"required"`
	ShiftEndsAt *types.Timestamp `json:"amplitud_jornada" yaml:"amplitud_jornada" binding:"required"`
	OrgUnit     *string          `json:"unidad_organizativa" yaml:"unidad_organizativa" binding:"required"`
	EventType   *string          `json:"tipo_evento" yaml:"tipo_evento" binding:"required"`
}

type ExtendedRequest struct {
	Job   *ExtendedJob   `json:"servicio" yaml:"servicio" binding:"required"`
	Units []ExtendedUnit `json:"medios" yaml:"medios" binding:"required,dive"`
}

// Input converts a validated request into scoring inputs.
func (r *BasicRequest) Input() (Job, []Unit) {
	job := Job{
		PickupAt: r.Job.PickupAt.Time,
		Pickup:   r.Job.Coordinates.Point(),
	}
	units := make([]Unit, len(r.Units))
	for i, u := range r.Units {
		units[i] = Unit{
			ID:          types.ID(*u.ID),
			AvailableAt: u.AvailableAt.Time,
			ShiftEndsAt: u.ShiftEndsAt.Time,
			DistanceKm:  *u.DistanceKm,
		}
	}
	return job, units
}

// Input converts a validated request into scoring inputs.
func (r *ExtendedRequest) Input() (Job, []Unit) {
	job := Job{
		PickupAt: r.Job.PickupAt.Time,
		Pickup:   r.Job.Coordinates.Point(),
		OrgUnit:  *r.Job.OrgUnit,
	}
	units := make([]Unit, len(r.Units))
	for i, u := range r.Units {
		units[i] = Unit{
			ID:          types.ID(*u.ID),
			AvailableAt: u.AvailableAt.Time,
			ShiftEndsAt: u.ShiftEndsAt.Time,
			Position:    u.Coordinates.Point(),
			OrgUnit:     *u.OrgUnit,
			EventType:   *u.EventType,
		}
	}
	return job, units
}

type BasicValuation struct {
	ID     types.ID `json:"matricula" yaml:"matricula"`
	Omega1 float64  `json:"omega1" yaml:"omega1"`
	Omega2 float64  `json:"omega2" yaml:"omega2"`
	Omega3 float64  `json:"omega3" yaml:"omega3"`
	Score  float64  `json:"valoracion" yaml:"valoracion"`
}

type ExtendedValuation struct {
	ID             types.ID `json:"matricula" yaml:"matricula"`
	Omega1         float64  `json:"omega1" yaml:"omega1"`
	Omega2         float64  `json:"omega2" yaml:"omega2"`
	Omega3         float64  `json:"omega3" yaml:"omega3"`
	Omega4         float64  `json:"omega4" yaml:"omega4"`
	Omega5         float64  `json:"omega5" yaml:"omega5"`
	Score          float64  `json:"valoracion" yaml:"valoracion"`
	DistanceMeters float64  `json:"distancia_metros" yaml:"distancia_metros"`
}

func NewBasicValuations(results []Result) []BasicValuation {
	out := make([]BasicValuation, len(results))
	for i, r := range results {
		out[i] = BasicValuation{
			ID:     r.ID,
			Omega1: r.Omega(1),
			Omega2: r.Omega(2),
			Omega3: r.Omega(3),
			Score:  r.Score,
		}
	}
	return out
}

func NewExtendedValuations(results []Result) []ExtendedValuation {
	out := make([]ExtendedValuation, len(results))
	for i, r := range results {
		out[i] = ExtendedValuation{
			ID:             r.ID,
			Omega1:         r.Omega(1),
			Omega2:         r.Omega(2),
			Omega3:         r.Omega(3),
			Omega4:         r.Omega(4),
			Omega5:         r.Omega(5),
			Score:          r.Score,
			DistanceMeters: r.DistanceMeters,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Decoding and validation outside of gin (CLI request files)
// ---------------------------------------------------------------------------

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrUnknownFormat = errors.New("unknown payload format")
	ErrMalformed     = errors.New("malformed payload")
)

func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(v, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, v)
}

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatJSON
}

// Decode reads one request document into dst.
func Decode(r io.Reader, format Format, dst any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(dst)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(dst)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

var validate = NewValidator()

// NewValidator returns a validator reading the same `binding` tags gin uses and
// reporting fields by their wire names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	RegisterWireNames(v)
	return v
}

// RegisterWireNames makes field errors carry JSON names instead of Go names.
func RegisterWireNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a decoded request against its `binding` tags.
func Validate(req any) error {
	return validate.Struct(req)
}

// FieldError is one failed constraint, addressed by its wire path.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// FieldErrors flattens validator errors; other errors yield nil.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		// Drop the root struct name.
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, FieldError{Field: field, Rule: fe.Tag()})
	}
	return out
}
