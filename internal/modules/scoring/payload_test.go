package scoring

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valora/internal/types"
)

const basicJSON = `{
  "servicio": {
    "fecha_hora_carga": "2025-06-02T08:00:00",
    "coordenadas": {"latitud": 0, "longitud": 0}
  },
  "medios": [
    {"matricula": "1234ABC", "fecha_disponibilidad": "2025-06-02T07:00:00",
     "distancia_hasta_carga": 10, "amplitud_jornada": "2025-06-02T10:00:00"},
    {"matricula": "5678DEF", "fecha_disponibilidad": "2025-06-02T07:30:00Z",
     "distancia_hasta_carga": 50, "amplitud_jornada": "2025-06-02T08:30:00Z"}
  ]
}`

const extendedYAML = `
servicio:
  fecha_hora_carga: 2025-06-02T08:00:00Z
  coordenadas: {latitud: 0, longitud: 0}
  unidad_organizativa: A1
medios:
  - matricula: X
    fecha_disponibilidad: 2025-06-02T07:00:00Z
    coordenadas: {latitud: 0.0899, longitud: 0}
    amplitud_jornada: 2025-06-02T10:00:00Z
    unidad_organizativa: A1
    tipo_evento: descarga
  - matricula: Y
    fecha_disponibilidad: "2025-06-02 07:30:00"
    coordenadas: {latitud: 0.4497, longitud: 0}
    amplitud_jornada: 2025-06-02T08:30:00Z
    unidad_organizativa: B2
    tipo_evento: CARGA
`

func TestDecodeValidate_BasicJSON(t *testing.T) {
	var req BasicRequest
	require.NoError(t, Decode(strings.NewReader(basicJSON), FormatJSON, &req))
	require.NoError(t, Validate(&req))

	job, units := req.Input()
	assert.True(t, job.PickupAt.Equal(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, types.Point{}, job.Pickup)
	require.Len(t, units, 2)
	assert.Equal(t, types.ID("1234ABC"), units[0].ID)
	assert.Equal(t, 10.0, units[0].DistanceKm)
	assert.Equal(t, 3600.0, job.PickupAt.Sub(units[0].AvailableAt).Seconds())

	vals := NewBasicValuations(ScoreBasic(job, units))
	require.Len(t, vals, 2)
	assert.Equal(t, types.ID("5678DEF"), vals[1].ID)
	assert.InDelta(t, 60.0, vals[1].Score, 1e-9)
}

func TestDecodeValidate_ExtendedYAML(t *testing.T) {
	var req ExtendedRequest
	require.NoError(t, Decode(strings.NewReader(extendedYAML), FormatYAML, &req))
	require.NoError(t, Validate(&req))

	job, units := req.Input()
	assert.Equal(t, "A1", job.OrgUnit)
	require.Len(t, units, 2)
	assert.Equal(t, "descarga", units[0].EventType)
	assert.Equal(t, types.Point{Lat: 0.4497, Lng: 0}, units[1].Position)

	vals := NewExtendedValuations(ScoreExtended(job, units))
	require.Len(t, vals, 2)
	assert.Equal(t, 1.0, vals[0].Omega1)
	assert.Equal(t, 1.0, vals[0].Omega4)
	assert.Equal(t, 1.0, vals[0].Omega5)
	assert.Equal(t, 1.0, vals[1].Omega2)
	assert.Greater(t, vals[0].Score, vals[1].Score)
	assert.InDelta(t, 50004.36, vals[1].DistanceMeters, 1)
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []FieldError
	}{
		{
			name: "missing service",
			body: `{"medios": []}`,
			want: []FieldError{{Field: "servicio", Rule: "required"}},
		},
		{
			name: "missing units",
			body: `{"servicio": {"fecha_hora_carga": "2025-06-02T08:00:00", "coordenadas": {"latitud": 1, "longitud": 2}}}`,
			want: []FieldError{{Field: "medios", Rule: "required"}},
		},
		{
			name: "null latitude",
			body: `{"servicio": {"fecha_hora_carga": "2025-06-02T08:00:00", "coordenadas": {"latitud": null, "longitud": 2}}, "medios": []}`,
			want: []FieldError{{Field: "servicio.coordenadas.latitud", Rule: "required"}},
		},
		{
			name: "latitude out of range",
			body: `{"servicio": {"fecha_hora_carga": "2025-06-02T08:00:00", "coordenadas": {"latitud": 91, "longitud": 2}}, "medios": []}`,
			want: []FieldError{{Field: "servicio.coordenadas.latitud", Rule: "max"}},
		},
		{
			name: "unit without distance",
			body: `{"servicio": {"fecha_hora_carga": "2025-06-02T08:00:00", "coordenadas": {"latitud": 1, "longitud": 2}},
			       "medios": [{"matricula": "A", "fecha_disponibilidad": "2025-06-02T07:00:00", "amplitud_jornada": "2025-06-02T09:00:00"}]}`,
			want: []FieldError{{Field: "medios[0].distancia_hasta_carga", Rule: "required"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req BasicRequest
			require.NoError(t, Decode(strings.NewReader(tt.body), FormatJSON, &req))
			err := Validate(&req)
			require.Error(t, err)
			assert.Equal(t, tt.want, FieldErrors(err))
		})
	}
}

func TestValidate_EmptyStringsAndZeroesAccepted(t *testing.T) {
	body := `{"servicio": {"fecha_hora_carga": "2025-06-02T08:00:00", "coordenadas": {"latitud": 0, "longitud": 0}, "unidad_organizativa": ""},
	          "medios": [{"matricula": "", "fecha_disponibilidad": "2025-06-02T07:00:00", "coordenadas": {"latitud": 0, "longitud": 0},
	                      "amplitud_jornada": "2025-06-02T09:00:00", "unidad_organizativa": "", "tipo_evento": ""}]}`
	var req ExtendedRequest
	require.NoError(t, Decode(strings.NewReader(body), FormatJSON, &req))
	assert.NoError(t, Validate(&req))
}

func TestDecode_Malformed(t *testing.T) {
	var req BasicRequest
	err := Decode(strings.NewReader(`{"servicio": `), FormatJSON, &req)
	assert.ErrorIs(t, err, ErrMalformed)

	err = Decode(strings.NewReader(`{"servicio": {"fecha_hora_carga": "mañana"}}`), FormatJSON, &req)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.True(t, errors.Is(err, types.ErrInvalidTimestamp))

	err = Decode(strings.NewReader(`{}`), Format("xml"), &req)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("req.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/req.YAML"))
	assert.Equal(t, FormatJSON, FormatFromPath("req.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("-"))

	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestValuations_EmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, NewBasicValuations(nil))
	assert.NotNil(t, NewExtendedValuations([]Result{}))
}
