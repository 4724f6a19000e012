package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIBGEStates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/localidades/estados", r.URL.Path)
		_, _ = w.Write([]byte(`[{"sigla":"SP","nome":"São Paulo"},{"sigla":"AC","nome":"Acre"}]`))
	}))
	t.Cleanup(srv.Close)

	states, err := NewIBGE(srv.URL + "/").States(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []State{{UF: "AC", Name: "Acre"}, {UF: "SP", Name: "São Paulo"}}, states)
}

func TestIBGECities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/localidades/estados/PE/municipios", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"nome":"Olinda"},{"id":2,"nome":"Recife"}]`))
	}))
	t.Cleanup(srv.Close)

	cities, err := NewIBGE(srv.URL).Cities(context.Background(), "PE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Olinda", "Recife"}, cities)
}

func TestIBGECities_EmptyUF(t *testing.T) {
	cities, err := NewIBGE("http://unused.invalid").Cities(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, cities)
}

func TestIBGE_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewIBGE(srv.URL).States(context.Background())
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Recife, PE", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"-8.0539","lon":"-34.8811","display_name":"Recife"}]`))
	}))
	t.Cleanup(srv.Close)

	coords, err := NewNominatim(srv.URL).Geocode(context.Background(), "Recife, PE")
	require.NoError(t, err)
	assert.Equal(t, &Coordinates{Lat: -8.0539, Lng: -34.8811}, coords)
}

func TestNominatimGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewNominatim(srv.URL).Geocode(context.Background(), "Atlantis, XX")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestNominatimGeocode_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-34.8"}]`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewNominatim(srv.URL).Geocode(context.Background(), "Recife, PE")
	assert.ErrorContains(t, err, "parsing latitude")
}
