package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// State is a Brazilian federative unit.
type State struct {
	UF   string `json:"sigla"`
	Name string `json:"nome"`
}

// IBGE wraps the IBGE localidades API.
type IBGE struct {
	baseURL    string
	httpClient *http.Client
}

// NewIBGE creates a client for the API at baseURL, normally
// https://servicodados.ibge.gov.br.
func NewIBGE(baseURL string) *IBGE {
	return &IBGE{baseURL: strings.TrimRight(baseURL, "/"), httpClient: newHTTPClient()}
}

// States lists every state ordered by abbreviation.
func (c *IBGE) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/api/v1/localidades/estados", &states); err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].UF < states[j].UF })
	return states, nil
}

// Cities lists the municipality names of uf in the order IBGE returns them.
func (c *IBGE) Cities(ctx context.Context, uf string) ([]string, error) {
	if uf == "" {
		return nil, nil
	}

	var municipalities []struct {
		Name string `json:"nome"`
	}
	u := fmt.Sprintf("%s/api/v1/localidades/estados/%s/municipios", c.baseURL, url.PathEscape(uf))
	if err := getJSON(ctx, c.httpClient, u, &municipalities); err != nil {
		return nil, fmt.Errorf("listing cities of %s: %w", uf, err)
	}

	names := make([]string, 0, len(municipalities))
	for _, m := range municipalities {
		names = append(names, m.Name)
	}
	return names, nil
}
