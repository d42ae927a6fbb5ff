package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/scanpack/internal/client/client"
)

// DataService reads protected backend resources for the dashboard.
type DataService interface {
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
}

type dataService struct {
	client client.Client
}

func NewDataService(c client.Client) DataService {
	return &dataService{client: c}
}

// Fetch returns the raw JSON document at path.
func (d *dataService) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := d.client.GetJSON(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return raw, nil
}
