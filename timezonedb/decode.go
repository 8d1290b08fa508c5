// timezonedb/decode.go
package timezonedb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gewnthar/tzimport/models"
)

var ErrMissingKey = errors.New("payload is missing a required key")

var (
	zoneListKeys   = []string{"countryCode", "countryName", "zoneName", "gmtOffset", "timestamp"}
	zoneDetailKeys = []string{"countryCode", "countryName", "zoneName", "gmtOffset", "dst", "zoneStart", "zoneEnd", "timestamp"}
)

// DecodeZoneList parses the "zones" array of a list-time-zone body.
func DecodeZoneList(body []byte) ([]models.ZoneListItem, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode zone list: %w", err)
	}
	rawZones, ok := envelope["zones"]
	if !ok {
		return nil, fmt.Errorf("%w: zones", ErrMissingKey)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(rawZones, &items); err != nil {
		return nil, fmt.Errorf("failed to decode zones array: %w", err)
	}

	for i, item := range items {
		if err := requireKeys(item, zoneListKeys); err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
	}

	var zones []models.ZoneListItem
	if err := json.Unmarshal(rawZones, &zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones array: %w", err)
	}
	return zones, nil
}

// DecodeZoneDetails parses a get-time-zone body.
func DecodeZoneDetails(body []byte) (*models.ZoneDetailPayload, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode zone details: %w", err)
	}
	if err := requireKeys(envelope, zoneDetailKeys); err != nil {
		return nil, err
	}
	var payload models.ZoneDetailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode zone details: %w", err)
	}
	return &payload, nil
}

func requireKeys(obj map[string]json.RawMessage, keys []string) error {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}
	return nil
}
