// services/zone_list_service.go
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/metrics"
	"github.com/gewnthar/tzimport/models"
	"github.com/gewnthar/tzimport/timezonedb"
	"github.com/gewnthar/tzimport/utils"
)

// PopulateZoneList fetches the zone list and inserts one TZDB_TIMEZONES row per zone.
func (imp *Importer) PopulateZoneList(ctx context.Context) error {
	imp.logger.Info("fetching zone list")

	resp, err := imp.fetchWithRetry(ctx, metrics.EndpointZoneList, "zone list", imp.api.FetchZoneList)
	if err != nil {
		return fmt.Errorf("failed to fetch zone list: %w", err)
	}

	items, err := timezonedb.DecodeZoneList(resp.Body)
	if err != nil {
		return err
	}

	zones := make([]models.TimeZone, 0, len(items))
	for _, item := range items {
		zones = append(zones, models.TimeZone{
			CountryCode: item.CountryCode,
			CountryName: item.CountryName,
			ZoneName:    item.ZoneName,
			GMTOffset:   int64(item.GMTOffset),
			ImportDate:  utils.FormatEpoch(int64(item.Timestamp), imp.opts.Location),
		})
	}

	if err := imp.store.SaveTimeZones(ctx, zones); err != nil {
		return err
	}
	imp.metrics.AddZonesImported(len(zones))
	imp.logger.Info("zone list populated", zap.Int("zones", len(zones)))
	return nil
}
