// services/zone_detail_service.go
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

// PopulateZoneDetails fetches details for every zone of TZDB_TIMEZONES and merges
// them into TZDB_ZONE_DETAILS. Every fetch completes before the staging transaction
// opens; a zone whose retries are exhausted aborts the run with nothing merged.
func (imp *Importer) PopulateZoneDetails(ctx context.Context) error {
	zoneNames, err := imp.store.ZoneNames(ctx)
	if err != nil {
		return err
	}
	imp.logger.Info("fetching zone details", zap.Int("zones", len(zoneNames)))

	details := make([]models.ZoneDetail, 0, len(zoneNames))
	for _, zoneName := range zoneNames {
		detail, err := imp.fetchZoneDetail(ctx, zoneName)
		if err != nil {
			return err
		}
		details = append(details, detail)
	}

	merged, err := imp.store.MergeZoneDetails(ctx, details, imp.opts.MergePolicy)
	if err != nil {
		return err
	}
	imp.metrics.AddDetailsMerged(merged)
	imp.logger.Info("zone details populated",
		zap.Int("fetched", len(details)),
		zap.Int64("merged", merged),
	)
	return nil
}

func (imp *Importer) fetchZoneDetail(ctx context.Context, zoneName string) (models.ZoneDetail, error) {
	resp, err := imp.fetchWithRetry(ctx, metrics.EndpointZoneDetails, zoneName,
		func(ctx context.Context) (*timezonedb.Response, error) {
			return imp.api.FetchZoneDetails(ctx, zoneName)
		})
	if err != nil {
		return models.ZoneDetail{}, fmt.Errorf("failed to fetch details for %q: %w", zoneName, err)
	}

	payload, err := timezonedb.DecodeZoneDetails(resp.Body)
	if err != nil {
		return models.ZoneDetail{}, fmt.Errorf("zone %q: %w", zoneName, err)
	}
	if payload.ZoneName != zoneName {
		imp.logger.Debug("api returned a different zone name",
			zap.String("requested", zoneName),
			zap.String("returned", payload.ZoneName),
		)
	}

	detail := models.ZoneDetail{
		CountryCode: payload.CountryCode,
		CountryName: payload.CountryName,
		// The requested name is stored so every detail row has a list row.
		ZoneName:   zoneName,
		GMTOffset:  int64(payload.GMTOffset),
		DST:        int64(payload.DST),
		ZoneStart:  int64(payload.ZoneStart),
		ImportDate: utils.FormatEpoch(int64(payload.Timestamp), imp.opts.Location),
	}
	if payload.ZoneEnd != nil {
		end := int64(*payload.ZoneEnd)
		detail.ZoneEnd = &end
	}
	return detail, nil
}
