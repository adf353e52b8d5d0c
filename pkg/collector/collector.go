// Package collector drives the linear collection pipeline: authenticate,
// enumerate devices, fetch per-device history, extract spreadsheet rows.
package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tb0hdan/fmg-script-history/pkg/config"
	"github.com/tb0hdan/fmg-script-history/pkg/extract"
	"github.com/tb0hdan/fmg-script-history/pkg/fmg"
	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

// API is the slice of the FortiManager client the pipeline needs.
type API interface {
	Login(ctx context.Context, user, password string) error
	DeviceList(ctx context.Context, adom, platform string) ([]fmg.Device, error)
	ScriptHistory(ctx context.Context, adom, deviceName string) ([]fmg.HistoryEntry, error)
}

// Result is what one collection run produced.
type Result struct {
	Rows        []models.ExtractedRow
	DeviceCount int
}

type Collector struct {
	api    API
	logger zerolog.Logger
}

func New(api API, logger zerolog.Logger) *Collector {
	return &Collector{
		api:    api,
		logger: logger.With().Str("component", "collector").Logger(),
	}
}

// Run executes one collection. Devices whose history holds no matching
// record are skipped; a run where every device comes up empty reports
// extract.ErrNotFound. Any API failure aborts the run as-is.
func (c *Collector) Run(ctx context.Context, params *config.Params) (*Result, error) {
	if err := c.api.Login(ctx, params.User, params.Password); err != nil {
		return nil, err
	}
	c.logger.Info().Str("host", params.Host).Msg("authenticated")

	devices, err := c.api.DeviceList(ctx, params.ADOM, params.Platform)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: no %s devices in ADOM %q", extract.ErrNotFound, params.Platform, params.ADOM)
	}
	c.logger.Info().Int("devices", len(devices)).Str("platform", params.Platform).Msg("device list fetched")

	result := &Result{DeviceCount: len(devices)}
	for _, device := range devices {
		entries, err := c.api.ScriptHistory(ctx, params.ADOM, device.Hostname)
		if err != nil {
			return nil, err
		}

		row, err := extract.Extract(historyRecords(device, entries, params.Platform), params.Platform, params.Script)
		if err != nil {
			if errors.Is(err, extract.ErrNotFound) {
				c.logger.Debug().
					Str("device", device.Hostname).
					Str("script", params.Script).
					Msg("no matching execution, skipping device")
				continue
			}
			return nil, err
		}

		c.logger.Debug().
			Str("device", device.Hostname).
			Str("rtc_date", row.RTCDate).
			Str("rtc_time", row.RTCTime).
			Msg("row extracted")
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("%w: script %q never ran on platform %q", extract.ErrNotFound, params.Script, params.Platform)
	}

	return result, nil
}

// historyRecords flattens one device's history entries into execution
// records. The device query already filtered on platform, so every entry
// carries the requested platform.
func historyRecords(device fmg.Device, entries []fmg.HistoryEntry, platform string) []models.ExecutionRecord {
	records := make([]models.ExecutionRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, models.ExecutionRecord{
			Platform:     platform,
			ScriptName:   entry.ScriptName,
			Output:       entry.Content,
			DeviceName:   device.Hostname,
			SerialNumber: device.SerialNumber,
		})
	}
	return records
}
