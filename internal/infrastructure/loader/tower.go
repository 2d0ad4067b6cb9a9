package loader

import (
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	apperrors "github.com/argusintel/argus/internal/errors"
)

// LoadTowerDump reads a tower dump export into the dataset. Tower exports
// vary the most across operators, so every identifying column accepts the
// aliases observed in the field.
func LoadTowerDump(r io.Reader, ds *record.Dataset, logger *zap.Logger) (Stats, error) {
	var stats Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return stats, apperrors.NewValidationError("INVALID_INPUT", "reading tower dump header").WithCause(err)
	}
	idx := indexHeader(header)
	if !idx.has("MOBILE_NUMBER", "MSISDN", "PHONE_NUMBER", "A PARTY") ||
		!idx.has("TOWER_ID", "CELL_ID", "BTS_ID", "SITE_ID") {
		return stats, apperrors.NewValidationError("INVALID_INPUT",
			"tower dump missing required columns (mobile number, tower id)")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, apperrors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("reading tower dump row %d", stats.Rows+2)).WithCause(err)
		}
		stats.Rows++

		rawNumber := idx.col(row, "MOBILE_NUMBER", "MSISDN", "PHONE_NUMBER", "A PARTY")
		if IsProviderMessage(rawNumber) {
			stats.Provider++
			continue
		}
		identity, err := values.NewMSISDN(rawNumber)
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping tower row: bad number", zap.Int("row", stats.Rows), zap.Error(err))
			continue
		}
		ts, ok := parseTimestamp(idx.col(row, "TIMESTAMP", "DATE_TIME"), idx.col(row, "TIME"))
		if !ok {
			ts, ok = parseTimestamp(idx.col(row, "DATE"), idx.col(row, "TIME"))
		}
		if !ok {
			stats.Skipped++
			logger.Debug("skipping tower row: bad timestamp", zap.Int("row", stats.Rows))
			continue
		}
		lat, latOK := parseFloat(idx.col(row, "LATITUDE", "LAT"))
		lon, lonOK := parseFloat(idx.col(row, "LONGITUDE", "LON", "LONG"))
		if !latOK || !lonOK {
			stats.Skipped++
			logger.Debug("skipping tower row: missing coordinates", zap.Int("row", stats.Rows))
			continue
		}

		presence := record.PresenceRecord{
			Identity:  identity,
			Timestamp: ts,
			TowerID:   idx.col(row, "TOWER_ID", "CELL_ID", "BTS_ID", "SITE_ID"),
			Location:  record.Coordinate{Latitude: lat, Longitude: lon},
		}

		id, streams := ds.Track(identity)
		if imei, err := values.NewDeviceID(values.DeviceIDIMEI, idx.col(row, "IMEI")); err == nil {
			presence.Devices = append(presence.Devices, imei)
			id.ObserveDevice(imei, ts)
		}
		if imsi, err := values.NewDeviceID(values.DeviceIDIMSI, idx.col(row, "IMSI")); err == nil {
			presence.Devices = append(presence.Devices, imsi)
			id.ObserveDevice(imsi, ts)
		}
		streams.Presence = append(streams.Presence, presence)
		stats.Loaded++
	}

	logger.Info("loaded tower dump",
		zap.Int("rows", stats.Rows),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("provider_messages", stats.Provider))
	return stats, nil
}
