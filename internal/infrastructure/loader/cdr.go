package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	apperrors "github.com/argusintel/argus/internal/errors"
)

// LoadCDR reads a provider CDR export into the dataset. Provider broadcast
// rows and rows with unparseable identities or timestamps are skipped and
// counted; a missing required column fails the whole file.
func LoadCDR(r io.Reader, ds *record.Dataset, logger *zap.Logger) (Stats, error) {
	var stats Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return stats, apperrors.NewValidationError("INVALID_INPUT", "reading CDR header").WithCause(err)
	}
	idx := indexHeader(header)
	if !idx.has("A PARTY") || !idx.has("B PARTY") || !idx.has("DATE") || !idx.has("CALL TYPE") {
		return stats, apperrors.NewValidationError("INVALID_INPUT",
			"CDR file missing required columns (A PARTY, B PARTY, DATE, CALL TYPE)")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, apperrors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("reading CDR row %d", stats.Rows+2)).WithCause(err)
		}
		stats.Rows++

		aParty := idx.col(row, "A PARTY")
		bParty := idx.col(row, "B PARTY")
		if IsProviderMessage(aParty) || IsProviderMessage(bParty) {
			stats.Provider++
			continue
		}

		identity, err := values.NewMSISDN(aParty)
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping CDR row: bad a-party", zap.Int("row", stats.Rows), zap.Error(err))
			continue
		}
		ts, ok := parseTimestamp(idx.col(row, "DATE"), idx.col(row, "TIME"))
		if !ok {
			stats.Skipped++
			logger.Debug("skipping CDR row: bad timestamp", zap.Int("row", stats.Rows))
			continue
		}

		event := record.CallEvent{
			Identity:  identity,
			Timestamp: ts,
			CellID:    idx.col(row, "FIRST CELL ID A"),
		}
		// Short codes stay as raw counterparties; they never become
		// tracked identities but still count as contacts.
		if !values.IsShortCode(bParty) {
			if cp, err := values.NewMSISDN(bParty); err == nil {
				event.Counterparty = cp
			}
		}
		event.Direction, event.Medium = parseCallType(idx.col(row, "CALL TYPE"))
		if secs, ok := parseInt(idx.col(row, "DURATION")); ok {
			event.Duration = time.Duration(secs) * time.Second
		}
		if imei, err := values.NewDeviceID(values.DeviceIDIMEI, idx.col(row, "IMEI A")); err == nil {
			event.IMEI = imei
		}
		if imsi, err := values.NewDeviceID(values.DeviceIDIMSI, idx.col(row, "IMSI A")); err == nil {
			event.IMSI = imsi
		}
		if lat, ok := parseFloat(idx.col(row, "LATITUDE")); ok {
			if lon, ok := parseFloat(idx.col(row, "LONGITUDE")); ok {
				event.Location = &record.Coordinate{Latitude: lat, Longitude: lon}
			}
		}

		id, streams := ds.Track(identity)
		id.ObserveDevice(event.IMEI, ts)
		id.ObserveDevice(event.IMSI, ts)
		streams.Calls = append(streams.Calls, event)
		stats.Loaded++
	}

	logger.Info("loaded CDR file",
		zap.Int("rows", stats.Rows),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("provider_messages", stats.Provider))
	return stats, nil
}

// parseCallType maps provider call type strings (OUT, IN, SMS-OUT, SMS-IN
// and close variants) onto direction and medium. Unrecognized values
// default to an inbound voice event.
func parseCallType(raw string) (record.Direction, record.Medium) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	medium := record.MediumVoice
	if strings.Contains(upper, "SMS") {
		medium = record.MediumSMS
	}
	if strings.Contains(upper, "OUT") {
		return record.DirectionOut, medium
	}
	return record.DirectionIn, medium
}
