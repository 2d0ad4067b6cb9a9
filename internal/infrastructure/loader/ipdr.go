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
	"github.com/argusintel/argus/internal/infrastructure/fingerprint"
)

// LoadIPDR reads a provider IPDR export into the dataset. Sessions without
// an APP_PROTOCOL label are fingerprinted from destination port and
// protocol; sessions that match no signature stay unlabeled.
func LoadIPDR(r io.Reader, ds *record.Dataset, logger *zap.Logger) (Stats, error) {
	var stats Stats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return stats, apperrors.NewValidationError("INVALID_INPUT", "reading IPDR header").WithCause(err)
	}
	idx := indexHeader(header)
	if !idx.has("SUBSCRIBER_ID", "MSISDN") || !idx.has("START_TIME") {
		return stats, apperrors.NewValidationError("INVALID_INPUT",
			"IPDR file missing required columns (SUBSCRIBER_ID, START_TIME)")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, apperrors.NewValidationError("INVALID_INPUT",
				fmt.Sprintf("reading IPDR row %d", stats.Rows+2)).WithCause(err)
		}
		stats.Rows++

		identity, err := values.NewMSISDN(idx.col(row, "SUBSCRIBER_ID", "MSISDN"))
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping IPDR row: bad subscriber", zap.Int("row", stats.Rows), zap.Error(err))
			continue
		}
		start, ok := parseTimestamp(idx.col(row, "START_TIME"), "")
		if !ok {
			stats.Skipped++
			logger.Debug("skipping IPDR row: bad start time", zap.Int("row", stats.Rows))
			continue
		}

		session := record.DataSession{
			Identity: identity,
			Start:    start,
			End:      start,
			DestIP:   idx.col(row, "DESTINATION_IP"),
		}
		if end, ok := parseTimestamp(idx.col(row, "END_TIME"), ""); ok && !end.Before(start) {
			session.End = end
		} else if secs, ok := parseInt(idx.col(row, "SESSION_DURATION")); ok {
			session.End = start.Add(time.Duration(secs) * time.Second)
		}
		if port, ok := parseInt(idx.col(row, "DESTINATION_PORT")); ok {
			session.DestPort = int(port)
		}
		if up, ok := parseInt(idx.col(row, "DATA_VOLUME_UP")); ok {
			session.BytesUploaded = up
		}
		if down, ok := parseInt(idx.col(row, "DATA_VOLUME_DOWN")); ok {
			session.BytesDownload = down
		}
		if imei, err := values.NewDeviceID(values.DeviceIDIMEI, idx.col(row, "IMEI")); err == nil {
			session.IMEI = imei
		}

		session.AppLabel = strings.ToLower(idx.col(row, "APP_PROTOCOL"))
		if session.AppLabel == "" {
			session.AppLabel = fingerprint.Identify(session.DestPort, idx.col(row, "PROTOCOL"))
		}

		id, streams := ds.Track(identity)
		id.ObserveDevice(session.IMEI, start)
		streams.Sessions = append(streams.Sessions, session)
		stats.Loaded++
	}

	logger.Info("loaded IPDR file",
		zap.Int("rows", stats.Rows),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}
