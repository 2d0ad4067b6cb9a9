package cdr

import (
	"time"

	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

var testBase = time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func testCfg() *config.Config {
	return config.Defaults()
}

type callOpt func(*record.CallEvent)

func at(offset time.Duration) callOpt {
	return func(c *record.CallEvent) { c.Timestamp = testBase.Add(offset) }
}

func atHour(day, hour int) callOpt {
	return func(c *record.CallEvent) {
		c.Timestamp = time.Date(2024, 3, 11+day, hour, 0, 0, 0, time.UTC)
	}
}

func to(number string) callOpt {
	return func(c *record.CallEvent) { c.Counterparty = values.MustNewMSISDN(number) }
}

func lasting(d time.Duration) callOpt {
	return func(c *record.CallEvent) { c.Duration = d }
}

func sms() callOpt {
	return func(c *record.CallEvent) { c.Medium = record.MediumSMS }
}

func inbound() callOpt {
	return func(c *record.CallEvent) { c.Direction = record.DirectionIn }
}

func withIMEI(imei string) callOpt {
	return func(c *record.CallEvent) {
		c.IMEI = values.MustNewDeviceID(values.DeviceIDIMEI, imei)
	}
}

func withIMSI(imsi string) callOpt {
	return func(c *record.CallEvent) {
		c.IMSI = values.MustNewDeviceID(values.DeviceIDIMSI, imsi)
	}
}

func locatedAt(lat, lon float64, cell string) callOpt {
	return func(c *record.CallEvent) {
		c.Location = &record.Coordinate{Latitude: lat, Longitude: lon}
		c.CellID = cell
	}
}

func call(opts ...callOpt) record.CallEvent {
	c := record.CallEvent{
		Identity:     values.MustNewMSISDN("9876543210"),
		Counterparty: values.MustNewMSISDN("9123456780"),
		Timestamp:    testBase,
		Duration:     2 * time.Minute,
		Direction:    record.DirectionOut,
		Medium:       record.MediumVoice,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func callStream(calls ...record.CallEvent) *record.Streams {
	return &record.Streams{Calls: calls}
}
