package ipdr

import (
	"time"

	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/domain/values"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// 2024-03-11 is a Monday, outside the default pattern days.
var testBase = time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

func testCfg() *config.Config {
	return config.Defaults()
}

type sessionOpt func(*record.DataSession)

func startingAt(t time.Time) sessionOpt {
	return func(s *record.DataSession) {
		s.Start = t
		s.End = t.Add(10 * time.Minute)
	}
}

func offset(d time.Duration) sessionOpt {
	return func(s *record.DataSession) {
		s.Start = testBase.Add(d)
		s.End = s.Start.Add(10 * time.Minute)
	}
}

func running(d time.Duration) sessionOpt {
	return func(s *record.DataSession) { s.End = s.Start.Add(d) }
}

func app(label string) sessionOpt {
	return func(s *record.DataSession) { s.AppLabel = label }
}

func uploading(bytes int64) sessionOpt {
	return func(s *record.DataSession) { s.BytesUploaded = bytes }
}

func session(opts ...sessionOpt) record.DataSession {
	s := record.DataSession{
		Identity: values.MustNewMSISDN("9876543210"),
		Start:    testBase,
		End:      testBase.Add(10 * time.Minute),
		DestIP:   "142.250.183.78",
		DestPort: 443,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func sessionStream(sessions ...record.DataSession) *record.Streams {
	return &record.Streams{Sessions: sessions}
}
