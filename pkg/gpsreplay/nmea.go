package gpsreplay

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"go.uber.org/zap"
)

const knotToMeterPerSecond = 0.514444

/*
Reader. turns an NMEA 0183 stream (log file or serial GPS) into fixes.

one fix per valid RMC sentence. the altitude of a GGA sentence with the same time of day is attached to the
RMC fix that follows it. sentences that do not parse, RMC with status V (void) and RMC without time or date
are skipped.
*/
type Reader struct {
	br  *bufio.Reader
	log *zap.Logger

	lastGGA *nmea.GGA

	Skipped int
}

func NewReader(r io.Reader, log *zap.Logger) *Reader {
	return &Reader{br: bufio.NewReader(r), log: log}
}

// Next. next fix of the stream, io.EOF at the end.
func (r *Reader) Next() (*datastructure.GPSPoint, error) {
	for {
		line, err := r.br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, perr := nmea.Parse(line)
		if perr != nil {
			r.Skipped++
			r.log.Debug("skip nmea sentence", zap.String("line", line), zap.Error(perr))
			continue
		}

		switch sentence.DataType() {
		case nmea.TypeGGA:
			gga := sentence.(nmea.GGA)
			r.lastGGA = &gga
		case nmea.TypeRMC:
			fix, ok := FixFromRMC(sentence.(nmea.RMC))
			if !ok {
				r.Skipped++
				continue
			}
			if r.lastGGA != nil && sameTimeOfDay(r.lastGGA.Time, sentence.(nmea.RMC).Time) {
				fix = fix.WithAltitude(r.lastGGA.Altitude)
			}
			return fix, nil
		}
	}
}

// FixFromRMC. fix of a valid RMC sentence. speed is converted from knots to meter/second.
func FixFromRMC(m nmea.RMC) (*datastructure.GPSPoint, bool) {
	if m.Validity != nmea.ValidRMC || !m.Time.Valid || !m.Date.Valid {
		return nil, false
	}

	fix := datastructure.NewGPSPoint(m.Latitude, m.Longitude, rmcTimestamp(m.Date, m.Time), m.Speed*knotToMeterPerSecond)
	if !fix.ValidPosition() {
		return nil, false
	}
	if m.Course >= 0 && m.Course < 360 {
		fix = fix.WithHeading(m.Course)
	}
	return fix, true
}

// rmcTimestamp. two digit years below 80 are 20xx
func rmcTimestamp(d nmea.Date, t nmea.Time) time.Time {
	year := 1900 + d.YY
	if d.YY < 80 {
		year = 2000 + d.YY
	}
	return time.Date(year, time.Month(d.MM), d.DD, t.Hour, t.Minute, t.Second,
		t.Millisecond*int(time.Millisecond), time.UTC)
}

func sameTimeOfDay(a, b nmea.Time) bool {
	return a.Valid && b.Valid && a.Hour == b.Hour && a.Minute == b.Minute && a.Second == b.Second &&
		a.Millisecond == b.Millisecond
}

// Replay. feed every fix of r to update until the stream ends or ctx is done. a fix rejected by update is
// logged and skipped. pace > 0 sleeps the fix time difference divided by pace between fixes.
func Replay(ctx context.Context, r *Reader, pace float64, update func(*datastructure.GPSPoint) error) (int, error) {
	var (
		accepted int
		prev     time.Time
	)
	for {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		fix, err := r.Next()
		if errors.Is(err, io.EOF) {
			return accepted, nil
		}
		if err != nil {
			return accepted, err
		}

		if pace > 0 && !prev.IsZero() && fix.Time().After(prev) {
			wait := time.Duration(float64(fix.Time().Sub(prev)) / pace)
			select {
			case <-ctx.Done():
				return accepted, ctx.Err()
			case <-time.After(wait):
			}
		}
		prev = fix.Time()

		if err := update(fix); err != nil {
			r.log.Warn("fix rejected", zap.Time("time", fix.Time()), zap.Error(err))
			continue
		}
		accepted++
	}
}
