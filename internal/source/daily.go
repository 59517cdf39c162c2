// Package source maps venues to the public URLs of their daily settlement
// files. Only URL construction lives here; fetching and parsing stay in
// their own packages.
package source

import (
	"errors"
	"fmt"
	"time"

	"cn-data/internal/model"
)

// ErrNoDailySource reports a venue that publishes no fetchable daily file.
var ErrNoDailySource = errors.New("venue has no daily file source")

// czceFormatSwitch is the year CZCE moved its daily files to the
// DFSStaticFiles layout.
const czceFormatSwitch = 2015

// DailyURL returns the daily summary file URL for venue v at day. The time
// component of day is ignored.
func DailyURL(v model.Venue, day time.Time) (string, error) {
	ymd := day.Format("20060102")

	switch v {
	case model.VenueSHFE:
		return fmt.Sprintf("http://www.shfe.com.cn/data/dailydata/kx/kx%s.dat", ymd), nil

	case model.VenueINE:
		return fmt.Sprintf("http://www.ine.cn/data/dailydata/kx/kx%s.dat", ymd), nil

	case model.VenueCFFEX:
		return fmt.Sprintf("http://www.cffex.com.cn/sj/historysj/%s/zip/%s_1.zip",
			day.Format("200601"), ymd), nil

	case model.VenueCZCE:
		if day.Year() >= czceFormatSwitch {
			return fmt.Sprintf(
				"http://www.czce.com.cn/cn/DFSStaticFiles/Future/%d/%s/FutureDataDaily.htm",
				day.Year(), ymd), nil
		}
		return fmt.Sprintf("http://www.czce.com.cn/cn/exchange/%d/datadaily/%s.htm",
			day.Year(), ymd), nil

	case model.VenueDCE:
		// the form backend counts months from zero
		return fmt.Sprintf(
			"http://www.dce.com.cn/publicweb/quotesdata/dayQuotesCh.html"+
				"?dayQuotes.variety=all&dayQuotes.trade_type=0&year=%d&month=%d&day=%02d",
			day.Year(), int(day.Month())-1, day.Day()), nil
	}

	return "", fmt.Errorf("%w: %v", ErrNoDailySource, v)
}

// HasDailySource reports whether DailyURL can serve the venue.
func HasDailySource(v model.Venue) bool {
	_, err := DailyURL(v, time.Unix(0, 0))
	return err == nil
}
