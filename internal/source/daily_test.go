package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cn-data/internal/model"
)

func TestDailyURL(t *testing.T) {
	day := time.Date(2024, 5, 30, 15, 4, 5, 0, time.UTC)

	testCases := []struct {
		venue model.Venue
		want  string
	}{
		{
			model.VenueSHFE,
			"http://www.shfe.com.cn/data/dailydata/kx/kx20240530.dat",
		},
		{
			model.VenueINE,
			"http://www.ine.cn/data/dailydata/kx/kx20240530.dat",
		},
		{
			model.VenueCFFEX,
			"http://www.cffex.com.cn/sj/historysj/202405/zip/20240530_1.zip",
		},
		{
			model.VenueCZCE,
			"http://www.czce.com.cn/cn/DFSStaticFiles/Future/2024/20240530/FutureDataDaily.htm",
		},
		{
			model.VenueDCE,
			"http://www.dce.com.cn/publicweb/quotesdata/dayQuotesCh.html" +
				"?dayQuotes.variety=all&dayQuotes.trade_type=0&year=2024&month=4&day=30",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.venue.String(), func(t *testing.T) {
			got, err := DailyURL(tc.venue, day)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// CZCE kept its pre-2015 archive on the old path layout.
func TestDailyURLOldCZCE(t *testing.T) {
	day := time.Date(2014, 5, 30, 0, 0, 0, 0, time.UTC)

	got, err := DailyURL(model.VenueCZCE, day)
	require.NoError(t, err)
	assert.Equal(t, "http://www.czce.com.cn/cn/exchange/2014/datadaily/20140530.htm", got)
}

func TestDailyURLUnsupported(t *testing.T) {
	for _, v := range []model.Venue{model.VenueCTP, model.VenueSSE, model.VenueSZSE} {
		_, err := DailyURL(v, time.Now())
		require.Error(t, err, v.String())
		assert.ErrorIs(t, err, ErrNoDailySource)
		assert.False(t, HasDailySource(v))
	}

	assert.True(t, HasDailySource(model.VenueSHFE))
}
