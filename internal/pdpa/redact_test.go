package pdpa

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		name  string
		email string
		want  string
	}{
		{"ascii", "user@example.com", "***@example.com"},
		{"thai local part", "นายกสมาคม@thai.co.th", "***@thai.co.th"},
		{"single char local part", "a@b.io", "***@b.io"},
		{"empty local part", "@example.com", "***@example.com"},
		{"split on first at", "a@b@c.com", "***@b@c.com"},
		{"no at", "not-an-email", "not-an-email"},
		{"empty string", "", ""},
		{"empty domain", "user@", "user@"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MaskEmail(tc.email))
		})
	}
}

func FuzzMaskEmail(f *testing.F) {
	f.Add("user", "example.com")
	f.Add("นายกสมาคม", "thai.co.th")
	f.Add("", "x")
	f.Add("a.b+c", "")

	f.Fuzz(func(t *testing.T, local, domain string) {
		if strings.Contains(local, "@") {
			t.Skip()
		}
		got := MaskEmail(local + "@" + domain)
		if domain == "" {
			if got != local+"@" {
				t.Fatalf("empty domain must be returned unchanged, got %q", got)
			}
			return
		}
		if got != "***@"+domain {
			t.Fatalf("MaskEmail(%q) = %q", local+"@"+domain, got)
		}
	})
}

func TestRoundGPS(t *testing.T) {
	cases := []struct {
		lat, lon         float64
		wantLat, wantLon float64
	}{
		{13.756331, 100.501765, 13.756, 100.502},
		{51.507351, -0.127758, 51.507, -0.128},
		{0, 0, 0, 0},
		{123.45678, -270.00049, 123.457, -270.0},
		{-90.0004, 180.0006, -90.0, 180.001},
	}
	for _, tc := range cases {
		lat, lon := RoundGPS(tc.lat, tc.lon)
		assert.Equal(t, tc.wantLat, lat)
		assert.Equal(t, tc.wantLon, lon)
	}
}

func TestRoundGPSProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10_000; i++ {
		lat := (rng.Float64() - 0.5) * 360
		lon := (rng.Float64() - 0.5) * 720

		rLat, rLon := RoundGPS(lat, lon)

		assert.InDelta(t, lat, rLat, 0.0005+1e-12)
		assert.InDelta(t, lon, rLon, 0.0005+1e-12)

		againLat, againLon := RoundGPS(rLat, rLon)
		assert.Equal(t, rLat, againLat, "rounding must be idempotent")
		assert.Equal(t, rLon, againLon, "rounding must be idempotent")

		// three decimal digits survive a format/parse round trip unchanged
		assert.Equal(t, FormatCoordinate(rLat), FormatCoordinate(againLat))
	}
}

func TestRoundGPSNonFinite(t *testing.T) {
	lat, lon := RoundGPS(math.NaN(), math.Inf(1))
	assert.True(t, math.IsNaN(lat))
	assert.True(t, math.IsInf(lon, 1))

	_, lon = RoundGPS(0, math.Inf(-1))
	assert.True(t, math.IsInf(lon, -1))
}

func TestFormatCoordinate(t *testing.T) {
	assert.Equal(t, "13.756", FormatCoordinate(13.756))
	assert.Equal(t, "13.750", FormatCoordinate(13.75))
	assert.Equal(t, "-0.128", FormatCoordinate(-0.128))
	assert.Equal(t, "100.000", FormatCoordinate(100))
}
