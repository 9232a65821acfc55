package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/star/sunpos/internal/spa"
)

// Render writes a localized plain-text report of res, computed from in.
// Incidence and the rise/transit/set lines appear only when in requested
// them.
func Render(w io.Writer, tag language.Tag, in spa.Input, res spa.Result) error {
	p := message.NewPrinter(tag)

	lines := []string{
		p.Sprintf(msgTitle),
		p.Sprintf(msgDateTime, formatDate(in), formatZone(in.Timezone)),
		p.Sprintf(msgLocation, in.Latitude, in.Longitude, in.Elevation),
		p.Sprintf(msgZenith, res.Zenith),
		p.Sprintf(msgAzimuth, res.Azimuth),
	}
	if in.Request.Incidence {
		lines = append(lines, p.Sprintf(msgIncidence, res.Incidence))
	}
	if in.Request.RiseTransitSet {
		lines = append(lines,
			p.Sprintf(msgSunrise, eventTime(p, res.Sunrise)),
			p.Sprintf(msgTransit, eventTime(p, res.SunTransit)),
			p.Sprintf(msgSunset, eventTime(p, res.Sunset)),
			p.Sprintf(msgEOT, res.EOT),
		)
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// String renders the report into a string. Writes to a strings.Builder
// never fail, so Render's error is always nil here.
func String(tag language.Tag, in spa.Input, res spa.Result) string {
	var sb strings.Builder
	_ = Render(&sb, tag, in, res)
	return sb.String()
}

func eventTime(p *message.Printer, h float64) string {
	if h == spa.NoEvent {
		return p.Sprintf(msgNoEvent)
	}
	return spa.FormatHour(h)
}

func formatDate(in spa.Input) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		in.Year, in.Month, in.Day, in.Hour, in.Minute, int(in.Second))
}

// formatZone renders a fractional hour offset as UTC±HH:MM.
func formatZone(tz float64) string {
	sign := '+'
	if tz < 0 {
		sign = '-'
	}
	minutes := int(math.Round(math.Abs(tz) * 60))
	return fmt.Sprintf("UTC%c%02d:%02d", sign, minutes/60, minutes%60)
}
