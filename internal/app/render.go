package app

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
	"squitterator/internal/bds"
)

// ClearScreen moves the cursor home and clears the terminal and its
// scrollback
const ClearScreen = "\x1b[2J\x1b[H\x1b[3J"

// Display selects the optional column groups of the aircraft table
type Display struct {
	Altitude bool // A: GNSS and selected altitude, baro setting
	Speed    bool // s: true and indicated airspeed, Mach
	Angles   bool // a: roll and turn rate
	Weather  bool // w: meteorological report
	Extra    bool // e: category, formats, version, ages
	Legend   bool
}

// ParseDisplay parses the display letters. Any group turns the legend on.
func ParseDisplay(s string) (Display, error) {
	var d Display
	for _, c := range s {
		switch c {
		case 'A':
			d.Altitude = true
		case 's':
			d.Speed = true
		case 'a':
			d.Angles = true
		case 'w':
			d.Weather = true
		case 'e':
			d.Extra = true
		default:
			return Display{}, fmt.Errorf("unknown display option %q", c)
		}
	}
	d.Legend = s != ""
	return d, nil
}

type column struct {
	title string
	width int
	right bool
	value func(p *aircraft.Plane, now time.Time) string
}

// Renderer draws the aircraft table
type Renderer struct {
	order   string
	display Display
	columns []column
}

// NewRenderer builds the column set for display
func NewRenderer(display Display, order string) *Renderer {
	r := &Renderer{order: order, display: display}

	r.columns = append(r.columns,
		column{"ICAO", 6, false, func(p *aircraft.Plane, _ time.Time) string { return adsb.FormatICAO(p.ICAO) }},
		column{"RG", 2, false, func(p *aircraft.Plane, _ time.Time) string { return p.Country.Code }},
		column{"SQWK", 5, false, func(p *aircraft.Plane, _ time.Time) string {
			if p.Squawk == nil {
				return ""
			}
			return p.SquawkString() + marker(p.ThreatEncounter)
		}},
		column{"W", 1, false, func(p *aircraft.Plane, _ time.Time) string {
			if p.WakeCategory == 0 {
				return ""
			}
			return string(p.WakeCategory)
		}},
		column{"CALLSIGN", 8, false, func(p *aircraft.Plane, _ time.Time) string { return p.Identification }},
		column{"LATITUDE", 9, true, func(p *aircraft.Plane, _ time.Time) string {
			if !p.HasPosition() {
				return ""
			}
			return strconv.FormatFloat(p.Lat, 'f', 5, 64)
		}},
		column{"LONGITUDE", 11, true, func(p *aircraft.Plane, _ time.Time) string {
			if !p.HasPosition() {
				return ""
			}
			return strconv.FormatFloat(p.Lon, 'f', 5, 64)
		}},
		column{"ALT B", 6, true, func(p *aircraft.Plane, _ time.Time) string {
			return withMarker(p.Altitude, p.AltitudeSource)
		}},
	)

	if display.Altitude {
		r.columns = append(r.columns,
			column{"ALT G", 5, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.GNSSAltitude) }},
			column{"ALT S", 6, true, func(p *aircraft.Plane, _ time.Time) string {
				return withMarker(p.SelectedAltitude, p.SelectedAltitudeSource)
			}},
			column{"BARO", 6, true, func(p *aircraft.Plane, _ time.Time) string { return floatCell(p.BaroSetting, 1) }},
		)
	}

	r.columns = append(r.columns,
		column{"VRATE", 6, true, func(p *aircraft.Plane, _ time.Time) string {
			return withMarker(p.VerticalRate, p.VerticalRateSource)
		}},
		column{"TRK", 4, true, func(p *aircraft.Plane, _ time.Time) string { return withMarker(p.Track, p.TrackSource) }},
		column{"HDG", 4, true, func(p *aircraft.Plane, _ time.Time) string { return withMarker(p.Heading, p.HeadingSource) }},
		column{"GSP", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.GroundSpeed) }},
	)

	if display.Speed {
		r.columns = append(r.columns,
			column{"TAS", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.TrueAirspeed) }},
			column{"IAS", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.IndicatedAirspeed) }},
			column{"MACH", 4, true, func(p *aircraft.Plane, _ time.Time) string { return floatCell(p.Mach, 2) }},
		)
	}
	if display.Angles {
		r.columns = append(r.columns,
			column{"RLL", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.Roll) }},
			column{"TAR", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.TurnRate) }},
		)
	}
	if display.Weather {
		r.columns = append(r.columns,
			column{"TEMP", 5, true, func(p *aircraft.Plane, _ time.Time) string { return floatCell(p.Temperature, 1) }},
			column{"WND", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.WindSpeed) }},
			column{"WDR", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.WindDirection) }},
			column{"HUM", 3, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.Humidity) }},
			column{"PRES", 4, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.Pressure) }},
			column{"TB", 2, true, func(p *aircraft.Plane, _ time.Time) string { return intCell(p.Turbulence) }},
		)
	}
	if display.Extra {
		r.columns = append(r.columns,
			column{"VX", 2, false, func(p *aircraft.Plane, _ time.Time) string { return p.CategoryString() }},
			column{"DIST", 5, true, func(p *aircraft.Plane, _ time.Time) string { return floatCell(p.Distance, 1) }},
			column{"DF", 2, true, func(p *aircraft.Plane, _ time.Time) string { return strconv.Itoa(int(p.LastDF)) }},
			column{"TC", 2, true, func(p *aircraft.Plane, _ time.Time) string {
				if p.LastTypeCode == 0 {
					return ""
				}
				return strconv.Itoa(int(p.LastTypeCode))
			}},
			column{"V", 1, true, func(p *aircraft.Plane, _ time.Time) string {
				if p.Version == nil {
					return ""
				}
				return strconv.Itoa(int(*p.Version))
			}},
			column{"S", 1, false, func(p *aircraft.Plane, _ time.Time) string { return string(p.SurveillanceStatus) }},
			column{"PTH", 3, false, func(p *aircraft.Plane, now time.Time) string {
				return age(now, p.PositionTime) + age(now, p.TrackTime) + age(now, p.HeadingTime)
			}},
		)
	}

	r.columns = append(r.columns,
		column{"LC", 3, true, func(p *aircraft.Plane, now time.Time) string {
			return strconv.Itoa(int(now.Sub(p.Timestamp).Seconds()))
		}},
	)
	return r
}

// Table writes the header, one row per aircraft in the configured order
// and the legend when enabled
func (r *Renderer) Table(w io.Writer, planes []aircraft.Plane, now time.Time) error {
	aircraft.Sort(planes, r.order)

	var b strings.Builder
	titles := make([]string, len(r.columns))
	rules := make([]string, len(r.columns))
	for i, c := range r.columns {
		titles[i] = pad(c.title, c.width, c.right)
		rules[i] = strings.Repeat("-", c.width)
	}
	rule := strings.Join(rules, " ")
	b.WriteString(strings.Join(titles, " "))
	b.WriteByte('\n')
	b.WriteString(rule)
	b.WriteByte('\n')

	cells := make([]string, len(r.columns))
	for i := range planes {
		for j, c := range r.columns {
			cells[j] = pad(c.value(&planes[i], now), c.width, c.right)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteByte('\n')
	}
	b.WriteString(rule)
	b.WriteByte('\n')

	if r.display.Legend {
		b.WriteString(legend)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const legend = `Altitude: ` + string(adsb.MarkerSurface) + ` on surface, ` + string(adsb.MarkerAirspeed) + ` from airspeed report
Vertical rate: ` + string(adsb.MarkerInertial) + ` inertial, ` + string(adsb.MarkerNoRate) + ` no report
Track and heading: ` + string(adsb.MarkerGroundSpeed) + ` subsonic, ` + string(adsb.MarkerSupersonic) + ` supersonic, ` +
	string(adsb.MarkerHeading) + ` airspeed, ` + string(adsb.MarkerTrackAndTurn) + ` BDS 5,0, ` + string(adsb.MarkerHeadingSpeed) + ` BDS 6,0
Squawk: ` + string(adsb.MarkerSingleThreat) + ` one threat, ` + string(adsb.MarkerMultiThreats) + ` several threats
PTH: position, track and heading age in tens of seconds
`

// pad truncates or pads s to width runes
func pad(s string, width int, right bool) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	fill := strings.Repeat(" ", width-len(runes))
	if right {
		return fill + s
	}
	return s + fill
}

func marker(r rune) string {
	if r == 0 || r == adsb.MarkerNone {
		return ""
	}
	return string(r)
}

func withMarker(v *int, source rune) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v) + marker(source)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// age renders how long ago t was as one hex digit of tens of seconds
func age(now, t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return strconv.FormatInt(int64(now.Sub(t).Seconds()/10)%16, 16)
}

// FormatDFCounts renders the per-format counters in ascending format order
func FormatDFCounts(counts map[uint32]uint64) string {
	dfs := make([]uint32, 0, len(counts))
	for df := range counts {
		dfs = append(dfs, df)
	}
	sort.Slice(dfs, func(i, j int) bool { return dfs[i] < dfs[j] })

	var b strings.Builder
	for _, df := range dfs {
		fmt.Fprintf(&b, "DF%d:%d ", df, counts[df])
	}
	return b.String()
}

// DescribeFrame renders the decoded fields of one frame on a line
func DescribeFrame(frame adsb.Frame, register bds.Register) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DF:%d ICAO:%s", frame.Format(), adsb.FormatICAO(frame.Address()))

	switch f := frame.(type) {
	case *adsb.ShortAirSurveillance:
		writeAltitude(&b, f.Altitude)
	case *adsb.LongAirSurveillance:
		writeAltitude(&b, f.Altitude)
	case *adsb.AltitudeReply:
		writeAltitude(&b, f.Altitude)
		fmt.Fprintf(&b, " FS:%d", adsb.FlightStatus(f.Message))
	case *adsb.CommBAltitudeReply:
		writeAltitude(&b, f.Altitude)
		fmt.Fprintf(&b, " FS:%d", adsb.FlightStatus(f.Message))
	case *adsb.IdentityReply:
		fmt.Fprintf(&b, " Squawk:%04d FS:%d", f.Squawk, adsb.FlightStatus(f.Message))
	case *adsb.CommBIdentityReply:
		fmt.Fprintf(&b, " Squawk:%04d FS:%d", f.Squawk, adsb.FlightStatus(f.Message))
	case *adsb.AllCallReply:
		fmt.Fprintf(&b, " CA:%d", f.Capability)
	case *adsb.ExtendedSquitter:
		describeExtended(&b, f)
	}

	if register != nil {
		fmt.Fprintf(&b, " BDS:%s", register.Code())
	}
	return b.String()
}

func describeExtended(b *strings.Builder, es *adsb.ExtendedSquitter) {
	fmt.Fprintf(b, " CA:%d TC:%d", es.Capability, es.TypeCode)
	if es.Identification != "" {
		fmt.Fprintf(b, " Ident:%s", es.Identification)
	}
	if es.WakeCategory != 0 {
		fmt.Fprintf(b, " Wake:%c", es.WakeCategory)
	}
	writeAltitude(b, es.Altitude)
	if es.GNSSAltitude != nil {
		fmt.Fprintf(b, " GNSS:%d", *es.GNSSAltitude)
	}
	if es.Position != nil {
		form := "even"
		if es.Position.Form == 1 {
			form = "odd"
		}
		fmt.Fprintf(b, " CPR:%s/%d/%d", form, es.Position.Lat, es.Position.Lon)
	}
	if s := es.Surface; s != nil {
		if s.Speed != nil {
			fmt.Fprintf(b, " GS:%s", strconv.FormatFloat(*s.Speed, 'f', -1, 64))
		}
		if s.Track != nil {
			fmt.Fprintf(b, " Track:%d", *s.Track)
		}
	}
	if v := es.Velocity; v != nil {
		if v.GroundSpeed != nil {
			fmt.Fprintf(b, " GS:%d", *v.GroundSpeed)
		}
		if v.Track != nil {
			fmt.Fprintf(b, " Track:%d", *v.Track)
		}
		if v.Heading != nil {
			fmt.Fprintf(b, " Heading:%d", *v.Heading)
		}
		if v.Airspeed != nil {
			kind := "IAS"
			if v.AirspeedType == adsb.AirspeedTAS {
				kind = "TAS"
			}
			fmt.Fprintf(b, " %s:%d", kind, *v.Airspeed)
		}
		if v.VerticalRate != nil {
			fmt.Fprintf(b, " VRate:%d", *v.VerticalRate)
		}
	}
	if es.Version != nil {
		fmt.Fprintf(b, " Version:%d", *es.Version)
	}
}

func writeAltitude(b *strings.Builder, alt *int) {
	if alt != nil {
		fmt.Fprintf(b, " Alt:%d", *alt)
	}
}

// FormatICAOLine renders the address and State of registry of a squitter
func FormatICAOLine(squitter string, frame adsb.Frame, name, code string) string {
	return fmt.Sprintf("Squitter: %-28s, ICAO: %s, DF: %2d, %s: %s",
		squitter, adsb.FormatICAO(frame.Address()), frame.Format(), code, name)
}

// FormatIdentLine renders an identification squitter as a tuple for test
// fixtures. It returns false for frames that carry no callsign.
func FormatIdentLine(squitter string, frame adsb.Frame) (string, bool) {
	es, ok := frame.(*adsb.ExtendedSquitter)
	if !ok || es.TypeCode < 1 || es.TypeCode > 4 || es.Identification == "" {
		return "", false
	}
	return fmt.Sprintf("(%q, %q),", squitter, es.Identification), true
}
