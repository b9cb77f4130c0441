// Package feed renders resolved calendar days as an iCalendar feed.
package feed

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/locale"
)

const (
	version  = "2.0"
	prodID   = "-//Lunarcal//Calendar Feed//EN"
	scale    = "GREGORIAN"
	method   = "PUBLISH"
	uidHost  = "lunarcal"
	refresh  = 24 * time.Hour
	dateBase = "20060102"

	propUID        = "UID"
	propSummary    = "SUMMARY"
	propDTStart    = "DTSTART"
	propDTStamp    = "DTSTAMP"
	propCategories = "CATEGORIES"
	propDesc       = "DESCRIPTION"
	propTransp     = "TRANSP"
	propVersion    = "VERSION"
	propProdID     = "PRODID"
	propCalName    = "X-WR-CALNAME"
	propCalScale   = "CALSCALE"
	propMethod     = "METHOD"
	propRefresh    = "REFRESH-INTERVAL"
	propWRZone     = "X-WR-TIMEZONE"

	// Dates in the table are China Standard Time, which has had no DST
	// since 1991.
	zoneID     = "Asia/Shanghai"
	zoneName   = "CST"
	zoneOffset = "+0800"
	zoneSince  = "19700101T000000"
)

// Event categories.
const (
	CategoryTerm     = "SOLAR-TERM"
	CategoryFestival = "FESTIVAL"
	CategoryHoliday  = "HOLIDAY"
)

// Options control feed metadata.
type Options struct {
	// Name is the calendar display name.
	Name string
	// Now stamps every event. Zero means time.Now.
	Now time.Time
}

// Write encodes the terms, festivals and stored holidays of days as an
// iCalendar stream.
func Write(w io.Writer, days []*calendar.Day, tr *locale.Translator, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(propVersion, version)
	cal.Props.SetText(propProdID, prodID)
	cal.Props.SetText(propCalScale, scale)
	cal.Props.SetText(propMethod, method)
	if opts.Name != "" {
		cal.Props.SetText(propCalName, opts.Name)
	}

	refreshProp := ical.NewProp(propRefresh)
	refreshProp.SetDuration(refresh)
	cal.Props.Set(refreshProp)

	cal.Props.SetText(propWRZone, zoneID)
	cal.Children = append(cal.Children, homeZone())

	stamp := ical.NewProp(propDTStamp)
	stamp.SetDateTime(now.UTC())

	for _, day := range days {
		for _, e := range dayEvents(day, tr) {
			e.Props.Set(stamp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// Build is Write into a byte slice.
func Build(days []*calendar.Day, tr *locale.Translator, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, days, tr, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// homeZone describes the zone every event date belongs to. It also keeps a
// range with no events encodable, since a calendar needs one component.
func homeZone() *ical.Component {
	std := ical.NewComponent(ical.CompTimezoneStandard)
	std.Props.SetText(ical.PropTimezoneName, zoneName)
	for _, name := range []string{ical.PropTimezoneOffsetFrom, ical.PropTimezoneOffsetTo} {
		p := ical.NewProp(name)
		p.Value = zoneOffset
		std.Props.Set(p)
	}
	start := ical.NewProp(ical.PropDateTimeStart)
	start.Value = zoneSince
	std.Props.Set(start)

	zone := ical.NewComponent(ical.CompTimezone)
	zone.Props.SetText(ical.PropTimezoneID, zoneID)
	zone.Children = append(zone.Children, std)
	return zone
}

func dayEvents(day *calendar.Day, tr *locale.Translator) []*ical.Event {
	var events []*ical.Event
	desc := tr.LunarDate(day.Lunar)

	if day.Term != nil {
		events = append(events, newEvent(day.Solar, "term-"+day.Term.ID(), tr.Term(*day.Term), CategoryTerm, desc))
	}
	if f := day.Festivals.Domestic; f != nil {
		events = append(events, newEvent(day.Solar, "festival-"+f.ID, tr.Festival(f), CategoryFestival, desc))
	}
	if f := day.Festivals.International; f != nil {
		events = append(events, newEvent(day.Solar, "festival-"+f.ID, tr.Festival(f), CategoryFestival, desc))
	}
	if h := day.Holiday; h != nil {
		summary := h.Name + " (" + tr.HolidayStatus(h) + ")"
		events = append(events, newEvent(day.Solar, "holiday", summary, CategoryHoliday, desc))
	}
	return events
}

// newEvent builds an all-day event whose UID depends only on the date and key.
func newEvent(date calendar.SolarDate, key, summary, category, desc string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(propUID, fmt.Sprintf("%s-%s@%s", date.Time().Format(dateBase), key, uidHost))
	event.Props.SetText(propSummary, summary)
	event.Props.SetText(propCategories, category)
	event.Props.SetText(propDesc, desc)
	event.Props.SetText(propTransp, "TRANSPARENT")

	start := ical.NewProp(propDTStart)
	start.SetDate(date.Time())
	event.Props.Set(start)
	return event
}
