// Package locale renders calendar names in the supported display languages.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/zapponejosh/lunarcal/internal/calendar"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the loaded message bundle and the languages it can serve.
type Catalog struct {
	bundle  *i18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
	logger  *slog.Logger
}

// New loads every embedded active.<lang>.json file. defaultLang is served
// when a request matches none of the loaded languages.
func New(defaultLang string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	var loaded []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			logger.Debug("skipping locale file", slog.String("file", name))
			continue
		}

		mf, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		loaded = append(loaded, mf.Tag)
		logger.Debug("locale loaded",
			slog.String("lang", mf.Tag.String()),
			slog.Int("messages", len(mf.Messages)),
		)
	}

	// The matcher falls back to its first tag, so the default goes first.
	tags := []language.Tag{}
	for _, t := range loaded {
		if base(t) == base(def) {
			tags = append([]language.Tag{t}, tags...)
		} else {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 || base(tags[0]) != base(def) {
		return nil, fmt.Errorf("default language %q has no message file", defaultLang)
	}

	return &Catalog{
		bundle:  bundle,
		tags:    tags,
		matcher: language.NewMatcher(tags),
		logger:  logger,
	}, nil
}

func base(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// Languages lists the served language codes, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Translator picks the best language for the given preferences. Each
// preference may be a plain tag ("zh") or a full Accept-Language value.
func (c *Catalog) Translator(preferences ...string) *Translator {
	var prefs []string
	for _, p := range preferences {
		if p != "" {
			prefs = append(prefs, p)
		}
	}
	_, idx := language.MatchStrings(c.matcher, prefs...)
	tag := c.tags[idx]
	return &Translator{
		tag:       tag,
		localizer: i18n.NewLocalizer(c.bundle, tag.String()),
		logger:    c.logger,
	}
}

// Translator renders names in one language.
type Translator struct {
	tag       language.Tag
	localizer *i18n.Localizer
	logger    *slog.Logger
}

// Lang returns the language code in use.
func (t *Translator) Lang() string {
	return t.tag.String()
}

// Message translates id, returning fallback when the message is missing.
func (t *Translator) Message(id, fallback string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("missing translation",
			slog.String("id", id),
			slog.String("lang", t.Lang()),
			slog.String("error", err.Error()),
		)
		return fallback
	}
	return msg
}

// Term names a solar term.
func (t *Translator) Term(term calendar.SolarTerm) string {
	return t.Message("term."+term.ID(), term.Name(), nil)
}

// Festival names a festival; nil yields "".
func (t *Translator) Festival(f *calendar.Festival) string {
	if f == nil {
		return ""
	}
	return t.Message("festival."+f.ID, f.Name, nil)
}

// Zodiac names a zodiac animal.
func (t *Translator) Zodiac(z calendar.Zodiac) string {
	return t.Message("zodiac."+z.ID(), z.Name(), nil)
}

// Weekday names an ISO weekday (1 = Monday).
func (t *Translator) Weekday(isoDay int) string {
	return t.Message("weekday."+strconv.Itoa(isoDay), strconv.Itoa(isoDay), nil)
}

// LunarMonth names a lunar month, with the leap marker when needed.
func (t *Translator) LunarMonth(month int, leap bool) string {
	name := t.Message("month."+strconv.Itoa(month), strconv.Itoa(month), nil)
	if !leap {
		return name
	}
	return t.Message("leap_month", "L"+name, map[string]any{"Month": name})
}

// LunarDay names a day of a lunar month.
func (t *Translator) LunarDay(day int) string {
	return t.Message("day."+strconv.Itoa(day), strconv.Itoa(day), nil)
}

// LunarDate renders month and day, e.g. "闰四月初一".
func (t *Translator) LunarDate(d calendar.LunarDate) string {
	month := t.LunarMonth(d.Month, d.IsLeap)
	day := t.LunarDay(d.Day)
	return t.Message("lunar_date", month+" "+day, map[string]any{"Month": month, "Day": day})
}

// YearLabel renders a lunar year's stem-branch label and zodiac.
func (t *Translator) YearLabel(year int) string {
	label := calendar.YearLabel(year).String()
	zodiac := t.Zodiac(calendar.YearZodiac(year))
	return t.Message("year_label", label, map[string]any{"Label": label, "Zodiac": zodiac})
}

// HolidayStatus renders a legal holiday's day-off marker.
func (t *Translator) HolidayStatus(h *calendar.Holiday) string {
	if h == nil {
		return ""
	}
	if h.OffDay {
		return t.Message("holiday.off", "off", nil)
	}
	return t.Message("holiday.work", "work", nil)
}
