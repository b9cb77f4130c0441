package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/locale"
)

func translator(t *testing.T, lang string) *locale.Translator {
	t.Helper()
	c, err := locale.New("en", nil)
	require.NoError(t, err)
	return c.Translator(lang)
}

func TestReport_LeapYear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report(context.Background(), &buf, 2020, translator(t, "en")))

	out := buf.String()
	assert.Contains(t, out, "New Year:    2020-01-25")
	assert.Contains(t, out, "Leap Month:  Leap Fourth Month")
	assert.Contains(t, out, "Length:      384 days")
	assert.Contains(t, out, "2020-10-01")
	assert.Contains(t, out, "Mid-Autumn Festival")
}

func TestReport_Chinese(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report(context.Background(), &buf, 2024, translator(t, "zh")))

	out := buf.String()
	assert.Contains(t, out, "甲辰年（龙年）")
	assert.Contains(t, out, "Leap Month:  none")
	assert.Contains(t, out, "立春")
	assert.Contains(t, out, "2024-06-10")
}

func TestReport_LastYear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report(context.Background(), &buf, calendar.MaxYear, translator(t, "en")))
	assert.Contains(t, buf.String(), "Festivals:")
}

func TestReport_OutOfRange(t *testing.T) {
	var buf bytes.Buffer
	err := report(context.Background(), &buf, 2101, translator(t, "en"))
	require.Error(t, err)
	assert.True(t, calendar.IsOutOfRange(err))
}
