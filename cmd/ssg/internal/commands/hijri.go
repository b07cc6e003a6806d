package commands

import (
	"context"
	"fmt"
	"time"

	"santri_portal/internal/hijri"
)

type HijriCmd struct {
	Date     string `arg:"" optional:"" help:"Gregorian date as YYYY-MM-DD (default: today)"`
	Timezone string `help:"Display timezone" default:"Asia/Jakarta" env:"DISPLAY_TIMEZONE"`
	JSON     bool   `help:"Print the result as JSON"`
}

func (h *HijriCmd) Run(ctx context.Context, globals *Globals) error {
	globals.setupLogging()
	conv := hijri.NewConverter(hijri.LoadLocation(h.Timezone))

	day := time.Now().In(conv.Location())
	if h.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", h.Date, conv.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", h.Date)
		}
		day = parsed
	}

	hd := conv.Convert(day)
	if h.JSON {
		return printJSON(globals.out(), map[string]any{
			"date":      day.Format("2006-01-02"),
			"gregorian": conv.Gregorian(day),
			"hijri":     hd,
		})
	}

	fmt.Fprintln(globals.out(), conv.Gregorian(day))
	fmt.Fprintln(globals.out(), hd.Formatted)
	return nil
}

type NormalizeCmd struct {
	Label string `arg:"" help:"Hijri label, e.g. from a device calendar"`
}

func (n *NormalizeCmd) Run(ctx context.Context, globals *Globals) error {
	fmt.Fprintln(globals.out(), hijri.NormalizeHijriLabel(n.Label))
	return nil
}
