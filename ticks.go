package main

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
)

// monthTicks labels a day-of-year axis with the first day of each
// month, labeling every major'th month.
type monthTicks struct {
	major int
}

func (o monthTicks) Ticks(min, max float64) []plot.Tick {
	major := o.major
	if major <= 0 {
		major = 1
	}
	var ticks []plot.Tick
	for month := 1; month <= 12; month++ {
		doy, _ := DayOfYear(month, 1)
		v := float64(doy)
		if v < min || v > max {
			continue
		}
		label := ""
		if (month-1)%major == 0 {
			label = time.Month(month).String()[:3]
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// hourTicks labels an hour-of-day axis, with a labeled tick every
// major hours and an unlabeled tick every hour.
type hourTicks struct {
	major int
}

func (o hourTicks) Ticks(min, max float64) []plot.Tick {
	major := o.major
	if major <= 0 {
		major = 3
	}
	var ticks []plot.Tick
	for h := 0; h <= 24; h++ {
		v := float64(h)
		if v < min || v > max {
			continue
		}
		label := ""
		if h%major == 0 {
			label = fmt.Sprintf("%d:00", h)
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}
