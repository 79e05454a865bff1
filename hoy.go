package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hours of the year are counted the way weather files count them: hour
// h of a day covers the hour ending at h o'clock, so hours run from 1
// to 24 and the year (always a 365-day year) runs from hour 1 to 8760.

// HoursPerYear is the number of hours in a typical (non-leap) year.
const HoursPerYear = 365 * 24

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DayOfYear returns the day of the year, from 1 to 365, of the given
// month and day of month.
func DayOfYear(month, day int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d not in [1, 12]: %w", month, ErrInvalidArgument)
	}
	if day < 1 || day > daysInMonth[month-1] {
		return 0, fmt.Errorf("day %d not in [1, %d] for %s: %w", day, daysInMonth[month-1], time.Month(month), ErrInvalidArgument)
	}
	doy := day
	for _, n := range daysInMonth[:month-1] {
		doy += n
	}
	return doy, nil
}

// HourOfYear returns the hour of the year, from 1 to 8760, of the
// given date and hour of day (1 to 24).
func HourOfYear(month, day, hour int) (int, error) {
	doy, err := DayOfYear(month, day)
	if err != nil {
		return 0, err
	}
	if hour < 1 || hour > 24 {
		return 0, fmt.Errorf("hour %d not in [1, 24]: %w", hour, ErrInvalidArgument)
	}
	return (doy-1)*24 + hour, nil
}

// DateOfHour is the inverse of HourOfYear.
func DateOfHour(hoy int) (month, day, hour int, err error) {
	if hoy < 1 || hoy > HoursPerYear {
		return 0, 0, 0, fmt.Errorf("hour of year %d not in [1, %d]: %w", hoy, HoursPerYear, ErrInvalidArgument)
	}
	doy := (hoy-1)/24 + 1
	hour = (hoy-1)%24 + 1
	month = 1
	for doy > daysInMonth[month-1] {
		doy -= daysInMonth[month-1]
		month++
	}
	return month, doy, hour, nil
}

// FormatHourOfYear renders an hour of the year as, for example,
// "21 JUN 12:00".
func FormatHourOfYear(hoy int) (string, error) {
	month, day, hour, err := DateOfHour(hoy)
	if err != nil {
		return "", err
	}
	name := time.Month(month).String()[:3]
	return fmt.Sprintf("%d %s %02d:00", day, strings.ToUpper(name), hour), nil
}

// TimeOfHour returns the instant at the end of hour hoy in the given
// year and location.
func TimeOfHour(year, hoy int, loc *time.Location) (time.Time, error) {
	month, day, hour, err := DateOfHour(hoy)
	if err != nil {
		return time.Time{}, err
	}
	// time.Date normalizes hour 24 to midnight of the next day.
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, loc), nil
}


// HOYReport describes an hour of the year. q is either "month,day,hour"
// or a bare hour of the year. For example, both "6,21,12" and "4116"
// give "doy 172  hoy 4116  21 JUN 12:00".
func HOYReport(q string) (string, error) {
	var nums []int
	for _, f := range strings.Split(q, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return "", fmt.Errorf("hour of year %q: %w", q, ErrInvalidArgument)
		}
		nums = append(nums, n)
	}

	var hoy int
	var err error
	switch len(nums) {
	case 1:
		hoy = nums[0]
	case 3:
		hoy, err = HourOfYear(nums[0], nums[1], nums[2])
	default:
		return "", fmt.Errorf("hour of year %q: want month,day,hour or a single hour: %w", q, ErrInvalidArgument)
	}
	if err != nil {
		return "", err
	}
	month, day, _, err := DateOfHour(hoy)
	if err != nil {
		return "", err
	}
	doy, err := DayOfYear(month, day)
	if err != nil {
		return "", err
	}
	date, err := FormatHourOfYear(hoy)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("doy %d  hoy %d  %s", doy, hoy, date), nil
}
