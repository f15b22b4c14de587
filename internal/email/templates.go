package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/Courtly/internal/money"
)

type Message struct {
	Subject string
	Body    string
}

type BookingDetails struct {
	AppName   string
	BookingID string
	UserName  string
	CourtName string
	Start     time.Time
	End       time.Time
	Total     money.Cents
	Currency  string
}

func FormatDateTimeRange(start, end time.Time) (string, string) {
	date := start.Format("Monday, Jan 2, 2006")
	timeRange := fmt.Sprintf("%s - %s %s", start.Format("3:04 PM"), end.Format("3:04 PM"), start.Format("MST"))
	return date, timeRange
}

func BuildBookingConfirmation(details BookingDetails) Message {
	appName := orDefault(details.AppName, "Courtly")
	courtName := orDefault(details.CourtName, "your court")
	date, timeRange := FormatDateTimeRange(details.Start, details.End)

	lines := []string{
		greeting(details.UserName),
		"",
		"Your payment was received and your booking is confirmed.",
		"",
		fmt.Sprintf("Court: %s", courtName),
		fmt.Sprintf("Date: %s", date),
		fmt.Sprintf("Time: %s", timeRange),
		fmt.Sprintf("Total paid: %s %s", details.Total.String(), strings.ToUpper(details.Currency)),
		fmt.Sprintf("Booking reference: %s", details.BookingID),
	}

	return Message{
		Subject: fmt.Sprintf("Booking Confirmed - %s", appName),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildBookingCancellation(details BookingDetails, reason string) Message {
	appName := orDefault(details.AppName, "Courtly")
	courtName := orDefault(details.CourtName, "your court")
	date, timeRange := FormatDateTimeRange(details.Start, details.End)

	lines := []string{
		greeting(details.UserName),
		"",
		"Your booking has been cancelled.",
		"",
		fmt.Sprintf("Court: %s", courtName),
		fmt.Sprintf("Date: %s", date),
		fmt.Sprintf("Time: %s", timeRange),
		fmt.Sprintf("Booking reference: %s", details.BookingID),
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}

	return Message{
		Subject: fmt.Sprintf("Booking Cancelled - %s", appName),
		Body:    strings.Join(lines, "\n"),
	}
}

func greeting(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", name)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}
