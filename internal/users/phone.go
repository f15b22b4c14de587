package users

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/codr1/Courtly/internal/apperr"
)

const defaultPhoneRegion = "US"

// NormalizePhone parses raw in region and returns it in E.164 form. Numbers
// written with a leading + ignore the region.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", apperr.ErrInvalidInput.WithMessage("Invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
