package service

import (
	"strings"

	"github.com/biter777/countries"
	"github.com/nyaruka/phonenumbers"

	"github.com/mmynk/waitlist/internal/models"
)

// distinctCountries counts the different places signups come from.
func distinctCountries(signups []models.Signup) int {
	seen := make(map[string]struct{})
	for _, s := range signups {
		if place := countryOf(s.Location, s.Phone); place != "" {
			seen[place] = struct{}{}
		}
	}
	return len(seen)
}

// countryOf resolves a signup to an ISO alpha-2 code.
// The last comma-separated part of location wins ("Lisbon, Portugal"), then the
// whole location, then the phone number's region. Unresolvable locations count
// as their own lowercased text.
func countryOf(location, phone string) string {
	location = strings.TrimSpace(location)

	candidates := []string{location}
	if i := strings.LastIndex(location, ","); i >= 0 {
		candidates = append([]string{strings.TrimSpace(location[i+1:])}, candidates...)
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if code := countries.ByName(c); code != countries.Unknown {
			return code.Alpha2()
		}
	}

	if region := phoneRegion(phone); region != "" {
		return region
	}

	if location == "" {
		return ""
	}
	return "place:" + strings.ToLower(location)
}

// phoneRegion returns the region of an international number, or "".
func phoneRegion(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" || region == "ZZ" {
		return ""
	}
	return region
}
