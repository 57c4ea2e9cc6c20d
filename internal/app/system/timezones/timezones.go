// Package timezones holds the curated zone list clients choose from when
// scheduling events.
package timezones

import (
	"sort"
	"sync"
)

type Zone struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

type ZoneGroup struct {
	Region string
	Zones  []Zone
}

// zones is the curated list. IDs are IANA zone names so clients can hand
// them straight to time.LoadLocation.
var zones = []Zone{
	{ID: "UTC", Label: "UTC"},

	{ID: "America/New_York", Label: "Eastern Time (US & Canada)", Region: "North America"},
	{ID: "America/Chicago", Label: "Central Time (US & Canada)", Region: "North America"},
	{ID: "America/Denver", Label: "Mountain Time (US & Canada)", Region: "North America"},
	{ID: "America/Phoenix", Label: "Arizona", Region: "North America"},
	{ID: "America/Los_Angeles", Label: "Pacific Time (US & Canada)", Region: "North America"},
	{ID: "America/Anchorage", Label: "Alaska", Region: "North America"},
	{ID: "Pacific/Honolulu", Label: "Hawaii", Region: "North America"},
	{ID: "America/Toronto", Label: "Toronto", Region: "North America"},
	{ID: "America/Mexico_City", Label: "Mexico City", Region: "North America"},

	{ID: "America/Sao_Paulo", Label: "Sao Paulo", Region: "South America"},
	{ID: "America/Bogota", Label: "Bogota", Region: "South America"},
	{ID: "America/Buenos_Aires", Label: "Buenos Aires", Region: "South America"},

	{ID: "Europe/London", Label: "London", Region: "Europe"},
	{ID: "Europe/Paris", Label: "Paris", Region: "Europe"},
	{ID: "Europe/Berlin", Label: "Berlin", Region: "Europe"},
	{ID: "Europe/Madrid", Label: "Madrid", Region: "Europe"},
	{ID: "Europe/Rome", Label: "Rome", Region: "Europe"},
	{ID: "Europe/Kyiv", Label: "Kyiv", Region: "Europe"},

	{ID: "Africa/Lagos", Label: "Lagos", Region: "Africa"},
	{ID: "Africa/Nairobi", Label: "Nairobi", Region: "Africa"},
	{ID: "Africa/Johannesburg", Label: "Johannesburg", Region: "Africa"},

	{ID: "Asia/Seoul", Label: "Seoul", Region: "Asia"},
	{ID: "Asia/Tokyo", Label: "Tokyo", Region: "Asia"},
	{ID: "Asia/Manila", Label: "Manila", Region: "Asia"},
	{ID: "Asia/Singapore", Label: "Singapore", Region: "Asia"},
	{ID: "Asia/Kolkata", Label: "India", Region: "Asia"},

	{ID: "Australia/Sydney", Label: "Sydney", Region: "Pacific"},
	{ID: "Pacific/Auckland", Label: "Auckland", Region: "Pacific"},
}

var (
	groupsOnce sync.Once
	groups     []ZoneGroup
)

// Groups returns the curated zones grouped by region, regions and zone
// labels in stable sorted order. Zones without a region land in "Other".
func Groups() []ZoneGroup {
	groupsOnce.Do(func() {
		byRegion := make(map[string][]Zone)
		for _, z := range zones {
			region := z.Region
			if region == "" {
				region = "Other"
			}
			byRegion[region] = append(byRegion[region], z)
		}

		out := make([]ZoneGroup, 0, len(byRegion))
		for region, zs := range byRegion {
			sort.SliceStable(zs, func(i, j int) bool {
				return zs[i].Label < zs[j].Label
			})
			out = append(out, ZoneGroup{Region: region, Zones: zs})
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Region < out[j].Region
		})

		groups = out
	})
	return groups
}
