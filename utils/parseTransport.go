package utils

import (
	"strings"

	"github.com/mohamedthameursassi/geobase/models"
)

func ParseTransportMode(input string) models.TransportMode {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "car", "driving":
		return models.Car
	case "bus", "transit":
		return models.Bus
	case "biking", "bike":
		return models.Biking
	case "walking", "walk":
		return models.Walking
	default:
		return models.Unknown
	}
}
