package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohamedthameursassi/geobase/models"
)

func TestParseTransportMode(t *testing.T) {
	cases := map[string]models.TransportMode{
		"car":      models.Car,
		" Driving": models.Car,
		"BIKE":     models.Biking,
		"walk":     models.Walking,
		"transit":  models.Bus,
		"boat":     models.Unknown,
		"":         models.Unknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseTransportMode(in), "input %q", in)
	}
}
