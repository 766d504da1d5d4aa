package weather

import (
	"fmt"
	"strings"
)

// Snapshot is a structured view of current conditions at a point, as reported
// by WeatherAPI.com.
type Snapshot struct {
	City      string
	Region    string
	Country   string
	LocalTime string

	TempC      float64
	FeelsC     float64
	Condition  string
	WindKph    float64
	Humidity   float64
	PressureMb float64
	PrecipMm   float64
	CloudPct   float64
	UV         float64
	IsDay      bool
}

// Summary renders the snapshot as a compact data block for narration prompts.
func (s *Snapshot) Summary() string {
	var b strings.Builder
	place := s.City
	if s.Country != "" {
		place = fmt.Sprintf("%s, %s", s.City, s.Country)
	}
	fmt.Fprintf(&b, "Місце: %s\n", place)
	fmt.Fprintf(&b, "Місцевий час: %s\n", s.LocalTime)
	fmt.Fprintf(&b, "Температура: %.1f°C (відчувається як %.1f°C)\n", s.TempC, s.FeelsC)
	fmt.Fprintf(&b, "Умови: %s\n", s.Condition)
	fmt.Fprintf(&b, "Вітер: %.1f км/год\n", s.WindKph)
	fmt.Fprintf(&b, "Вологість: %.0f%%\n", s.Humidity)
	fmt.Fprintf(&b, "Тиск: %.0f мбар\n", s.PressureMb)
	fmt.Fprintf(&b, "Опади: %.1f мм\n", s.PrecipMm)
	fmt.Fprintf(&b, "Хмарність: %.0f%%\n", s.CloudPct)
	fmt.Fprintf(&b, "УФ-індекс: %.1f\n", s.UV)
	return b.String()
}
