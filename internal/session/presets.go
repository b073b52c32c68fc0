package session

import (
	"fmt"
	"os"
	"sort"

	"review-reply/internal/database"

	"gopkg.in/yaml.v2"
)

type Preset struct {
	Name        string `yaml:"name" json:"name"`
	Location    string `yaml:"location" json:"location"`
	Services    string `yaml:"services" json:"services"`
	ManagerName string `yaml:"manager_name" json:"manager_name"`
	BrandVoice  string `yaml:"brand_voice" json:"brand_voice"`
}

func (p Preset) Profile() database.BusinessProfile {
	return database.BusinessProfile{
		Name:        p.Name,
		Location:    p.Location,
		Services:    p.Services,
		ManagerName: p.ManagerName,
		BrandVoice:  p.BrandVoice,
	}
}

type presetsFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Presets maps a preset label (as shown in the preset picker) to a profile.
type Presets map[string]Preset

func DefaultPresets() Presets {
	return Presets{
		"Hotel": {
			Name:        "Grand Plaza Hotel",
			Location:    "Downtown",
			Services:    "rooms, suites, restaurant, spa",
			ManagerName: "Alex Morgan",
			BrandVoice:  "polished and welcoming",
		},
		"Restaurant": {
			Name:        "Trattoria Bella",
			Location:    "Old Town",
			Services:    "dinner, takeaway, private events",
			ManagerName: "Giulia Rossi",
			BrandVoice:  "warm, family-run and a little playful",
		},
		"Dental Clinic": {
			Name:        "Bright Smile Dental",
			Location:    "Riverside",
			Services:    "check-ups, cleaning, whitening, orthodontics",
			ManagerName: "Dr. Priya Shah",
			BrandVoice:  "calm, reassuring and professional",
		},
	}
}

// LoadPresets reads presets from a yaml file of the form
//
//	presets:
//	  Hotel:
//	    name: Grand Plaza Hotel
//	    location: Downtown
//
// An empty path returns the built in presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return DefaultPresets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading presets file: %w", err)
	}

	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing presets file: %w", err)
	}

	for label, preset := range file.Presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("preset '%s' has no name", label)
		}
	}

	return Presets(file.Presets), nil
}

func (p Presets) Labels() []string {
	labels := make([]string, 0, len(p))
	for label := range p {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
