package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

type Country struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

type QuoteTemplate struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
}

// Profile is the vocabulary the generator draws from.
type Profile struct {
	AddressProbability float64         `yaml:"addressProbability"`
	MaxPetsPerFriend   int             `yaml:"maxPetsPerFriend"`
	MaxQuotesPerFriend int             `yaml:"maxQuotesPerFriend"`
	FirstNames         []string        `yaml:"firstNames"`
	LastNames          []string        `yaml:"lastNames"`
	EmailDomains       []string        `yaml:"emailDomains"`
	Streets            []string        `yaml:"streets"`
	Countries          []Country       `yaml:"countries"`
	PetNames           []string        `yaml:"petNames"`
	Quotes             []QuoteTemplate `yaml:"quotes"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() (Profile, error) {
	return ParseProfile(defaultProfile)
}

// LoadProfile reads a profile file; an empty path yields the default.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read seed profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse seed profile: %w", err)
	}
	if err := profile.validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p Profile) validate() error {
	switch {
	case len(p.FirstNames) == 0 || len(p.LastNames) == 0:
		return fmt.Errorf("seed profile needs first and last names")
	case len(p.EmailDomains) == 0:
		return fmt.Errorf("seed profile needs email domains")
	case len(p.Streets) == 0:
		return fmt.Errorf("seed profile needs streets")
	case len(p.PetNames) == 0:
		return fmt.Errorf("seed profile needs pet names")
	case len(p.Quotes) == 0:
		return fmt.Errorf("seed profile needs quotes")
	case p.MaxPetsPerFriend < 0 || p.MaxQuotesPerFriend < 0:
		return fmt.Errorf("seed profile per-friend maximums must not be negative")
	case p.AddressProbability < 0 || p.AddressProbability > 1:
		return fmt.Errorf("seed profile addressProbability must be within [0, 1]")
	}
	for _, country := range p.Countries {
		if len(country.Cities) == 0 {
			return fmt.Errorf("seed profile country %s has no cities", country.Name)
		}
	}
	if len(p.Countries) == 0 {
		return fmt.Errorf("seed profile needs countries")
	}
	return nil
}
