// Package seed loads reference data from a YAML file through the same
// services the API uses, so every record passes the usual checks.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type File struct {
	Terminals  []Terminal  `yaml:"terminals"`
	Vessels    []Vessel    `yaml:"vessels"`
	Containers []Container `yaml:"containers"`
	Drivers    []Driver    `yaml:"drivers"`
	Users      []User      `yaml:"users"`
}

type Terminal struct {
	Code     string    `yaml:"code"`
	Name     string    `yaml:"name"`
	Capacity int       `yaml:"capacity"`
	Timezone string    `yaml:"timezone"`
	Settings *Settings `yaml:"settings"`
}

type Settings struct {
	SlotDuration      int      `yaml:"slotDuration"`
	MaxSlotsPerWindow int      `yaml:"maxSlotsPerWindow"`
	Open              string   `yaml:"open"`
	Close             string   `yaml:"close"`
	ClosedDays        []string `yaml:"closedDays"`
}

type Vessel struct {
	Name           string    `yaml:"name"`
	Terminal       string    `yaml:"terminal"`
	ETA            time.Time `yaml:"eta"`
	Status         string    `yaml:"status"`
	ContainerCount int       `yaml:"containerCount"`
}

type Container struct {
	CntrNo   string     `yaml:"cntrNo"`
	Type     string     `yaml:"type"`
	Line     string     `yaml:"line"`
	Terminal string     `yaml:"terminal"`
	Vessel   string     `yaml:"vessel"`
	ReadyAt  *time.Time `yaml:"readyAt"`
}

type Driver struct {
	Name          string    `yaml:"name"`
	Email         string    `yaml:"email"`
	Phone         string    `yaml:"phone"`
	LicenseNumber string    `yaml:"licenseNumber"`
	LicenseExpiry time.Time `yaml:"licenseExpiry"`
	CarrierID     string    `yaml:"carrierId"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed document, rejecting unknown keys and dangling
// terminal or vessel references.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out File
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *File) check() error {
	terminals := make(map[string]bool, len(f.Terminals))
	for _, t := range f.Terminals {
		terminals[t.Code] = true
	}
	vessels := make(map[string]string, len(f.Vessels))
	for _, v := range f.Vessels {
		if !terminals[v.Terminal] {
			return fmt.Errorf("vessel %q: unknown terminal %q", v.Name, v.Terminal)
		}
		vessels[v.Name] = v.Terminal
	}
	for _, c := range f.Containers {
		if !terminals[c.Terminal] {
			return fmt.Errorf("container %s: unknown terminal %q", c.CntrNo, c.Terminal)
		}
		if c.Vessel == "" {
			continue
		}
		if _, ok := vessels[c.Vessel]; !ok {
			return fmt.Errorf("container %s: unknown vessel %q", c.CntrNo, c.Vessel)
		}
	}
	return nil
}
