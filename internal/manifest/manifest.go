package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

type Output struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
	Records  int    `yaml:"records"`
	SHA256   string `yaml:"sha256"`
}

// Manifest records how a split was produced so it can be reproduced or
// verified later.
type Manifest struct {
	RunID      string    `yaml:"run_id"`
	CreatedAt  time.Time `yaml:"created_at"`
	Input      string    `yaml:"input"`
	Records    int       `yaml:"records"`
	Seed       int64     `yaml:"seed"`
	Shuffle    string    `yaml:"shuffle"`
	TrainRatio float64   `yaml:"train_ratio"`
	ValidRatio float64   `yaml:"valid_ratio"`
	Outputs    []Output  `yaml:"outputs"`
}

func New(input string, records int, seed int64, shuffle string, trainRatio, validRatio float64) *Manifest {
	return &Manifest{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Input:      input,
		Records:    records,
		Seed:       seed,
		Shuffle:    shuffle,
		TrainRatio: trainRatio,
		ValidRatio: validRatio,
	}
}

func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AddOutput records a written output. An earlier output at the same location
// was overwritten on disk, so its entry is dropped and returned.
func (m *Manifest) AddOutput(name, location string, records int, data []byte) (Output, bool) {
	var (
		replaced Output
		found    bool
	)
	kept := m.Outputs[:0]
	for _, o := range m.Outputs {
		if o.Location == location {
			replaced, found = o, true
			continue
		}
		kept = append(kept, o)
	}

	m.Outputs = append(kept, Output{
		Name:     name,
		Location: location,
		Records:  records,
		SHA256:   Checksum(data),
	})
	return replaced, found
}

func (m *Manifest) Output(name string) (Output, bool) {
	for _, o := range m.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Changed names the outputs whose location or checksum differs from prev,
// including outputs prev does not list.
func (m *Manifest) Changed(prev *Manifest) []string {
	var changed []string
	for _, o := range m.Outputs {
		p, ok := prev.Output(o.Name)
		if !ok || p.Location != o.Location || p.SHA256 != o.SHA256 {
			changed = append(changed, o.Name)
		}
	}
	return changed
}

func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error encoding manifest: %w", err)
	}
	return data, nil
}

func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error decoding manifest: %w", err)
	}
	return &m, nil
}
