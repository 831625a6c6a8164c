package lockfile

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v2"
)

// Meta is the metadata stored inside a lock file. It identifies who holds
// the slot and which partition the hold belongs to.
type Meta struct {
	PID       int     `yaml:"pid"`
	User      string  `yaml:"user"`
	Host      string  `yaml:"host"`
	Time      string  `yaml:"time"`
	Device    int     `yaml:"device"`
	Fraction  float64 `yaml:"fraction"`
	Partition string  `yaml:"partition"`
}

// Encode renders the metadata as the line-oriented key: value format shared
// with other chronos processes. The line order is part of the on-disk
// convention, so the lines are written by hand rather than marshalled.
func (m Meta) Encode() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "pid: %d\n", m.PID)
	fmt.Fprintf(&buf, "user: %s\n", m.User)
	fmt.Fprintf(&buf, "host: %s\n", m.Host)
	fmt.Fprintf(&buf, "time: %s\n", m.Time)
	fmt.Fprintf(&buf, "device: %d\n", m.Device)
	fmt.Fprintf(&buf, "fraction: %g\n", m.Fraction)
	fmt.Fprintf(&buf, "partition: %s\n", m.Partition)

	return buf.Bytes()
}

// ParseMeta decodes lock file content. The format is a flat YAML mapping.
func ParseMeta(content []byte) (*Meta, error) {
	meta := &Meta{}

	if err := yaml.Unmarshal(content, meta); err != nil {
		return nil, fmt.Errorf("parsing lock metadata: %w", err)
	}

	return meta, nil
}
