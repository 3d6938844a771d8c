package core

// Collector accumulates the warnings of a single file in detection order.
// It is never shared between files.
type Collector struct {
	warnings []Warning
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{warnings: make([]Warning, 0)}
}

// Append adds w to the end of the sequence. Identical warnings are kept.
func (c *Collector) Append(w ...Warning) {
	c.warnings = append(c.warnings, w...)
}

// Empty reports whether nothing has been collected.
func (c *Collector) Empty() bool {
	return len(c.warnings) == 0
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int {
	return len(c.warnings)
}

// Warnings returns a copy of the collected warnings.
func (c *Collector) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}
