package analyser

import (
	"fmt"
	"os"

	"github.com/funvibe/typeflow/internal/config"
	"gopkg.in/yaml.v3"
)

// LoadOptionsYAML reads a tunables override document (sampleCount,
// unionCap, fixedPointCap — spec.md §9 open questions #3/#4) from path,
// the same read-then-unmarshal-then-wrap idiom the teacher's
// internal/ext.LoadConfig uses for funxy.yaml. Any field the document
// omits or sets to zero falls back to its documented default.
func LoadOptionsYAML(path string) (config.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Options{}, fmt.Errorf("reading options %s: %w", path, err)
	}
	var opts config.Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return config.Options{}, fmt.Errorf("parsing options %s: %w", path, err)
	}
	return opts.WithDefaults(), nil
}
