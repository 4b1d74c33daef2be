package manifest

// Config is the optional settings file, `.checksum.yaml` by default.
type Config struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Spec       Settings `yaml:"spec"`
	Path       string   `yaml:"-"`
}

type Settings struct {
	Algorithm  string   `yaml:"algorithm"`
	Exclude    []string `yaml:"exclude"`
	MarkCycles bool     `yaml:"markCycles"`
	Format     string   `yaml:"format"`
}

// Format identifies how a document is decoded.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)
