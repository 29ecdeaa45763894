package insight

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsRaw []byte

type promptSet struct {
	Analysis   string `yaml:"analysis"`
	Comparison string `yaml:"comparison"`
}

var prompts promptSet

func init() {
	if err := yaml.Unmarshal(promptsRaw, &prompts); err != nil {
		panic(err)
	}
}
