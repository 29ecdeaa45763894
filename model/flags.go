package model

// CommandLineFlags holds the parsed command line arguments
type CommandLineFlags struct {
	Host   *string `json:"host"`
	Port   *string `json:"port"`
	Config *string `json:"config"`
}
