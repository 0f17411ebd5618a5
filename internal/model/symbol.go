package model

// Symbol is one tradable instrument in the scan universe.
type Symbol struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}
