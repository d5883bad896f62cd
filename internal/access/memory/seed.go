package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// seedFile es el formato YAML del seed de ACLs:
//
//	groups:
//	  <group_id>:
//	    <member>: [read, create, update]
type seedFile struct {
	Groups map[string]map[string][]string `yaml:"groups"`
}

// LoadFile construye un Store desde un archivo de seed. Los literales de
// permiso se normalizan acá, al cargar.
func LoadFile(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("acl seed: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("acl seed: %w", err)
	}
	return New(sf.Groups)
}
