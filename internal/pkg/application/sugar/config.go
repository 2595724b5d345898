package sugar

import (
	"io"

	"github.com/diwise/notion-sugar/pkg/notion/fields"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	yaml "gopkg.in/yaml.v2"
)

type FieldConfig struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Options  []string `yaml:"options"`
	Required bool     `yaml:"required"`
	Default  any      `yaml:"default"`
}

type DatabaseConfig struct {
	Name     string        `yaml:"name"`
	ID       string        `yaml:"id"`
	PageSize int           `yaml:"pageSize"`
	Fields   []FieldConfig `yaml:"fields"`
}

// FieldSet builds the field descriptors used to validate input for the database
func (db DatabaseConfig) FieldSet() fields.Set {
	set := make(fields.Set, 0, len(db.Fields))

	for _, fc := range db.Fields {
		f := fields.New(fc.Name, properties.ParseKind(fc.Type), fc.Options...)
		if fc.Required {
			f = f.Required()
		}
		if fc.Default != nil {
			f = f.Default(fc.Default)
		}
		set = append(set, f)
	}

	return set
}

type Config struct {
	Databases []DatabaseConfig `yaml:"databases"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}
