package targets

import (
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
)

// fieldRow is the on-disk shape of one target field. Unknown keys are ignored.
type fieldRow struct {
	Handle      string  `json:"fieldHandle"                yaml:"fieldHandle"`
	Label       string  `json:"fieldLabel"                 yaml:"fieldLabel"`
	Type        string  `json:"fieldType"                  yaml:"fieldType"`
	Description *string `json:"fieldDescription,omitempty" yaml:"fieldDescription,omitempty"`
}

func (r fieldRow) toDomain() (field.Field, error) {
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}
	return field.New(r.Handle, r.Label, r.Type, desc) //nolint:wrapcheck // caller annotates with index
}

func rowFromDomain(f field.Field) fieldRow {
	row := fieldRow{Handle: f.Handle(), Label: f.Label(), Type: f.Type()}
	if d, ok := f.Description(); ok {
		row.Description = &d
	}
	return row
}
