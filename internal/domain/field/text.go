package field

import "strings"

// Delimiter separates labeled segments in the projected text.
const Delimiter = " | "

// Segment tags, in projection order.
const (
	TagHandle      = "Handle: "
	TagLabel       = "Label: "
	TagType        = "Type: "
	TagDescription = "Description: "
)

// Text projects a Field into the single-line descriptive string that gets embedded,
// e.g. "Handle: sku | Label: Product SKU | Type: string".
// The description segment is omitted when the field has none.
func Text(f Field) string {
	var b strings.Builder
	b.WriteString(TagHandle)
	b.WriteString(f.handle)
	b.WriteString(Delimiter)
	b.WriteString(TagLabel)
	b.WriteString(f.label)
	b.WriteString(Delimiter)
	b.WriteString(TagType)
	b.WriteString(f.fieldType)
	if d, ok := f.Description(); ok {
		b.WriteString(Delimiter)
		b.WriteString(TagDescription)
		b.WriteString(d)
	}
	return b.String()
}

// Texts projects every field, preserving order.
func Texts(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = Text(f)
	}
	return out
}
