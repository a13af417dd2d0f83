package versefetch

// Format identifies an output serialization. The set is closed: a store is
// constructed for exactly one of these.
type Format string

// Supported output formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatText:
		return Format(s), nil
	}
	return "", Errorf(EINVALID, "unknown output format %q (want json, csv, or txt)", s)
}

// Ext returns the filename extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}
