package htmlparse

// entities is the fixed ampersand-escape table §4.4 names: a closed set
// of 14 named entities, matched case-insensitively, each substituted for
// a short literal replacement. Anything not in this table is emitted
// verbatim (raw "&name;" sequence), per the malformed-input tolerance
// policy in §7.
var entities = map[string]string{
	"quot":  "\"",
	"amp":   "&",
	"lt":    "<",
	"gt":    ">",
	"nbsp":  " ",
	"pound": "£",
	"brvbar": "¦",
	"uml":   "\"",
	"not":   "¬",
	"cent":  "c",
	"copy":  "(C)",
	"reg":   "(R)",
	"laquo": "<<",
	"raquo": ">>",
}
