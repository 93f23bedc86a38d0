package exporter

// fieldRow Zielzeile jedes EKS-Feldes in der amtlichen Formularvorlage.
// Die Monatswerte beginnen in Spalte C und laufen maximal sechs Spalten.
var fieldRow = map[string]int{
	// Abschnitt A - Betriebseinnahmen
	"A1": 10,
	"A2": 11,
	"A3": 12,
	"A4": 13,
	"A5": 14,
	"A6": 15,
	"A7": 16,

	// Abschnitt B - Betriebsausgaben
	"B1":    22,
	"B2a":   24,
	"B2b":   25,
	"B2c":   26,
	"B2d":   27,
	"B3":    28,
	"B4":    29,
	"B5":    30,
	"B5_1a": 33,
	"B5_1b": 34,
	"B5_1c": 35,
	"B5_1d": 36,
	"B5_1x": 37,
	"B5_2":  38,
	"B6":    39,
	"B7a":   41,
	"B7b":   42,
	"B7c":   43,
	"B8":    47,
	"B9":    48,
	"B10":   50,
	"B11":   51,
	"B12":   52,
	"B13":   53,
	"B14":   54,
	"B14a":  55,
	"B14b":  56,
	"B14c":  57,
	"B14d":  58,
	"B14e":  59,
	"B14f":  60,
	"B14g":  61,
	"B14h":  62,
	"B14i":  63,
	"B15":   64,
	"B16":   65,
	"B17":   66,
	"B18":   67,
}

const (
	monthsStartCol = 3 // Spalte C
	maxExportCols  = 6 // Bewilligungszeitraum umfasst höchstens sechs Monate
)
