package model

import "strings"

// Month Monatskennung aus der BWA-Kopfzeile (deutsche Kurzform)
type Month string

const (
	Jan Month = "JAN"
	Feb Month = "FEB"
	Mrz Month = "MRZ"
	Apr Month = "APR"
	Mai Month = "MAI"
	Jun Month = "JUN"
	Jul Month = "JUL"
	Aug Month = "AUG"
	Sep Month = "SEP"
	Okt Month = "OKT"
	Nov Month = "NOV"
	Dez Month = "DEZ"
)

// MonthOrder Kalenderreihenfolge der zwölf Kennungen.
// Die Reihenfolge ist tragend für die Zeitraumauflösung und darf nicht
// umsortiert oder als Menge behandelt werden.
var MonthOrder = []Month{Jan, Feb, Mrz, Apr, Mai, Jun, Jul, Aug, Sep, Okt, Nov, Dez}

// monthNumbers Kennung → Monatszahl für Datumsangaben im Export
var monthNumbers = map[Month]string{
	Jan: "01", Feb: "02", Mrz: "03", Apr: "04",
	Mai: "05", Jun: "06", Jul: "07", Aug: "08",
	Sep: "09", Okt: "10", Nov: "11", Dez: "12",
}

// MonthIndex Position einer Kennung in der Kalenderreihenfolge, -1 wenn unbekannt
func MonthIndex(m Month) int {
	for i, v := range MonthOrder {
		if v == m {
			return i
		}
	}
	return -1
}

// ParseMonth normalisiert einen Zellwert (Trim, Großschreibung) auf eine Monatskennung
func ParseMonth(s string) (Month, bool) {
	m := Month(strings.ToUpper(strings.TrimSpace(s)))
	if MonthIndex(m) >= 0 {
		return m, true
	}
	return "", false
}

// MonthNumber zweistellige Monatszahl ("01".."12"), leer wenn unbekannt
func MonthNumber(m Month) string {
	return monthNumbers[m]
}
