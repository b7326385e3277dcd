package entity

import "time"

// TreatmentEvent es un evento de fumigación/tratamiento suministrado por el
// subsistema externo de servicios, referido a un lote. Solo lectura: se
// mezcla en el historial unificado, nunca se persiste aquí.
type TreatmentEvent struct {
	ID       string
	BatchID  string
	Product  string // producto fumigante aplicado
	Dose     string
	Operator string
	Notes    string
	Date     time.Time
}
