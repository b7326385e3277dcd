package grain

import "github.com/shopspring/decimal"

// Unidades admitidas por lote. La unidad se guarda por registro y nunca se
// normaliza al escribir; la conversión ocurre solo al agregar por silo.
const (
	UnitKg     = "kg"
	UnitTonnes = "t"
)

// Epsilon umbral bajo el cual un cambio de cantidad se considera sin efecto
// y no genera asiento en el libro de correcciones.
var Epsilon = decimal.New(1, -9) // 1e-9

var thousand = decimal.NewFromInt(1000)

// ValidUnit indica si la unidad es una de las admitidas.
func ValidUnit(unit string) bool {
	return unit == UnitKg || unit == UnitTonnes
}

// ToTonnes convierte una cantidad a toneladas según su unidad.
// kg se divide entre 1000; toneladas pasan sin cambio.
func ToTonnes(quantity decimal.Decimal, unit string) decimal.Decimal {
	if unit == UnitKg {
		return quantity.Div(thousand)
	}
	return quantity
}

// Negligible indica si la diferencia entre dos cantidades está dentro del
// epsilon (escritura sin efecto).
func Negligible(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}
