// Package classifier assigns a probable-cause category to a bank movement
// based on its free-text description.
//
// The classifier is a fixed ordered table of keyword groups; the first group
// with a keyword occurring as a substring of the uppercased description wins.
// Group order matters: bank fees are recognized before taxes, taxes before
// payroll, payroll before known vendors.
package classifier

import "strings"

// The closed category label set shared with the catalog and the AI collaborator.
const (
	CategoryBankFee         = "comision_bancaria"
	CategoryTax             = "impuesto_o_tasa"
	CategoryPayroll         = "nomina_o_seg_social"
	CategorySupplierInvoice = "factura_proveedor"
	CategoryOther           = "otro"
)

// Categories lists every valid label, in rule-evaluation order plus the default.
func Categories() []string {
	return []string{
		CategoryBankFee,
		CategoryTax,
		CategoryPayroll,
		CategorySupplierInvoice,
		CategoryOther,
	}
}

// IsValidCategory reports whether a label belongs to the closed set.
func IsValidCategory(label string) bool {
	for _, c := range Categories() {
		if c == label {
			return true
		}
	}
	return false
}

type keywordGroup struct {
	category string
	keywords []string
}

// ruleGroups is evaluated top to bottom, first match wins.
var ruleGroups = []keywordGroup{
	{
		category: CategoryBankFee,
		keywords: []string{
			"COMISION", "COMISIÓN", "GASTOS", "GASTO", "INTERES", "INTERÉS",
			"MANTENIMIENTO", "TPV", "LIQUIDACION", "LIQUIDACIÓN", "CUOTA",
			"SERVICIO CORRESPONDENCIA", "COMISIONES",
		},
	},
	{
		category: CategoryTax,
		keywords: []string{
			"AEAT", "AGENCIA TRIBUTARIA", "HACIENDA", "IMPUESTO", "IVA", "ITP", "TASA",
		},
	},
	{
		category: CategoryPayroll,
		keywords: []string{
			"SEGURIDAD SOCIAL", "SS", "NOMINA", "NÓMINA", "SALARIO", "SUELDO",
		},
	},
	{
		category: CategorySupplierInvoice,
		keywords: []string{
			"ENDESA", "IBERDROLA", "VODAFONE", "MOVISTAR", "ORANGE", "AGUA",
			"SUMINISTRO", "ALQUILER", "RESTAURANTE", "BAR ", "CAFETERIA",
			"CAFETERÍA", "AMAZON", "CORREOS",
		},
	},
}

// Classify maps a movement description to a category label. Pure and
// deterministic; unknown descriptions fall through to CategoryOther.
func Classify(description string) string {
	c := strings.ToUpper(description)
	for _, group := range ruleGroups {
		for _, kw := range group.keywords {
			if strings.Contains(c, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}
