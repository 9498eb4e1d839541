package cli

import "flag"

// RunFlags are the flags of the batch reconcile command.
type RunFlags struct {
	ConfigFile string

	BankPath    string
	InvoicePath string
	VendorPath  string

	WindowDays    int
	Tolerance     float64
	TrimToOverlap bool

	CatalogPath string
	OutputPath  string

	UseAI       bool
	MaxAIClaims int

	Verbose bool
}

// ParseRunFlags parses the reconcile command line.
func ParseRunFlags() RunFlags {
	var flags RunFlags
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.BankPath, "extracto", "", "Bank statement file (CSV/XLSX)")
	flag.StringVar(&flags.InvoicePath, "facturas", "", "Invoice ledger file (CSV/XLSX)")
	flag.StringVar(&flags.VendorPath, "proveedores", "", "Vendor directory file (optional)")
	flag.IntVar(&flags.WindowDays, "ventana", 5, "Date window for matching (± days)")
	flag.Float64Var(&flags.Tolerance, "tolerancia", 0, "Amount tolerance (e.g. 0.01)")
	flag.BoolVar(&flags.TrimToOverlap, "solape", false, "Limit matching to the overlapping date range")
	flag.StringVar(&flags.CatalogPath, "catalogo", "", "Catalog path (overrides config)")
	flag.StringVar(&flags.OutputPath, "out", "", "Write claims report XLSX to this path")
	flag.BoolVar(&flags.UseAI, "ia", false, "Classify pending claims with AI")
	flag.IntVar(&flags.MaxAIClaims, "ia-max", 50, "Maximum claims to classify with AI")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
