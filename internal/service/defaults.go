package service

import "os"

// OrderDefaults pre-fills the boilerplate header fields of generated payment
// orders. The foundation's administrative office rarely changes these, so they
// come from the environment with the office's current values as fallback.
type OrderDefaults struct {
	Para            string
	CargoPara       string
	Proyecto        string
	PartidaContable string
	ConFactura      string
	Efectivo        string
}

func LoadOrderDefaults() OrderDefaults {
	return OrderDefaults{
		Para:            envOr("OP_DEFAULT_PARA", "Maria Teresa Vargas"),
		CargoPara:       envOr("OP_DEFAULT_CARGO_PARA", "Directora Ejecutiva"),
		Proyecto:        envOr("OP_DEFAULT_PROYECTO", "Uso Contable"),
		PartidaContable: envOr("OP_DEFAULT_PARTIDA", "Uso Contable"),
		ConFactura:      envOr("OP_DEFAULT_CON_FACTURA", "Si"),
		Efectivo:        envOr("OP_DEFAULT_EFECTIVO", "No"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
