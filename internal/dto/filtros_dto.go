package dto

// ProductoFilter drives product listing.
// Activo: "false" = inactivos, "all" = todos, anything else = activos.
type ProductoFilter struct {
	Activo    string `form:"activo"`
	Categoria string `form:"categoria"`
	Buscar    string `form:"buscar"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=50"`
}

// VentaFilter drives sale listing. Fecha wins over Desde/Hasta when both
// are present.
type VentaFilter struct {
	Fecha    string `form:"fecha"` // YYYY-MM-DD
	Desde    string `form:"desde"`
	Hasta    string `form:"hasta"`
	Cliente  string `form:"cliente"`
	Vendedor string `form:"vendedor"`
	Anuladas string `form:"anuladas"` // "true" = solo anuladas, "all" = todas, default activas
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=50"`
}
