package infra

// Sales-extract PDF generation using go-pdf/fpdf.
// Renders an A4 landscape table: one row per sale, totals footer.
// The output file is saved to storagePath/extracto_{desde}_{hasta}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chocoartesanto/backend-inventory/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateExtractoPDF renders the extract to disk and returns the absolute
// path of the generated file.
func GenerateExtractoPDF(extracto *dto.ExtractoResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("extracto_%s_%s.pdf", extracto.Desde, extracto.Hasta)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "ChocoArtesanto", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6,
		fmt.Sprintf("Extracto de ventas: %s a %s", extracto.Desde, extracto.Hasta),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	colFactura := contentW * 0.14
	colFecha := contentW * 0.11
	colHora := colFecha * 0.8
	colCliente := contentW * 0.24
	colVendedor := contentW * 0.14
	colMetodo := contentW * 0.12
	colTotal := contentW * 0.12
	colEstado := contentW - colFactura - colFecha - colHora - colCliente - colVendedor - colMetodo - colTotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colFactura, 6, "Factura", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colFecha, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colHora, 6, "Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCliente, 6, "Cliente", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colVendedor, 6, "Vendedor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMetodo, 6, "Pago", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colTotal, 6, "Total", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colEstado, 6, "Estado", "B", 1, "C", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, linea := range extracto.Lineas {
		cliente := linea.Cliente
		if len(cliente) > 28 {
			cliente = cliente[:27] + "…"
		}
		estado := ""
		if linea.Anulada {
			estado = "ANULADA"
		}
		pdf.CellFormat(colFactura, 5, linea.NumeroFactura, "", 0, "L", false, 0, "")
		pdf.CellFormat(colFecha, 5, linea.Fecha, "", 0, "L", false, 0, "")
		pdf.CellFormat(colHora, 5, linea.Hora, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCliente, 5, cliente, "", 0, "L", false, 0, "")
		pdf.CellFormat(colVendedor, 5, linea.Vendedor, "", 0, "L", false, 0, "")
		pdf.CellFormat(colMetodo, 5, linea.MetodoPago, "", 0, "L", false, 0, "")
		pdf.CellFormat(colTotal, 5, "$"+linea.MontoTotal.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colEstado, 5, estado, "", 1, "C", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6,
		fmt.Sprintf("Ventas: %d    Anuladas: %d    Total: $%s",
			extracto.TotalVentas, extracto.TotalAnuladas, extracto.MontoTotal.StringFixed(2)),
		"", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
