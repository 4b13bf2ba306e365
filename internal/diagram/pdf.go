package diagram

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Page size of the PDF rendering, in millimetres
const (
	pageWidth  = 127.0
	pageHeight = 56.0
	pdfRadius  = 7.3
)

// WritePDF renders the diagram as a single-page PDF
func (d Diagram) WritePDF(w io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("%s %s-%s", d.Title, d.From.Label, d.To.Label), true)
	pdf.AddPage()

	pdf.SetFillColor(int(backgroundColor.R), int(backgroundColor.G), int(backgroundColor.B))
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(int(textColor.R), int(textColor.G), int(textColor.B))
	pdf.SetXY(0, 3)
	pdf.CellFormat(pageWidth, 8, d.Title, "", 0, "C", false, 0, "")

	x1, y1 := d.From.X*pageWidth, d.From.Y*pageHeight
	x2, y2 := d.To.X*pageWidth, d.To.Y*pageHeight
	start := x1 + pdfRadius + 1.5
	tip := x2 - pdfRadius - 1.5

	pdf.SetDrawColor(int(nodeColor.R), int(nodeColor.G), int(nodeColor.B))
	pdf.SetFillColor(int(nodeColor.R), int(nodeColor.G), int(nodeColor.B))
	pdf.SetLineWidth(1.0)
	pdf.Line(start, y1, tip-4, y2)
	pdf.Polygon([]gofpdf.PointType{
		{X: tip - 4, Y: y2 - 1.9},
		{X: tip, Y: y2},
		{X: tip - 4, Y: y2 + 1.9},
	}, "F")

	pdf.Circle(x1, y1, pdfRadius, "F")
	pdf.Circle(x2, y2, pdfRadius, "F")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(int(nodeLabelColor.R), int(nodeLabelColor.G), int(nodeLabelColor.B))
	pdf.SetXY(x1-pdfRadius, y1-3)
	pdf.CellFormat(2*pdfRadius, 6, d.From.Label, "", 0, "C", false, 0, "")
	pdf.SetXY(x2-pdfRadius, y2-3)
	pdf.CellFormat(2*pdfRadius, 6, d.To.Label, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(int(textColor.R), int(textColor.G), int(textColor.B))
	pdf.SetFillColor(int(backgroundColor.R), int(backgroundColor.G), int(backgroundColor.B))
	pdf.SetXY((x1+x2)/2-12, (y1+y2)/2-3.5)
	pdf.CellFormat(24, 7, d.EdgeLabel(), "", 0, "C", true, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write route diagram PDF: %w", err)
	}
	return nil
}
