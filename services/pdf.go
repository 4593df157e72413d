package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFData is everything the itinerary PDF needs.
type PDFData struct {
	Destination     string
	StartDate       string
	EndDate         string
	Budget          float64
	TravelStyle     string
	Itinerary       []Day
	Location        *Location
	TotalCarbonKg   float64
	TotalCost       float64
	GreenScore      int
	CarbonBreakdown Breakdown
}

// GeneratePDFBytes renders a trip itinerary as a PDF and returns raw bytes
// (stored in PostgreSQL, no filesystem needed).
func GeneratePDFBytes(data PDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(16, 63, 40) // deep green
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "GreenTrip", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(163, 217, 165)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Sustainable Travel Itinerary", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Section Helpers ──────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(16, 63, 40)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Destination", data.Destination)
	if data.Location != nil && data.Location.FormattedAddress != data.Destination {
		row("Location", data.Location.FormattedAddress)
	}
	row("Dates", fmt.Sprintf("%s - %s", fmtDateReadable(data.StartDate), fmtDateReadable(data.EndDate)))
	row("Travel style", data.TravelStyle)
	row("Budget", fmt.Sprintf("$%.0f", data.Budget))
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Sustainability ────────────────────────────────────────
	sectionHeader("Sustainability")
	row("Green score", fmt.Sprintf("%d / 100 (%s)", data.GreenScore, ScoreBand(data.GreenScore)))
	row("Total carbon", fmt.Sprintf("%.2f kg CO2", data.TotalCarbonKg))
	row("Transport", fmt.Sprintf("%.2f kg", data.CarbonBreakdown.Transport))
	row("Accommodation", fmt.Sprintf("%.2f kg", data.CarbonBreakdown.Accommodation))
	row("Activities", fmt.Sprintf("%.2f kg", data.CarbonBreakdown.Activities))
	pdf.Ln(4)

	// ── Day-by-day ────────────────────────────────────────────
	for _, day := range data.Itinerary {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}

		title := fmt.Sprintf("Day %d - %s", day.Day, fmtDateReadable(day.Date))
		if day.Theme != "" {
			title += " - " + day.Theme
		}
		sectionHeader(title)

		for _, act := range day.Activities {
			if pdf.GetY() > 265 {
				pdf.AddPage()
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.CellFormat(20, 6, act.Time, "", 0, "L", false, 0, "")
			pdf.CellFormat(150, 6, act.Title, "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(100, 100, 100)
			detail := fmt.Sprintf("%.1fh · $%.0f · %.1f kg CO2", act.DurationHours, act.EstimatedCost, act.CarbonKg)
			if act.TransportMode != "" {
				detail += " · by " + act.TransportMode
			}
			pdf.SetX(40)
			pdf.CellFormat(150, 5, detail, "", 1, "L", false, 0, "")

			if act.EcoAlternative != "" {
				pdf.SetTextColor(16, 100, 50)
				pdf.SetX(40)
				pdf.MultiCell(150, 4.5, "Eco tip: "+act.EcoAlternative, "", "L", false)
			}
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	// ── Cost ──────────────────────────────────────────────────
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}
	pdf.SetFillColor(163, 217, 165)
	pdf.SetTextColor(16, 63, 40)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "ESTIMATED TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.2f", data.TotalCost), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// ── Footer ────────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by GreenTrip · Costs and emissions are estimates · Travel light, travel green",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func fmtDateReadable(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}
