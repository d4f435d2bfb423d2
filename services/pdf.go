package services

import (
	"bytes"
	"fmt"
	"strings"

	"CareBridge/models"

	"github.com/jung-kurt/gofpdf"
)

// PrescriptionDocument bundles everything the rendered document shows.
type PrescriptionDocument struct {
	Prescription models.Prescription
	Consultation models.Consultation
	Doctor       models.Doctor
	Patient      models.Patient
}

type DocumentRenderer interface {
	RenderPrescription(doc PrescriptionDocument) ([]byte, error)
}

// PDFRenderer lays out a prescription as a single A4 page.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) RenderPrescription(doc PrescriptionDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Prescription")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Date: "+doc.Prescription.CreatedAt.Format("02 Jan 2006"))
	pdf.Ln(10)

	r.section(pdf, "Doctor")
	r.line(pdf, "Name", doc.Doctor.Name)
	r.line(pdf, "Specialty", doc.Doctor.Specialty)
	r.line(pdf, "Experience", fmt.Sprintf("%d years", doc.Doctor.YearsOfExperience))
	r.line(pdf, "Phone", doc.Doctor.PhoneNumber)
	pdf.Ln(4)

	r.section(pdf, "Patient")
	r.line(pdf, "Name", doc.Patient.Name)
	r.line(pdf, "Age", fmt.Sprintf("%d", doc.Patient.Age))
	r.line(pdf, "Phone", doc.Patient.PhoneNumber)
	r.line(pdf, "Surgery history", orDash(strings.Join(doc.Patient.HistoryOfSurgery, ", ")))
	r.line(pdf, "Illness history", orDash(strings.Join(doc.Patient.HistoryOfIllness, ", ")))
	pdf.Ln(4)

	r.section(pdf, "Consultation")
	r.line(pdf, "Current illness", doc.Consultation.CurrentIllnessHistory)
	r.line(pdf, "Recent surgery", orDash(doc.Consultation.RecentSurgery.Surgery))
	r.line(pdf, "Diabetic", orDash(doc.Consultation.FamilyMedicalHistory.Diabetics))
	r.line(pdf, "Allergies", orDash(doc.Consultation.FamilyMedicalHistory.Allergies))
	pdf.Ln(4)

	r.section(pdf, "Care to be taken")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, doc.Prescription.CareToBeTaken, "", "L", false)
	pdf.Ln(4)

	if len(doc.Prescription.Medicines) > 0 {
		r.section(pdf, "Medicines")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, "Medicine", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Dosage", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Frequency", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Duration", "1", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, m := range doc.Prescription.Medicines {
			pdf.CellFormat(60, 7, m.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, orDash(m.Dosage), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, orDash(m.Frequency), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, orDash(m.Duration), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Dr. "+doc.Doctor.Name)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func (r *PDFRenderer) line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(40, 6, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
