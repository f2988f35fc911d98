// Package offer 录用通知书生成
//
// Generator 负责排版（PDF + 职位详情二维码），Service 负责权限与状态校验。
package offer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// Letter 通知书内容
type Letter struct {
	ApplicantName  string
	JobTitle       string
	Location       string
	EmploymentType string
	IssuedAt       time.Time
	JobURL         string // 二维码内容
}

// Generator PDF 生成器
type Generator struct {
	// Compress 是否压缩页面内容流，关闭后文本可直接在 PDF 字节中检索
	Compress bool
}

const (
	pageWidth = 210.0 // A4, mm
	qrSize    = 35.0
	qrImage   = "job-qr"
)

// Render 将通知书写入 w
func (g Generator) Render(w io.Writer, l Letter) error {
	png, err := qrcode.Encode(l.JobURL, qrcode.Medium, 256)
	if err != nil {
		return errors.Wrap(err, "encode qr code")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.Compress)
	pdf.SetTitle("Offer Letter", false)
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 25)
	pdf.CellFormat(0, 14, "Offer Letter", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "Date: "+l.IssuedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Dear %s,", l.ApplicantName)), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.MultiCell(0, 8, tr(fmt.Sprintf("We are pleased to offer you the position of %s at our company.", l.JobTitle)), "", "L", false)
	pdf.CellFormat(0, 8, tr("Location: "+l.Location), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr("Employment Type: "+l.EmploymentType), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(0, 8, "Congratulations!", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(qrImage, opts, bytes.NewReader(png))
	y := pdf.GetY()
	pdf.ImageOptions(qrImage, (pageWidth-qrSize)/2, y, qrSize, qrSize, false, opts, 0, "")
	pdf.SetY(y + qrSize + 3)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Scan QR code to view job details", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render pdf")
	}
	return nil
}
