package report

import (
	"bytes"
	"fmt"
	"strings"

	"kigalimove/models"

	"github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"
)

const qrSize = 256

var orderHeaders = []string{
	"Order ID", "Customer", "Phone", "Pickup", "Delivery", "Services",
	"Distance (km)", "Total (RWF)", "Status", "Created",
}

var commissionHeaders = []string{
	"Commission ID", "Agent", "Order ID", "Service", "Amount (RWF)", "Status", "Created", "Approved",
}

// newWorkbook creates a single-sheet workbook with headers in row 1.
func newWorkbook(sheetName string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", last, style)
	}
	return f, nil
}

// ServiceSummary describes the requested services of an order in one cell.
func ServiceSummary(s models.Services) string {
	parts := make([]string, 0, 4)
	for _, kind := range s.Requested() {
		if kind == models.ServiceHelpers {
			parts = append(parts, fmt.Sprintf("helpers x%d", s.Helpers))
			continue
		}
		parts = append(parts, string(kind))
	}
	return strings.Join(parts, ", ")
}

// OrdersWorkbook renders orders as an XLSX sheet followed by a totals row.
func OrdersWorkbook(orders []models.Order) (*bytes.Buffer, error) {
	const sheetName = "Orders"
	f, err := newWorkbook(sheetName, orderHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var total int64
	rowIndex := 2
	for _, o := range orders {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), o.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), o.CustomerName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), o.PhoneNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), o.PickupAddress)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), o.DeliveryAddress)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), ServiceSummary(o.Services))
		if o.Distance != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), *o.Distance)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), o.TotalCost)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowIndex), string(o.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowIndex), o.CreatedAt.Format("2006-01-02 15:04"))
		total += o.TotalCost
		rowIndex++
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), total)

	return f.WriteToBuffer()
}

// CommissionsWorkbook renders agent commissions as an XLSX sheet.
func CommissionsWorkbook(commissions []models.AgentCommission) (*bytes.Buffer, error) {
	const sheetName = "Commissions"
	f, err := newWorkbook(sheetName, commissionHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var total int64
	rowIndex := 2
	for _, c := range commissions {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), c.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), c.AgentID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), c.OrderID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), c.ServiceType)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), c.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), string(c.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), c.CreatedAt.Format("2006-01-02 15:04"))
		if c.ApprovedAt != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), c.ApprovedAt.Format("2006-01-02 15:04"))
		}
		total += c.Amount
		rowIndex++
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), total)

	return f.WriteToBuffer()
}

// TrackingURL is the public tracking page of an order.
func TrackingURL(baseURL, orderID string) string {
	return strings.TrimRight(baseURL, "/") + "/track/" + orderID
}

// TrackingQR encodes the tracking URL of an order as a PNG QR code.
func TrackingQR(baseURL, orderID string) ([]byte, error) {
	return qrcode.Encode(TrackingURL(baseURL, orderID), qrcode.Medium, qrSize)
}
