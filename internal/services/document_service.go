package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"storefront-service/internal/models"
)

// Document kinds accepted by BulkDocuments and the document endpoints.
const (
	DocumentInvoice       = "invoice"
	DocumentPackingSlip   = "packing-slip"
	DocumentShippingLabel = "shipping-label"
)

// DocumentService renders order paperwork: customer invoices, warehouse
// packing slips, shipping labels and spreadsheet exports for back-office
// reporting.
type DocumentService interface {
	Invoice(order *models.Order) ([]byte, error)
	PackingSlip(order *models.Order) ([]byte, error)
	ShippingLabel(order *models.Order) ([]byte, error)
	BulkDocuments(orders []models.Order, kind string) ([]byte, error)
	ExportOrders(orders []models.Order) ([]byte, error)
}

type documentService struct {
	storeName string
	logger    *logrus.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(storeName string, logger *logrus.Logger) DocumentService {
	if storeName == "" {
		storeName = "Storefront"
	}
	return &documentService{storeName: storeName, logger: logger}
}

func (s *documentService) newPDF() core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	return maroto.New(cfg)
}

// Invoice renders the customer-facing invoice PDF
func (s *documentService) Invoice(order *models.Order) ([]byte, error) {
	m := s.newPDF()
	s.invoiceBody(m, order)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *documentService) invoiceBody(m core.Maroto, order *models.Order) {
	m.AddRow(12,
		text.NewCol(8, s.storeName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "INVOICE", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(8, fmt.Sprintf("Order %s", order.OrderNumber), props.Text{Size: 10}),
		text.NewCol(4, order.CreatedAt.Format("02 Jan 2006"), props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(4, line.NewCol(12))

	if order.Customer != nil {
		m.AddRow(6, text.NewCol(12, "Billed to", props.Text{Size: 9, Style: fontstyle.Bold}))
		m.AddRow(5, text.NewCol(12,
			fmt.Sprintf("%s %s", order.Customer.FirstName, order.Customer.LastName),
			props.Text{Size: 9}))
		m.AddRow(5, text.NewCol(12, order.Customer.Email, props.Text{Size: 9}))
	}
	if order.Shipping != nil {
		m.AddRow(6, text.NewCol(12, "Ship to", props.Text{Size: 9, Style: fontstyle.Bold}))
		m.AddRow(5, text.NewCol(12, order.Shipping.Address, props.Text{Size: 9}))
	}

	m.AddRow(8, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(6, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center}),
		text.NewCol(2, "Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range order.Items {
		m.AddRow(6,
			text.NewCol(6, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Center}),
			text.NewCol(2, fmt.Sprintf("%.2f", item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", item.TotalPrice), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	s.amountRow(m, "Subtotal", order.Subtotal, false)
	if order.DiscountAmount > 0 {
		label := "Discount"
		if order.CouponCode != "" {
			label = fmt.Sprintf("Discount (%s)", order.CouponCode)
		}
		s.amountRow(m, label, -order.DiscountAmount, false)
	}
	s.amountRow(m, "Shipping", order.ShippingCost, false)
	s.amountRow(m, fmt.Sprintf("Total (%s)", order.Currency), order.Total, true)

	m.AddRow(8, text.NewCol(12,
		fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, order.PaymentStatus.DisplayName()),
		props.Text{Size: 9}))
}

func (s *documentService) amountRow(m core.Maroto, label string, amount float64, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRow(6,
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style, Align: align.Right}),
		text.NewCol(2, fmt.Sprintf("%.2f", amount), props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}

// PackingSlip renders the warehouse packing slip: items and destination, no
// prices.
func (s *documentService) PackingSlip(order *models.Order) ([]byte, error) {
	m := s.newPDF()
	s.packingSlipBody(m, order)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render packing slip: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *documentService) packingSlipBody(m core.Maroto, order *models.Order) {
	m.AddRow(12,
		text.NewCol(8, s.storeName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "PACKING SLIP", props.Text{Size: 13, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Order %s", order.OrderNumber), props.Text{Size: 10}))
	m.AddRow(4, line.NewCol(12))

	if order.Shipping != nil {
		m.AddRow(6, text.NewCol(12, "Deliver to", props.Text{Size: 9, Style: fontstyle.Bold}))
		if order.Customer != nil {
			m.AddRow(5, text.NewCol(12,
				fmt.Sprintf("%s %s  %s", order.Customer.FirstName, order.Customer.LastName, order.Customer.Phone),
				props.Text{Size: 9}))
		}
		m.AddRow(5, text.NewCol(12, order.Shipping.Address, props.Text{Size: 9}))
		if order.Shipping.AreaName != "" {
			m.AddRow(5, text.NewCol(12,
				fmt.Sprintf("%s, %s", order.Shipping.AreaName, order.Shipping.ZoneName),
				props.Text{Size: 9}))
		}
	}

	m.AddRow(8, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(9, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center}),
	)
	for _, item := range order.Items {
		name := item.ProductName
		if item.Variation != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Variation)
		}
		m.AddRow(6,
			text.NewCol(9, name, props.Text{Size: 9}),
			text.NewCol(3, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Center}),
		)
	}

	if order.PaymentStatus == models.PaymentStatusCOD {
		m.AddRow(10,
			text.NewCol(12, fmt.Sprintf("COLLECT ON DELIVERY: %.2f %s", order.Total, order.Currency),
				props.Text{Size: 11, Style: fontstyle.Bold}),
		)
	}
}

// ShippingLabel renders a courier-facing label: destination, order number and
// the amount to collect for COD parcels.
func (s *documentService) ShippingLabel(order *models.Order) ([]byte, error) {
	m := s.newPDF()
	s.shippingLabelBody(m, order)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render shipping label: %w", err)
	}
	return doc.GetBytes(), nil
}

func (s *documentService) shippingLabelBody(m core.Maroto, order *models.Order) {
	m.AddRow(14,
		text.NewCol(8, s.storeName, props.Text{Size: 14, Style: fontstyle.Bold}),
		text.NewCol(4, order.OrderNumber, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(7, text.NewCol(12, "SHIP TO", props.Text{Size: 10, Style: fontstyle.Bold}))
	if order.Customer != nil {
		m.AddRow(7, text.NewCol(12,
			fmt.Sprintf("%s %s", order.Customer.FirstName, order.Customer.LastName),
			props.Text{Size: 12, Style: fontstyle.Bold}))
		if order.Customer.Phone != "" {
			m.AddRow(6, text.NewCol(12, order.Customer.Phone, props.Text{Size: 10}))
		}
	}
	if order.Shipping != nil {
		m.AddRow(6, text.NewCol(12, order.Shipping.Address, props.Text{Size: 10}))
		if order.Shipping.City != "" {
			m.AddRow(6, text.NewCol(12, order.Shipping.City, props.Text{Size: 10}))
		}
		if order.Shipping.ZoneName != "" {
			m.AddRow(6, text.NewCol(12, order.Shipping.ZoneName, props.Text{Size: 10}))
		}
	}

	m.AddRow(4, line.NewCol(12))
	if order.PaymentStatus == models.PaymentStatusCOD {
		m.AddRow(12,
			text.NewCol(12, fmt.Sprintf("COD - COLLECT %.2f %s", order.Total, order.Currency),
				props.Text{Size: 13, Style: fontstyle.Bold}),
		)
	} else {
		m.AddRow(10, text.NewCol(12, "PREPAID", props.Text{Size: 12, Style: fontstyle.Bold}))
	}
	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("%d item(s)", len(order.Items)), props.Text{Size: 9}))
}

// BulkDocuments renders one document per order into a single PDF, in the
// order the ids were given.
func (s *documentService) BulkDocuments(orders []models.Order, kind string) ([]byte, error) {
	m := s.newPDF()

	for i := range orders {
		if i > 0 {
			m.AddRow(8, line.NewCol(12))
		}
		order := &orders[i]
		switch kind {
		case DocumentInvoice:
			s.invoiceBody(m, order)
		case DocumentPackingSlip:
			s.packingSlipBody(m, order)
		case DocumentShippingLabel:
			s.shippingLabelBody(m, order)
		default:
			return nil, fmt.Errorf("unknown document kind %q", kind)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s batch: %w", kind, err)
	}
	s.logger.WithFields(logrus.Fields{"kind": kind, "orders": len(orders)}).Info("Bulk documents generated")
	return doc.GetBytes(), nil
}

// ExportOrders writes orders to an xlsx workbook for back-office reporting
func (s *documentService) ExportOrders(orders []models.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Order Number", "Date", "Customer", "Email", "Status", "Payment Status",
		"Payment Method", "Coupon", "Subtotal", "Discount", "Shipping", "Total", "Currency",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, order := range orders {
		customerName, email := "", ""
		if order.Customer != nil {
			customerName = fmt.Sprintf("%s %s", order.Customer.FirstName, order.Customer.LastName)
			email = order.Customer.Email
		}
		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format(time.RFC3339),
			customerName,
			email,
			string(models.NormalizeOrderStatus(order.Status)),
			string(order.PaymentStatus),
			string(order.PaymentMethod),
			order.CouponCode,
			order.Subtotal,
			order.DiscountAmount,
			order.ShippingCost,
			order.Total,
			order.Currency,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	s.logger.WithField("orders", len(orders)).Info("Order export generated")
	return buf.Bytes(), nil
}
