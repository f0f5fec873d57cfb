package extract

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
)

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestInvoiceFields(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		number   string
		customer string
		date     string
		total    string
		currency string
	}{
		{
			name:     "euro amount due",
			text:     "Invoice No: INV-12345\nBill To: ACME GmbH\nAmount Due: € 1.234,56\n",
			number:   "INV-12345",
			customer: "ACME GmbH",
			date:     "<nil>",
			total:    "1234.56",
			currency: "EUR",
		},
		{
			name:     "multi line customer block",
			text:     "Invoice Number: INV-789\nBill To:\nMega Corp GmbH\nSome Street 1\n12345 City\nInvoice Date: 12/08/2025\nGrand Total: € 2.345,67\n",
			number:   "INV-789",
			customer: "Mega Corp GmbH",
			date:     "2025-08-12",
			total:    "2345.67",
			currency: "EUR",
		},
		{
			name:     "iso code after amount",
			text:     "INVOICE # 2024-0042\nCustomer: Blue Sky Travel LLC\nDate: 2024-03-05\nSubtotal 900.00\nTotal 1,080.00 USD\n",
			number:   "2024-0042",
			customer: "Blue Sky Travel LLC",
			date:     "2024-03-05",
			total:    "1080",
			currency: "USD",
		},
		{
			name:     "mislabeled customer falls back to name",
			text:     "Invoice INV-77\nName: Tarek Sherif\nTotal: 150\n",
			number:   "INV-77",
			customer: "Tarek Sherif",
			date:     "<nil>",
			total:    "150",
			currency: "<nil>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Invoice(tt.text)
			if deref(got.InvoiceNumber) != tt.number {
				t.Errorf("InvoiceNumber = %s, want %s", deref(got.InvoiceNumber), tt.number)
			}
			if deref(got.CustomerName) != tt.customer {
				t.Errorf("CustomerName = %s, want %s", deref(got.CustomerName), tt.customer)
			}
			if deref(got.InvoiceDate) != tt.date {
				t.Errorf("InvoiceDate = %s, want %s", deref(got.InvoiceDate), tt.date)
			}
			if got.TotalValue == nil || !got.TotalValue.Equal(decimal.RequireFromString(tt.total)) {
				t.Errorf("TotalValue = %v, want %s", got.TotalValue, tt.total)
			}
			if deref(got.Currency) != tt.currency {
				t.Errorf("Currency = %s, want %s", deref(got.Currency), tt.currency)
			}
		})
	}
}

func TestInvoiceTotalAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"count before amount", "Total: 3 100.00", "100.00"},
		{"space thousands with decimal comma", "Total: 1 234,56 EUR", "1234.56"},
		{"percentage after amount", "Total 100.00 incl. 19% VAT", "100.00"},
		{"integer only", "Total: 3 100", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Invoice(tt.text)
			if got.TotalValue == nil || !got.TotalValue.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("TotalValue = %v, want %s", got.TotalValue, tt.want)
			}
		})
	}
}

func TestInvoiceEmptyText(t *testing.T) {
	got := Invoice("")
	if got.InvoiceNumber != nil || got.CustomerName != nil || got.InvoiceDate != nil || got.TotalValue != nil || got.Currency != nil {
		t.Fatalf("expected all fields absent, got %+v", got)
	}
}

func TestForDispatch(t *testing.T) {
	if f := For(constants.Other, "anything"); f != nil {
		t.Errorf("For(other) = %v, want nil", f)
	}
	f := For(constants.Invoice, "Invoice No: INV-12345\n")
	if f == nil || f.DocType() != constants.Invoice {
		t.Fatalf("For(invoice) = %#v", f)
	}
	m := ToMap(f)
	if m["invoice_number"] != "INV-12345" {
		t.Errorf("invoice_number = %v", m["invoice_number"])
	}
	if v, ok := m["total_value"]; !ok || v != nil {
		t.Errorf("total_value = %v, %v; want present and nil", v, ok)
	}
}
