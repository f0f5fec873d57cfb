// Package extract pulls typed fields out of classified document text.
//
// Every extractor is a total function: a field that cannot be found is left
// nil and never reported as an error.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/IbrahimShadi/pdf-analyzer/constants"
)

// Fields is the record produced for one document type.
type Fields interface {
	DocType() constants.DocType
}

type InvoiceFields struct {
	InvoiceNumber *string          `json:"invoice_number"`
	CustomerName  *string          `json:"customer_name"`
	InvoiceDate   *string          `json:"invoice_date"`
	TotalValue    *decimal.Decimal `json:"total_value"`
	Currency      *string          `json:"currency"`
}

func (InvoiceFields) DocType() constants.DocType { return constants.Invoice }

type TicketFields struct {
	PNR           *string `json:"pnr"`
	TicketNumber  *string `json:"ticket_number"`
	FlightNumber  *string `json:"flight_number"`
	PassengerName *string `json:"passenger_name"`
	DepartureDate *string `json:"departure_date"`
	DepartureTime *string `json:"departure_time"`
	ArrivalTime   *string `json:"arrival_time"`
	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	BookingClass  *string `json:"booking_class"`
	Status        *string `json:"status"`
	Carrier       *string `json:"carrier"`
}

func (TicketFields) DocType() constants.DocType { return constants.FlightTicket }

type PassportFields struct {
	Surname      *string `json:"surname"`
	GivenNames   *string `json:"given_names"`
	Nationality  *string `json:"nationality"`
	DateOfExpiry *string `json:"date_of_expiry"`
}

func (PassportFields) DocType() constants.DocType { return constants.Passport }

// For runs the extractor registered for doc. It returns nil for classes that
// have no extractor.
func For(doc constants.DocType, text string) Fields {
	switch doc {
	case constants.Invoice:
		return Invoice(text)
	case constants.FlightTicket:
		return Ticket(text)
	case constants.Passport:
		return Passport(text)
	default:
		return nil
	}
}

// ToMap flattens a record to its JSON field names. Absent fields map to nil.
func ToMap(f Fields) map[string]any {
	if f == nil {
		return nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// Decode rebuilds the record type for doc from its JSON form. Empty data or
// JSON null yields nil.
func Decode(doc constants.DocType, data []byte) (Fields, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var f Fields
	switch doc {
	case constants.Invoice:
		f = &InvoiceFields{}
	case constants.FlightTicket:
		f = &TicketFields{}
	case constants.Passport:
		f = &PassportFields{}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decode %s fields: %w", doc, err)
	}
	return f, nil
}

func ptr(s string) *string { return &s }
