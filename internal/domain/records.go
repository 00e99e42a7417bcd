package domain

// Record is the canonical structured form of one recognized document.
// The concrete type is always one of Quotation, Invoice, QualityInspection,
// ProductionOrder or RnDFormulation.
type Record interface {
	Kind() DocumentKind
	record()
}

// Quotation is a customer price offer.
type Quotation struct {
	QuoteID        string          `json:"quoteId"`
	Customer       string          `json:"customer"`
	GrandTotal     float64         `json:"grandTotal"`
	Date           *string         `json:"date,omitempty"`
	ValidUntil     *string         `json:"validUntil,omitempty"`
	RequestID      *string         `json:"requestId,omitempty"`
	Product        *string         `json:"product,omitempty"`
	Quantity       *int64          `json:"quantity,omitempty"`
	UnitPrice      *float64        `json:"unitPrice,omitempty"`
	LeadTime       *int64          `json:"leadTime,omitempty"`
	WinProbability *WinProbability `json:"winProbability,omitempty"`
}

// Invoice is a bill issued to a customer.
type Invoice struct {
	InvoiceNumber string       `json:"invoiceNumber"`
	Customer      string       `json:"customer"`
	GrandTotal    float64      `json:"grandTotal"`
	BalanceDue    float64      `json:"balanceDue"`
	InvoiceDate   *string      `json:"invoiceDate,omitempty"`
	DueDate       *string      `json:"dueDate,omitempty"`
	PaymentRisk   *PaymentRisk `json:"paymentRisk,omitempty"`
}

// QualityInspection is the outcome of inspecting one production batch.
type QualityInspection struct {
	InspectionID  string           `json:"inspectionId"`
	BatchID       string           `json:"batchId"`
	Timestamp     *string          `json:"timestamp,omitempty"`
	ProductType   *string          `json:"productType,omitempty"`
	Quantity      *int64           `json:"quantity,omitempty"`
	DefectRate    *float64         `json:"defectRate,omitempty"`
	SeverityLevel *string          `json:"severityLevel,omitempty"`
	Decision      *QualityDecision `json:"decision,omitempty"`
}

// ProductionOrder is a scheduling decision for a manufacturing order.
type ProductionOrder struct {
	OrderID   string             `json:"orderId"`
	Decision  ProductionDecision `json:"decision"`
	RiskScore *int64             `json:"riskScore,omitempty"`
	Reason    *string            `json:"reason,omitempty"`
	Machine   *string            `json:"machine,omitempty"`
	StartTime *string            `json:"startTime,omitempty"`
	EndTime   *string            `json:"endTime,omitempty"`
}

// RnDFormulation is a material formulation proposed by R&D.
type RnDFormulation struct {
	FormulationID       string     `json:"formulationId"`
	Application         string     `json:"application"`
	Generated           *string    `json:"generated,omitempty"`
	Standards           *string    `json:"standards,omitempty"`
	CostTarget          *float64   `json:"costTarget,omitempty"`
	TotalCost           *float64   `json:"totalCost,omitempty"`
	UL94Rating          *string    `json:"ul94Rating,omitempty"`
	ProductionReadiness *Readiness `json:"productionReadiness,omitempty"`
	Recommendation      *string    `json:"recommendation,omitempty"`
}

func (*Quotation) Kind() DocumentKind         { return KindQuotation }
func (*Invoice) Kind() DocumentKind           { return KindInvoice }
func (*QualityInspection) Kind() DocumentKind { return KindQuality }
func (*ProductionOrder) Kind() DocumentKind   { return KindProduction }
func (*RnDFormulation) Kind() DocumentKind    { return KindRnD }

func (*Quotation) record()         {}
func (*Invoice) record()           {}
func (*QualityInspection) record() {}
func (*ProductionOrder) record()   {}
func (*RnDFormulation) record()    {}

// NewRecord returns an empty record of the given kind.
func NewRecord(kind DocumentKind) (Record, error) {
	switch kind {
	case KindQuotation:
		return &Quotation{}, nil
	case KindInvoice:
		return &Invoice{}, nil
	case KindQuality:
		return &QualityInspection{}, nil
	case KindProduction:
		return &ProductionOrder{}, nil
	case KindRnD:
		return &RnDFormulation{}, nil
	}
	return nil, ErrInvalidKind
}
