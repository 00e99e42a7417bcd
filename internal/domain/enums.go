package domain

import "strings"

// DocumentKind identifies which of the five operational document families a record belongs to.
type DocumentKind string

const (
	KindQuotation  DocumentKind = "quotation"
	KindInvoice    DocumentKind = "invoice"
	KindQuality    DocumentKind = "quality"
	KindProduction DocumentKind = "production"
	KindRnD        DocumentKind = "rnd"
)

// AllKinds lists every kind in classification priority order.
var AllKinds = []DocumentKind{KindQuotation, KindInvoice, KindQuality, KindProduction, KindRnD}

// ParseDocumentKind accepts a kind name in any case.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	k := DocumentKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// DocumentSource records how a document entered the system.
type DocumentSource string

const (
	SourceChat     DocumentSource = "chat"
	SourceBatch    DocumentSource = "batch"
	SourceCSV      DocumentSource = "csv"
	SourceWorkbook DocumentSource = "workbook"
	SourceSheets   DocumentSource = "sheets"
	SourceAPI      DocumentSource = "api"
)

// WinProbability is the sales team's estimate that a quotation converts.
type WinProbability string

const (
	WinHigh   WinProbability = "HIGH"
	WinMedium WinProbability = "MEDIUM"
	WinLow    WinProbability = "LOW"
)

// PaymentRisk grades how likely an invoice is to be paid late.
type PaymentRisk string

const (
	PaymentRiskLow    PaymentRisk = "LOW"
	PaymentRiskMedium PaymentRisk = "MEDIUM"
	PaymentRiskHigh   PaymentRisk = "HIGH"
)

// QualityDecision is the final disposition of an inspected batch.
type QualityDecision string

const (
	QualityAccept            QualityDecision = "ACCEPT"
	QualityConditionalAccept QualityDecision = "CONDITIONAL_ACCEPT"
	QualityReject            QualityDecision = "REJECT"
)

// ProductionDecision is the scheduling outcome for a production order.
type ProductionDecision string

const (
	ProductionProceed ProductionDecision = "PROCEED"
	ProductionDelay   ProductionDecision = "DELAY"
	ProductionReject  ProductionDecision = "REJECT"
)

// Readiness describes how close an R&D formulation is to production.
type Readiness string

const (
	ReadinessPilotTest       Readiness = "PILOT_TEST"
	ReadinessNeedsWork       Readiness = "NEEDS_WORK"
	ReadinessProductionReady Readiness = "PRODUCTION_READY"
)

// MessageRole is the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func normalizeToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseWinProbability normalizes case; unknown tokens return false.
func ParseWinProbability(s string) (WinProbability, bool) {
	switch v := WinProbability(normalizeToken(s)); v {
	case WinHigh, WinMedium, WinLow:
		return v, true
	}
	return "", false
}

// ParsePaymentRisk normalizes case; unknown tokens return false.
func ParsePaymentRisk(s string) (PaymentRisk, bool) {
	switch v := PaymentRisk(normalizeToken(s)); v {
	case PaymentRiskLow, PaymentRiskMedium, PaymentRiskHigh:
		return v, true
	}
	return "", false
}

// ParseQualityDecision normalizes case; unknown tokens return false.
func ParseQualityDecision(s string) (QualityDecision, bool) {
	switch v := QualityDecision(normalizeToken(s)); v {
	case QualityAccept, QualityConditionalAccept, QualityReject:
		return v, true
	}
	return "", false
}

// ParseProductionDecision normalizes case; unknown tokens return false.
func ParseProductionDecision(s string) (ProductionDecision, bool) {
	switch v := ProductionDecision(normalizeToken(s)); v {
	case ProductionProceed, ProductionDelay, ProductionReject:
		return v, true
	}
	return "", false
}

// ParseReadiness normalizes case; unknown tokens return false.
func ParseReadiness(s string) (Readiness, bool) {
	switch v := Readiness(normalizeToken(s)); v {
	case ReadinessPilotTest, ReadinessNeedsWork, ReadinessProductionReady:
		return v, true
	}
	return "", false
}
